package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"todoevo/internal/domains/task/model"
)

// Export is the data artifact written once the source rows have been read.
// Every later step works from this file, so an interrupted run never has to
// read the source database again.
type Export struct {
	RunID      uuid.UUID    `json:"run_id"`
	ExportedAt time.Time    `json:"exported_at"`
	SourcePath string       `json:"source_path"`
	Tasks      []model.Task `json:"tasks"`
}

// Manifest records the last checkpoint a run reached. It is rewritten after
// every completed step and is the single source of truth for resumption.
type Manifest struct {
	RunID      uuid.UUID `json:"run_id"`
	State      State     `json:"state"`
	ExportPath string    `json:"export_path"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func WriteExport(path string, export Export) error {
	return writeJSON(path, export)
}

func ReadExport(path string) (Export, error) {
	var export Export
	if err := readJSON(path, &export); err != nil {
		return Export{}, fmt.Errorf("reading export artifact: %w", err)
	}

	return export, nil
}

func WriteManifest(path string, manifest Manifest) error {
	return writeJSON(path, manifest)
}

func ReadManifest(path string) (Manifest, error) {
	var manifest Manifest
	if err := readJSON(path, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("reading cutover manifest: %w", err)
	}

	if !manifest.State.IsValid() {
		return Manifest{}, fmt.Errorf("cutover manifest holds unknown state %q", manifest.State)
	}

	return manifest, nil
}

// writeJSON writes through a temp file and renames it into place, so a crash
// mid-write never leaves a truncated artifact behind.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publishing artifact: %w", err)
	}

	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	return nil
}

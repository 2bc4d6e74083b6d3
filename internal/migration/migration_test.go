package migration

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"todoevo/internal/domains/task/model"
)

func TestStateOrdering(t *testing.T) {
	t.Run("states advance in a fixed order", func(t *testing.T) {
		order := []State{
			StatePending,
			StateSchemaApplied,
			StateDataExported,
			StateOwnerMapped,
			StateDataImported,
			StateValidated,
			StateComplete,
		}

		for i := 0; i < len(order)-1; i++ {
			next, err := order[i].Next()

			assert.NoError(t, err)
			assert.Equal(t, order[i+1], next)
			assert.True(t, order[i].Before(order[i+1]))
		}
	})

	t.Run("the final state has no successor", func(t *testing.T) {
		_, err := StateComplete.Next()

		assert.Error(t, err)
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		state := State("half_done")

		assert.False(t, state.IsValid())

		_, err := state.Next()
		assert.Error(t, err)
	})
}

func TestStateResumable(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StatePending, false},
		{StateSchemaApplied, false},
		{StateDataExported, true},
		{StateOwnerMapped, true},
		{StateDataImported, true},
		{StateValidated, true},
		{StateComplete, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Resumable())
		})
	}
}

func TestDistinctOwners(t *testing.T) {
	t.Run("first occurrence wins and order is preserved", func(t *testing.T) {
		tasks := []model.Task{
			{ID: 1, OwnerID: "alice"},
			{ID: 2, OwnerID: "bob"},
			{ID: 3, OwnerID: "alice"},
			{ID: 4, OwnerID: "carol"},
			{ID: 5, OwnerID: "bob"},
		}

		names, err := distinctOwners(tasks)

		assert.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob", "carol"}, names)
	})

	t.Run("empty owner aborts", func(t *testing.T) {
		tasks := []model.Task{
			{ID: 1, OwnerID: "alice"},
			{ID: 2, OwnerID: ""},
		}

		_, err := distinctOwners(tasks)

		assert.ErrorIs(t, err, ErrInvalidOwner)
		assert.ErrorContains(t, err, "task 2")
	})

	t.Run("whitespace owner aborts", func(t *testing.T) {
		tasks := []model.Task{
			{ID: 7, OwnerID: "  "},
		}

		_, err := distinctOwners(tasks)

		assert.ErrorIs(t, err, ErrInvalidOwner)
	})

	t.Run("no rows maps to no owners", func(t *testing.T) {
		names, err := distinctOwners(nil)

		assert.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestOwnerCounts(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, OwnerID: "alice"},
		{ID: 2, OwnerID: "bob"},
		{ID: 3, OwnerID: "alice"},
	}

	counts := ownerCounts(tasks)

	assert.Equal(t, map[string]int{"alice": 2, "bob": 1}, counts)
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")

	desc := "with details"
	export := Export{
		RunID:      uuid.New(),
		ExportedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		SourcePath: "todo.db",
		Tasks: []model.Task{
			{ID: 1, OwnerID: "alice", Title: "Buy milk", Completed: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()},
			{ID: 2, OwnerID: "bob", Title: "Walk dog", Description: &desc},
		},
	}

	assert.NoError(t, WriteExport(path, export))

	got, err := ReadExport(path)

	assert.NoError(t, err)
	assert.Equal(t, export.RunID, got.RunID)
	assert.Len(t, got.Tasks, 2)
	assert.Equal(t, export.Tasks[0].Title, got.Tasks[0].Title)
	assert.NotNil(t, got.Tasks[1].Description)
	assert.Equal(t, desc, *got.Tasks[1].Description)
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	manifest := Manifest{
		RunID:      uuid.New(),
		State:      StateDataExported,
		ExportPath: filepath.Join(dir, "export.json"),
		UpdatedAt:  time.Now().UTC(),
	}

	assert.NoError(t, WriteManifest(path, manifest))

	got, err := ReadManifest(path)

	assert.NoError(t, err)
	assert.Equal(t, manifest.RunID, got.RunID)
	assert.Equal(t, StateDataExported, got.State)
}

func TestReadManifestRejectsUnknownState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	assert.NoError(t, writeJSON(path, map[string]string{
		"run_id": uuid.New().String(),
		"state":  "half_done",
	}))

	_, err := ReadManifest(path)

	assert.Error(t, err)
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, err)
}

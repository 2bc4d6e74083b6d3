package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"todoevo/config"
	"todoevo/infras/otel"
	"todoevo/infras/postgres"
	"todoevo/infras/sqlite"
	ownerRepository "todoevo/internal/domains/owner/repository"
	"todoevo/internal/migration"
	"todoevo/shared/logger"
)

const (
	argLength = 2
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal("Cutover command (run/resume/status) is required")
	}

	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	if os.Args[1] == "status" {
		printStatus(cfg)

		return
	}

	runner, cleanup, err := buildRunner(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	ctx := context.Background()

	switch os.Args[1] {
	case "run":
		if err := runner.Run(ctx); err != nil {
			log.Fatal(err)
		}
	case "resume":
		if err := runner.Resume(ctx); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("Invalid command. Use 'run', 'resume' or 'status'")
	}
}

// buildRunner opens the embedded source read-only so the rollback point
// cannot be mutated while the run is in flight.
func buildRunner(cfg *config.Config) (*migration.Runner, func(), error) {
	source, err := sqlite.OpenReadOnly(cfg.DB.Sqlite.Path)
	if err != nil {
		return nil, nil, err
	}

	target, err := postgres.New(cfg)
	if err != nil {
		source.Close()

		return nil, nil, err
	}

	owners := ownerRepository.New(target, otel.New(cfg))
	runner := migration.NewRunner(cfg, source, target, owners)

	cleanup := func() {
		source.Close()
		target.Close()
	}

	return runner, cleanup, nil
}

func printStatus(cfg *config.Config) {
	manifest, err := migration.ReadManifest(cfg.Cutover.ManifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("no cutover run recorded")

			return
		}

		log.Fatal(err)
	}

	fmt.Printf("run:     %s\n", manifest.RunID)
	fmt.Printf("state:   %s\n", manifest.State)
	fmt.Printf("export:  %s\n", manifest.ExportPath)
	fmt.Printf("updated: %s\n", manifest.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
}

package di

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"todoevo/config"
	"todoevo/infras/otel"
	"todoevo/infras/postgres"
	"todoevo/infras/sqlite"
	ownerRepository "todoevo/internal/domains/owner/repository"
	taskRepository "todoevo/internal/domains/task/repository"
	"todoevo/shared/constant"
)

// ProvideDB opens the storage backend named by DB_DRIVER. Both backends
// serve the same access layer; which one is wired is purely a deployment
// decision.
func ProvideDB(cfg *config.Config) *sqlx.DB {
	switch cfg.DB.Driver {
	case constant.DriverPostgres:
		db, err := postgres.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to networked database")
		}

		return db
	case constant.DriverSqlite:
		db, err := sqlite.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open embedded database")
		}

		return db
	default:
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("Unsupported storage driver")

		return nil
	}
}

// ProvideTaskRepository picks the adapter matching the opened backend.
func ProvideTaskRepository(cfg *config.Config, db *sqlx.DB, otl otel.Otel) taskRepository.Task {
	if cfg.DB.Driver == constant.DriverPostgres {
		return taskRepository.NewPostgres(db, ownerRepository.New(db, otl), otl)
	}

	return taskRepository.NewSqlite(db, otl)
}

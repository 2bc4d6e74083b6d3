package helper

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"todoevo/config"
	"todoevo/migrations"
	"todoevo/shared/constant"
)

func getMigrate(db *sqlx.DB, driver string, cfg *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, sourceDir(driver))
	if err != nil {
		return nil, fmt.Errorf("error loading embedded migrations: %w", err)
	}

	switch driver {
	case constant.DriverSqlite:
		instance, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("error creating sqlite migrate driver: %w", err)
		}

		mig, err := migrate.NewWithInstance("iofs", source, constant.DriverSqlite, instance)
		if err != nil {
			return nil, fmt.Errorf("error creating migrate instance: %w", err)
		}

		return mig, nil
	case constant.DriverPostgres:
		instance, err := migratepg.WithInstance(db.DB, &migratepg.Config{
			MigrationsTable: cfg.DB.Postgres.MigrationTable,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating postgres migrate driver: %w", err)
		}

		mig, err := migrate.NewWithInstance("iofs", source, constant.DriverPostgres, instance)
		if err != nil {
			return nil, fmt.Errorf("error creating migrate instance: %w", err)
		}

		return mig, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

func sourceDir(driver string) string {
	if driver == constant.DriverPostgres {
		return "postgres"
	}

	return "sqlite"
}

func Runner(db *sqlx.DB, driver string, cfg *config.Config, action string) error {
	mig, err := getMigrate(db, driver, cfg)
	if err != nil {
		return err
	}

	switch action {
	case "up":
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Str("driver", driver).Msg("Database migrations completed successfully")

		return nil
	case "down":
		if err := mig.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Str("driver", driver).Msg("Database migrations rolled back successfully")

		return nil
	case "step-up":
		if err := mig.Steps(1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Str("driver", driver).Msg("Database migrations completed successfully")

		return nil
	case "drop":
		if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Str("driver", driver).Msg("Database migrations rolled back successfully")

		return nil
	}

	return nil
}

func Up(db *sqlx.DB, driver string, cfg *config.Config) error {
	return Runner(db, driver, cfg, "up")
}

func StepUp(db *sqlx.DB, driver string, cfg *config.Config) error {
	return Runner(db, driver, cfg, "step-up")
}

func Down(db *sqlx.DB, driver string, cfg *config.Config) error {
	return Runner(db, driver, cfg, "down")
}

func Drop(db *sqlx.DB, driver string, cfg *config.Config) error {
	return Runner(db, driver, cfg, "drop")
}

package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"todoevo/config"
	"todoevo/helper"
	"todoevo/shared/constant"
)

// New opens the embedded database file and creates the full schema on first
// use if it is absent. WAL mode keeps readers unblocked while a writer holds
// the file.
func New(cfg *config.Config) (*sqlx.DB, error) {
	db, err := Open(cfg.DB.Sqlite.Path)
	if err != nil {
		return nil, err
	}

	if err := helper.Up(db, constant.DriverSqlite, cfg); err != nil {
		return nil, fmt.Errorf("initializing embedded schema: %w", err)
	}

	log.Info().Str("path", cfg.DB.Sqlite.Path).Msg("Connected to embedded database")

	return db, nil
}

// Open connects to the embedded database file without touching the schema.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(constant.DriverSqlite, descriptor(path, false))
	if err != nil {
		return nil, fmt.Errorf("opening embedded database %s: %w", path, err)
	}

	// The file serializes writers; a second writer connection only adds
	// lock contention.
	db.SetMaxOpenConns(1)

	return db, nil
}

// OpenReadOnly connects to the embedded database file in read-only mode. The
// cutover procedure uses it so the rollback source cannot be mutated while a
// run is in flight.
func OpenReadOnly(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(constant.DriverSqlite, descriptor(path, true))
	if err != nil {
		return nil, fmt.Errorf("opening embedded database %s read-only: %w", path, err)
	}

	return db, nil
}

func descriptor(path string, readOnly bool) string {
	mode := "rwc"
	if readOnly {
		mode = "ro"
	}

	return fmt.Sprintf("file:%s?mode=%s&_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path, mode)
}

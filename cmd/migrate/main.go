package main

import (
	"log"
	"os"

	"todoevo/config"
	"todoevo/helper"
	"todoevo/infras/postgres"
	"todoevo/infras/sqlite"
	"todoevo/shared/constant"

	"github.com/jmoiron/sqlx"
)

const (
	argLength = 2
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal("Migration direction (up/down) is required")
	}

	cfg := config.Get()

	db, err := open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := helper.Up(db, cfg.DB.Driver, cfg); err != nil {
			log.Fatal(err)
		}
	case "down":
		if err := helper.Down(db, cfg.DB.Driver, cfg); err != nil {
			log.Fatal(err)
		}
	case "drop":
		if err := helper.Drop(db, cfg.DB.Driver, cfg); err != nil {
			log.Fatal(err)
		}
	case "step-up":
		if err := helper.StepUp(db, cfg.DB.Driver, cfg); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("Invalid direction. Use 'up', 'down', 'drop' or 'step-up'")
	}
}

func open(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.DB.Driver == constant.DriverPostgres {
		return postgres.New(cfg)
	}

	return sqlite.Open(cfg.DB.Sqlite.Path)
}

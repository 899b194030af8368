package main

import (
	"flag"
	"fmt"

	"accounts/pkg/config"
	"accounts/pkg/database"
	"accounts/pkg/database/migrations"
	"accounts/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Standalone migration runner for environments where the server should
// not migrate on boot.
func main() {
	status := flag.Bool("status", false, "print migration status instead of applying")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel)

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose dialect", "error", err.Error())
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err.Error())
	}
	defer db.Close()

	if *status {
		files, err := goose.CollectMigrations(".", 0, (1<<63)-1)
		if err != nil {
			log.Fatal("failed to collect migrations", "error", err.Error())
		}
		fmt.Printf("collected %d migrations\n", len(files))
		for _, f := range files {
			fmt.Printf(" - %v\n", f.Source)
		}
		if err := goose.Status(db, "."); err != nil {
			log.Fatal("failed to get status", "error", err.Error())
		}
		return
	}

	if err := goose.Up(db, "."); err != nil {
		log.Fatal("failed to apply migrations", "error", err.Error())
	}
	log.Info("migrations applied")
}

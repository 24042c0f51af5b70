// Command migrate applies or reverts database schema migrations.
//
//	migrate up    apply every pending migration
//	migrate down  revert the most recent migration
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"roadtrip/internal/config"
	"roadtrip/internal/infra"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := infra.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch os.Args[1] {
	case "up":
		version, err := infra.RunMigrations(cfg.PostgresURL)
		if err != nil {
			log.Fatal("migrate up failed", zap.Error(err))
		}
		log.Info("migrations applied", zap.Uint("version", version))
	case "down":
		if err := infra.RollbackMigration(cfg.PostgresURL); err != nil {
			log.Fatal("migrate down failed", zap.Error(err))
		}
		log.Info("rolled back one migration")
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate up|down")
		os.Exit(2)
	}
}

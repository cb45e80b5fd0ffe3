package main

import (
	"wealthwise/internal/config" // Custom import path (Config)
	"wealthwise/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err)
	}

	// Optional superuser bootstrap
	if cfg.SuperuserUsername == "" {
		return
	}
	created, err := db.EnsureSuperuser(gdb, cfg.SuperuserUsername, cfg.SuperuserPassword)
	if err != nil {
		logrus.Fatalf("failed to create superuser: %v", err)
	}
	if !created {
		logrus.WithField("username", cfg.SuperuserUsername).Info("Superuser already exists")
	}
}

package main

import (
	"paydesk/internal/config" // Custom import path (Config)
	"paydesk/internal/db"     // Custom import path (Database)
	"paydesk/internal/utils"  // Password hashing for seed users

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg) // Connect to the configured database
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Database migrated")

	if err := db.Seed(gdb, utils.NewBcryptHasher()); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.Info("Seed data in place")
}

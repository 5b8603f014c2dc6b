package db

import (
	"paydesk/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Models lists every table in dependency order
var Models = []any{&domain.Role{}, &domain.User{}, &domain.Account{}, &domain.Transaction{}, &domain.Session{}}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(Models...)
}

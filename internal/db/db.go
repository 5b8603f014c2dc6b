package db

import (
	"fmt"  // DSN formatting
	"time" // Clock for gorm timestamps

	"paydesk/internal/config" // Application configuration

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM logger
)

// Dialector picks the GORM dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		return postgres.Open(dsn), nil
	case "mysql":
		// Data Source Name (DSN) for MySQL connection
		dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true&loc=UTC"
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open("file:" + cfg.DBPath + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Connect opens a GORM handle with driver errors translated to gorm's
// sentinel errors, so uniqueness violations surface as gorm.ErrDuplicatedKey
func Connect(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,                                         // Map driver errors to gorm.ErrDuplicatedKey and friends
		NowFunc:        func() time.Time { return time.Now().UTC() }, // Store every timestamp in UTC
		Logger:         logger.Default.LogMode(logger.Warn),          // Slow queries and errors only
	})
}

// Open connects to the configured database and sizes the connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := Connect(dialector)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)       // Bounded pool shared by all requests
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)       // Idle connections kept warm
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime) // Recycle long lived connections
	return db, nil
}

// Package db opens the relational store and applies schema migrations
// and the idempotent admin seed.
package db

import (
	"fmt"
	"strings"

	"github.com/diewo77/go-diary/internal/config"
	"github.com/diewo77/go-diary/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured database. TranslateError is enabled
// so the repo layer can map duplicate-key violations portably.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	switch cfg.Driver {
	case "sqlite", "":
		// _foreign_keys enables FK enforcement per connection; sqlite
		// defaults to off.
		dsn := cfg.Path
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=1"
		} else {
			dsn += "?_foreign_keys=1"
		}
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Migrate applies GORM auto-migrations for all entities plus the scs
// sessions table, which scs expects to exist but does not create.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Article{},
		&models.Comment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return migrateSessions(db)
}

func migrateSessions(db *gorm.DB) error {
	var ddl string
	switch db.Dialector.Name() {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BYTEA NOT NULL,
			expiry TIMESTAMPTZ NOT NULL
		)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		)`
	}
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("sessions table: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry)`).Error; err != nil {
		return fmt.Errorf("sessions index: %w", err)
	}
	return nil
}

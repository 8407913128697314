package db

import (
	"fmt"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"
)

// SessionStore returns an scs store backed by the same database as the
// rest of the app, chosen by dialect.
func SessionStore(db *gorm.DB) (scs.Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	switch db.Dialector.Name() {
	case "postgres":
		return postgresstore.New(sqlDB), nil
	default:
		return sqlite3store.New(sqlDB), nil
	}
}

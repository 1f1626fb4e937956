// Package store talks to the remote structured store. Every collection the
// system persists remotely (catalog, suppliers, order history, the simple
// order variant) goes through here. The store offers last-writer-wins
// semantics only; multi-step operations in this package are sequential
// network calls with no rollback of steps that already committed.
package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

// Open connects to the configured backend. Postgres is the production
// target; mysql covers alternate deployments, sqlite is for dev and tests.
func Open(dialect, dsn string) (*Store, error) {
	var d gorm.Dialector
	switch dialect {
	case "postgres":
		d = postgres.Open(dsn)
	case "mysql":
		d = mysql.Open(dsn)
	case "sqlite":
		d = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown store dialect %q", dialect)
	}
	gdb, err := gorm.Open(d, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", dialect, err)
	}
	return &Store{db: gdb}, nil
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&Product{},
		&Supplier{},
		&OrderSession{},
		&OrderItem{},
		&SimpleOrderSession{},
		&SimpleOrder{},
	); err != nil {
		return fmt.Errorf("store migrate: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *gorm.DB { return s.db }

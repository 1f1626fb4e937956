// Package cache is the local ephemeral store: a single sqlite file holding
// namespaced whole-value slots. The in-progress draft order lives here, never
// in the remote store.
package cache

import (
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Handle struct {
	DB   *gorm.DB
	Path string
}

func OpenAt(dir string) (*Handle, error) {
	dbPath := filepath.Join(dir, "frostorder.db")
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &Handle{DB: gdb, Path: dbPath}, nil
}

func (h *Handle) Migrate() error {
	return h.DB.AutoMigrate(&Slot{})
}

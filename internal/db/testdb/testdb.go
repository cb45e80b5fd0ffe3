// Package testdb opens migrated throwaway databases for tests.
package testdb

import (
	"path/filepath"
	"testing"

	"wealthwise/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated SQLite database that lives for the duration of t
func New(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

package db

import (
	"fmt"           // Error wrapping
	"os"            // Directory creation for sqlite files
	"path/filepath" // Parent directory of the sqlite file
	"time"          // Slow query threshold

	"wealthwise/internal/config" // Configuration

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger interface
)

// Open connects to the configured database
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: newLogger(cfg.IsProd), TranslateError: true}
	switch cfg.DBDriver {
	case config.DriverMySQL:
		db, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens (creating if needed) a SQLite database file. SQLite
// allows a single writer, so the pool is limited to one connection.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Discard, TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// newLogger routes GORM's slow-query and error output through logrus
func newLogger(isProd bool) logger.Interface {
	level := logger.Warn
	if isProd {
		level = logger.Error
	}
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// File: internal/repository/database.go
package repository

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/iyunix/go-chatsync/internal/domain"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const dsnPragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite"

// Open opens the SQLite database at path. The pool is capped at one connection
// so read-then-write sequences inside a transaction see a consistent snapshot.
func Open(path string, debug bool) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&" + dsnPragmas
	} else {
		dsn += "?" + dsnPragmas
	}

	level := gormlogger.Silent
	if debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate creates or updates the schema for every persisted kind.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}, &domain.Memory{}, &domain.IDSequence{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

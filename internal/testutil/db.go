// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatsync/internal/repository"
)

// OpenDB returns a migrated SQLite database in a temp directory, closed on cleanup.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.Open(filepath.Join(t.TempDir(), "chatsync_test.db"), false)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() {
		_ = repository.Close(db)
	})
	return db
}

// NopLogger satisfies every package's Logger interface and discards everything.
type NopLogger struct{}

func (NopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (NopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (NopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (NopLogger) Warn(msg string, keysAndValues ...interface{})  {}

// At returns 2025-01-01T00:00:00Z plus the given number of seconds.
func At(seconds int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seconds) * time.Second)
}

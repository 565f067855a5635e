// Package testutil provides shared test helpers for setting up databases
// and content directories.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nordveil/tblog/internal/content"
	"github.com/nordveil/tblog/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "tblog-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestContent creates a temporary posts directory with a content store.
func TestContent(t *testing.T) (string, *content.Store) {
	t.Helper()
	dir := t.TempDir()
	cs, err := content.NewStore(dir, Logger(t))
	if err != nil {
		t.Fatal(err)
	}
	return dir, cs
}

// WritePost writes a content file for slug into dir.
func WritePost(t *testing.T, dir, slug, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, slug+content.Ext), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Logger returns a text logger writing to stderr for test visibility.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

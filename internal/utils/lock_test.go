package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDBLockCreatesMissingDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "config", "catalog.sqlite")

	lock, err := NewDBLock(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Fatalf("expected the db directory to be created: %v", err)
	}

	if err := lock.Lock(); err != nil {
		t.Fatal(err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatal(err)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	logger.Silence()
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// openTestDB opens a fresh database in the test's temp dir
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testCatalog(t *testing.T) *game.Catalog {
	t.Helper()
	cat, err := game.DefaultCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

package store

import (
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestOpenCreatesSchema(t *testing.T) {
	s := setupTestStore(t)

	// All tables should exist and be queryable on a fresh database.
	for _, table := range []string{"integrators", "challenges", "verification_sessions", "issuers", "revoked_credentials", "audit_log"} {
		var count int
		row := s.db.QueryRow("SELECT COUNT(*) FROM " + table)
		if err := row.Scan(&count); err != nil {
			t.Fatalf("table %s not queryable: %v", table, err)
		}
		if count != 0 {
			t.Errorf("table %s not empty on fresh database: %d rows", table, count)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	s1.Close()

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	s2.Close()
}

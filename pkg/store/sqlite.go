// Package store provides SQLite-based storage for the verification service:
// challenges, verification sessions, integrators, the issuer registry, and
// the audit log.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store provides verification registry operations.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database path following XDG spec.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cardlessid", "cardlessid.db")
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent access across processes.
	// The CLI seeds integrators and issuers while the long-running server
	// validates API keys against the same database.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set busy timeout to handle concurrent access gracefully.
	// Without this, concurrent writes immediately return SQLITE_BUSY.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS integrators (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		key_hash TEXT UNIQUE NOT NULL,
		status TEXT DEFAULT 'active',
		created_at INTEGER DEFAULT (strftime('%s', 'now')),
		last_seen INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_integrators_key_hash ON integrators(key_hash);

	CREATE TABLE IF NOT EXISTS challenges (
		id TEXT PRIMARY KEY,
		integrator_id TEXT NOT NULL,
		min_age INTEGER NOT NULL,
		status TEXT DEFAULT 'pending',
		wallet_address TEXT DEFAULT '',
		created_at INTEGER DEFAULT (strftime('%s', 'now')),
		expires_at INTEGER NOT NULL,
		responded_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_challenges_integrator ON challenges(integrator_id);

	CREATE TABLE IF NOT EXISTS verification_sessions (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		status TEXT DEFAULT 'pending',
		created_at INTEGER DEFAULT (strftime('%s', 'now')),
		expires_at INTEGER NOT NULL,
		verified_data TEXT,
		fraud_check_passed INTEGER DEFAULT 0,
		both_sides_processed INTEGER DEFAULT 0,
		extraction_method TEXT DEFAULT '',
		integrity_hash TEXT
	);

	CREATE TABLE IF NOT EXISTS issuers (
		address TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		organization_type TEXT DEFAULT '',
		jurisdiction TEXT DEFAULT '',
		authorized_at INTEGER DEFAULT (strftime('%s', 'now')),
		revoked_at INTEGER,
		revoke_all_prior INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS revoked_credentials (
		credential_id TEXT PRIMARY KEY,
		issuer_address TEXT NOT NULL,
		revoked_at INTEGER DEFAULT (strftime('%s', 'now'))
	);
	CREATE INDEX IF NOT EXISTS idx_revoked_credentials_issuer ON revoked_credentials(issuer_address);

	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		action TEXT NOT NULL,
		target TEXT DEFAULT '',
		decision TEXT DEFAULT '',
		details TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DB exposes the underlying database handle for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

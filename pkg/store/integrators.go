// This file contains methods for integrator records and API key validation.
package store

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// Integrator statuses.
const (
	IntegratorStatusActive  = "active"
	IntegratorStatusRevoked = "revoked"
)

// Integrator represents a third-party caller identified by an API key.
// Only the SHA-256 hash of the key is stored; the raw key is shown once at
// creation and never persisted.
type Integrator struct {
	ID        string
	Name      string
	KeyHash   string // SHA-256 hex of the API key
	Status    string // active, revoked
	CreatedAt time.Time
	LastSeen  *time.Time
}

// NewAPIKey generates a fresh integrator API key and its storage hash.
// The raw key carries a "ck_" prefix so leaked keys are recognizable.
func NewAPIKey() (raw, hash string, err error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate API key: %w", err)
	}
	raw = "ck_" + hex.EncodeToString(buf)
	return raw, HashAPIKey(raw), nil
}

// HashAPIKey returns the SHA-256 hex digest used to store and look up a key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// CreateIntegrator stores a new integrator record.
func (s *Store) CreateIntegrator(i *Integrator) error {
	_, err := s.db.Exec(
		`INSERT INTO integrators (id, name, key_hash, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		i.ID, i.Name, i.KeyHash, i.Status, i.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create integrator: %w", err)
	}
	return nil
}

// GetIntegrator retrieves an integrator by ID.
// Returns nil if the integrator does not exist.
func (s *Store) GetIntegrator(id string) (*Integrator, error) {
	row := s.db.QueryRow(
		`SELECT id, name, key_hash, status, created_at, last_seen
		 FROM integrators WHERE id = ?`,
		id,
	)
	return scanIntegrator(row)
}

// GetIntegratorByKeyHash resolves a presented API key hash to an integrator.
// Returns nil if no integrator holds the key.
func (s *Store) GetIntegratorByKeyHash(keyHash string) (*Integrator, error) {
	row := s.db.QueryRow(
		`SELECT id, name, key_hash, status, created_at, last_seen
		 FROM integrators WHERE key_hash = ?`,
		keyHash,
	)
	return scanIntegrator(row)
}

// ListIntegrators returns all integrators ordered by creation time.
func (s *Store) ListIntegrators() ([]Integrator, error) {
	rows, err := s.db.Query(
		`SELECT id, name, key_hash, status, created_at, last_seen
		 FROM integrators ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrators: %w", err)
	}
	defer rows.Close()

	var integrators []Integrator
	for rows.Next() {
		var i Integrator
		var createdAt int64
		var lastSeen sql.NullInt64
		if err := rows.Scan(&i.ID, &i.Name, &i.KeyHash, &i.Status, &createdAt, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan integrator: %w", err)
		}
		i.CreatedAt = time.Unix(createdAt, 0)
		if lastSeen.Valid {
			t := time.Unix(lastSeen.Int64, 0)
			i.LastSeen = &t
		}
		integrators = append(integrators, i)
	}
	return integrators, rows.Err()
}

// UpdateIntegratorStatus transitions an integrator to a new status.
func (s *Store) UpdateIntegratorStatus(id, status string) error {
	result, err := s.db.Exec(`UPDATE integrators SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update integrator status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get update count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("integrator %s not found", id)
	}
	return nil
}

// TouchIntegrator records that an integrator authenticated just now.
func (s *Store) TouchIntegrator(id string) error {
	_, err := s.db.Exec(`UPDATE integrators SET last_seen = ? WHERE id = ?`, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update integrator last seen: %w", err)
	}
	return nil
}

func scanIntegrator(row *sql.Row) (*Integrator, error) {
	var i Integrator
	var createdAt int64
	var lastSeen sql.NullInt64

	err := row.Scan(&i.ID, &i.Name, &i.KeyHash, &i.Status, &createdAt, &lastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan integrator: %w", err)
	}

	i.CreatedAt = time.Unix(createdAt, 0)
	if lastSeen.Valid {
		t := time.Unix(lastSeen.Int64, 0)
		i.LastSeen = &t
	}
	return &i, nil
}

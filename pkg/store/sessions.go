// This file contains methods for identity-verification session records.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// VerificationSession represents one identity-verification attempt with an
// external document-verification provider. VerifiedData holds the provider's
// raw identity payload; it is only released through the token-gated claim
// flow, never through status lookups.
type VerificationSession struct {
	ID                 string
	Provider           string
	Status             string // pending, processing, completed, failed, expired
	CreatedAt          time.Time
	ExpiresAt          time.Time
	VerifiedData       *string // JSON identity payload from the provider
	FraudCheckPassed   bool
	BothSidesProcessed bool
	ExtractionMethod   string // e.g. nfc, ocr, barcode
	IntegrityHash      *string
}

// CreateVerificationSession stores a new verification session.
func (s *Store) CreateVerificationSession(session *VerificationSession) error {
	_, err := s.db.Exec(
		`INSERT INTO verification_sessions (id, provider, status, created_at, expires_at, verified_data, fraud_check_passed, both_sides_processed, extraction_method, integrity_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Provider, session.Status,
		session.CreatedAt.Unix(), session.ExpiresAt.Unix(),
		session.VerifiedData, session.FraudCheckPassed, session.BothSidesProcessed,
		session.ExtractionMethod, session.IntegrityHash,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification session: %w", err)
	}
	return nil
}

// GetVerificationSession retrieves a verification session by ID.
// Returns nil if the session does not exist.
func (s *Store) GetVerificationSession(id string) (*VerificationSession, error) {
	row := s.db.QueryRow(
		`SELECT id, provider, status, created_at, expires_at, verified_data, fraud_check_passed, both_sides_processed, extraction_method, integrity_hash
		 FROM verification_sessions WHERE id = ?`,
		id,
	)

	var session VerificationSession
	var createdAt, expiresAt int64
	var verifiedData, integrityHash sql.NullString

	err := row.Scan(&session.ID, &session.Provider, &session.Status,
		&createdAt, &expiresAt, &verifiedData,
		&session.FraudCheckPassed, &session.BothSidesProcessed,
		&session.ExtractionMethod, &integrityHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification session: %w", err)
	}

	session.CreatedAt = time.Unix(createdAt, 0)
	session.ExpiresAt = time.Unix(expiresAt, 0)
	if verifiedData.Valid {
		session.VerifiedData = &verifiedData.String
	}
	if integrityHash.Valid {
		session.IntegrityHash = &integrityHash.String
	}
	return &session, nil
}

// UpdateSessionStatus transitions a verification session to a new status.
func (s *Store) UpdateSessionStatus(id, status string) error {
	result, err := s.db.Exec(`UPDATE verification_sessions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get update count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("verification session %s not found", id)
	}
	return nil
}

// CleanupExpiredSessions deletes verified payloads from sessions past their
// expiry. The session row itself is kept for status lookups; only the
// sensitive identity payload is purged. Returns the count of purged sessions.
func (s *Store) CleanupExpiredSessions() (int64, error) {
	now := time.Now().Unix()
	result, err := s.db.Exec(
		`UPDATE verification_sessions SET verified_data = NULL, status = 'expired'
		 WHERE expires_at < ? AND status NOT IN ('expired', 'completed')`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get cleanup count: %w", err)
	}
	return count, nil
}

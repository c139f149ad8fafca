// This file contains methods for age-verification challenge records.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Challenge statuses.
const (
	ChallengeStatusPending  = "pending"
	ChallengeStatusApproved = "approved"
	ChallengeStatusRejected = "rejected"
	ChallengeStatusExpired  = "expired"
)

// Challenge represents an age-verification challenge issued to a wallet on
// behalf of one integrator. Only the owning integrator may see its non-public
// fields.
type Challenge struct {
	ID            string
	IntegratorID  string
	MinAge        int
	Status        string // pending, approved, rejected, expired
	WalletAddress string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	RespondedAt   *time.Time // Set when the wallet answers the challenge
}

// CreateChallenge stores a new challenge record.
func (s *Store) CreateChallenge(ch *Challenge) error {
	var respondedAt *int64
	if ch.RespondedAt != nil {
		ts := ch.RespondedAt.Unix()
		respondedAt = &ts
	}

	_, err := s.db.Exec(
		`INSERT INTO challenges (id, integrator_id, min_age, status, wallet_address, created_at, expires_at, responded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ch.ID, ch.IntegratorID, ch.MinAge, ch.Status, ch.WalletAddress,
		ch.CreatedAt.Unix(), ch.ExpiresAt.Unix(), respondedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// GetChallenge retrieves a challenge by ID.
// Returns nil if the challenge does not exist.
func (s *Store) GetChallenge(id string) (*Challenge, error) {
	row := s.db.QueryRow(
		`SELECT id, integrator_id, min_age, status, wallet_address, created_at, expires_at, responded_at
		 FROM challenges WHERE id = ?`,
		id,
	)
	return scanChallenge(row)
}

// ListChallengesByIntegrator returns all challenges owned by an integrator,
// newest first.
func (s *Store) ListChallengesByIntegrator(integratorID string) ([]Challenge, error) {
	rows, err := s.db.Query(
		`SELECT id, integrator_id, min_age, status, wallet_address, created_at, expires_at, responded_at
		 FROM challenges WHERE integrator_id = ? ORDER BY created_at DESC`,
		integratorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		ch, err := scanChallengeRow(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *ch)
	}
	return challenges, rows.Err()
}

// UpdateChallengeStatus transitions a challenge to a new status. Approve and
// reject record the response time; other transitions leave it untouched.
func (s *Store) UpdateChallengeStatus(id, status string) error {
	var result sql.Result
	var err error

	if status == ChallengeStatusApproved || status == ChallengeStatusRejected {
		result, err = s.db.Exec(
			`UPDATE challenges SET status = ?, responded_at = ? WHERE id = ?`,
			status, time.Now().Unix(), id,
		)
	} else {
		result, err = s.db.Exec(`UPDATE challenges SET status = ? WHERE id = ?`, status, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update challenge status: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get update count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("challenge %s not found", id)
	}
	return nil
}

// SetChallengeWallet associates a wallet address with a challenge.
func (s *Store) SetChallengeWallet(id, walletAddress string) error {
	_, err := s.db.Exec(`UPDATE challenges SET wallet_address = ? WHERE id = ?`, walletAddress, id)
	if err != nil {
		return fmt.Errorf("failed to set challenge wallet: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row *sql.Row) (*Challenge, error) {
	ch, err := scanChallengeFrom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ch, err
}

func scanChallengeRow(rows *sql.Rows) (*Challenge, error) {
	return scanChallengeFrom(rows)
}

func scanChallengeFrom(row rowScanner) (*Challenge, error) {
	var ch Challenge
	var createdAt, expiresAt int64
	var respondedAt sql.NullInt64

	err := row.Scan(&ch.ID, &ch.IntegratorID, &ch.MinAge, &ch.Status,
		&ch.WalletAddress, &createdAt, &expiresAt, &respondedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan challenge: %w", err)
	}

	ch.CreatedAt = time.Unix(createdAt, 0)
	ch.ExpiresAt = time.Unix(expiresAt, 0)
	if respondedAt.Valid {
		t := time.Unix(respondedAt.Int64, 0)
		ch.RespondedAt = &t
	}
	return &ch, nil
}

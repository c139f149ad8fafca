// This file contains methods for the credential issuer registry with
// temporal revocation support.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Issuer represents an authorized credential issuer. Revocation is temporal:
// credentials issued inside the authorization window stay valid unless the
// issuer was revoked with RevokeAllPrior set.
type Issuer struct {
	Address          string
	Name             string
	OrganizationType string
	Jurisdiction     string
	AuthorizedAt     time.Time
	RevokedAt        *time.Time
	RevokeAllPrior   bool
}

// RevokedCredential marks a single credential as individually revoked by its
// issuer.
type RevokedCredential struct {
	CredentialID  string
	IssuerAddress string
	RevokedAt     time.Time
}

// AddIssuer registers a new authorized issuer.
func (s *Store) AddIssuer(i *Issuer) error {
	_, err := s.db.Exec(
		`INSERT INTO issuers (address, name, organization_type, jurisdiction, authorized_at)
		 VALUES (?, ?, ?, ?, ?)`,
		i.Address, i.Name, i.OrganizationType, i.Jurisdiction, i.AuthorizedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add issuer: %w", err)
	}
	return nil
}

// GetIssuer retrieves an issuer by address.
// Returns nil if the issuer is not registered.
func (s *Store) GetIssuer(address string) (*Issuer, error) {
	row := s.db.QueryRow(
		`SELECT address, name, organization_type, jurisdiction, authorized_at, revoked_at, revoke_all_prior
		 FROM issuers WHERE address = ?`,
		address,
	)

	var i Issuer
	var authorizedAt int64
	var revokedAt sql.NullInt64

	err := row.Scan(&i.Address, &i.Name, &i.OrganizationType, &i.Jurisdiction,
		&authorizedAt, &revokedAt, &i.RevokeAllPrior)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer: %w", err)
	}

	i.AuthorizedAt = time.Unix(authorizedAt, 0)
	if revokedAt.Valid {
		t := time.Unix(revokedAt.Int64, 0)
		i.RevokedAt = &t
	}
	return &i, nil
}

// ListIssuers returns all registered issuers ordered by authorization time.
func (s *Store) ListIssuers() ([]Issuer, error) {
	rows, err := s.db.Query(
		`SELECT address, name, organization_type, jurisdiction, authorized_at, revoked_at, revoke_all_prior
		 FROM issuers ORDER BY authorized_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list issuers: %w", err)
	}
	defer rows.Close()

	var issuers []Issuer
	for rows.Next() {
		var i Issuer
		var authorizedAt int64
		var revokedAt sql.NullInt64
		if err := rows.Scan(&i.Address, &i.Name, &i.OrganizationType, &i.Jurisdiction,
			&authorizedAt, &revokedAt, &i.RevokeAllPrior); err != nil {
			return nil, fmt.Errorf("failed to scan issuer: %w", err)
		}
		i.AuthorizedAt = time.Unix(authorizedAt, 0)
		if revokedAt.Valid {
			t := time.Unix(revokedAt.Int64, 0)
			i.RevokedAt = &t
		}
		issuers = append(issuers, i)
	}
	return issuers, rows.Err()
}

// RevokeIssuer revokes an issuer's authorization. When allPrior is true,
// credentials issued before the revocation are invalidated as well.
func (s *Store) RevokeIssuer(address string, allPrior bool) error {
	result, err := s.db.Exec(
		`UPDATE issuers SET revoked_at = ?, revoke_all_prior = ? WHERE address = ?`,
		time.Now().Unix(), allPrior, address,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke issuer: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get update count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("issuer %s not found", address)
	}
	return nil
}

// ReinstateIssuer clears a previous revocation. The original authorization
// time is preserved.
func (s *Store) ReinstateIssuer(address string) error {
	result, err := s.db.Exec(
		`UPDATE issuers SET revoked_at = NULL, revoke_all_prior = 0 WHERE address = ?`,
		address,
	)
	if err != nil {
		return fmt.Errorf("failed to reinstate issuer: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get update count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("issuer %s not found", address)
	}
	return nil
}

// RevokeCredential marks a single credential as revoked. The operation is
// idempotent; revoking an already-revoked credential keeps the original
// revocation time.
func (s *Store) RevokeCredential(credentialID, issuerAddress string) error {
	_, err := s.db.Exec(
		`INSERT INTO revoked_credentials (credential_id, issuer_address, revoked_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(credential_id) DO NOTHING`,
		credentialID, issuerAddress, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to revoke credential: %w", err)
	}
	return nil
}

// GetRevokedCredential looks up an individual credential revocation.
// Returns nil if the credential has not been revoked.
func (s *Store) GetRevokedCredential(credentialID string) (*RevokedCredential, error) {
	row := s.db.QueryRow(
		`SELECT credential_id, issuer_address, revoked_at
		 FROM revoked_credentials WHERE credential_id = ?`,
		credentialID,
	)

	var rc RevokedCredential
	var revokedAt int64
	err := row.Scan(&rc.CredentialID, &rc.IssuerAddress, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revoked credential: %w", err)
	}
	rc.RevokedAt = time.Unix(revokedAt, 0)
	return &rc, nil
}

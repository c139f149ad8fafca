// Package registry evaluates credential validity against the issuer
// registry's temporal revocation rules.
package registry

import (
	"fmt"
	"time"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

// Decision represents the result of a credential validity check.
type Decision struct {
	Valid  bool
	Reason string
	Issuer *store.Issuer
}

// Evaluator checks credentials against the issuer registry.
// Implements fail-secure: unknown issuers and out-of-window issuance dates
// make the credential invalid.
type Evaluator struct {
	store *store.Store
}

// NewEvaluator creates a new validity evaluator backed by the given store.
func NewEvaluator(s *store.Store) *Evaluator {
	return &Evaluator{store: s}
}

// Evaluate checks whether a credential is valid.
//
// Rule order (fail-secure):
//   - Issuer not registered: invalid
//   - Credential individually revoked: invalid
//   - Issued before the issuer was authorized: invalid
//   - Issuer revoked with revoke-all-prior: invalid
//   - Issued on or after the issuer's revocation: invalid
//   - Otherwise: valid
//
// Every evaluation is written to the audit log.
func (e *Evaluator) Evaluate(credentialID, issuerAddress string, issuanceDate time.Time) (*Decision, error) {
	decision, err := e.evaluate(credentialID, issuerAddress, issuanceDate)
	if err != nil {
		return nil, err
	}

	verdict := "invalid"
	if decision.Valid {
		verdict = "valid"
	}
	// Best effort: a failed audit write must not turn a completed
	// evaluation into an error.
	e.store.InsertAuditEntry(&store.AuditEntry{
		Timestamp: time.Now(),
		Action:    "credential.verify",
		Target:    credentialID,
		Decision:  verdict,
		Details: map[string]string{
			"issuer":        issuerAddress,
			"issuance_date": issuanceDate.Format("2006-01-02"),
			"reason":        decision.Reason,
		},
	})

	return decision, nil
}

func (e *Evaluator) evaluate(credentialID, issuerAddress string, issuanceDate time.Time) (*Decision, error) {
	issuer, err := e.store.GetIssuer(issuerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to look up issuer: %w", err)
	}
	if issuer == nil {
		return &Decision{Valid: false, Reason: "issuer is not registered"}, nil
	}

	revoked, err := e.store.GetRevokedCredential(credentialID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up credential revocation: %w", err)
	}
	if revoked != nil {
		return &Decision{Valid: false, Reason: "credential has been revoked", Issuer: issuer}, nil
	}

	if issuanceDate.Before(issuer.AuthorizedAt) {
		return &Decision{Valid: false, Reason: "credential predates issuer authorization", Issuer: issuer}, nil
	}

	if issuer.RevokedAt != nil {
		if issuer.RevokeAllPrior {
			return &Decision{Valid: false, Reason: "issuer revoked with all prior credentials", Issuer: issuer}, nil
		}
		if !issuanceDate.Before(*issuer.RevokedAt) {
			return &Decision{Valid: false, Reason: "credential issued after issuer revocation", Issuer: issuer}, nil
		}
	}

	return &Decision{Valid: true, Reason: "credential is valid", Issuer: issuer}, nil
}

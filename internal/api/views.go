package api

import (
	"time"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

// Response views. Each view struct is the allow-list for its caller tier:
// a field that is not declared here cannot be serialized, so a lower tier
// can never leak a higher tier's data.

// challengePublicView is what an unauthenticated caller may see.
// No integrator ID, no wallet address, no timestamps beyond expiry.
type challengePublicView struct {
	ChallengeID string `json:"challengeId"`
	MinAge      int    `json:"minAge"`
	Status      string `json:"status"`
	ExpiresAt   string `json:"expiresAt"`
}

// challengeOwnerView is what the owning integrator may see.
type challengeOwnerView struct {
	ChallengeID   string  `json:"challengeId"`
	Status        string  `json:"status"`
	MinAge        int     `json:"minAge"`
	Verified      bool    `json:"verified"`
	WalletAddress string  `json:"walletAddress"`
	CreatedAt     string  `json:"createdAt"`
	ExpiresAt     string  `json:"expiresAt"`
	RespondedAt   *string `json:"respondedAt,omitempty"`
}

// sessionMetadataView carries derived facts about a session's verified data.
// The raw identity payload never appears here, only presence flags.
type sessionMetadataView struct {
	FraudCheckPassed       bool   `json:"fraudCheckPassed"`
	BothSidesProcessed     bool   `json:"bothSidesProcessed"`
	ExtractionMethod       string `json:"extractionMethod"`
	HasVerifiedData        bool   `json:"hasVerifiedData"`
	DataIntegrityProtected bool   `json:"dataIntegrityProtected"`
}

type sessionView struct {
	ID        string              `json:"id"`
	Provider  string              `json:"provider"`
	Status    string              `json:"status"`
	CreatedAt string              `json:"createdAt"`
	ExpiresAt string              `json:"expiresAt"`
	Metadata  sessionMetadataView `json:"metadata"`
}

func newChallengePublicView(ch *store.Challenge) challengePublicView {
	return challengePublicView{
		ChallengeID: ch.ID,
		MinAge:      ch.MinAge,
		Status:      ch.Status,
		ExpiresAt:   formatTime(ch.ExpiresAt),
	}
}

func newChallengeOwnerView(ch *store.Challenge) challengeOwnerView {
	view := challengeOwnerView{
		ChallengeID:   ch.ID,
		Status:        ch.Status,
		MinAge:        ch.MinAge,
		Verified:      ch.Status == store.ChallengeStatusApproved,
		WalletAddress: ch.WalletAddress,
		CreatedAt:     formatTime(ch.CreatedAt),
		ExpiresAt:     formatTime(ch.ExpiresAt),
	}
	if ch.RespondedAt != nil {
		respondedAt := formatTime(*ch.RespondedAt)
		view.RespondedAt = &respondedAt
	}
	return view
}

func newSessionView(session *store.VerificationSession) sessionView {
	return sessionView{
		ID:        session.ID,
		Provider:  session.Provider,
		Status:    session.Status,
		CreatedAt: formatTime(session.CreatedAt),
		ExpiresAt: formatTime(session.ExpiresAt),
		Metadata: sessionMetadataView{
			FraudCheckPassed:       session.FraudCheckPassed,
			BothSidesProcessed:     session.BothSidesProcessed,
			ExtractionMethod:       session.ExtractionMethod,
			HasVerifiedData:        session.VerifiedData != nil,
			DataIntegrityProtected: session.IntegrityHash != nil,
		},
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

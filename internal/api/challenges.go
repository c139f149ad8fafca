package api

import (
	"net/http"
	"time"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

// handleChallengeDetails returns the public view of a challenge.
// No authentication; the response exposes only what a wallet holder who was
// handed the challenge ID is allowed to see.
func (s *Server) handleChallengeDetails(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("challengeId")
	if id == "" {
		respondError(w, r, missingIdentifier("Challenge ID"))
		return
	}

	ch, err := s.store.GetChallenge(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if ch == nil {
		respondError(w, r, notFound("Challenge not found"))
		return
	}

	writeJSON(w, http.StatusOK, newChallengePublicView(ch))
}

// handleChallengeVerify returns the owner view of a challenge to its
// integrator. The authenticated integrator must own the challenge.
func (s *Server) handleChallengeVerify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("challengeId")
	if id == "" {
		respondError(w, r, missingIdentifier("Challenge ID"))
		return
	}
	integrator := integratorFrom(r.Context())

	ch, err := s.store.GetChallenge(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if ch == nil {
		respondError(w, r, notFound("Challenge not found"))
		return
	}

	if ch.IntegratorID != integrator.ID {
		s.store.InsertAuditEntry(&store.AuditEntry{
			Timestamp: time.Now(),
			Action:    "challenge.forbidden",
			Target:    ch.ID,
			Decision:  "not_owner",
			Details:   map[string]string{"integrator": integrator.ID},
		})
		respondError(w, r, forbidden("Challenge does not belong to this integrator"))
		return
	}

	writeJSON(w, http.StatusOK, newChallengeOwnerView(ch))
}

// handleIntegratorChallenges lists the authenticated integrator's own
// challenges in owner view.
func (s *Server) handleIntegratorChallenges(w http.ResponseWriter, r *http.Request) {
	integrator := integratorFrom(r.Context())

	challenges, err := s.store.ListChallengesByIntegrator(integrator.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]challengeOwnerView, 0, len(challenges))
	for i := range challenges {
		views = append(views, newChallengeOwnerView(&challenges[i]))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"challenges": views,
	})
}

package api

import (
	"net/http"
)

// handleSessionStatus returns the metadata view of a verification session.
// Access is gated only by possession of the opaque session ID. The provider's
// raw identity payload is never returned here; it is only released through
// the token-gated claim flow.
func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("sessionId")
	if id == "" {
		respondError(w, r, missingIdentifier("Session ID"))
		return
	}

	session, err := s.store.GetVerificationSession(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if session == nil {
		respondError(w, r, notFound("Session not found"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": newSessionView(session),
	})
}

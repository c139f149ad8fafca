// Package api implements the HTTP API server for the verification service.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/djscruggs/cardlessid-sub002/internal/version"
	"github.com/djscruggs/cardlessid-sub002/pkg/registry"
	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	store     *store.Store
	evaluator *registry.Evaluator
}

// NewServer creates a new API server backed by the given store.
func NewServer(s *store.Store) *Server {
	return &Server{
		store:     s,
		evaluator: registry.NewEvaluator(s),
	}
}

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Challenge routes
	mux.HandleFunc("GET /challenge/details/{challengeId}", s.handleChallengeDetails)
	mux.HandleFunc("GET /challenge/verify/{challengeId}", s.requireAPIKey(s.handleChallengeVerify))

	// Integrator routes
	mux.HandleFunc("GET /integrator/challenges", s.requireAPIKey(s.handleIntegratorChallenges))

	// Issuer registry routes
	mux.HandleFunc("POST /issuer-registry/verify-credential", s.handleVerifyCredential)

	// Verification session routes
	mux.HandleFunc("GET /verification/session/{sessionId}", s.handleSessionStatus)

	// Bare collection paths get the missing-identifier error, not a mux 404.
	s.registerMissingIdentifier(mux, "GET /challenge/details", "Challenge ID")
	s.registerMissingIdentifier(mux, "GET /challenge/verify", "Challenge ID")
	s.registerMissingIdentifier(mux, "GET /verification/session", "Session ID")

	// Health routes
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
}

// registerMissingIdentifier maps a bare collection path (with and without a
// trailing slash) to a 400 missing-identifier response.
func (s *Server) registerMissingIdentifier(mux *http.ServeMux, pattern, name string) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, missingIdentifier(name))
	}
	mux.HandleFunc(pattern, handler)
	mux.HandleFunc(pattern+"/{$}", handler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	allOK := true

	// Check DB connectivity
	if err := s.store.DB().PingContext(r.Context()); err != nil {
		checks["database"] = "failed"
		allOK = false
	} else {
		checks["database"] = "ok"
	}

	response := map[string]interface{}{
		"status": "ready",
		"checks": checks,
	}
	if !allOK {
		response["status"] = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

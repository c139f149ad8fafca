package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

// Context keys for authenticated integrator info
type contextKey string

const contextKeyIntegrator contextKey = "integrator"

// APIKeyHeader is the request header carrying the integrator API key.
const APIKeyHeader = "X-API-Key"

// requireAPIKey validates the X-API-Key header against the integrator
// registry and attaches the resolved integrator to the request context.
// Denials are logged and audited; the client only learns whether the key
// was missing or invalid, never why it was invalid.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			log.Printf("AUTH DENIED: %s %s - missing API key from %s",
				r.Method, r.URL.Path, r.RemoteAddr)
			respondError(w, r, missingCredential("API key required"))
			return
		}

		integrator, err := s.store.GetIntegratorByKeyHash(store.HashAPIKey(key))
		if err != nil {
			respondError(w, r, err)
			return
		}
		if integrator == nil {
			s.auditAuthDenied(r, "unknown_key")
			log.Printf("AUTH DENIED: %s %s - unknown API key from %s",
				r.Method, r.URL.Path, r.RemoteAddr)
			respondError(w, r, invalidCredential("Invalid API key"))
			return
		}
		if integrator.Status != store.IntegratorStatusActive {
			s.auditAuthDenied(r, "integrator_"+integrator.Status)
			log.Printf("AUTH DENIED: %s %s - integrator %s status is %s from %s",
				r.Method, r.URL.Path, integrator.ID, integrator.Status, r.RemoteAddr)
			respondError(w, r, invalidCredential("Invalid API key"))
			return
		}

		// Best effort; auth must not fail on a last-seen write.
		if err := s.store.TouchIntegrator(integrator.ID); err != nil {
			log.Printf("Failed to update last seen for %s: %v", integrator.ID, err)
		}

		ctx := context.WithValue(r.Context(), contextKeyIntegrator, integrator)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// integratorFrom returns the authenticated integrator attached by
// requireAPIKey. Nil when the route skipped authentication.
func integratorFrom(ctx context.Context) *store.Integrator {
	integrator, _ := ctx.Value(contextKeyIntegrator).(*store.Integrator)
	return integrator
}

func (s *Server) auditAuthDenied(r *http.Request, reason string) {
	s.store.InsertAuditEntry(&store.AuditEntry{
		Timestamp: time.Now(),
		Action:    "auth.denied",
		Target:    r.URL.Path,
		Decision:  reason,
		Details:   map[string]string{"remote_addr": r.RemoteAddr},
	})
}

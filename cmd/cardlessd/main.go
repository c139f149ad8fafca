// cardlessid verification API server
// HTTP API for challenge lookups, credential validity checks, and
// verification-session status.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/djscruggs/cardlessid-sub002/internal/api"
	"github.com/djscruggs/cardlessid-sub002/internal/version"
	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

var (
	listenAddr      = flag.String("listen", ":8780", "HTTP listen address")
	dbPath          = flag.String("db", "", "Database path (default: ~/.local/share/cardlessid/cardlessid.db)")
	cleanupInterval = flag.Duration("session-cleanup-interval", 10*time.Minute, "How often expired session payloads are purged")
)

func main() {
	flag.CommandLine.SetOutput(os.Stdout)
	flag.Parse()

	log.Printf("cardlessid API %s starting...", version.String())

	// Open database
	path := *dbPath
	if path == "" {
		path = store.DefaultPath()
	}

	db, err := store.Open(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Create API server
	server := api.NewServer(db)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: loggingMiddleware(corsMiddleware(mux)),
	}

	// Purge expired session payloads in the background so verified identity
	// data never outlives its session.
	ctx, cancelCleanup := context.WithCancel(context.Background())
	go runSessionCleanup(ctx, db, *cleanupInterval)

	// Handle shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancelCleanup()
		httpServer.Close()
	}()

	log.Printf("HTTP server listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("API server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusResponseWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %dms", r.Method, r.URL.Path, sw.statusCode, time.Since(start).Milliseconds())
	})
}

// runSessionCleanup periodically deletes verified payloads from expired
// verification sessions.
func runSessionCleanup(ctx context.Context, db *store.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := db.CleanupExpiredSessions()
			if err != nil {
				log.Printf("Session cleanup failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("Purged %d expired verification sessions", count)
			}
		}
	}
}

// Package http is the service boundary: the order webhook, the
// credential-gated read API and a small dashboard page.
package http

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"mensa/internal/core"
	"mensa/internal/views"
	appweb "mensa/web"
)

// Ingestor runs the order ingestion pipeline for one raw message.
type Ingestor interface {
	IngestMessage(ctx context.Context, raw string) (string, error)
}

// Queries serves the read-side projections.
type Queries interface {
	Orders(ctx context.Context) ([]core.Order, error)
	Kitchen(name string) ([]views.KitchenRow, error)
	Packing(name string) ([]views.PackingRow, error)
	Billing() ([]views.BillingRow, error)
}

// Credentials is the single shared username/password pair gating the read
// API. It is passed in explicitly at startup; there is no process-wide
// credential store.
type Credentials struct {
	Username string
	Password string
}

type Server struct {
	http.Server
	templates *template.Template
	ingestor  Ingestor
	queries   Queries
	creds     Credentials
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, creds Credentials, ingestor Ingestor, queries Queries) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ingestor: ingestor,
		queries:  queries,
		creds:    creds,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	mux.HandleFunc("GET /{$}", s.withLogging(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /webhook", s.withLogging(s.handleWebhook))

	mux.HandleFunc("GET /api/orders", s.withLogging(s.withAuth(s.handleOrders)))
	mux.HandleFunc("GET /api/kitchen/{session}", s.withLogging(s.withAuth(s.handleKitchen)))
	mux.HandleFunc("GET /api/packing/{session}", s.withLogging(s.withAuth(s.handlePacking)))
	mux.HandleFunc("GET /api/billing", s.withLogging(s.withAuth(s.handleBilling)))

	return s
}

// withLogging adds a request id, request start/finish logging and security
// headers to responses.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// withAuth enforces the shared basic-auth credential with constant-time
// comparison.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || !s.creds.match(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="mensa"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (c Credentials) match(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(c.Password)) == 1
	return userOK && passOK
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	data := struct {
		Session  string
		Sessions []string
		Now      string
	}{
		Session: core.Classify(now).String(),
		Now:     now.Format(core.DateLayout),
	}
	for _, sess := range core.Sessions() {
		data.Sessions = append(data.Sessions, sess.String())
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Package server provides the HTTP REST API for the job assistant.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/jd"
	"github.com/jonathan/job-assistant/internal/latex"
	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/server/middleware"
	"github.com/jonathan/job-assistant/internal/server/ratelimit"
	"github.com/jonathan/job-assistant/internal/storage"
)

// maxBodyBytes bounds request bodies; master resumes are the largest payload.
const maxBodyBytes = 2 << 20

// Deps are the collaborators the server calls into.
type Deps struct {
	Store     Store                     // required
	Auth      middleware.TokenValidator // required
	Analyzer  Analyzer
	Parser    ResumeParser
	Rebuilder ResumeRebuilder
	Drafter   Drafter        // nil disables cover letter and DM generation
	Queue     CompileQueue   // nil saves variants without compiling them
	Signer    URLSigner      // nil leaves pdf_path empty
	Fetcher   PostingFetcher // nil disables job import
	Logger    *logging.Logger
}

// Options holds HTTP settings.
type Options struct {
	Port            int
	CORSOrigins     []string
	RateLimit       *ratelimit.Config
	SignedURLExpiry time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	analyzer    Analyzer
	parser      ResumeParser
	rebuilder   ResumeRebuilder
	drafter     Drafter
	queue       CompileQueue
	signer      URLSigner
	fetcher     PostingFetcher
	rateLimiter *ratelimit.Limiter
	logger      *logging.Logger
	corsOrigins []string
	urlExpiry   time.Duration

	knownUsers sync.Map // uuid.UUID -> struct{}
}

// New creates a new server instance
func New(opts Options, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if deps.Auth == nil {
		return nil, errors.New("server: token validator is required")
	}

	s := &Server{
		store:       deps.Store,
		analyzer:    deps.Analyzer,
		parser:      deps.Parser,
		rebuilder:   deps.Rebuilder,
		drafter:     deps.Drafter,
		queue:       deps.Queue,
		signer:      deps.Signer,
		fetcher:     deps.Fetcher,
		logger:      logging.OrNop(deps.Logger).Named("http"),
		corsOrigins: opts.CORSOrigins,
		urlExpiry:   opts.SignedURLExpiry,
	}
	if s.analyzer == nil {
		s.analyzer = jd.NewAnalyzer(nil, s.logger)
	}
	if s.parser == nil {
		s.parser = latex.NewParser(nil)
	}
	if s.rebuilder == nil {
		s.rebuilder = latex.Rebuilder{}
	}
	if s.urlExpiry <= 0 {
		s.urlExpiry = storage.DefaultSignedURLExpiry
	}
	if len(s.corsOrigins) == 0 {
		s.corsOrigins = []string{"*"}
	}
	s.rateLimiter = ratelimit.NewLimiter(opts.RateLimit)

	api := http.NewServeMux()

	// Users
	api.HandleFunc("GET /api/auth/me", s.handleGetMe)
	api.HandleFunc("GET /api/actions", s.handleListActions)

	// Jobs
	api.HandleFunc("POST /api/jobs", s.handleCreateJob)
	api.HandleFunc("POST /api/jobs/import", s.handleImportJob)
	api.HandleFunc("POST /api/jobs/analyze-jd", s.handleAnalyzeJD)
	api.HandleFunc("GET /api/jobs", s.handleListJobs)
	api.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	api.HandleFunc("PATCH /api/jobs/{id}", s.handleUpdateJob)
	api.HandleFunc("DELETE /api/jobs/{id}", s.handleDeleteJob)

	// Resume
	api.HandleFunc("POST /api/resume/master", s.handleUploadMaster)
	api.HandleFunc("GET /api/resume/master", s.handleGetMaster)
	api.HandleFunc("POST /api/resume/variant", s.handleUpdateVariant)
	api.HandleFunc("GET /api/resume/variant/{job_id}", s.handleGetVariant)

	// Cover letters
	api.HandleFunc("POST /api/cover-letter/generate", s.handleGenerateCoverLetter)
	api.HandleFunc("GET /api/cover-letter/{job_id}", s.handleGetCoverLetter)
	api.HandleFunc("PATCH /api/cover-letter/{job_id}", s.handleUpdateCoverLetter)

	// Outreach
	api.HandleFunc("POST /api/outreach/contacts", s.handleCreateContact)
	api.HandleFunc("GET /api/outreach/contacts", s.handleListContacts)
	api.HandleFunc("GET /api/outreach/contacts/{id}", s.handleGetContact)
	api.HandleFunc("PATCH /api/outreach/contacts/{id}", s.handleUpdateContact)
	api.HandleFunc("DELETE /api/outreach/contacts/{id}", s.handleDeleteContact)
	api.HandleFunc("POST /api/outreach/generate-dm", s.handleGenerateDM)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/api/", middleware.AuthMiddleware(deps.Auth, s.ensureUser)(api))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // LLM calls
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// ensureUser mirrors the token's subject into the users table the first time
// this process sees it. Tokens without an email are not mirrored.
func (s *Server) ensureUser(ctx context.Context, id middleware.Identity) error {
	userID := id.GetUserID()
	if _, seen := s.knownUsers.Load(userID); seen || id.GetEmail() == "" {
		return nil
	}
	if err := s.store.EnsureUser(ctx, userID, id.GetEmail()); err != nil {
		s.logger.Error("failed to ensure user", "user_id", userID, "error", err)
		return err
	}
	s.knownUsers.Store(userID, struct{}{})
	return nil
}

// withCORS adds CORS headers for the configured origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	wildcard := slices.Contains(s.corsOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.corsOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", "client", s.extractClientID(r), "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Server-side failures are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	s.errorResponse(w, status, publicMessage(err))
}

type validatable interface {
	Validate() error
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v validatable) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &ValidationError{Message: "Invalid request body", Cause: err}
	}
	return v.Validate()
}

// currentUser returns the authenticated user ID, writing 401 if absent.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, middleware.UnauthorizedMessage)
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a UUID path parameter, writing 400 if malformed.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+strings.ReplaceAll(name, "_", " "))
		return uuid.Nil, false
	}
	return id, true
}

// logAction records an analytics event. Failures are logged, not returned.
func (s *Server) logAction(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID, actionType string, meta map[string]any) {
	if err := s.store.LogAction(ctx, userID, jobID, actionType, meta); err != nil {
		s.logger.Warn("failed to log action", "type", actionType, "user_id", userID, "error", err)
	}
}

// signedURL returns a download link for path, or "" if there is no PDF or signing fails.
func (s *Server) signedURL(ctx context.Context, path *string) string {
	if path == nil || *path == "" || s.signer == nil {
		return ""
	}
	url, err := s.signer.SignedURL(ctx, *path, s.urlExpiry)
	if err != nil {
		s.logger.Warn("failed to sign PDF URL", "path", *path, "error", err)
		return ""
	}
	return url
}

// ownedJob loads a job owned by userID, or returns a NotFoundError.
func (s *Server) ownedJob(ctx context.Context, userID, jobID uuid.UUID) (*db.Job, error) {
	job, err := s.store.GetJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &NotFoundError{Message: msgJobNotFound}
	}
	return job, nil
}

var _ PostingFetcher = (*fetch.Fetcher)(nil)

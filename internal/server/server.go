package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-refiner/internal/refine"
	"github.com/jonathan/resume-refiner/internal/server/ratelimit"
	"github.com/jonathan/resume-refiner/internal/types"
)

// Defaults
const (
	DefaultMaxUploadBytes  = 10 << 20
	DefaultShutdownTimeout = 30 * time.Second
)

// JobFetcher scrapes a job posting. It never fails; failures come back as an unsuccessful result.
type JobFetcher interface {
	FetchJobPosting(ctx context.Context, url string) types.JobPostingResult
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	refiner         *refine.Service
	fetcher         JobFetcher
	rateLimiter     *ratelimit.Limiter
	corsOrigin      string
	maxUploadBytes  int64
	shutdownTimeout time.Duration
	onShutdown      []func()
}

// Config holds server configuration
type Config struct {
	Port            int
	CORSOrigin      string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	// RateLimit is loaded from the environment when nil
	RateLimit *ratelimit.Config
	// OnShutdown runs after the listener has drained
	OnShutdown []func()
}

// New creates a new server instance
func New(cfg Config, refiner *refine.Service, fetcher JobFetcher) *Server {
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		refiner:         refiner,
		fetcher:         fetcher,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
		corsOrigin:      cfg.CORSOrigin,
		maxUploadBytes:  cfg.MaxUploadBytes,
		shutdownTimeout: cfg.ShutdownTimeout,
		onShutdown:      cfg.OnShutdown,
	}

	mux := http.NewServeMux()
	for _, prefix := range []string{"", ratelimit.APIPrefix} {
		mux.HandleFunc("POST "+prefix+"/cv/upload", s.handleUpload)
		mux.HandleFunc("POST "+prefix+"/cv/upload-text", s.handleUploadText)
		mux.HandleFunc("POST "+prefix+"/cv/chat", s.handleChat)
		mux.HandleFunc("POST "+prefix+"/cv/generate", s.handleGenerate)
		mux.HandleFunc("POST "+prefix+"/cv/cover-letter", s.handleCoverLetter)
		mux.HandleFunc("POST "+prefix+"/cv/cover-letter/revise", s.handleCoverLetterRevise)
		mux.HandleFunc("POST "+prefix+"/cv/revise", s.handleRevise)
		mux.HandleFunc("POST "+prefix+"/cv/normalize-phone", s.handleNormalizePhone)
		mux.HandleFunc("POST "+prefix+"/cv/fetch-job", s.handleFetchJob)
		mux.HandleFunc("GET "+prefix+"/cv/session/{id}", s.handleGetSession)

		mux.HandleFunc("POST "+prefix+"/resume/generate", s.handleResumeGenerate)
		mux.HandleFunc("GET "+prefix+"/resume/health", s.handleResumeHealth)
	}
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.withRequestID(s.withLogging(s.withCORS(s.withRateLimit(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 330 * time.Second, // model calls may take up to five minutes
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.Close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close stops the rate limiter and runs the shutdown hooks
func (s *Server) Close() {
	s.rateLimiter.Stop()
	for _, fn := range s.onShutdown {
		fn()
	}
	s.onShutdown = nil
}

type requestIDKey struct{}

// RequestID returns the id assigned to the request, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withRequestID tags each request with an id, honouring one supplied by a proxy
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
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
			s.rateLimitResponse(w, info)
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
		log.Printf("[server] %s %s %s %d %v id=%s",
			r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(start), RequestID(r.Context()))
	})
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
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the client by the IP in RemoteAddr
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] limit exceeded: limit=%d retry_after=%v", info.Limit, info.RetryAfter)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

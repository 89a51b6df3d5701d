package scoring

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the scoring service HTTP API.
type Server struct {
	config   Config
	router   *chi.Mux
	catalog  *Catalog
	tests    *Registry
	progress *ProgressStore
	idem     IdempotencyStore
	limiter  *keyLimiter
	logger   *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	// checkMu serializes answer checks so a replayed key never scores twice.
	checkMu sync.Mutex
}

// NewServer creates a Server. idem may be nil for an in-memory store.
func NewServer(cfg Config, catalog *Catalog, idem IdempotencyStore, logger *slog.Logger) *Server {
	if idem == nil {
		idem = NewMemoryIdempotency()
	}
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &Server{
		config:   cfg,
		catalog:  catalog,
		tests:    NewRegistry(),
		progress: NewProgressStore(cfg.ProgressPath),
		idem:     idem,
		limiter:  newKeyLimiter(cfg.RateLimit, cfg.RateBurst),
		logger:   logger,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("scoring service listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down scoring service")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Use(s.metricsMiddleware)

		r.Get("/reviewstatus", s.handleReviewStatus)
		r.Get("/phonemescovered", s.handlePhonemesCovered)
		r.Get("/reviewspell", s.handleReviewSpelling)
		r.Get("/reviewhomoph", s.handleReviewHomophones)
		r.Get("/learn", s.handleLearn)
		r.Get("/spell/{phoneme}", s.handleSpelling)
		r.Get("/homophones/{phoneme}", s.handleHomophones)
		r.Post("/checkspellanswer", s.handleCheckSpelling)
		r.Post("/checkhomophanswer", s.handleCheckHomophone)
		r.Post("/saveprogress", s.handleSaveProgress)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(r.RemoteAddr, time.Now()) {
			RateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			respondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		RequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// sample returns up to n items of src in random order.
func sample[T any](s *Server, src []T, n int) []T {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	idx := s.rng.Perm(len(src))
	if n > 0 && n < len(idx) {
		idx = idx[:n]
	}
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = src[j]
	}
	return out
}

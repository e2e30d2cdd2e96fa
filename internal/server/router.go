package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pjkea/social-media-scraper-api/internal/config"
)

const requestIDHeader = "X-Request-ID"

// NewRouter assembles the middleware stack and routes.
func NewRouter(cfg config.ServerConfig, engine Engine, logger *zap.Logger) http.Handler {
	h := &handlers{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		// Every scrape runs a full browser; throttle before the engine, not
		// inside it.
		r.Use(rateLimit(cfg, logger))

		r.Post("/scrape", h.scrape)
		r.Post("/test-credentials", h.testCredentials)
		r.Get("/sessions", h.listSessions)
		r.Delete("/sessions/{id}", h.deleteSession)
		r.Post("/sessions/prune", h.pruneSessions)
	})

	return r
}

type ctxKey int

const requestIDKey ctxKey = 0

// requestID honors an inbound X-Request-ID and generates one otherwise, so
// callers can correlate their own logs with ours.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// accessLog emits one structured line per completed request.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("access")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("Request handled.",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", ww.Header().Get(requestIDHeader)))
		})
	}
}

// rateLimit applies a global token bucket across all API callers.
func rateLimit(cfg config.ServerConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn("Request rate limited.", zap.String("path", r.URL.Path))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

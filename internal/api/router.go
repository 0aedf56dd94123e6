package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/uxxjournal/transcribe-relay/internal/api/handlers"
	"github.com/uxxjournal/transcribe-relay/internal/api/middleware"
	"github.com/uxxjournal/transcribe-relay/internal/auth"
	"github.com/uxxjournal/transcribe-relay/internal/config"
	"github.com/uxxjournal/transcribe-relay/internal/metrics"
	"github.com/uxxjournal/transcribe-relay/internal/relay"
	"github.com/uxxjournal/transcribe-relay/internal/stt"
)

type Router struct {
	mux         *chi.Mux
	cfg         *config.Config
	log         *slog.Logger
	transcriber stt.Transcriber
	metrics     *metrics.Metrics
	limiter     *middleware.RateLimiter
}

func NewRouter(cfg *config.Config, log *slog.Logger, t stt.Transcriber, m *metrics.Metrics) *Router {
	return &Router{
		mux:         chi.NewRouter(),
		cfg:         cfg,
		log:         log,
		transcriber: t,
		metrics:     m,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware. CORS sits outside everything that can write an
	// error so every response carries the headers.
	r.Use(middleware.RequestID(rt.log))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)
	if rt.cfg.RateLimit.RPS > 0 {
		rt.limiter = middleware.NewRateLimiter(rt.cfg.RateLimit.RPS, rt.cfg.RateLimit.Burst)
		r.Use(rt.limiter.Limit)
	}
	r.Use(chimiddleware.Recoverer)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.transcriber)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	rl := relay.New(rt.transcriber, auth.New(rt.cfg.Auth.JWTSecret), rt.metrics)
	transcribeH := handlers.NewTranscribeHandler(rl)
	r.Post("/transcribe", transcribeH.Transcribe)
	r.Post("/functions/v1/transcribe", transcribeH.Transcribe)

	return r
}

// Close releases background resources held by middleware.
func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.Close()
	}
}

package rest

import (
	"log/slog"
	"net/http"

	"github.com/engthiagolucena/customer-risk-analysis/pkg/auth"
)

// RouterConfig wires the HTTP surface of the risk service.
type RouterConfig struct {
	Health  *HealthHandler
	Risk    *RiskHandler
	Metrics http.Handler
	// Validator enables bearer token authentication when non-nil.
	Validator auth.TokenValidator
	Logger    *slog.Logger

	RateLimitRPS   float64
	RateLimitBurst int
}

// publicPaths bypass authentication.
var publicPaths = []string{"/healthz", "/readyz", "/metrics"}

// NewRouter builds the ServeMux and wraps it with logging, rate limiting and
// optional authentication, outermost first.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Health.RegisterRoutes(mux)
	cfg.Risk.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	var handler http.Handler = mux
	if cfg.Validator != nil {
		handler = auth.HTTPMiddleware(cfg.Validator, publicPaths)(handler)
	}
	if cfg.RateLimitRPS > 0 {
		handler = RateLimitMiddleware(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))(handler)
	}
	return LoggingMiddleware(cfg.Logger)(handler)
}

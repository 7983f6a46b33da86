package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gym-booking/internal/bookings"
	"gym-booking/internal/config"
	"gym-booking/internal/database"
	"gym-booking/internal/wizard"
)

// Server exposes one booking wizard over HTTP. Every wizard operation runs
// under mu, so concurrent requests see the same single draft in turn.
type Server struct {
	db       database.Service
	store    *bookings.Store
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	limiter  *visitorLimiter

	// trustProxy honours X-Forwarded-For and X-Real-IP. Only set it when
	// a proxy in front of the server overwrites those headers.
	trustProxy bool

	mu     sync.Mutex
	wizard *wizard.Wizard
}

// Deps holds the collaborators a Server needs.
type Deps struct {
	DB       database.Service
	Store    *bookings.Store
	Wizard   *wizard.Wizard
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
}

// NewServer builds the HTTP server listening on cfg.Port.
func NewServer(cfg config.Config, deps Deps) *http.Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		db:       deps.DB,
		store:    deps.Store,
		wizard:   deps.Wizard,
		logger:   logger,
		gatherer: gatherer,
		limiter:  newVisitorLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),

		trustProxy: cfg.TrustProxyHeaders,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

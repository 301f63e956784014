// Package httptransport composes the public HTTP surface: shared middleware,
// operational endpoints and the verification routes.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritrust/internal/platform/metrics"
	"veritrust/internal/verification/handler"
	"veritrust/pkg/platform/httputil"
	"veritrust/pkg/platform/middleware/auth"
	"veritrust/pkg/platform/middleware/device"
	"veritrust/pkg/platform/middleware/metadata"
	"veritrust/pkg/platform/middleware/request"
	"veritrust/pkg/platform/middleware/requesttime"
)

// LedgerStatus reports whether the durable ledger is currently bypassed.
type LedgerStatus interface {
	Degraded() bool
}

// Deps are the collaborators the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Verification *handler.Handler
	Ledger       LedgerStatus
	Metrics      *metrics.Metrics
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer    prometheus.Gatherer
	Version     string
	DisableAuth bool
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Ledger  string `json:"ledger"`
}

// NewRouter wires every public endpoint behind the common middleware chain.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(logger))
	r.Use(metadata.ClientMetadata)
	r.Use(device.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	r.Use(d.Metrics.Middleware)

	r.Get("/health", healthHandler(d.Version, d.Ledger))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if d.Verification != nil {
		d.Verification.Register(r, auth.RequireBearer(d.DisableAuth, logger))
	}
	return r
}

func healthHandler(version string, ledger LedgerStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state := "durable"
		if ledger == nil || ledger.Degraded() {
			state = "fallback"
		}
		httputil.WriteJSON(w, http.StatusOK, &HealthResponse{Status: "ok", Version: version, Ledger: state})
	}
}

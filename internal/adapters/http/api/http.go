// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/affinity/internal/domain/dedupe"
	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
	"github.com/okian/affinity/pkg/metrics"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue submits an intake for asynchronous building.
	Enqueue(ctx context.Context, in model.Intake) error
	// Rebuild builds and stores an intake synchronously.
	Rebuild(ctx context.Context, in model.Intake) (model.Result[model.Build], error)
	// Preview builds an intake without storing it.
	Preview(ctx context.Context, in model.Intake) model.Result[model.Build]

	Signals(ctx context.Context, userID string) (model.MatchSignals, error)
	Matches(ctx context.Context, userID string, limit int) ([]types.MatchEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	profilesHandler      *ProfilesHandler
	signalsHandler       *SignalsHandler
	matchesHandler       *MatchesHandler
	compatibilityHandler *CompatibilityHandler
}

// NewServer creates a new API server with all handlers. maxMatchLimit caps
// the limit accepted by GET /matches.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxMatchLimit int) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		profilesHandler:      NewProfilesHandler(deps),
		signalsHandler:       NewSignalsHandler(deps),
		matchesHandler:       NewMatchesHandler(deps, maxMatchLimit),
		compatibilityHandler: NewCompatibilityHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/profiles", MetricsMiddleware(s.profilesHandler.HandlePostProfile, "profiles"))
	mux.HandleFunc("/profiles/preview", MetricsMiddleware(s.profilesHandler.HandlePreview, "profiles_preview"))
	mux.HandleFunc("/signals/", MetricsMiddleware(s.signalsHandler.HandleGetSignals, "signals"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("/compatibility", MetricsMiddleware(s.compatibilityHandler.HandleCompatibility, "compatibility"))
	mux.HandleFunc("/anonymize", MetricsMiddleware(s.compatibilityHandler.HandleAnonymize, "anonymize"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON document from r into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// pathID returns the single path segment after prefix, or "" when there
// is none.
func pathID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return strings.TrimSpace(id)
}

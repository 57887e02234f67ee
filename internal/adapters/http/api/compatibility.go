package api

import (
	"net/http"

	"github.com/okian/affinity/internal/domain/scoring"
	"github.com/okian/affinity/pkg/metrics"
)

// CompatibilityHandler exposes the pure scoring helpers.
type CompatibilityHandler struct{}

// NewCompatibilityHandler creates a new compatibility handler.
func NewCompatibilityHandler() *CompatibilityHandler {
	return &CompatibilityHandler{}
}

type compatibilityRequest struct {
	A scoring.Input `json:"a"`
	B scoring.Input `json:"b"`
}

type anonymizeRequest struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// HandleCompatibility handles POST /compatibility.
func (h *CompatibilityHandler) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.compatibility"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req compatibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	score := scoring.ScorePair(req.A, req.B)
	metrics.RecordCompatibilityScore(float64(score.Score))
	writeJSON(w, http.StatusOK, score)
}

// HandleAnonymize handles POST /anonymize.
func (h *CompatibilityHandler) HandleAnonymize(w http.ResponseWriter, r *http.Request) {
	const op = "api.anonymize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req anonymizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, scoring.Anonymize(req.Title, req.Company))
}

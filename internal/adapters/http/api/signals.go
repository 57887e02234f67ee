package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/domain/model"
)

// SignalsDependencies reads stored signals.
type SignalsDependencies interface {
	Signals(ctx context.Context, userID string) (model.MatchSignals, error)
}

// SignalsHandler handles signal lookups.
type SignalsHandler struct {
	deps SignalsDependencies
}

// NewSignalsHandler creates a new signals handler.
func NewSignalsHandler(deps SignalsDependencies) *SignalsHandler {
	return &SignalsHandler{deps: deps}
}

// HandleGetSignals handles GET /signals/{user_id}.
func (h *SignalsHandler) HandleGetSignals(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_signals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := pathID(r.URL.Path, "/signals/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	sig, err := h.deps.Signals(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

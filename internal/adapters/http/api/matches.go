package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/domain/types"
)

const defaultMatchLimit = 10

// MatchesDependencies ranks stored members against one another.
type MatchesDependencies interface {
	Matches(ctx context.Context, userID string, limit int) ([]types.MatchEntry, error)
}

// MatchesHandler handles match listing requests.
type MatchesHandler struct {
	deps     MatchesDependencies
	maxLimit int
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchesDependencies, maxLimit int) *MatchesHandler {
	if maxLimit < 1 {
		maxLimit = defaultMatchLimit
	}
	return &MatchesHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetMatches handles GET /matches/{user_id}?limit=N.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := pathID(r.URL.Path, "/matches/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	n := min(defaultMatchLimit, h.maxLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}

	entries, err := h.deps.Matches(r.Context(), id, n)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []types.MatchEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

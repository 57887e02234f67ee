package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/affinity/internal/adapters/mq/queue"
	"github.com/okian/affinity/internal/domain/dedupe"
	"github.com/okian/affinity/internal/domain/model"
)

// ProfileDependencies defines what the profile handlers need.
type ProfileDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, in model.Intake) error
	Rebuild(ctx context.Context, in model.Intake) (model.Result[model.Build], error)
	Preview(ctx context.Context, in model.Intake) model.Result[model.Build]
}

// ProfilesHandler handles profile build requests.
type ProfilesHandler struct {
	deps ProfileDependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfileDependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	RequestID string `json:"request_id"`
}

type buildResponse struct {
	Status     model.Status            `json:"status"`
	Reasons    []string                `json:"reasons,omitempty"`
	Normalized model.NormalizedProfile `json:"normalized"`
	Signals    model.MatchSignals      `json:"signals"`
}

func newBuildResponse(res model.Result[model.Build]) buildResponse {
	return buildResponse{
		Status:     res.Status,
		Reasons:    res.Reasons,
		Normalized: res.Value.Normalized,
		Signals:    res.Value.Signals,
	}
}

func validateIntake(in *model.Intake) error {
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(in.Email) == "":
		return errors.New("missing email")
	case !strings.Contains(in.Email, "@"):
		return errors.New("invalid email")
	}
	return nil
}

// HandlePostProfile handles POST /profiles. The build is queued unless
// ?sync=true, in which case it runs inline and the result is returned.
func (h *ProfilesHandler) HandlePostProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_profile"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var in model.Intake
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateIntake(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if sync, _ := strconv.ParseBool(r.URL.Query().Get("sync")); sync {
		res, err := h.deps.Rebuild(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, newBuildResponse(res))
		return
	}

	if strings.TrimSpace(in.RequestID) == "" {
		in.RequestID = uuid.NewString()
	}
	if h.deps.SeenAndRecord(r.Context(), in.RequestID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, RequestID: in.RequestID})
		return
	}
	if err := h.deps.Enqueue(r.Context(), in); err != nil {
		h.deps.Unrecord(r.Context(), in.RequestID)
		if errors.Is(err, queue.ErrClosed) {
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", RequestID: in.RequestID})
}

// HandlePreview handles POST /profiles/preview: build without storing.
func (h *ProfilesHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	const op = "api.preview_profile"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var in model.Intake
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateIntake(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, newBuildResponse(h.deps.Preview(r.Context(), in)))
}

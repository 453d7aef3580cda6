package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/internal/domain/types"
)

const maxBodyBytes = 4 << 20

// OrderDependencies defines the operations the order handlers call.
type OrderDependencies interface {
	Schedule(ctx context.Context, l model.Lineup, explain bool) (types.RunningOrder, error)
	ScheduleEvent(ctx context.Context, eventID string, explain bool) (types.RunningOrder, error)
	ScheduleBatch(ctx context.Context, lineups []model.Lineup, explain bool) ([]types.RunningOrder, error)
	Events(ctx context.Context) ([]string, error)
}

// OrderHandler serves the running-order routes.
type OrderHandler struct {
	deps     OrderDependencies
	validate *Validator
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(deps OrderDependencies, v *Validator) *OrderHandler {
	return &OrderHandler{deps: deps, validate: v}
}

// batchRequest mirrors the OpenAPI schema for POST /api/v1/running-order/batch.
type batchRequest struct {
	Lineups []model.Lineup `json:"lineups" validate:"required,min=1,dive"`
}

type batchResponse struct {
	Orders []types.RunningOrder `json:"orders"`
}

type eventsResponse struct {
	Events []string `json:"events"`
}

// HandlePostOrder handles POST /api/v1/running-order.
func (h *OrderHandler) HandlePostOrder(w http.ResponseWriter, r *http.Request) {
	explain, err := explainParam(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var l model.Lineup
	if err := decode(w, r, &l); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.validate.Struct(l); err != nil {
		writeErr(w, err)
		return
	}
	out, err := h.deps.Schedule(r.Context(), l, explain)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandlePostBatch handles POST /api/v1/running-order/batch.
func (h *OrderHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	explain, err := explainParam(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req batchRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, err)
		return
	}
	out, err := h.deps.ScheduleBatch(r.Context(), req.Lineups, explain)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Orders: out})
}

// HandleGetEventOrder handles GET /api/v1/events/{eventID}/running-order.
func (h *OrderHandler) HandleGetEventOrder(w http.ResponseWriter, r *http.Request) {
	explain, err := explainParam(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		writeErr(w, fmt.Errorf("%w: eventID is required", ErrBadRequest))
		return
	}
	out, err := h.deps.ScheduleEvent(r.Context(), eventID, explain)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleListEvents handles GET /api/v1/events.
func (h *OrderHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	ids, err := h.deps.Events(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: ids})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %w", ErrBadRequest, err)
	}
	return nil
}

func explainParam(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("explain")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: explain must be a boolean", ErrBadRequest)
	}
	return v, nil
}

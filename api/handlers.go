/*
handlers.go - HTTP API handlers for the logistics engine

PURPOSE:
  Exposes planning and simulation via REST. Handles HTTP
  request/response, JSON serialization, and delegates to the factory,
  planner and dataset packages.

ENDPOINTS:
  Instances:
    GET  /api/instances          List loadable instances
    GET  /api/instances/{name}   Instance detail with order backlog

  Planning / simulation:
    POST /api/plan               Build a step plan without running it
    POST /api/simulate           Plan, run, archive and report a run

  Run history:
    GET  /api/runs               List archived runs, newest first
    GET  /api/runs/{id}          One archived run

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (instance exists, planner known)
  3. Materialize a fresh plant, plan, run
  4. Archive the result, serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, planning failures
  - 404: Unknown instance or run
  - 500: Archive errors

  Every simulation runs on a freshly materialized plant, so concurrent
  requests never share mutable state.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/logistics-engine/dataset"
	"github.com/warp/logistics-engine/factory"
	"github.com/warp/logistics-engine/planner"
	"github.com/warp/logistics-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Runs store.RunStore

	instances map[string]*dataset.Instance
	names     []string // registration order for stable listings
}

// NewHandler creates a handler archiving runs in the given store and
// serving the given instances.
func NewHandler(runs store.RunStore, instances ...*dataset.Instance) *Handler {
	h := &Handler{
		Runs:      runs,
		instances: make(map[string]*dataset.Instance, len(instances)),
	}
	for _, in := range instances {
		if _, ok := h.instances[in.Name]; ok {
			continue
		}
		h.instances[in.Name] = in
		h.names = append(h.names, in.Name)
	}
	return h
}

// =============================================================================
// INSTANCE HANDLERS
// =============================================================================

// ListInstances returns all loadable instances.
// GET /api/instances
func (h *Handler) ListInstances(w http.ResponseWriter, r *http.Request) {
	dtos := make([]InstanceDTO, len(h.names))
	for i, name := range h.names {
		dtos[i] = toInstanceDTO(h.instances[name])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetInstance returns one instance with its order backlog.
// GET /api/instances/{name}
func (h *Handler) GetInstance(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	in, ok := h.instances[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown instance", nil)
		return
	}
	writeJSON(w, http.StatusOK, InstanceDetailDTO{
		InstanceDTO: toInstanceDTO(in),
		OrderList:   toOrderDTOs(in.Orders),
	})
}

// =============================================================================
// PLANNING / SIMULATION HANDLERS
// =============================================================================

// PostPlan builds a step plan without running it.
// POST /api/plan
func (h *Handler) PostPlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, _, pl, status, err := h.prepare(req.Instance, req.Planner)
	if err != nil {
		writeError(w, status, "Cannot prepare plan", err)
		return
	}

	count := req.Orders
	if count <= 0 {
		count = len(in.Orders)
	}
	plan, err := pl.Plan(count)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Planning failed", err)
		return
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		Instance:    in.Name,
		Planner:     pl.Name(),
		Steps:       toStepDTOs(plan.Steps),
		Attribution: plan.Attribution,
	})
}

// PostSimulate plans, runs and archives one experiment.
// POST /api/simulate
func (h *Handler) PostSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, plant, pl, status, err := h.prepare(req.Instance, req.Planner)
	if err != nil {
		writeError(w, status, "Cannot prepare simulation", err)
		return
	}

	count := req.Orders
	if count <= 0 {
		count = len(in.Orders)
	}
	plan, err := pl.Plan(count)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Planning failed", err)
		return
	}

	horizon := factory.Tick(req.Horizon)
	if horizon <= 0 {
		horizon = in.Horizon
	}

	var opts []factory.RunOption
	if req.WarehouseShortcut {
		opts = append(opts, factory.WithWarehouseShortcut())
	}
	result, err := plant.Run(plan.Steps, horizon, opts...)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Run rejected", err)
		return
	}

	rec := store.RunRecord{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Instance:       in.Name,
		Planner:        pl.Name(),
		Orders:         count,
		Horizon:        int64(horizon),
		Shortcut:       req.WarehouseShortcut,
		FinalTime:      int64(result.FinalTime),
		RemainingSteps: result.RemainingSteps,
		Income:         result.Income,
	}
	if err := h.Runs.Save(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to archive run", err)
		return
	}

	resp := SimulateResponse{
		RunID:          rec.ID,
		Instance:       in.Name,
		Planner:        pl.Name(),
		Horizon:        int64(horizon),
		FinalTime:      int64(result.FinalTime),
		RemainingSteps: result.RemainingSteps,
		Income:         result.Income.String(),
		Stock:          toPositionDTOs(plant.Warehouse().Snapshot()),
		Attribution:    plan.Attribution,
	}
	if req.EventCategory != "" {
		events := plant.Events().ByCategory(factory.Category(req.EventCategory))
		if req.EventTo > 0 {
			filtered := events[:0:0]
			for _, e := range events {
				if int64(e.Time) >= req.EventFrom && int64(e.Time) <= req.EventTo {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}
		resp.Events = toEventDTOs(events)
	}
	writeJSON(w, http.StatusOK, resp)
}

// prepare resolves the instance, materializes a fresh plant and
// builds the requested planner.
func (h *Handler) prepare(instance, plannerName string) (*dataset.Instance, *factory.Plant, planner.Planner, int, error) {
	in, ok := h.instances[instance]
	if !ok {
		return nil, nil, nil, http.StatusNotFound, fmt.Errorf("unknown instance %q", instance)
	}
	plant, err := in.NewPlant()
	if err != nil {
		return nil, nil, nil, http.StatusBadRequest, err
	}
	var pl planner.Planner
	switch plannerName {
	case "", "fcfs":
		pl = planner.NewFCFS(plant)
	case "depth":
		pl = planner.NewDepth(plant)
	default:
		return nil, nil, nil, http.StatusBadRequest, fmt.Errorf("unknown planner %q", plannerName)
	}
	return in, plant, pl, http.StatusOK, nil
}

// =============================================================================
// RUN HISTORY HANDLERS
// =============================================================================

// ListRuns returns all archived runs, newest first.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Runs.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	dtos := make([]RunDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toRunDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one archived run.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Runs.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Unknown run", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load run", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(rec))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

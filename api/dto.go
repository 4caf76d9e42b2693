/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - dataset/dataset.go: the instance model these project
*/
package api

import (
	"time"

	"github.com/warp/logistics-engine/dataset"
	"github.com/warp/logistics-engine/factory"
	"github.com/warp/logistics-engine/store"
)

// =============================================================================
// INSTANCE TYPES
// =============================================================================

// InstanceDTO summarizes a loadable instance.
type InstanceDTO struct {
	Name              string `json:"name"`
	WarehouseCapacity int    `json:"warehouse_capacity"`
	Drivers           int    `json:"drivers"`
	Horizon           int64  `json:"horizon"`
	Items             int    `json:"items"`
	Transporters      int    `json:"transporters"`
	Stations          int    `json:"stations"`
	Orders            int    `json:"orders"`
}

// InstanceDetailDTO adds the order backlog to the summary.
type InstanceDetailDTO struct {
	InstanceDTO
	OrderList []OrderDTO `json:"order_list"`
}

// OrderDTO represents one backlog order.
type OrderDTO struct {
	ID         string `json:"id"`
	Item       string `json:"item"`
	Amount     int    `json:"amount"`
	Income     string `json:"income"`
	TravelTime int64  `json:"travel_time"`
}

func toInstanceDTO(in *dataset.Instance) InstanceDTO {
	return InstanceDTO{
		Name:              in.Name,
		WarehouseCapacity: in.WarehouseCapacity,
		Drivers:           in.Drivers,
		Horizon:           int64(in.Horizon),
		Items:             len(in.Items),
		Transporters:      len(in.Transporters),
		Stations:          len(in.Stations),
		Orders:            len(in.Orders),
	}
}

func toOrderDTOs(orders []*factory.Order) []OrderDTO {
	out := make([]OrderDTO, len(orders))
	for i, o := range orders {
		out[i] = OrderDTO{
			ID:         o.ID,
			Item:       o.Item.Name,
			Amount:     o.Amount,
			Income:     o.Income.String(),
			TravelTime: int64(o.TravelTime),
		}
	}
	return out
}

// =============================================================================
// PLAN TYPES
// =============================================================================

// PlanRequest asks for a step plan without running it.
type PlanRequest struct {
	Instance string `json:"instance"`
	Planner  string `json:"planner"`
	Orders   int    `json:"orders"`
}

// StepDTO represents one planned step.
type StepDTO struct {
	At       int64  `json:"at"`
	Kind     string `json:"kind"`
	Subject  string `json:"subject"`
	Amount   int    `json:"amount"`
	Resource string `json:"resource"`
}

// PlanResponse carries the plan and, for consolidating planners, the
// per-item demand attribution.
type PlanResponse struct {
	Instance    string                    `json:"instance"`
	Planner     string                    `json:"planner"`
	Steps       []StepDTO                 `json:"steps"`
	Attribution map[string]map[string]int `json:"attribution,omitempty"`
}

func toStepDTOs(steps []*factory.Step) []StepDTO {
	out := make([]StepDTO, len(steps))
	for i, s := range steps {
		out[i] = StepDTO{
			At:       int64(s.At),
			Kind:     string(s.Kind),
			Subject:  s.Subject(),
			Amount:   s.Amount,
			Resource: s.Resource.Name(),
		}
	}
	return out
}

// =============================================================================
// SIMULATION TYPES
// =============================================================================

// SimulateRequest asks for a plan-and-run experiment.
type SimulateRequest struct {
	Instance string `json:"instance"`
	Planner  string `json:"planner"`
	Orders   int    `json:"orders"`
	// Horizon 0 means the instance default.
	Horizon int64 `json:"horizon"`
	// WarehouseShortcut enables the engine's stock fast path.
	WarehouseShortcut bool `json:"warehouse_shortcut"`
	// EventCategory optionally filters the returned event log to one
	// category; empty returns no events.
	EventCategory string `json:"event_category"`
	EventFrom     int64  `json:"event_from"`
	EventTo       int64  `json:"event_to"`
}

// PositionDTO is one warehouse stock entry.
type PositionDTO struct {
	Item   string `json:"item"`
	Amount int    `json:"amount"`
}

// EventDTO is one simulation log entry.
type EventDTO struct {
	Time      int64  `json:"time"`
	Category  string `json:"category"`
	Source    string `json:"source"`
	Message   string `json:"message"`
	Completed bool   `json:"completed"`
}

// SimulateResponse reports the run outcome.
type SimulateResponse struct {
	RunID          string                    `json:"run_id"`
	Instance       string                    `json:"instance"`
	Planner        string                    `json:"planner"`
	Horizon        int64                     `json:"horizon"`
	FinalTime      int64                     `json:"final_time"`
	RemainingSteps int                       `json:"remaining_steps"`
	Income         string                    `json:"income"`
	Stock          []PositionDTO             `json:"stock"`
	Attribution    map[string]map[string]int `json:"attribution,omitempty"`
	Events         []EventDTO                `json:"events,omitempty"`
}

func toPositionDTOs(stock []factory.Position) []PositionDTO {
	out := make([]PositionDTO, len(stock))
	for i, p := range stock {
		out[i] = PositionDTO{Item: p.Item.Name, Amount: p.Amount}
	}
	return out
}

func toEventDTOs(events []factory.Event) []EventDTO {
	out := make([]EventDTO, len(events))
	for i, e := range events {
		out[i] = EventDTO{
			Time:      int64(e.Time),
			Category:  string(e.Category),
			Source:    e.Source,
			Message:   e.Message,
			Completed: e.Completed,
		}
	}
	return out
}

// =============================================================================
// RUN HISTORY TYPES
// =============================================================================

// RunDTO represents one archived run.
type RunDTO struct {
	ID             string `json:"id"`
	CreatedAt      string `json:"created_at"`
	Instance       string `json:"instance"`
	Planner        string `json:"planner"`
	Orders         int    `json:"orders"`
	Horizon        int64  `json:"horizon"`
	Shortcut       bool   `json:"shortcut"`
	FinalTime      int64  `json:"final_time"`
	RemainingSteps int    `json:"remaining_steps"`
	Income         string `json:"income"`
}

func toRunDTO(rec store.RunRecord) RunDTO {
	return RunDTO{
		ID:             rec.ID,
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
		Instance:       rec.Instance,
		Planner:        rec.Planner,
		Orders:         rec.Orders,
		Horizon:        rec.Horizon,
		Shortcut:       rec.Shortcut,
		FinalTime:      rec.FinalTime,
		RemainingSteps: rec.RemainingSteps,
		Income:         rec.Income.String(),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

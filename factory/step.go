/*
step.go - Planned work units and the resources performing them

PURPOSE:
  A Step is one planned operation: at a scheduled time, a named
  resource should perform one operation kind on an item or an order.
  Steps form a dependency DAG; a step only becomes eligible once all
  its predecessors completed. Planners build steps, the engine
  attempts them.

EXECUTION CONTRACT:
  Performing a step is an ATTEMPT. Resources answer true (done) or
  false (preconditions not met, try again later); the engine keeps
  unfinished steps pending. Steps themselves are inert data plus a
  completion flag.

SEE ALSO:
  - simulation.go: the loop attempting steps
  - transporter.go, station.go: the Perform implementations
*/
package factory

import "fmt"

// =============================================================================
// OPERATION KINDS
// =============================================================================

// StepKind names the operation a step asks its resource to perform.
type StepKind string

const (
	// Transporter operations.
	AcquireFromSupplier    StepKind = "acquire_from_supplier"
	DeliverToWarehouse     StepKind = "deliver_to_warehouse"
	DeliverOrderToCustomer StepKind = "deliver_order_to_customer"
	CloseOrder             StepKind = "close_order"

	// Station operations.
	LoadInputBuffer       StepKind = "load_input_buffer"
	Produce               StepKind = "produce"
	UnloadToOutputBuffer  StepKind = "unload_to_output_buffer"
	MoveOutputToWarehouse StepKind = "move_output_to_warehouse"
)

// OrderKind reports whether the kind operates on an order rather than
// a catalog item.
func (k StepKind) OrderKind() bool {
	return k == DeliverOrderToCustomer || k == CloseOrder
}

// =============================================================================
// PERFORMER
// =============================================================================

// Performer is a plant resource able to attempt steps: transporters
// and stations. A false return means "not now", never "never".
type Performer interface {
	// Name identifies the resource within its plant.
	Name() string
	// Category classifies the resource's events.
	Category() Category
	// BlockedUntil is the tick up to which the resource refuses work.
	BlockedUntil() Tick
	// Perform attempts the step at the given time.
	Perform(now Tick, s *Step) bool
	// Reset restores the initial idle state.
	Reset()
}

// =============================================================================
// STEP
// =============================================================================

// Step is one planned operation. Build steps with NewStep so the
// structural invariants hold; the engine relies on them.
type Step struct {
	// At is the earliest tick the step may be attempted.
	At Tick
	// Kind is the operation to perform.
	Kind StepKind
	// Item is the subject for item kinds, nil for order kinds.
	Item *Item
	// Order is the subject for order kinds, nil for item kinds.
	Order *Order
	// Amount is the quantity the operation moves or produces.
	Amount int
	// Resource performs the step.
	Resource Performer
	// DependsOn lists steps that must complete first.
	DependsOn []*Step

	done bool
}

// NewStep validates and builds a step for an item operation.
func NewStep(at Tick, kind StepKind, it *Item, amount int, r Performer, deps ...*Step) (*Step, error) {
	if kind.OrderKind() {
		return nil, configErr("step", string(kind), ErrInvalidStep)
	}
	if it == nil || amount <= 0 || r == nil {
		return nil, configErr("step", string(kind), ErrInvalidStep)
	}
	return &Step{At: at, Kind: kind, Item: it, Amount: amount, Resource: r, DependsOn: deps}, nil
}

// NewOrderStep validates and builds a step for an order operation.
func NewOrderStep(at Tick, kind StepKind, o *Order, amount int, r Performer, deps ...*Step) (*Step, error) {
	if !kind.OrderKind() {
		return nil, configErr("step", string(kind), ErrInvalidStep)
	}
	if o == nil || amount <= 0 || r == nil {
		return nil, configErr("step", string(kind), ErrInvalidStep)
	}
	return &Step{At: at, Kind: kind, Order: o, Amount: amount, Resource: r, DependsOn: deps}, nil
}

// Done reports whether the step completed.
func (s *Step) Done() bool { return s.done }

// Ready reports whether every predecessor completed.
func (s *Step) Ready() bool {
	for _, d := range s.DependsOn {
		if !d.done {
			return false
		}
	}
	return true
}

// Subject names what the step operates on.
func (s *Step) Subject() string {
	if s.Order != nil {
		return s.Order.ID
	}
	return s.Item.Name
}

func (s *Step) String() string {
	return fmt.Sprintf("%s %d x %s on %s @ %d",
		s.Kind, s.Amount, s.Subject(), s.Resource.Name(), s.At)
}

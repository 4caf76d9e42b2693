/*
planner.go - Shared planning primitives

PURPOSE:
  Both planners turn an order backlog into a step list for the
  discrete-event engine. This file holds what they share: the Plan
  result type, demand attribution bookkeeping, earliest-free resource
  slots and the supplier acquisition splitter.

EARLIEST-FREE ASSIGNMENT:
  Planners never inspect live resource state; they keep their own
  occupancy counter per resource, seeded at zero. A task picks the
  eligible resource with the smallest counter (ties broken by plant
  iteration order) and advances it by the task duration. The engine
  later enforces reality; the counters are just a placement heuristic.

SEE ALSO:
  - fcfs.go: per-order first-come-first-serve planner
  - depth.go: consolidating depth planner
*/
package planner

import (
	"github.com/warp/logistics-engine/factory"
)

// =============================================================================
// PLAN
// =============================================================================

// Plan is a planner's output: an ordered step list ready for the
// engine, plus (for consolidating planners) the demand attribution
// per item and order.
type Plan struct {
	Steps []*factory.Step
	// Attribution maps item name -> order ID -> units of the
	// consolidated production attributed to that order. Nil for
	// planners that do not consolidate across orders.
	Attribution Attribution
}

// Planner builds a plan for the first count orders of a plant's
// backlog.
type Planner interface {
	Name() string
	Plan(count int) (*Plan, error)
}

// Attribution tracks which orders a consolidated production amount
// serves: item name -> order ID -> units.
type Attribution map[string]map[string]int

func (a Attribution) add(item, orderID string, units int) {
	m, ok := a[item]
	if !ok {
		m = make(map[string]int)
		a[item] = m
	}
	m[orderID] += units
}

// Produced returns the total units of an item attributed across all
// orders.
func (a Attribution) Produced(item string) int {
	n := 0
	for _, units := range a[item] {
		n += units
	}
	return n
}

// =============================================================================
// EARLIEST-FREE SLOTS
// =============================================================================

// transporterSlot pairs a transporter with its planning occupancy.
type transporterSlot struct {
	t    *factory.Transporter
	busy factory.Tick
	last *factory.Step // tail of this transporter's step chain
}

func newTransporterSlots(ts []*factory.Transporter) []*transporterSlot {
	out := make([]*transporterSlot, len(ts))
	for i, t := range ts {
		out[i] = &transporterSlot{t: t}
	}
	return out
}

// earliestEligibleForItem returns the least-occupied slot whose
// transporter may carry the item, or nil.
func earliestEligibleForItem(slots []*transporterSlot, it *factory.Item) *transporterSlot {
	var best *transporterSlot
	for _, s := range slots {
		if !s.t.EligibleForItem(it) {
			continue
		}
		if best == nil || s.busy < best.busy {
			best = s
		}
	}
	return best
}

// earliestEligibleForOrder returns the least-occupied slot whose
// transporter may deliver the order, or nil.
func earliestEligibleForOrder(slots []*transporterSlot, o *factory.Order) *transporterSlot {
	var best *transporterSlot
	for _, s := range slots {
		if !s.t.EligibleForOrder(o) {
			continue
		}
		if best == nil || s.busy < best.busy {
			best = s
		}
	}
	return best
}

// stationSlot pairs a station with its planning occupancy.
type stationSlot struct {
	st   *factory.Station
	busy factory.Tick
	last *factory.Step // tail of this station's step chain
}

func newStationSlots(sts []*factory.Station) []*stationSlot {
	out := make([]*stationSlot, len(sts))
	for i, st := range sts {
		out[i] = &stationSlot{st: st}
	}
	return out
}

// earliestRunnable returns the least-occupied slot able to run the
// process, or nil.
func earliestRunnable(slots []*stationSlot, p *factory.Process) *stationSlot {
	var best *stationSlot
	for _, s := range slots {
		if !s.st.CanRun(p) {
			continue
		}
		if best == nil || s.busy < best.busy {
			best = s
		}
	}
	return best
}

// =============================================================================
// ACQUISITION SPLITTER
// =============================================================================

// acquireSupplied plans supplier round trips covering the position,
// split into transporter-capacity chunks on earliest-free eligible
// transporters. Every chunk is an acquire step followed by a
// dependent deliver step; chunks on the same transporter chain so the
// on-board slot is free before the next trip. Returns the steps in
// plan order and the deliver steps separately (downstream work
// depends on the latter).
func acquireSupplied(slots []*transporterSlot, pos factory.Position, at factory.Tick) ([]*factory.Step, []*factory.Step, error) {
	var all, delivers []*factory.Step
	remaining := pos.Amount
	for remaining > 0 {
		slot := earliestEligibleForItem(slots, pos.Item)
		if slot == nil {
			return nil, nil, &factory.PlanError{OrderID: pos.Item.Name, Err: factory.ErrNoEligibleTransporter}
		}
		n := remaining
		if n > slot.t.Capacity() {
			n = slot.t.Capacity()
		}

		var deps []*factory.Step
		if slot.last != nil {
			deps = append(deps, slot.last)
		}
		acquire, err := factory.NewStep(at, factory.AcquireFromSupplier, pos.Item, n, slot.t, deps...)
		if err != nil {
			return nil, nil, err
		}
		deliver, err := factory.NewStep(at, factory.DeliverToWarehouse, pos.Item, n, slot.t, acquire)
		if err != nil {
			return nil, nil, err
		}
		slot.busy += pos.Item.TravelTime
		slot.last = deliver
		all = append(all, acquire, deliver)
		delivers = append(delivers, deliver)
		remaining -= n
	}
	return all, delivers, nil
}

// =============================================================================
// ORDER DELIVERY
// =============================================================================

// deliverAndClose plans the customer deliveries covering the order,
// split into transporter-capacity chunks on earliest-free eligible
// transporters, followed by the closing step. Every delivery depends
// on deps (typically the steps putting the goods into the warehouse).
func deliverAndClose(slots []*transporterSlot, o *factory.Order, at factory.Tick, deps []*factory.Step) ([]*factory.Step, error) {
	var steps, delivers []*factory.Step
	var lastSlot *transporterSlot
	remaining := o.Amount
	for remaining > 0 {
		slot := earliestEligibleForOrder(slots, o)
		if slot == nil {
			return nil, &factory.PlanError{OrderID: o.ID, Err: factory.ErrNoEligibleTransporter}
		}
		n := remaining
		if n > slot.t.Capacity() {
			n = slot.t.Capacity()
		}

		d := append([]*factory.Step{}, deps...)
		if slot.last != nil {
			d = append(d, slot.last)
		}
		deliver, err := factory.NewOrderStep(at, factory.DeliverOrderToCustomer, o, n, slot.t, d...)
		if err != nil {
			return nil, err
		}
		slot.busy += o.TravelTime
		slot.last = deliver
		lastSlot = slot
		steps = append(steps, deliver)
		delivers = append(delivers, deliver)
		remaining -= n
	}

	closing, err := factory.NewOrderStep(at, factory.CloseOrder, o, o.Amount, lastSlot.t, delivers...)
	if err != nil {
		return nil, err
	}
	return append(steps, closing), nil
}

/*
simulation.go - Plant aggregate and discrete-event run loop

PURPOSE:
  The Plant owns everything a simulation needs: catalog, warehouse,
  transporters, stations, the driver pool, the order backlog with its
  per-run fulfilment state, accumulated income and the event log. Run
  executes a planned step list against it.

HOW THE LOOP WORKS:
  Time only moves when something can change. The engine keeps a sorted
  set of event times, seeded with tick 0. Each iteration advances to
  the smallest event time and attempts every pending step that is
  scheduled, has all predecessors completed and whose resource is not
  blocked. A successful step inserts resource.BlockedUntil()+1 as a
  new event time: the next moment that resource can act again.

  Within one event time, steps are attempted in a single pass in list
  order. A step attempted earlier in the pass is not retried when a
  later step completes; it waits for the next event time.

TERMINATION:
  The run ends when no steps remain, when the event set is exhausted,
  or when the next event time lies beyond the horizon. The result
  reports the final time and how many steps never completed; a partial
  run is a normal outcome, not an error.

SEE ALSO:
  - step.go: the step/performer contract
  - planner/: produces the step lists fed into Run
*/
package factory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PLANT
// =============================================================================

// Plant is one simulated site: catalog, warehouse, resources, driver
// pool and order backlog.
type Plant struct {
	name    string
	catalog *Catalog

	warehouse    *Warehouse
	transporters []*Transporter
	stations     []*Station
	drivers      []*Driver

	orders    []*Order
	remaining map[*Order]int

	now    Tick
	income decimal.Decimal
	events *EventLog
}

// NewPlant wires a plant from its parts. Orders must reference
// catalog items; violations are configuration errors.
func NewPlant(name string, catalog *Catalog, warehouseCapacity, drivers int,
	transporters []*Transporter, stations []*Station, orders []*Order) (*Plant, error) {

	p := &Plant{
		name:         name,
		catalog:      catalog,
		transporters: transporters,
		stations:     stations,
		orders:       orders,
		income:       decimal.Zero,
		events:       NewEventLog(),
	}
	p.warehouse = NewWarehouse(name+"-warehouse", warehouseCapacity, p.events)

	for i := 0; i < drivers; i++ {
		p.drivers = append(p.drivers, NewDriver(fmt.Sprintf("driver-%d", i+1)))
	}

	for _, o := range orders {
		if _, ok := catalog.Item(o.Item.Name); !ok {
			return nil, configErr("order", o.ID, ErrUnknownItem)
		}
	}
	for _, t := range transporters {
		t.plant = p
	}
	for _, s := range stations {
		s.plant = p
	}

	p.remaining = make(map[*Order]int, len(orders))
	for _, o := range orders {
		p.remaining[o] = o.Amount
	}
	return p, nil
}

func (p *Plant) Name() string                 { return p.name }
func (p *Plant) Catalog() *Catalog            { return p.catalog }
func (p *Plant) Warehouse() *Warehouse        { return p.warehouse }
func (p *Plant) Transporters() []*Transporter { return p.transporters }
func (p *Plant) Stations() []*Station         { return p.stations }
func (p *Plant) Drivers() []*Driver           { return p.drivers }
func (p *Plant) Orders() []*Order             { return p.orders }
func (p *Plant) Events() *EventLog            { return p.events }

// Now returns the current simulation time.
func (p *Plant) Now() Tick { return p.now }

// Income returns the income credited by closed orders so far.
func (p *Plant) Income() decimal.Decimal { return p.income }

// Remaining returns the undelivered units of an order in the current
// run.
func (p *Plant) Remaining(o *Order) int { return p.remaining[o] }

// Reset restores the initial state: empty warehouse, idle resources,
// full order backlog, zero income, empty event log. Steps are not
// touched; plan afresh after a reset.
func (p *Plant) Reset() {
	p.now = 0
	p.income = decimal.Zero
	p.warehouse.Reset()
	for _, t := range p.transporters {
		t.Reset()
	}
	for _, s := range p.stations {
		s.Reset()
	}
	for _, d := range p.drivers {
		d.Reset()
	}
	for _, o := range p.orders {
		p.remaining[o] = o.Amount
	}
	p.events.Reset()
}

// claimDriver returns the first driver free at the given time, or nil.
func (p *Plant) claimDriver(now Tick) *Driver {
	for _, d := range p.drivers {
		if d.Free(now) {
			return d
		}
	}
	return nil
}

// deliverToOrder books delivered units against the order backlog.
// Never drops below zero.
func (p *Plant) deliverToOrder(o *Order, amount int) {
	r := p.remaining[o] - amount
	if r < 0 {
		r = 0
	}
	p.remaining[o] = r
}

func (p *Plant) creditIncome(o *Order) {
	p.income = p.income.Add(o.Income)
}

func (p *Plant) emitDriver(now Tick, d *Driver, msg string) {
	p.events.Emit(Event{
		Time:      now,
		Category:  CategoryDriver,
		Source:    d.Name(),
		Message:   msg,
		Completed: true,
	})
}

// =============================================================================
// RUN
// =============================================================================

// RunResult summarizes one simulation run. RemainingSteps > 0 means
// the plan did not finish before the run ended.
type RunResult struct {
	FinalTime      Tick
	RemainingSteps int
	Income         decimal.Decimal
}

type runOptions struct {
	shortcut bool
}

// RunOption configures a single Run call.
type RunOption func(*runOptions)

// WithWarehouseShortcut lets the run complete a step without
// performing it when the step's item already sits in the warehouse in
// sufficient amount. Off by default: it changes which resources do
// work and exists for replaying plans against pre-stocked warehouses.
func WithWarehouseShortcut() RunOption {
	return func(o *runOptions) { o.shortcut = true }
}

// Run executes the step list until the plan finishes, the event set
// is exhausted or the horizon is reached. Steps must reference
// resources of this plant and are single-use; completed flags are not
// reset between runs.
func (p *Plant) Run(steps []*Step, horizon Tick, opts ...RunOption) (RunResult, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := p.checkSteps(steps); err != nil {
		return RunResult{}, err
	}

	var shadow *Warehouse
	if o.shortcut {
		shadow = p.warehouse.clone()
	}

	pending := make([]*Step, 0, len(steps))
	for _, s := range steps {
		if !s.done {
			pending = append(pending, s)
		}
	}

	// Seed with tick 0 plus every scheduled time, so a step planned
	// for a quiet moment still gets its attempt.
	var times tickQueue
	times.push(0)
	for _, s := range pending {
		times.push(s.At)
	}

	for {
		t, ok := times.min()
		if !ok {
			break
		}
		if t > horizon {
			break
		}
		p.now = t

		// One pass over a snapshot; completion flags are live, so a
		// step later in list order sees predecessors completed earlier
		// in the same pass.
		pass := make([]*Step, len(pending))
		copy(pass, pending)
		for _, s := range pass {
			if s.done || s.At > p.now || !s.Ready() {
				continue
			}
			if shadow != nil && p.shortcutDone(s, shadow) {
				s.done = true
				pending = removeStep(pending, s)
				continue
			}
			if !p.attempt(s) {
				continue
			}
			s.done = true
			pending = removeStep(pending, s)
			// The next moment this resource can act again. Operations
			// that leave the resource unblocked just wake the loop at
			// the following tick.
			next := s.Resource.BlockedUntil() + 1
			if next <= p.now {
				next = p.now + 1
			}
			times.push(next)
		}

		// The consumed event time leaves the set after the pass, even
		// if nothing fired at it.
		times.remove(t)

		if len(pending) == 0 {
			break
		}
	}

	res := RunResult{FinalTime: p.now, RemainingSteps: len(pending), Income: p.income}
	p.emitSummary(res)
	return res, nil
}

// checkSteps verifies every step resource belongs to this plant.
func (p *Plant) checkSteps(steps []*Step) error {
	owned := make(map[Performer]bool, len(p.transporters)+len(p.stations))
	for _, t := range p.transporters {
		owned[t] = true
	}
	for _, s := range p.stations {
		owned[s] = true
	}
	for _, s := range steps {
		if !owned[s.Resource] {
			return configErr("step", s.String(), ErrUnknownResource)
		}
	}
	return nil
}

// attempt tries one step: blocked resources refuse immediately,
// otherwise the resource decides. Every attempt is logged.
func (p *Plant) attempt(s *Step) bool {
	r := s.Resource
	if p.now < r.BlockedUntil() {
		p.events.Emit(Event{
			Time:      p.now,
			Category:  CategoryStep,
			Source:    r.Name(),
			Message:   fmt.Sprintf("%s %s: resource blocked until %d", s.Kind, s.Subject(), r.BlockedUntil()),
			Completed: false,
		})
		return false
	}
	ok := r.Perform(p.now, s)
	p.events.Emit(Event{
		Time:      p.now,
		Category:  CategoryStep,
		Source:    r.Name(),
		Message:   fmt.Sprintf("%s %d x %s", s.Kind, s.Amount, s.Subject()),
		Completed: ok,
	})
	return ok
}

// shortcutDone completes item steps whose goods already sit in the
// warehouse. The shadow copy tracks what existing stock has been
// claimed; only the kinds that would have delivered into the
// warehouse consume the claim, the intermediate kinds of the same
// chain ride along.
func (p *Plant) shortcutDone(s *Step, shadow *Warehouse) bool {
	if s.Kind.OrderKind() {
		return false
	}
	if !shadow.Available(s.Item, s.Amount) {
		return false
	}
	if s.Kind == DeliverToWarehouse || s.Kind == MoveOutputToWarehouse {
		shadow.Remove(p.now, s.Item, s.Amount)
	}
	p.events.Emit(Event{
		Time:      p.now,
		Category:  CategoryStep,
		Source:    s.Resource.Name(),
		Message:   fmt.Sprintf("%s %d x %s satisfied from stock", s.Kind, s.Amount, s.Item.Name),
		Completed: true,
	})
	return true
}

func (p *Plant) emitSummary(res RunResult) {
	stock := p.warehouse.Snapshot()
	msg := fmt.Sprintf("run finished at %d: %d steps remaining, income %s, %d items in stock",
		res.FinalTime, res.RemainingSteps, res.Income.String(), len(stock))
	for _, pos := range stock {
		msg += fmt.Sprintf("; %d x %s", pos.Amount, pos.Item.Name)
	}
	p.events.Emit(Event{
		Time:      p.now,
		Category:  CategorySimulation,
		Source:    p.name,
		Message:   msg,
		Completed: res.RemainingSteps == 0,
	})
}

func removeStep(steps []*Step, s *Step) []*Step {
	for i, x := range steps {
		if x == s {
			return append(steps[:i], steps[i+1:]...)
		}
	}
	return steps
}

// =============================================================================
// EVENT TIME QUEUE
// =============================================================================

// tickQueue is a sorted set of pending event times.
type tickQueue struct {
	ts []Tick
}

// push inserts t keeping the slice sorted and duplicate-free.
func (q *tickQueue) push(t Tick) {
	i := sort.Search(len(q.ts), func(i int) bool { return q.ts[i] >= t })
	if i < len(q.ts) && q.ts[i] == t {
		return
	}
	q.ts = append(q.ts, 0)
	copy(q.ts[i+1:], q.ts[i:])
	q.ts[i] = t
}

// min returns the smallest pending time without removing it.
func (q *tickQueue) min() (Tick, bool) {
	if len(q.ts) == 0 {
		return 0, false
	}
	return q.ts[0], true
}

// remove deletes t from the set if present.
func (q *tickQueue) remove(t Tick) {
	i := sort.Search(len(q.ts), func(i int) bool { return q.ts[i] >= t })
	if i < len(q.ts) && q.ts[i] == t {
		q.ts = append(q.ts[:i], q.ts[i+1:]...)
	}
}

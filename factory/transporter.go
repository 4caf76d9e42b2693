/*
transporter.go - Transporter resource

PURPOSE:
  Transporters move goods: supplier round trips into the warehouse and
  delivery trips to customers. A transporter has routing capabilities
  (area, type, engine) that must satisfy the route constraints of
  whatever it carries, a unit capacity per trip, and needs a free
  driver from the plant pool for every trip.

OPERATIONS:
  AcquireFromSupplier    - drive to the supplier and load the goods.
                           Blocks transporter and driver for the
                           item's travel time; the load is remembered
                           on board.
  DeliverToWarehouse     - unload the on-board goods into the
                           warehouse. Fails while nothing is on board
                           or the warehouse has no space.
  DeliverOrderToCustomer - take order units from the warehouse to the
                           customer. Needs a free driver, but only the
                           transporter is blocked for the trip.
  CloseOrder             - settle the order once nothing remains open;
                           credits the order income.

SEE ALSO:
  - driver.go: the pooled passive resource trips claim
  - warehouse.go: the ledger trips load from and unload into
*/
package factory

import "fmt"

// Transporter moves goods between suppliers, the warehouse and
// customers.
type Transporter struct {
	name     string
	area     string
	kind     string // transporter type matched against route type lists
	engine   string
	capacity int

	blockedUntil Tick
	loaded       *Position

	plant *Plant
}

// NewTransporter creates an idle transporter with the given
// capabilities.
func NewTransporter(name, area, kind, engine string, capacity int) *Transporter {
	return &Transporter{name: name, area: area, kind: kind, engine: engine, capacity: capacity}
}

func (t *Transporter) Name() string       { return t.name }
func (t *Transporter) Category() Category { return CategoryTransporter }
func (t *Transporter) BlockedUntil() Tick { return t.blockedUntil }
func (t *Transporter) Capacity() int      { return t.capacity }
func (t *Transporter) Kind() string       { return t.kind }

// Reset restores the idle, unloaded state.
func (t *Transporter) Reset() {
	t.blockedUntil = 0
	t.loaded = nil
}

// EligibleForItem reports whether the transporter satisfies the
// item's route constraints: exact area, engine unless wildcarded,
// acceptable type.
func (t *Transporter) EligibleForItem(it *Item) bool {
	return t.eligibleFor(it.Route)
}

// EligibleForOrder reports whether the transporter satisfies the
// order's route constraints.
func (t *Transporter) EligibleForOrder(o *Order) bool {
	return t.eligibleFor(o.Route)
}

func (t *Transporter) eligibleFor(r Route) bool {
	if r.Area != t.area {
		return false
	}
	if r.Engine != Wildcard && r.Engine != t.engine {
		return false
	}
	return r.AcceptsType(t.kind)
}

// Perform attempts one transport operation. A false return means a
// precondition was not met; the engine retries at a later event time.
func (t *Transporter) Perform(now Tick, s *Step) bool {
	switch s.Kind {
	case AcquireFromSupplier:
		return t.acquire(now, s)
	case DeliverToWarehouse:
		return t.deliverToWarehouse(now, s)
	case DeliverOrderToCustomer:
		return t.deliverOrder(now, s)
	case CloseOrder:
		return t.closeOrder(now, s)
	}
	t.emit(now, fmt.Sprintf("unsupported operation %s", s.Kind), false)
	return false
}

func (t *Transporter) acquire(now Tick, s *Step) bool {
	if !s.Item.Supplied() {
		t.emit(now, fmt.Sprintf("%s has no supplier", s.Item.Name), false)
		return false
	}
	if !t.EligibleForItem(s.Item) {
		t.emit(now, fmt.Sprintf("not eligible for %s", s.Item.Name), false)
		return false
	}
	if s.Amount > t.capacity {
		t.emit(now, fmt.Sprintf("%d x %s exceeds capacity %d", s.Amount, s.Item.Name, t.capacity), false)
		return false
	}
	d := t.plant.claimDriver(now)
	if d == nil {
		t.emit(now, "no free driver", false)
		return false
	}

	until := now + s.Item.TravelTime
	d.Block(until)
	t.blockedUntil = until
	t.loaded = &Position{Item: s.Item, Amount: s.Amount}
	t.plant.emitDriver(now, d, fmt.Sprintf("driving %s to supplier of %s until %d", t.name, s.Item.Name, until))
	t.emit(now, fmt.Sprintf("acquiring %d x %s, back at %d", s.Amount, s.Item.Name, until), true)
	return true
}

func (t *Transporter) deliverToWarehouse(now Tick, s *Step) bool {
	if t.loaded == nil || t.loaded.Item != s.Item {
		t.emit(now, fmt.Sprintf("nothing of %s on board", s.Item.Name), false)
		return false
	}
	if !t.plant.Warehouse().Add(now, *t.loaded) {
		t.emit(now, fmt.Sprintf("warehouse rejected %d x %s", t.loaded.Amount, s.Item.Name), false)
		return false
	}
	t.emit(now, fmt.Sprintf("unloaded %d x %s into warehouse", t.loaded.Amount, s.Item.Name), true)
	t.loaded = nil
	return true
}

func (t *Transporter) deliverOrder(now Tick, s *Step) bool {
	o := s.Order
	if !t.EligibleForOrder(o) {
		t.emit(now, fmt.Sprintf("not eligible for order %s", o.ID), false)
		return false
	}
	if s.Amount > t.capacity {
		t.emit(now, fmt.Sprintf("%d x %s exceeds capacity %d", s.Amount, o.Item.Name, t.capacity), false)
		return false
	}
	if !t.plant.Warehouse().Available(o.Item, s.Amount) {
		t.emit(now, fmt.Sprintf("%d x %s not in stock", s.Amount, o.Item.Name), false)
		return false
	}
	d := t.plant.claimDriver(now)
	if d == nil {
		t.emit(now, "no free driver", false)
		return false
	}
	if _, ok := t.plant.Warehouse().Remove(now, o.Item, s.Amount); !ok {
		return false
	}

	// The driver rides along but is not blocked for the trip; only the
	// transporter is occupied. Matches the round-trip asymmetry of
	// supplier runs, where loading dominates.
	t.blockedUntil = now + o.TravelTime
	t.plant.deliverToOrder(o, s.Amount)
	t.plant.emitDriver(now, d, fmt.Sprintf("delivering %s for order %s", t.name, o.ID))
	t.emit(now, fmt.Sprintf("delivered %d x %s for order %s, back at %d",
		s.Amount, o.Item.Name, o.ID, t.blockedUntil), true)
	return true
}

func (t *Transporter) closeOrder(now Tick, s *Step) bool {
	o := s.Order
	remaining := t.plant.Remaining(o)
	if remaining > 0 {
		t.emit(now, fmt.Sprintf("order %s still open: %d x %s outstanding", o.ID, remaining, o.Item.Name), false)
		return false
	}
	t.plant.creditIncome(o)
	t.emit(now, fmt.Sprintf("closed order %s, income %s", o.ID, o.Income.String()), true)
	return true
}

func (t *Transporter) emit(now Tick, msg string, completed bool) {
	t.plant.events.Emit(Event{
		Time:      now,
		Category:  CategoryTransporter,
		Source:    t.name,
		Message:   msg,
		Completed: completed,
	})
}

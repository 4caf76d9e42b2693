/*
warehouse.go - Central stock ledger of a plant

PURPOSE:
  Tracks what is in stock, bounded by a single capacity measured in
  units across all items. Every mutation either fully succeeds or
  leaves the ledger untouched, and successful mutations emit stock
  change events.

INVARIANTS:
  - Total stock never exceeds capacity.
  - No entry with a zero or negative amount survives a mutation.
  - Failed mutations change nothing and emit a non-completed event.

SEE ALSO:
  - transporter.go: deliveries add stock, customer trips remove it
  - station.go: buffer loads remove stock, finished output adds it
*/
package factory

import "fmt"

// Warehouse is the capacity-bounded stock ledger. One per plant.
type Warehouse struct {
	name     string
	capacity int
	stock    []Position
	events   *EventLog
}

// NewWarehouse creates an empty warehouse with the given unit
// capacity.
func NewWarehouse(name string, capacity int, events *EventLog) *Warehouse {
	return &Warehouse{name: name, capacity: capacity, events: events}
}

func (w *Warehouse) Name() string  { return w.name }
func (w *Warehouse) Capacity() int { return w.capacity }

// TotalStock returns the number of units currently stored, over all
// items.
func (w *Warehouse) TotalStock() int {
	n := 0
	for _, p := range w.stock {
		n += p.Amount
	}
	return n
}

// SpaceFor reports whether n more units fit.
func (w *Warehouse) SpaceFor(n int) bool {
	return w.TotalStock()+n <= w.capacity
}

// Amount returns the stored units of one item.
func (w *Warehouse) Amount(it *Item) int {
	for _, p := range w.stock {
		if p.Item == it {
			return p.Amount
		}
	}
	return 0
}

// Available reports whether at least amount units of the item are in
// stock.
func (w *Warehouse) Available(it *Item, amount int) bool {
	return w.Amount(it) >= amount
}

// Add stores a position. Fails without side effects when the amount
// does not fit the remaining capacity. Same-item entries are merged.
func (w *Warehouse) Add(now Tick, pos Position) bool {
	if pos.Amount <= 0 {
		return false
	}
	if !w.SpaceFor(pos.Amount) {
		w.emit(now, fmt.Sprintf("no space for %d x %s (stock %d/%d)",
			pos.Amount, pos.Item.Name, w.TotalStock(), w.capacity), false)
		return false
	}
	for i := range w.stock {
		if w.stock[i].Item == pos.Item {
			w.stock[i].Amount += pos.Amount
			w.emitChange(now, pos.Item, +pos.Amount)
			return true
		}
	}
	w.stock = append(w.stock, pos)
	w.emitChange(now, pos.Item, +pos.Amount)
	return true
}

// Remove takes amount units of the item out of stock. Fails without
// side effects when less than amount is stored. Entries dropping to
// zero are deleted. Returns the removed position on success.
func (w *Warehouse) Remove(now Tick, it *Item, amount int) (Position, bool) {
	if amount <= 0 {
		return Position{}, false
	}
	for i := range w.stock {
		if w.stock[i].Item != it {
			continue
		}
		if w.stock[i].Amount < amount {
			break
		}
		w.stock[i].Amount -= amount
		if w.stock[i].Amount == 0 {
			w.stock = append(w.stock[:i], w.stock[i+1:]...)
		}
		w.emitChange(now, it, -amount)
		return Position{Item: it, Amount: amount}, true
	}
	w.emit(now, fmt.Sprintf("cannot remove %d x %s (stored %d)",
		amount, it.Name, w.Amount(it)), false)
	return Position{}, false
}

// Snapshot returns a copy of the current stock entries.
func (w *Warehouse) Snapshot() []Position {
	out := make([]Position, len(w.stock))
	copy(out, w.stock)
	return out
}

// Reset empties the warehouse.
func (w *Warehouse) Reset() {
	w.stock = nil
}

// clone returns a silent copy used by the engine's shortcut check.
// The copy shares no state and emits no events.
func (w *Warehouse) clone() *Warehouse {
	c := &Warehouse{name: w.name, capacity: w.capacity, events: nil}
	c.stock = w.Snapshot()
	return c
}

func (w *Warehouse) emit(now Tick, msg string, completed bool) {
	if w.events == nil {
		return
	}
	w.events.Emit(Event{
		Time:      now,
		Category:  CategoryWarehouse,
		Source:    w.name,
		Message:   msg,
		Completed: completed,
	})
}

func (w *Warehouse) emitChange(now Tick, it *Item, delta int) {
	if w.events == nil {
		return
	}
	verb := "added"
	n := delta
	if delta < 0 {
		verb = "removed"
		n = -delta
	}
	w.events.Emit(Event{
		Time:      now,
		Category:  CategoryStockChange,
		Source:    w.name,
		Message:   fmt.Sprintf("%s %d x %s, stock now %d", verb, n, it.Name, w.Amount(it)),
		Completed: true,
	})
}

/*
events.go - Structured event stream of a simulation run

PURPOSE:
  Every observable thing that happens during a run (an operation
  attempted, a resource blocked, a stock level changed) is emitted as
  an Event. Events carry structured fields; rendering them is the
  caller's problem. Nothing in this package prints.

HOW IT WORKS:
  The plant owns one EventLog. Operations emit into it; the log keeps
  an in-order buffer and forwards each event to any sinks subscribed
  to its category. The CLI subscribes a printer, tests subscribe
  collectors, the API reads the buffer after the run.

  The engine is single-goroutine by design, so the log does no
  locking. Subscribe before the run starts, read after it finishes.

SEE ALSO:
  - simulation.go: run loop emitting step and summary events
  - warehouse.go: stock change events
*/
package factory

import "fmt"

// =============================================================================
// CATEGORIES
// =============================================================================

// Category classifies an event by its source.
type Category string

const (
	CategoryDriver      Category = "driver"
	CategoryStation     Category = "station"
	CategoryTransporter Category = "transporter"
	CategoryWarehouse   Category = "warehouse"
	CategoryStockChange Category = "stock"
	CategoryStep        Category = "step"
	CategorySimulation  Category = "simulation"
)

// Categories lists every event category, in emission-source order.
func Categories() []Category {
	return []Category{
		CategoryDriver,
		CategoryStation,
		CategoryTransporter,
		CategoryWarehouse,
		CategoryStockChange,
		CategoryStep,
		CategorySimulation,
	}
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is one structured log entry of a simulation run.
type Event struct {
	// Time is the simulation tick the event happened at.
	Time Tick
	// Category classifies the source.
	Category Category
	// Source names the emitting resource (or "engine").
	Source string
	// Message is a human-readable description.
	Message string
	// Completed is true for successful operation attempts, false for
	// precondition failures and blocks.
	Completed bool
}

func (e Event) String() string {
	status := "ok"
	if !e.Completed {
		status = "blocked"
	}
	return fmt.Sprintf("[%6d] %-11s %-14s %-7s %s",
		e.Time, e.Category, e.Source, status, e.Message)
}

// Sink receives events of a subscribed category as they are emitted.
type Sink func(Event)

// =============================================================================
// EVENT LOG
// =============================================================================

// EventLog buffers events in emission order and fans them out to
// per-category sinks. Not safe for concurrent use; the engine is
// single-goroutine.
type EventLog struct {
	events []Event
	sinks  map[Category][]Sink
}

// NewEventLog returns an empty log with no sinks.
func NewEventLog() *EventLog {
	return &EventLog{sinks: make(map[Category][]Sink)}
}

// Subscribe registers a sink for one category. Subscribing during a
// run is allowed but the sink only sees events from then on.
func (l *EventLog) Subscribe(c Category, s Sink) {
	l.sinks[c] = append(l.sinks[c], s)
}

// SubscribeAll registers a sink for every category.
func (l *EventLog) SubscribeAll(s Sink) {
	for _, c := range Categories() {
		l.Subscribe(c, s)
	}
}

// Emit appends the event to the buffer and notifies sinks.
func (l *EventLog) Emit(e Event) {
	l.events = append(l.events, e)
	for _, s := range l.sinks[e.Category] {
		s(e)
	}
}

// Events returns the buffered events in emission order. The slice is
// shared; callers must not mutate it.
func (l *EventLog) Events() []Event {
	return l.events
}

// Between returns buffered events with from <= Time <= to, preserving
// emission order.
func (l *EventLog) Between(from, to Tick) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Time >= from && e.Time <= to {
			out = append(out, e)
		}
	}
	return out
}

// ByCategory returns buffered events of one category, preserving
// emission order.
func (l *EventLog) ByCategory(c Category) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops the buffer. Sinks stay subscribed.
func (l *EventLog) Reset() {
	l.events = nil
}

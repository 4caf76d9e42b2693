/*
types.go - Core value types of the logistics domain

PURPOSE:
  Defines the vocabulary shared by every other file in this package:
  simulation time, catalog items, bills of material, orders and the
  routing constraints that decide which transporter may carry what.

KEY CONCEPTS:
  - Tick: discrete simulation time. The engine never looks at wall
    clocks; everything is expressed in ticks since simulation start.
  - Item: a catalog entry. Supplied items (materials) are bought from
    an external supplier; produced items (products) come out of a
    station. One type covers both, discriminated by Kind.
  - Position: (item, amount) pair. The unit of warehouse bookkeeping,
    buffer contents and BOM lines.
  - Route: the constraints a transporter must satisfy to be allowed to
    carry an item or serve an order (area, engine, transport types).
  - Order: customer demand for a produced item with income attached.

SEE ALSO:
  - catalog.go: process graph built on top of Item/Position
  - transporter.go: Route matching against transporter capabilities
*/
package factory

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME
// =============================================================================

// Tick is a discrete simulation time step. Tick 0 is simulation start.
type Tick int64

// =============================================================================
// ITEMS
// =============================================================================

// ItemKind discriminates supplied materials from produced items.
type ItemKind string

const (
	// KindMaterial is acquired from an external supplier.
	KindMaterial ItemKind = "material"
	// KindProduct is produced on a station from a bill of material.
	KindProduct ItemKind = "product"
)

// Wildcard relaxes a routing constraint. An item whose engine is the
// wildcard accepts any engine; a type list starting with the wildcard
// accepts any transporter type.
const Wildcard = "x"

// Route describes the transport constraints attached to an item or an
// order: which area it sits in, which loading engine is required and
// which transporter types may carry it.
type Route struct {
	// Area must match the transporter's area exactly.
	Area string
	// Engine must match the transporter's engine, unless it is the
	// Wildcard.
	Engine string
	// Types lists acceptable transporter types. A list whose first
	// entry is the Wildcard accepts every type.
	Types []string
}

// AcceptsType reports whether the route allows the given transporter
// type.
func (r Route) AcceptsType(t string) bool {
	if len(r.Types) > 0 && r.Types[0] == Wildcard {
		return true
	}
	for _, rt := range r.Types {
		if rt == t {
			return true
		}
	}
	return false
}

// Item is a catalog entry: either a supplied material or a produced
// item. Items are immutable after catalog construction and shared by
// pointer; identity is the Name.
type Item struct {
	// Name identifies the item. Unique within a catalog.
	Name string
	// Kind tells materials and products apart.
	Kind ItemKind

	// Route constrains which transporters may carry the item.
	// Meaningful for supplied items only.
	Route Route
	// TravelTime is the round-trip time to the supplier, in ticks.
	// Meaningful for supplied items only.
	TravelTime Tick

	// AssemblyTime is the hands-on assembly effort one production run
	// costs a station, charged against the station's assembly budget.
	// Meaningful for produced items only.
	AssemblyTime Tick
}

// Supplied reports whether the item is acquired from a supplier
// rather than produced.
func (i *Item) Supplied() bool { return i.Kind == KindMaterial }

// =============================================================================
// POSITIONS
// =============================================================================

// Position is an (item, amount) pair: a warehouse entry, a buffer
// entry or a BOM line.
type Position struct {
	Item   *Item
	Amount int
}

// =============================================================================
// ORDERS
// =============================================================================

// Order is customer demand for a produced item. Orders are immutable
// inputs; per-run fulfilment progress lives in the engine's working
// state, never here.
type Order struct {
	// ID identifies the order.
	ID string
	// Item is the ordered product.
	Item *Item
	// Amount is the ordered quantity in units.
	Amount int
	// Income is credited when the order is closed.
	Income decimal.Decimal
	// TravelTime is the delivery trip time to the customer, in ticks.
	TravelTime Tick
	// Route constrains which transporters may deliver the order. An
	// order carries exactly one acceptable transporter type (or the
	// wildcard).
	Route Route
}

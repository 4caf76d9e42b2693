/*
errors.go - Central error definitions for the factory package

PURPOSE:
  All sentinel errors and structured error types used across the
  package live here, so callers have one import for errors.Is/As
  checks.

ERROR PHILOSOPHY:
  Errors are for configuration problems: unknown items, cyclic process
  graphs, steps referencing resources that do not exist. They surface
  at catalog/plant/step construction time and fail fast.

  Runtime precondition failures during a simulation (no free driver,
  warehouse full, transporter still blocked) are NOT errors. They are
  `false` returns from an operation attempt, and the engine simply
  retries at a later event time. Mixing the two would force every
  attempt onto an error path that is taken thousands of times per run.

SEE ALSO:
  - catalog.go: construction-time validation
  - step.go: step construction errors
*/
package factory

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrUnknownItem - a name does not resolve to a catalog item.
	ErrUnknownItem = errors.New("unknown item")

	// ErrDuplicateItem - two catalog items share a name.
	ErrDuplicateItem = errors.New("duplicate item")

	// ErrNoProcess - a produced item has no process definition.
	ErrNoProcess = errors.New("no process for item")

	// ErrDuplicateProcess - two processes output the same item.
	ErrDuplicateProcess = errors.New("duplicate process for item")

	// ErrInvalidBatchSize - a process batch size is < 1.
	ErrInvalidBatchSize = errors.New("invalid batch size")

	// ErrCyclicProcess - the process graph contains a cycle.
	ErrCyclicProcess = errors.New("cyclic process graph")

	// ErrUnknownResource - a step references a resource the plant does
	// not own.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrInvalidStep - a step is structurally broken (nil resource,
	// neither item nor order, non-positive amount).
	ErrInvalidStep = errors.New("invalid step")

	// ErrNoEligibleTransporter - no transporter in the plant satisfies
	// an item's or order's route constraints.
	ErrNoEligibleTransporter = errors.New("no eligible transporter")

	// ErrNoEligibleStation - no station in the plant can run a process.
	ErrNoEligibleStation = errors.New("no eligible station")

	// ErrNoOrders - a planner was asked to plan zero orders.
	ErrNoOrders = errors.New("no orders to plan")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ConfigError reports an inconsistency in instance configuration:
// which entity, which name, and the underlying sentinel.
type ConfigError struct {
	Entity string // "item", "process", "order", "step", "resource"
	Name   string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Entity, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// PlanError reports that a planner could not build a feasible plan
// for an order.
type PlanError struct {
	OrderID string
	Err     error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("plan order %q: %v", e.OrderID, e.Err)
}

func (e *PlanError) Unwrap() error { return e.Err }

// =============================================================================
// HELPERS
// =============================================================================

// IsConfigError reports whether err stems from instance configuration
// rather than planning.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func configErr(entity, name string, err error) error {
	return &ConfigError{Entity: entity, Name: name, Err: err}
}

package planner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/logistics-engine/dataset"
	"github.com/warp/logistics-engine/factory"
	"github.com/warp/logistics-engine/planner"
)

func TestFCFS_SmallInstanceFulfillsOrder(t *testing.T) {
	// GIVEN: the minimal site with one order for 2 x P1, income 1000
	in := dataset.Small()
	plant, err := in.NewPlant()
	require.NoError(t, err)

	// WHEN: planning first-come-first-serve and simulating
	plan, err := planner.NewFCFS(plant).Plan(1)
	require.NoError(t, err)
	result, err := plant.Run(plan.Steps, in.Horizon)
	require.NoError(t, err)

	// THEN: the order completes well inside the horizon
	assert.Equal(t, 0, result.RemainingSteps)
	assert.LessOrEqual(t, result.FinalTime, factory.Tick(50))
	assert.True(t, result.Income.Equal(decimal.NewFromInt(1000)),
		"income %s", result.Income)
	assert.Equal(t, 0, plant.Remaining(in.Orders[0]))
}

func TestFCFS_PlanShape(t *testing.T) {
	// The small instance expands to one acquisition trip, two
	// production batches of four steps each, one delivery and one
	// close.
	in := dataset.Small()
	plant, err := in.NewPlant()
	require.NoError(t, err)

	plan, err := planner.NewFCFS(plant).Plan(1)
	require.NoError(t, err)

	require.Len(t, plan.Steps, 12)
	assert.Equal(t, factory.AcquireFromSupplier, plan.Steps[0].Kind)
	assert.Equal(t, factory.DeliverToWarehouse, plan.Steps[1].Kind)
	assert.Equal(t, factory.LoadInputBuffer, plan.Steps[2].Kind)
	assert.Equal(t, factory.CloseOrder, plan.Steps[11].Kind)
	assert.Nil(t, plan.Attribution, "fcfs does not consolidate demand")
}

func TestFCFS_TinyWarehouseStallsAtDelivery(t *testing.T) {
	// GIVEN: the same site with a one-unit warehouse
	in := dataset.Small()
	in.WarehouseCapacity = 1
	plant, err := in.NewPlant()
	require.NoError(t, err)

	plan, err := planner.NewFCFS(plant).Plan(1)
	require.NoError(t, err)

	// WHEN: simulating to the horizon
	result, err := plant.Run(plan.Steps, in.Horizon)
	require.NoError(t, err)

	// THEN: the material delivery never fits, the run ends incomplete
	// and no income is earned
	assert.Greater(t, result.RemainingSteps, 0)
	assert.True(t, result.Income.IsZero())
	assert.Equal(t, 2, plant.Remaining(in.Orders[0]))
}

func TestFCFS_NoEligibleTransporterFailsPlanning(t *testing.T) {
	in := dataset.Small()
	in.Transporters[0].Area = "B" // material M1 sits in area "A"
	plant, err := in.NewPlant()
	require.NoError(t, err)

	_, err = planner.NewFCFS(plant).Plan(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, factory.ErrNoEligibleTransporter)
}

func TestFCFS_ZeroOrdersRejected(t *testing.T) {
	in := dataset.Small()
	plant, err := in.NewPlant()
	require.NoError(t, err)

	_, err = planner.NewFCFS(plant).Plan(0)
	assert.ErrorIs(t, err, factory.ErrNoOrders)
}

func TestFCFS_SuppliedItemOrderSkipsProduction(t *testing.T) {
	// GIVEN: an order for the raw material itself
	in := dataset.Small()
	m1 := in.Items[0]
	require.True(t, m1.Supplied())
	in.Orders = []*factory.Order{{
		ID:         "O-RAW",
		Item:       m1,
		Amount:     3,
		Income:     decimal.NewFromInt(50),
		TravelTime: 5,
		Route:      factory.Route{Area: "A", Engine: factory.Wildcard, Types: []string{factory.Wildcard}},
	}}
	plant, err := in.NewPlant()
	require.NoError(t, err)

	plan, err := planner.NewFCFS(plant).Plan(1)
	require.NoError(t, err)
	for _, s := range plan.Steps {
		assert.NotEqual(t, factory.Produce, s.Kind)
	}

	result, err := plant.Run(plan.Steps, in.Horizon)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RemainingSteps)
	assert.True(t, result.Income.Equal(decimal.NewFromInt(50)))
}

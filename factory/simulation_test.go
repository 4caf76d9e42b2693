package factory_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/logistics-engine/factory"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type testPlant struct {
	plant       *factory.Plant
	m1, p1      *factory.Item
	transporter *factory.Transporter
	station     *factory.Station
	order       *factory.Order
}

// buildTestPlant wires the minimal site: M1 -> P1 (2 x M1, batch 1,
// duration 10), one transporter, one station, one driver, one order
// for 2 x P1.
func buildTestPlant(t *testing.T, warehouseCapacity, transporterCapacity int, area string) *testPlant {
	t.Helper()

	m1 := material("M1")
	p1 := product("P1", 2)
	cat, err := factory.NewCatalog(
		[]*factory.Item{m1, p1},
		[]*factory.Process{{
			Output:    p1,
			BatchSize: 1,
			Duration:  10,
			BOM:       []factory.Position{{Item: m1, Amount: 2}},
		}},
	)
	require.NoError(t, err)

	tr := factory.NewTransporter("truck-1", area, "truck", "diesel", transporterCapacity)
	st := factory.NewStation("station-1", "", 5, 5, 480)
	order := &factory.Order{
		ID:         "O1",
		Item:       p1,
		Amount:     2,
		Income:     decimal.NewFromInt(1000),
		TravelTime: 10,
		Route:      factory.Route{Area: "A", Engine: factory.Wildcard, Types: []string{factory.Wildcard}},
	}

	plant, err := factory.NewPlant("test", cat, warehouseCapacity, 1,
		[]*factory.Transporter{tr}, []*factory.Station{st}, []*factory.Order{order})
	require.NoError(t, err)

	return &testPlant{plant: plant, m1: m1, p1: p1, transporter: tr, station: st, order: order}
}

func mustStep(t *testing.T, at factory.Tick, kind factory.StepKind, it *factory.Item, amount int, r factory.Performer, deps ...*factory.Step) *factory.Step {
	t.Helper()
	s, err := factory.NewStep(at, kind, it, amount, r, deps...)
	require.NoError(t, err)
	return s
}

func mustOrderStep(t *testing.T, at factory.Tick, kind factory.StepKind, o *factory.Order, amount int, r factory.Performer, deps ...*factory.Step) *factory.Step {
	t.Helper()
	s, err := factory.NewOrderStep(at, kind, o, amount, r, deps...)
	require.NoError(t, err)
	return s
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

func TestRun_EligibilityGatesAcquisition(t *testing.T) {
	// GIVEN: a transporter based in area "B" and material in area "A"
	tp := buildTestPlant(t, 100, 5, "B")

	acquire := mustStep(t, 0, factory.AcquireFromSupplier, tp.m1, 4, tp.transporter)
	deliver := mustStep(t, 0, factory.DeliverToWarehouse, tp.m1, 4, tp.transporter, acquire)

	// WHEN: running the acquisition plan
	result, err := tp.plant.Run([]*factory.Step{acquire, deliver}, 100)
	require.NoError(t, err)

	// THEN: nothing ever succeeds, regardless of time
	assert.Equal(t, 2, result.RemainingSteps)
	assert.Equal(t, 0, tp.plant.Warehouse().TotalStock())
	assert.False(t, acquire.Done())
}

func TestRun_EligibilityGatesOrderDelivery(t *testing.T) {
	tp := buildTestPlant(t, 100, 5, "A")
	// Pre-stocked product; the order demands area "A" but the order
	// route below is forced to area "B".
	require.True(t, tp.plant.Warehouse().Add(0, factory.Position{Item: tp.p1, Amount: 2}))
	tp.order.Route.Area = "B"

	deliver := mustOrderStep(t, 0, factory.DeliverOrderToCustomer, tp.order, 2, tp.transporter)
	result, err := tp.plant.Run([]*factory.Step{deliver}, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, result.RemainingSteps)
	assert.Equal(t, 2, tp.plant.Remaining(tp.order))
}

// =============================================================================
// PRODUCTION BLOCKING
// =============================================================================

func TestProduce_BlockedUntilDoesNotCompound(t *testing.T) {
	// GIVEN: material for two production runs already in the warehouse
	tp := buildTestPlant(t, 100, 5, "A")
	require.True(t, tp.plant.Warehouse().Add(0, factory.Position{Item: tp.m1, Amount: 4}))

	st := tp.station
	load1 := mustStep(t, 0, factory.LoadInputBuffer, tp.p1, 1, st)
	produce1 := mustStep(t, 0, factory.Produce, tp.p1, 1, st, load1)
	unload1 := mustStep(t, 0, factory.UnloadToOutputBuffer, tp.p1, 1, st, produce1)
	load2 := mustStep(t, 0, factory.LoadInputBuffer, tp.p1, 1, st, unload1)
	produce2 := mustStep(t, 0, factory.Produce, tp.p1, 1, st, load2)

	// WHEN: running both production runs back to back
	result, err := tp.plant.Run([]*factory.Step{load1, produce1, unload1, load2, produce2}, 100)
	require.NoError(t, err)
	require.Equal(t, 0, result.RemainingSteps)

	// THEN: the first run fires at t=0 (blocked until 10), the second
	// at t=11 - so the station is blocked until 21, not until 30 as
	// the compounding variant would report.
	assert.Equal(t, factory.Tick(21), st.BlockedUntil())
}

func TestProduce_RequiresAssemblyBudget(t *testing.T) {
	// GIVEN: a station whose assembly budget covers one run only
	tp := buildTestPlant(t, 100, 5, "A")
	st := factory.NewStation("tight", "", 5, 5, 3) // P1 assembly time is 2
	plant, err := factory.NewPlant("budget", tp.plant.Catalog(), 100, 1,
		nil, []*factory.Station{st}, nil)
	require.NoError(t, err)
	require.True(t, plant.Warehouse().Add(0, factory.Position{Item: tp.m1, Amount: 4}))

	load1 := mustStep(t, 0, factory.LoadInputBuffer, tp.p1, 1, st)
	produce1 := mustStep(t, 0, factory.Produce, tp.p1, 1, st, load1)
	unload1 := mustStep(t, 0, factory.UnloadToOutputBuffer, tp.p1, 1, st, produce1)
	load2 := mustStep(t, 0, factory.LoadInputBuffer, tp.p1, 1, st, unload1)
	produce2 := mustStep(t, 0, factory.Produce, tp.p1, 1, st, load2)

	result, err := plant.Run([]*factory.Step{load1, produce1, unload1, load2, produce2}, 200)
	require.NoError(t, err)

	// THEN: the second run starves on the budget and stays pending
	assert.Equal(t, 1, result.RemainingSteps)
	assert.False(t, produce2.Done())
	assert.Equal(t, factory.Tick(1), st.RemainingAssembly())
}

// =============================================================================
// ORDERS
// =============================================================================

func TestRun_CloseOnlyAfterRemainingReachesZero(t *testing.T) {
	// GIVEN: the ordered product fully in stock, a one-unit delivery
	// truck and a second truck that only handles the closing
	m1 := material("M1")
	p1 := product("P1", 2)
	cat, err := factory.NewCatalog(
		[]*factory.Item{m1, p1},
		[]*factory.Process{{Output: p1, BatchSize: 1, Duration: 10, BOM: []factory.Position{{Item: m1, Amount: 2}}}},
	)
	require.NoError(t, err)

	truck := factory.NewTransporter("truck-1", "A", "truck", "diesel", 1)
	closer := factory.NewTransporter("truck-2", "A", "truck", "diesel", 5)
	order := &factory.Order{
		ID:         "O1",
		Item:       p1,
		Amount:     2,
		Income:     decimal.NewFromInt(1000),
		TravelTime: 10,
		Route:      factory.Route{Area: "A", Engine: factory.Wildcard, Types: []string{factory.Wildcard}},
	}
	plant, err := factory.NewPlant("close", cat, 100, 2,
		[]*factory.Transporter{truck, closer}, nil, []*factory.Order{order})
	require.NoError(t, err)
	require.True(t, plant.Warehouse().Add(0, factory.Position{Item: p1, Amount: 2}))

	deliver1 := mustOrderStep(t, 0, factory.DeliverOrderToCustomer, order, 1, truck)
	deliver2 := mustOrderStep(t, 0, factory.DeliverOrderToCustomer, order, 1, truck, deliver1)
	// Deliberately no dependencies: the close attempt races the
	// deliveries and must fail while units are outstanding.
	closing := mustOrderStep(t, 0, factory.CloseOrder, order, 2, closer)

	var prematureCloseFails int
	plant.Events().Subscribe(factory.CategoryTransporter, func(e factory.Event) {
		if !e.Completed && strings.Contains(e.Message, "still open") {
			prematureCloseFails++
		}
	})

	result, err := plant.Run([]*factory.Step{deliver1, deliver2, closing}, 100)
	require.NoError(t, err)

	assert.Equal(t, 0, result.RemainingSteps)
	assert.Equal(t, 0, plant.Remaining(order))
	assert.True(t, plant.Income().Equal(decimal.NewFromInt(1000)))
	assert.Greater(t, prematureCloseFails, 0, "close must fail while units are outstanding")
}

// =============================================================================
// RESET / REPRODUCIBILITY
// =============================================================================

func TestReset_ReproducesIdenticalRuns(t *testing.T) {
	tp := buildTestPlant(t, 100, 5, "A")

	run := func() factory.RunResult {
		acquire := mustStep(t, 0, factory.AcquireFromSupplier, tp.m1, 4, tp.transporter)
		deliver := mustStep(t, 0, factory.DeliverToWarehouse, tp.m1, 4, tp.transporter, acquire)
		result, err := tp.plant.Run([]*factory.Step{acquire, deliver}, 100)
		require.NoError(t, err)
		return result
	}

	first := run()
	firstStock := tp.plant.Warehouse().Snapshot()

	tp.plant.Reset()
	require.Equal(t, 0, tp.plant.Warehouse().TotalStock())
	require.Equal(t, factory.Tick(0), tp.transporter.BlockedUntil())
	require.Equal(t, 2, tp.plant.Remaining(tp.order))

	second := run()

	assert.Equal(t, first, second)
	assert.Equal(t, firstStock, tp.plant.Warehouse().Snapshot())
}

// =============================================================================
// RUN VALIDATION / MODES
// =============================================================================

func TestRun_RejectsForeignResources(t *testing.T) {
	tp := buildTestPlant(t, 100, 5, "A")
	other := factory.NewTransporter("stranger", "A", "truck", "diesel", 5)

	step := mustStep(t, 0, factory.AcquireFromSupplier, tp.m1, 1, other)
	_, err := tp.plant.Run([]*factory.Step{step}, 100)

	require.Error(t, err)
	assert.ErrorIs(t, err, factory.ErrUnknownResource)
	assert.True(t, factory.IsConfigError(err))
}

func TestRun_WarehouseShortcutSkipsStockedWork(t *testing.T) {
	// GIVEN: the material already sits in the warehouse
	tp := buildTestPlant(t, 100, 5, "A")
	require.True(t, tp.plant.Warehouse().Add(0, factory.Position{Item: tp.m1, Amount: 4}))

	acquire := mustStep(t, 0, factory.AcquireFromSupplier, tp.m1, 4, tp.transporter)
	deliver := mustStep(t, 0, factory.DeliverToWarehouse, tp.m1, 4, tp.transporter, acquire)

	// WHEN: running with the shortcut enabled
	result, err := tp.plant.Run([]*factory.Step{acquire, deliver}, 100, factory.WithWarehouseShortcut())
	require.NoError(t, err)

	// THEN: both steps complete without the transporter moving
	assert.Equal(t, 0, result.RemainingSteps)
	assert.Equal(t, factory.Tick(0), tp.transporter.BlockedUntil())
	assert.Equal(t, 4, tp.plant.Warehouse().Amount(tp.m1))
}

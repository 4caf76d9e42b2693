package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/logistics-engine/factory"
)

func newWarehouse(capacity int) *factory.Warehouse {
	return factory.NewWarehouse("wh", capacity, factory.NewEventLog())
}

func TestWarehouse_AddRemoveRoundTrip(t *testing.T) {
	// GIVEN: an empty warehouse
	w := newWarehouse(10)
	m := material("M1")

	// WHEN: adding then removing the same position
	require.True(t, w.Add(0, factory.Position{Item: m, Amount: 4}))
	got, ok := w.Remove(1, m, 4)

	// THEN: the removal succeeds and yields back the same position
	require.True(t, ok)
	assert.Equal(t, factory.Position{Item: m, Amount: 4}, got)
	assert.Equal(t, 0, w.TotalStock())
	assert.Empty(t, w.Snapshot())
}

func TestWarehouse_CapacityNeverExceeded(t *testing.T) {
	w := newWarehouse(5)
	m1, m2 := material("M1"), material("M2")

	assert.True(t, w.Add(0, factory.Position{Item: m1, Amount: 3}))
	assert.False(t, w.Add(0, factory.Position{Item: m2, Amount: 3}), "overflow add must fail")
	assert.True(t, w.Add(0, factory.Position{Item: m2, Amount: 2}))
	assert.Equal(t, 5, w.TotalStock())

	// The failed add left nothing behind.
	assert.Equal(t, 0, w.Amount(material("M2")), "lookup by a different pointer finds nothing")
	assert.Equal(t, 2, w.Amount(m2))
}

func TestWarehouse_RemoveMoreThanStoredFails(t *testing.T) {
	w := newWarehouse(10)
	m := material("M1")
	require.True(t, w.Add(0, factory.Position{Item: m, Amount: 2}))

	_, ok := w.Remove(0, m, 3)
	assert.False(t, ok)
	assert.Equal(t, 2, w.Amount(m), "failed remove must not mutate")

	_, ok = w.Remove(0, material("M2"), 1)
	assert.False(t, ok, "removing an absent item fails")
}

func TestWarehouse_MergesSameItemEntries(t *testing.T) {
	w := newWarehouse(10)
	m := material("M1")
	require.True(t, w.Add(0, factory.Position{Item: m, Amount: 2}))
	require.True(t, w.Add(1, factory.Position{Item: m, Amount: 3}))

	snap := w.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 5, snap[0].Amount)
}

func TestWarehouse_ConservationUnderMixedOps(t *testing.T) {
	// GIVEN: a tight warehouse and a mixed op sequence
	w := newWarehouse(8)
	m1, m2 := material("M1"), material("M2")

	ops := []struct {
		add    bool
		item   *factory.Item
		amount int
	}{
		{true, m1, 5}, {true, m2, 5}, {false, m1, 2}, {true, m2, 4},
		{false, m2, 4}, {true, m1, 6}, {false, m1, 9}, {true, m2, 1},
	}
	for i, op := range ops {
		if op.add {
			w.Add(factory.Tick(i), factory.Position{Item: op.item, Amount: op.amount})
		} else {
			w.Remove(factory.Tick(i), op.item, op.amount)
		}
		// THEN: invariants hold after every operation
		total := w.TotalStock()
		assert.GreaterOrEqual(t, total, 0)
		assert.LessOrEqual(t, total, 8)
		for _, pos := range w.Snapshot() {
			assert.Greater(t, pos.Amount, 0, "no zero or negative entries survive")
		}
	}
}

func TestWarehouse_StockChangeEventsAreObservational(t *testing.T) {
	events := factory.NewEventLog()
	w := factory.NewWarehouse("wh", 10, events)
	m := material("M1")

	var seen int
	events.Subscribe(factory.CategoryStockChange, func(factory.Event) { seen++ })

	w.Add(0, factory.Position{Item: m, Amount: 2})
	w.Remove(1, m, 1)
	w.Remove(2, m, 5) // fails, no stock change

	assert.Equal(t, 2, seen)
	assert.Len(t, events.ByCategory(factory.CategoryWarehouse), 1, "the failed remove logs a warehouse event")
}

func TestWarehouse_Reset(t *testing.T) {
	w := newWarehouse(10)
	m := material("M1")
	require.True(t, w.Add(0, factory.Position{Item: m, Amount: 4}))

	w.Reset()

	assert.Equal(t, 0, w.TotalStock())
	assert.True(t, w.SpaceFor(10))
}

/*
builtin.go - Built-in test instances

Two hand-written instances used by tests, the CLI and the API when no
CSV directory is given. Small is the minimal end-to-end site: one
material, one product, one of every resource. Medium adds shared
materials, a two-product catalog and competing orders.
*/
package dataset

import (
	"github.com/shopspring/decimal"

	"github.com/warp/logistics-engine/factory"
)

// Small returns the minimal end-to-end instance: one supplied
// material, one product built from it, one station, one transporter,
// one driver and a single order.
func Small() *Instance {
	m1 := &factory.Item{
		Name:       "M1",
		Kind:       factory.KindMaterial,
		Route:      anyRoute("A"),
		TravelTime: 10,
	}
	p1 := &factory.Item{
		Name:         "P1",
		Kind:         factory.KindProduct,
		AssemblyTime: 2,
	}

	return &Instance{
		Name:              "small",
		WarehouseCapacity: 100,
		Drivers:           1,
		Horizon:           100,
		Items:             []*factory.Item{m1, p1},
		Processes: []*factory.Process{
			{
				Output:      p1,
				BatchSize:   1,
				Duration:    10,
				StationKind: "assembly",
				BOM:         []factory.Position{{Item: m1, Amount: 2}},
			},
		},
		Transporters: []TransporterSpec{
			{Name: "truck-1", Area: "A", Kind: "truck", Engine: "diesel", Capacity: 5},
		},
		Stations: []StationSpec{
			{Name: "station-1", Kind: "assembly", InputCapacity: 5, OutputCapacity: 5, AssemblyBudget: 480},
		},
		Orders: []*factory.Order{
			{
				ID:         "O1",
				Item:       p1,
				Amount:     2,
				Income:     decimal.NewFromInt(1000),
				TravelTime: 10,
				Route:      anyRoute("A"),
			},
		},
	}
}

// Medium returns a three-material, two-product instance with three
// competing orders sharing materials.
func Medium() *Instance {
	m1 := &factory.Item{Name: "M1", Kind: factory.KindMaterial, Route: anyRoute("A"), TravelTime: 10}
	m2 := &factory.Item{Name: "M2", Kind: factory.KindMaterial, Route: anyRoute("A"), TravelTime: 10}
	m3 := &factory.Item{Name: "M3", Kind: factory.KindMaterial, Route: anyRoute("A"), TravelTime: 10}
	p1 := &factory.Item{Name: "P1", Kind: factory.KindProduct, AssemblyTime: 3}
	p2 := &factory.Item{Name: "P2", Kind: factory.KindProduct, AssemblyTime: 2}

	return &Instance{
		Name:              "medium",
		WarehouseCapacity: 100,
		Drivers:           7,
		Horizon:           2400,
		Items:             []*factory.Item{m1, m2, m3, p1, p2},
		Processes: []*factory.Process{
			{
				Output:      p1,
				BatchSize:   2,
				Duration:    10,
				StationKind: "assembly",
				BOM: []factory.Position{
					{Item: m1, Amount: 2},
					{Item: m2, Amount: 2},
					{Item: m3, Amount: 1},
				},
			},
			{
				Output:      p2,
				BatchSize:   1,
				Duration:    10,
				StationKind: "assembly",
				BOM: []factory.Position{
					{Item: m1, Amount: 3},
					{Item: m3, Amount: 1},
				},
			},
		},
		Transporters: []TransporterSpec{
			{Name: "truck-1", Area: "A", Kind: "truck", Engine: "diesel", Capacity: 5},
			{Name: "truck-2", Area: "A", Kind: "truck", Engine: "diesel", Capacity: 5},
		},
		Stations: []StationSpec{
			{Name: "station-1", Kind: "assembly", InputCapacity: 10, OutputCapacity: 10, AssemblyBudget: 480},
			{Name: "station-2", Kind: "assembly", InputCapacity: 10, OutputCapacity: 10, AssemblyBudget: 480},
			{Name: "station-3", Kind: "assembly", InputCapacity: 10, OutputCapacity: 10, AssemblyBudget: 480},
		},
		Orders: []*factory.Order{
			{ID: "O1", Item: p1, Amount: 2, Income: decimal.NewFromInt(1000), TravelTime: 10, Route: anyRoute("A")},
			{ID: "O2", Item: p2, Amount: 2, Income: decimal.NewFromInt(2000), TravelTime: 100, Route: anyRoute("A")},
			{ID: "O3", Item: p2, Amount: 5, Income: decimal.NewFromInt(1500), TravelTime: 10, Route: anyRoute("A")},
		},
	}
}

// Builtin resolves a built-in instance by name, or nil.
func Builtin(name string) *Instance {
	switch name {
	case "small":
		return Small()
	case "medium":
		return Medium()
	}
	return nil
}

// anyRoute is an area-only constraint: any engine, any transporter
// type.
func anyRoute(area string) factory.Route {
	return factory.Route{Area: area, Engine: factory.Wildcard, Types: []string{factory.Wildcard}}
}

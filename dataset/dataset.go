/*
dataset.go - Simulation instance definitions

PURPOSE:
  An Instance is everything needed to materialize a plant: catalog
  items and processes, resource specs, the order backlog and the site
  parameters (warehouse capacity, driver count, horizon). Instances
  are plain data; NewPlant builds a fresh, independently mutable plant
  from one, so repeated experiments never share resource state.

SEE ALSO:
  - builtin.go: ready-made small and medium instances
  - csv.go: loading instances from CSV directories
*/
package dataset

import (
	"github.com/warp/logistics-engine/factory"
)

// TransporterSpec declares one transporter of an instance.
type TransporterSpec struct {
	Name     string
	Area     string
	Kind     string
	Engine   string
	Capacity int
}

// StationSpec declares one production station of an instance.
type StationSpec struct {
	Name           string
	Kind           string
	InputCapacity  int
	OutputCapacity int
	AssemblyBudget factory.Tick
}

// Instance is a complete, inert description of a simulated site.
type Instance struct {
	Name              string
	WarehouseCapacity int
	Drivers           int
	Horizon           factory.Tick

	Items        []*factory.Item
	Processes    []*factory.Process
	Transporters []TransporterSpec
	Stations     []StationSpec
	Orders       []*factory.Order
}

// NewPlant materializes a fresh plant from the instance. Each call
// builds new resource objects; plants from the same instance share
// only the immutable catalog data.
func (in *Instance) NewPlant() (*factory.Plant, error) {
	cat, err := factory.NewCatalog(in.Items, in.Processes)
	if err != nil {
		return nil, err
	}
	transporters := make([]*factory.Transporter, len(in.Transporters))
	for i, s := range in.Transporters {
		transporters[i] = factory.NewTransporter(s.Name, s.Area, s.Kind, s.Engine, s.Capacity)
	}
	stations := make([]*factory.Station, len(in.Stations))
	for i, s := range in.Stations {
		stations[i] = factory.NewStation(s.Name, s.Kind, s.InputCapacity, s.OutputCapacity, s.AssemblyBudget)
	}
	return factory.NewPlant(in.Name, cat, in.WarehouseCapacity, in.Drivers, transporters, stations, in.Orders)
}

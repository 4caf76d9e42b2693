/*
fcfs.go - First-come-first-serve planner

PURPOSE:
  Plans orders strictly one after the other, in backlog order. For
  each order: acquire every supplied leaf of the BOM expansion, run
  the production chains children-first, deliver to the customer, close
  the order. No demand is shared between orders; two orders wanting
  the same intermediate item each produce their own.

  Steps are all scheduled at tick 0 and sequenced purely through
  predecessor dependencies; the engine's retry loop sorts out the
  actual timing. Simple, robust, and the baseline every smarter
  planner is measured against.

SEE ALSO:
  - depth.go: the consolidating planner sharing demand across orders
*/
package planner

import (
	"sort"

	"github.com/warp/logistics-engine/factory"
)

// FCFS plans each order independently, in backlog order.
type FCFS struct {
	plant *factory.Plant
}

// NewFCFS creates a first-come-first-serve planner for the plant.
func NewFCFS(p *factory.Plant) *FCFS {
	return &FCFS{plant: p}
}

func (f *FCFS) Name() string { return "fcfs" }

// Plan builds steps for the first count orders of the backlog.
func (f *FCFS) Plan(count int) (*Plan, error) {
	orders := f.plant.Orders()
	if len(orders) == 0 || count <= 0 {
		return nil, factory.ErrNoOrders
	}
	if count > len(orders) {
		count = len(orders)
	}

	tslots := newTransporterSlots(f.plant.Transporters())
	sslots := newStationSlots(f.plant.Stations())

	var steps []*factory.Step
	for _, o := range orders[:count] {
		orderSteps, err := f.planOrder(o, tslots, sslots)
		if err != nil {
			return nil, err
		}
		steps = append(steps, orderSteps...)
	}
	return &Plan{Steps: steps}, nil
}

func (f *FCFS) planOrder(o *factory.Order, tslots []*transporterSlot, sslots []*stationSlot) ([]*factory.Step, error) {
	cat := f.plant.Catalog()

	// Orders for supplied items skip production entirely.
	if o.Item.Supplied() {
		steps, delivers, err := acquireSupplied(tslots, factory.Position{Item: o.Item, Amount: o.Amount}, 0)
		if err != nil {
			return nil, err
		}
		tail, err := deliverAndClose(tslots, o, 0, delivers)
		if err != nil {
			return nil, err
		}
		return append(steps, tail...), nil
	}

	expansion := cat.Expand(o.Item, o.Amount)
	var supplied, produced []factory.Position
	for _, pos := range expansion {
		if pos.Item.Supplied() {
			supplied = append(supplied, pos)
		} else {
			produced = append(produced, pos)
		}
	}
	supplied = factory.Consolidate(supplied)
	produced = factory.Consolidate(produced)

	var steps []*factory.Step
	var materialDelivers []*factory.Step
	for _, pos := range supplied {
		acq, delivers, err := acquireSupplied(tslots, pos, 0)
		if err != nil {
			return nil, err
		}
		steps = append(steps, acq...)
		materialDelivers = append(materialDelivers, delivers...)
	}

	// Children before parents, so sub-assembly output exists by the
	// time a parent's inputs are loaded.
	sort.SliceStable(produced, func(i, j int) bool {
		return cat.Depth(produced[i].Item) < cat.Depth(produced[j].Item)
	})

	moves := make(map[string][]*factory.Step)
	for _, pos := range produced {
		proc := cat.ProcessFor(pos.Item)
		slot := earliestRunnable(sslots, proc)
		if slot == nil {
			return nil, &factory.PlanError{OrderID: o.ID, Err: factory.ErrNoEligibleStation}
		}
		batches := pos.Amount / proc.BatchSize
		for b := 0; b < batches; b++ {
			loadDeps := append([]*factory.Step{}, materialDelivers...)
			for _, sub := range proc.BOM {
				loadDeps = append(loadDeps, moves[sub.Item.Name]...)
			}
			if slot.last != nil {
				loadDeps = append(loadDeps, slot.last)
			}
			chain, err := productionChain(slot.st, pos.Item, proc, 0, 0, loadDeps)
			if err != nil {
				return nil, err
			}
			slot.busy += proc.Duration
			slot.last = chain[len(chain)-1]
			moves[pos.Item.Name] = append(moves[pos.Item.Name], slot.last)
			steps = append(steps, chain...)
		}
	}

	tail, err := deliverAndClose(tslots, o, 0, moves[o.Item.Name])
	if err != nil {
		return nil, err
	}
	return append(steps, tail...), nil
}

// productionChain builds the four dependent steps of one batch:
// load -> produce -> unload -> move to warehouse.
func productionChain(st *factory.Station, it *factory.Item, proc *factory.Process,
	loadAt, finishAt factory.Tick, loadDeps []*factory.Step) ([]*factory.Step, error) {

	load, err := factory.NewStep(loadAt, factory.LoadInputBuffer, it, proc.BatchSize, st, loadDeps...)
	if err != nil {
		return nil, err
	}
	produce, err := factory.NewStep(loadAt, factory.Produce, it, proc.BatchSize, st, load)
	if err != nil {
		return nil, err
	}
	unload, err := factory.NewStep(finishAt, factory.UnloadToOutputBuffer, it, proc.BatchSize, st, produce)
	if err != nil {
		return nil, err
	}
	move, err := factory.NewStep(finishAt, factory.MoveOutputToWarehouse, it, proc.BatchSize, st, unload)
	if err != nil {
		return nil, err
	}
	return []*factory.Step{load, produce, unload, move}, nil
}

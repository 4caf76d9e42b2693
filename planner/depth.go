/*
depth.go - Consolidating depth planner

PURPOSE:
  Plans the whole backlog at once instead of order by order. Demand
  for the same item is summed across orders BEFORE batch rounding, so
  shared intermediates round once instead of once per order. Each
  item's consolidated production is then scheduled children-first with
  explicit start times: a batch starts one tick after both its station
  and its ingredient chains are free.

DEMAND ATTRIBUTION:
  Because production is shared, the planner tracks which order every
  produced unit serves. Raw per-order demand flows down the process
  graph; batch-rounding surplus is attributed to the last contributing
  order. For every item, the attributed units sum exactly to the
  consolidated produced amount.

ORDERING:
  Demand flows parents-first through a topological order of the
  process graph. Scheduling walks the reverse order, children first,
  so every ingredient's end time is known when its parent is placed.
  The catalog's first-line depth is a coarser view of the same
  ordering and is what the planner reports for inspection.

SEE ALSO:
  - fcfs.go: the per-order baseline planner
  - factory/catalog.go: expansion and depth primitives
*/
package planner

import (
	"github.com/warp/logistics-engine/factory"
)

// Depth consolidates demand across orders and schedules by process
// depth.
type Depth struct {
	plant *factory.Plant
}

// NewDepth creates a consolidating depth planner for the plant.
func NewDepth(p *factory.Plant) *Depth {
	return &Depth{plant: p}
}

func (d *Depth) Name() string { return "depth" }

// Plan builds one consolidated plan for the first count orders.
func (d *Depth) Plan(count int) (*Plan, error) {
	orders := d.plant.Orders()
	if len(orders) == 0 || count <= 0 {
		return nil, factory.ErrNoOrders
	}
	if count > len(orders) {
		count = len(orders)
	}
	orders = orders[:count]
	cat := d.plant.Catalog()

	// ---- Phase 1: consolidate demand, parents before children ----

	perOrder := make(map[string]map[string]int) // item -> order -> raw units
	addDemand := func(item, orderID string, units int) {
		m, ok := perOrder[item]
		if !ok {
			m = make(map[string]int)
			perOrder[item] = m
		}
		m[orderID] += units
	}
	for _, o := range orders {
		if !o.Item.Supplied() {
			addDemand(o.Item.Name, o.ID, o.Amount)
		}
	}

	topo := topoProduced(cat)
	batches := make(map[string]int)
	materialDemand := make(map[string]int)
	attr := make(Attribution)

	for _, it := range topo {
		demands := perOrder[it.Name]
		total := 0
		for _, u := range demands {
			total += u
		}
		if total == 0 {
			continue
		}
		proc := cat.ProcessFor(it)
		b := proc.Batches(total)
		batches[it.Name] = b
		produced := b * proc.BatchSize

		var lastID string
		for _, o := range orders {
			if u := demands[o.ID]; u > 0 {
				attr.add(it.Name, o.ID, u)
				lastID = o.ID
			}
		}
		if surplus := produced - total; surplus > 0 && lastID != "" {
			attr.add(it.Name, lastID, surplus)
		}

		for _, sub := range proc.BOM {
			childTotal := sub.Amount * b
			if sub.Item.Supplied() {
				materialDemand[sub.Item.Name] += childTotal
				continue
			}
			// Pass raw demand down proportionally; the rounding
			// remainder sticks to the last contributing order.
			assigned := 0
			last := ""
			for _, o := range orders {
				u := demands[o.ID]
				if u == 0 {
					continue
				}
				share := childTotal * u / total
				if share > 0 {
					addDemand(sub.Item.Name, o.ID, share)
					assigned += share
				}
				last = o.ID
			}
			if rest := childTotal - assigned; rest > 0 && last != "" {
				addDemand(sub.Item.Name, last, rest)
			}
		}
	}

	// Supplied items ordered directly add to material demand.
	for _, o := range orders {
		if o.Item.Supplied() {
			materialDemand[o.Item.Name] += o.Amount
		}
	}

	// ---- Phase 2: build steps, children before parents ----

	tslots := newTransporterSlots(d.plant.Transporters())
	sslots := newStationSlots(d.plant.Stations())

	var steps []*factory.Step
	materialDelivers := make(map[string][]*factory.Step)
	var materialsReady factory.Tick
	for _, it := range cat.Items() {
		amount := materialDemand[it.Name]
		if amount == 0 {
			continue
		}
		acq, delivers, err := acquireSupplied(tslots, factory.Position{Item: it, Amount: amount}, 0)
		if err != nil {
			return nil, err
		}
		steps = append(steps, acq...)
		materialDelivers[it.Name] = delivers
	}
	for _, s := range tslots {
		if s.busy > materialsReady {
			materialsReady = s.busy
		}
	}

	endTime := make(map[string]factory.Tick)
	moves := make(map[string][]*factory.Step)
	for i := len(topo) - 1; i >= 0; i-- {
		it := topo[i]
		b := batches[it.Name]
		if b == 0 {
			continue
		}
		proc := cat.ProcessFor(it)

		predEnd := factory.Tick(0)
		for _, sub := range proc.BOM {
			if sub.Item.Supplied() {
				if materialsReady > predEnd {
					predEnd = materialsReady
				}
			} else if endTime[sub.Item.Name] > predEnd {
				predEnd = endTime[sub.Item.Name]
			}
		}

		for n := 0; n < b; n++ {
			slot := earliestRunnable(sslots, proc)
			if slot == nil {
				return nil, &factory.PlanError{OrderID: it.Name, Err: factory.ErrNoEligibleStation}
			}
			start := slot.busy
			if predEnd > start {
				start = predEnd
			}
			start++
			end := start + proc.Duration

			var loadDeps []*factory.Step
			for _, sub := range proc.BOM {
				if sub.Item.Supplied() {
					loadDeps = append(loadDeps, materialDelivers[sub.Item.Name]...)
				} else {
					loadDeps = append(loadDeps, moves[sub.Item.Name]...)
				}
			}
			if slot.last != nil {
				loadDeps = append(loadDeps, slot.last)
			}

			chain, err := productionChain(slot.st, it, proc, start, end, loadDeps)
			if err != nil {
				return nil, err
			}
			slot.busy = end
			slot.last = chain[len(chain)-1]
			moves[it.Name] = append(moves[it.Name], slot.last)
			if end > endTime[it.Name] {
				endTime[it.Name] = end
			}
			steps = append(steps, chain...)
		}
	}

	// ---- Phase 3: deliveries and closings, per order ----

	for _, o := range orders {
		var deps []*factory.Step
		at := factory.Tick(0)
		if o.Item.Supplied() {
			deps = materialDelivers[o.Item.Name]
			at = materialsReady + 1
		} else {
			deps = moves[o.Item.Name]
			at = endTime[o.Item.Name] + 1
		}
		tail, err := deliverAndClose(tslots, o, at, deps)
		if err != nil {
			return nil, err
		}
		steps = append(steps, tail...)
	}

	return &Plan{Steps: steps, Attribution: attr}, nil
}

// topoProduced returns the produced items in an order where every
// item precedes the produced items its BOM consumes (parents first).
// Deterministic: seeded and tie-broken by catalog registration order.
func topoProduced(cat *factory.Catalog) []*factory.Item {
	var produced []*factory.Item
	indegree := make(map[string]int)
	for _, it := range cat.Items() {
		if it.Supplied() {
			continue
		}
		produced = append(produced, it)
		if _, ok := indegree[it.Name]; !ok {
			indegree[it.Name] = 0
		}
		for _, sub := range cat.ProcessFor(it).BOM {
			if !sub.Item.Supplied() {
				indegree[sub.Item.Name]++
			}
		}
	}

	var order []*factory.Item
	queue := make([]*factory.Item, 0, len(produced))
	for _, it := range produced {
		if indegree[it.Name] == 0 {
			queue = append(queue, it)
		}
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		order = append(order, it)
		for _, sub := range cat.ProcessFor(it).BOM {
			if sub.Item.Supplied() {
				continue
			}
			indegree[sub.Item.Name]--
			if indegree[sub.Item.Name] == 0 {
				queue = append(queue, sub.Item)
			}
		}
	}
	return order
}

/*
catalog.go - Item catalog and process graph

PURPOSE:
  Owns the immutable production structure of an instance: every item,
  and for every produced item the process that makes it (bill of
  material, batch size, duration, station kind). All BOM expansion and
  process-depth arithmetic used by the planners lives here.

KEY CONCEPTS:
  - Process: one production recipe. Output is produced in whole
    batches; demand is always rounded up to full batches.
  - Expansion: given (item, amount), the transitive list of positions
    that have to exist for that amount to be produced, batch-rounded
    at every level. Supplied items are the leaves.
  - Depth: distance of an item from its supplied leaves, following the
    first BOM line only. A deliberate approximation: BOMs in practice
    are depth-uniform, and planners only need a coarse deepest-first
    ordering.

VALIDATION:
  The catalog validates on construction and fails fast: duplicate
  names, BOM lines referencing unknown items, produced items without a
  process, batch sizes < 1 and cycles in the process graph are all
  construction errors. After NewCatalog succeeds, every lookup the
  engine performs is guaranteed to resolve.

SEE ALSO:
  - planner/: expansion and depth drive both planners
  - station.go: stations look up processes when loading and producing
*/
package factory

// =============================================================================
// PROCESS
// =============================================================================

// Process is the recipe producing one item. Output is produced one
// batch at a time.
type Process struct {
	// Output is the produced item.
	Output *Item
	// BatchSize is units produced per run. Always >= 1.
	BatchSize int
	// Duration is how long one run blocks the station, in ticks.
	Duration Tick
	// StationKind names the station kind able to run this process. An
	// empty kind runs on any station.
	StationKind string
	// BOM lists the input positions consumed per batch.
	BOM []Position
}

// Batches returns how many runs of p cover the given amount, rounding
// up to whole batches.
func (p *Process) Batches(amount int) int {
	if amount <= 0 {
		return 0
	}
	return (amount + p.BatchSize - 1) / p.BatchSize
}

// InputUnits returns the total units of input one batch consumes.
func (p *Process) InputUnits() int {
	n := 0
	for _, pos := range p.BOM {
		n += pos.Amount
	}
	return n
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is the validated, immutable item and process registry of an
// instance.
type Catalog struct {
	items     map[string]*Item
	order     []*Item // insertion order, for deterministic iteration
	processes map[string]*Process
	depths    map[string]int
}

// NewCatalog validates items and processes and builds the catalog.
// Every produced item must have exactly one process, every BOM line
// must reference a known item, and the process graph must be acyclic.
func NewCatalog(items []*Item, processes []*Process) (*Catalog, error) {
	c := &Catalog{
		items:     make(map[string]*Item, len(items)),
		processes: make(map[string]*Process, len(processes)),
		depths:    make(map[string]int, len(items)),
	}

	for _, it := range items {
		if _, ok := c.items[it.Name]; ok {
			return nil, configErr("item", it.Name, ErrDuplicateItem)
		}
		c.items[it.Name] = it
		c.order = append(c.order, it)
	}

	for _, p := range processes {
		if p.BatchSize < 1 {
			return nil, configErr("process", p.Output.Name, ErrInvalidBatchSize)
		}
		if _, ok := c.items[p.Output.Name]; !ok {
			return nil, configErr("process", p.Output.Name, ErrUnknownItem)
		}
		if _, ok := c.processes[p.Output.Name]; ok {
			return nil, configErr("process", p.Output.Name, ErrDuplicateProcess)
		}
		for _, pos := range p.BOM {
			if _, ok := c.items[pos.Item.Name]; !ok {
				return nil, configErr("process", p.Output.Name, ErrUnknownItem)
			}
		}
		c.processes[p.Output.Name] = p
	}

	for _, it := range items {
		if !it.Supplied() {
			if _, ok := c.processes[it.Name]; !ok {
				return nil, configErr("item", it.Name, ErrNoProcess)
			}
		}
	}

	if err := c.checkAcyclic(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkAcyclic walks the process graph with three-color DFS.
func (c *Catalog) checkAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(c.processes))

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case gray:
			return configErr("process", name, ErrCyclicProcess)
		case black:
			return nil
		}
		color[name] = gray
		if p, ok := c.processes[name]; ok {
			for _, pos := range p.BOM {
				if err := visit(pos.Item.Name); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}

	for name := range c.processes {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// Item resolves a name to a catalog item.
func (c *Catalog) Item(name string) (*Item, bool) {
	it, ok := c.items[name]
	return it, ok
}

// Items returns all items in registration order.
func (c *Catalog) Items() []*Item {
	return c.order
}

// ProcessFor returns the process producing the item, or nil for
// supplied items.
func (c *Catalog) ProcessFor(it *Item) *Process {
	return c.processes[it.Name]
}

// =============================================================================
// EXPANSION
// =============================================================================

// Expand returns every position that has to exist for the given
// amount of an item, transitively, batch-rounded at each level.
// Supplied items appear as leaves with their raw required amount;
// produced items appear with their rounded-up production amount, and
// their BOM demand is scaled by the batch count. The result contains
// the root item itself.
func (c *Catalog) Expand(it *Item, amount int) []Position {
	var out []Position
	c.expand(it, amount, &out)
	return out
}

func (c *Catalog) expand(it *Item, amount int, out *[]Position) {
	if it.Supplied() {
		*out = append(*out, Position{Item: it, Amount: amount})
		return
	}
	p := c.processes[it.Name]
	batches := p.Batches(amount)
	*out = append(*out, Position{Item: it, Amount: batches * p.BatchSize})
	for _, pos := range p.BOM {
		c.expand(pos.Item, pos.Amount*batches, out)
	}
}

// Depth returns the distance of an item from its supplied leaves:
// 0 for supplied items, else 1 + depth of the first BOM line. Results
// are memoized; the catalog is acyclic so recursion terminates.
func (c *Catalog) Depth(it *Item) int {
	if d, ok := c.depths[it.Name]; ok {
		return d
	}
	d := 0
	if !it.Supplied() {
		p := c.processes[it.Name]
		if len(p.BOM) > 0 {
			d = 1 + c.Depth(p.BOM[0].Item)
		}
	}
	c.depths[it.Name] = d
	return d
}

// =============================================================================
// CONSOLIDATION
// =============================================================================

// Consolidate merges positions of the same item by summing amounts.
// First-occurrence order is preserved. Planners consolidate demand
// BEFORE batch rounding so that shared items round once, not per
// order.
func Consolidate(positions []Position) []Position {
	idx := make(map[string]int, len(positions))
	var out []Position
	for _, pos := range positions {
		if i, ok := idx[pos.Item.Name]; ok {
			out[i].Amount += pos.Amount
			continue
		}
		idx[pos.Item.Name] = len(out)
		out = append(out, pos)
	}
	return out
}

/*
station.go - Production station resource

PURPOSE:
  Stations turn input materials into produced items, one batch per
  production run. A station has a bounded input buffer, a bounded
  output buffer (both in units), and a finite assembly-time budget
  that every run consumes. Goods flow strictly
  warehouse -> input buffer -> production -> output buffer -> warehouse.

OPERATIONS:
  LoadInputBuffer       - move one batch worth of BOM inputs from the
                          warehouse into the input buffer. All lines
                          or nothing.
  Produce               - run the process once: consume the BOM from
                          the input buffer, spend assembly budget,
                          block for the process duration. The finished
                          batch occupies the production slot until
                          unloaded.
  UnloadToOutputBuffer  - move the finished batch into the output
                          buffer.
  MoveOutputToWarehouse - move finished units from the output buffer
                          into the warehouse.

SEE ALSO:
  - catalog.go: the process definitions stations execute
  - warehouse.go: source and sink of every station move
*/
package factory

import "fmt"

// Station produces items on processes matching its kind.
type Station struct {
	name string
	kind string

	inputCapacity  int
	outputCapacity int
	assemblyBudget Tick

	blockedUntil      Tick
	remainingAssembly Tick
	input             map[*Item]int
	inputUsed         int
	output            map[*Item]int
	outputUsed        int
	inProduction      *Position

	plant *Plant
}

// NewStation creates an idle station. Buffer capacities are in units;
// assemblyBudget is the total hands-on assembly time available over a
// whole run.
func NewStation(name, kind string, inputCapacity, outputCapacity int, assemblyBudget Tick) *Station {
	s := &Station{
		name:           name,
		kind:           kind,
		inputCapacity:  inputCapacity,
		outputCapacity: outputCapacity,
		assemblyBudget: assemblyBudget,
	}
	s.Reset()
	return s
}

func (st *Station) Name() string       { return st.name }
func (st *Station) Category() Category { return CategoryStation }
func (st *Station) BlockedUntil() Tick { return st.blockedUntil }
func (st *Station) Kind() string       { return st.kind }

// RemainingAssembly returns the unspent assembly-time budget.
func (st *Station) RemainingAssembly() Tick { return st.remainingAssembly }

// Reset empties both buffers and restores the assembly budget.
func (st *Station) Reset() {
	st.blockedUntil = 0
	st.remainingAssembly = st.assemblyBudget
	st.input = make(map[*Item]int)
	st.inputUsed = 0
	st.output = make(map[*Item]int)
	st.outputUsed = 0
	st.inProduction = nil
}

// CanRun reports whether the station kind matches the process.
func (st *Station) CanRun(p *Process) bool {
	return p.StationKind == "" || p.StationKind == st.kind
}

func (st *Station) inputFree() int  { return st.inputCapacity - st.inputUsed }
func (st *Station) outputFree() int { return st.outputCapacity - st.outputUsed }

// Perform attempts one production operation. A false return means a
// precondition was not met; the engine retries at a later event time.
func (st *Station) Perform(now Tick, s *Step) bool {
	switch s.Kind {
	case LoadInputBuffer:
		return st.load(now, s)
	case Produce:
		return st.produce(now, s)
	case UnloadToOutputBuffer:
		return st.unload(now, s)
	case MoveOutputToWarehouse:
		return st.moveOutput(now, s)
	}
	st.emit(now, fmt.Sprintf("unsupported operation %s", s.Kind), false)
	return false
}

// load moves one batch worth of BOM inputs from the warehouse into
// the input buffer. Either every line moves or nothing does.
func (st *Station) load(now Tick, s *Step) bool {
	p := st.process(now, s)
	if p == nil {
		return false
	}
	if st.inputFree() < p.InputUnits() {
		st.emit(now, fmt.Sprintf("input buffer full for %s (%d free, %d needed)",
			s.Item.Name, st.inputFree(), p.InputUnits()), false)
		return false
	}
	w := st.plant.Warehouse()
	for _, pos := range p.BOM {
		if !w.Available(pos.Item, pos.Amount) {
			st.emit(now, fmt.Sprintf("%d x %s not in stock for %s",
				pos.Amount, pos.Item.Name, s.Item.Name), false)
			return false
		}
	}
	for _, pos := range p.BOM {
		w.Remove(now, pos.Item, pos.Amount)
		st.input[pos.Item] += pos.Amount
		st.inputUsed += pos.Amount
	}
	st.emit(now, fmt.Sprintf("loaded inputs for one batch of %s", s.Item.Name), true)
	return true
}

// produce runs the process once. The explicit blocked-until
// assignment makes back-to-back runs block for exactly one duration
// from now, regardless of when the previous run finished.
func (st *Station) produce(now Tick, s *Step) bool {
	p := st.process(now, s)
	if p == nil {
		return false
	}
	if st.inProduction != nil {
		st.emit(now, fmt.Sprintf("previous batch of %s not yet unloaded", st.inProduction.Item.Name), false)
		return false
	}
	for _, pos := range p.BOM {
		if st.input[pos.Item] < pos.Amount {
			st.emit(now, fmt.Sprintf("input buffer missing %s for %s", pos.Item.Name, s.Item.Name), false)
			return false
		}
	}
	if st.outputFree() < p.BatchSize {
		st.emit(now, fmt.Sprintf("output buffer full for %s", s.Item.Name), false)
		return false
	}
	if st.remainingAssembly < s.Item.AssemblyTime {
		st.emit(now, fmt.Sprintf("assembly budget exhausted (%d left, %d needed)",
			st.remainingAssembly, s.Item.AssemblyTime), false)
		return false
	}

	for _, pos := range p.BOM {
		st.input[pos.Item] -= pos.Amount
		st.inputUsed -= pos.Amount
		if st.input[pos.Item] == 0 {
			delete(st.input, pos.Item)
		}
	}
	st.remainingAssembly -= s.Item.AssemblyTime
	st.inProduction = &Position{Item: s.Item, Amount: p.BatchSize}
	st.blockedUntil = now + p.Duration
	st.emit(now, fmt.Sprintf("producing %d x %s until %d", p.BatchSize, s.Item.Name, st.blockedUntil), true)
	return true
}

// unload moves the finished batch into the output buffer.
func (st *Station) unload(now Tick, s *Step) bool {
	if st.inProduction == nil || st.inProduction.Item != s.Item {
		st.emit(now, fmt.Sprintf("no finished batch of %s", s.Item.Name), false)
		return false
	}
	if st.outputFree() < st.inProduction.Amount {
		st.emit(now, fmt.Sprintf("output buffer full for %s", s.Item.Name), false)
		return false
	}
	st.output[st.inProduction.Item] += st.inProduction.Amount
	st.outputUsed += st.inProduction.Amount
	st.emit(now, fmt.Sprintf("unloaded %d x %s to output buffer", st.inProduction.Amount, s.Item.Name), true)
	st.inProduction = nil
	return true
}

// moveOutput moves finished units from the output buffer into the
// warehouse.
func (st *Station) moveOutput(now Tick, s *Step) bool {
	if st.output[s.Item] < s.Amount {
		st.emit(now, fmt.Sprintf("only %d x %s in output buffer, %d requested",
			st.output[s.Item], s.Item.Name, s.Amount), false)
		return false
	}
	w := st.plant.Warehouse()
	if !w.SpaceFor(s.Amount) {
		st.emit(now, fmt.Sprintf("warehouse full, cannot store %d x %s", s.Amount, s.Item.Name), false)
		return false
	}
	st.output[s.Item] -= s.Amount
	st.outputUsed -= s.Amount
	if st.output[s.Item] == 0 {
		delete(st.output, s.Item)
	}
	w.Add(now, Position{Item: s.Item, Amount: s.Amount})
	st.emit(now, fmt.Sprintf("moved %d x %s to warehouse", s.Amount, s.Item.Name), true)
	return true
}

// process resolves and gates the process for the step's item.
func (st *Station) process(now Tick, s *Step) *Process {
	p := st.plant.Catalog().ProcessFor(s.Item)
	if p == nil {
		st.emit(now, fmt.Sprintf("no process for %s", s.Item.Name), false)
		return nil
	}
	if !st.CanRun(p) {
		st.emit(now, fmt.Sprintf("station kind %q cannot run process for %s", st.kind, s.Item.Name), false)
		return nil
	}
	return p
}

func (st *Station) emit(now Tick, msg string, completed bool) {
	st.plant.events.Emit(Event{
		Time:      now,
		Category:  CategoryStation,
		Source:    st.name,
		Message:   msg,
		Completed: completed,
	})
}

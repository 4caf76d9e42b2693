/*
csv.go - CSV instance loader

PURPOSE:
  Loads an Instance from a directory of CSV files. One file per
  entity kind, comma-separated with a header row:

    site.csv         name,warehouse_capacity,drivers,horizon
    materials.csv    name,area,engine,types,travel_time
    products.csv     name,assembly_time,batch_size,duration,station_kind,bom
    transporters.csv name,area,kind,engine,capacity
    stations.csv     name,kind,input_capacity,output_capacity,assembly_budget
    orders.csv       id,item,amount,income,travel_time,area,engine,type

  Multi-valued cells use '|' as the inner separator: `types` is a
  list of transporter types, `bom` is a list of `item:amount` pairs.

  The loader only parses; catalog validation (unknown items, cycles,
  batch sizes) happens when the instance is materialized into a
  plant.
*/
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/logistics-engine/factory"
)

// LoadDir reads an instance from a directory of CSV files.
func LoadDir(dir string) (*Instance, error) {
	in := &Instance{}

	if err := readCSV(filepath.Join(dir, "site.csv"), 4, func(rec []string) error {
		in.Name = rec[0]
		var err error
		if in.WarehouseCapacity, err = strconv.Atoi(rec[1]); err != nil {
			return fmt.Errorf("warehouse_capacity: %w", err)
		}
		if in.Drivers, err = strconv.Atoi(rec[2]); err != nil {
			return fmt.Errorf("drivers: %w", err)
		}
		h, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return fmt.Errorf("horizon: %w", err)
		}
		in.Horizon = factory.Tick(h)
		return nil
	}); err != nil {
		return nil, err
	}

	items := make(map[string]*factory.Item)

	if err := readCSV(filepath.Join(dir, "materials.csv"), 5, func(rec []string) error {
		tt, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil {
			return fmt.Errorf("travel_time: %w", err)
		}
		it := &factory.Item{
			Name: rec[0],
			Kind: factory.KindMaterial,
			Route: factory.Route{
				Area:   rec[1],
				Engine: rec[2],
				Types:  strings.Split(rec[3], "|"),
			},
			TravelTime: factory.Tick(tt),
		}
		items[it.Name] = it
		in.Items = append(in.Items, it)
		return nil
	}); err != nil {
		return nil, err
	}

	type rawProduct struct {
		item *factory.Item
		rec  []string
	}
	var rawProducts []rawProduct

	if err := readCSV(filepath.Join(dir, "products.csv"), 6, func(rec []string) error {
		at, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return fmt.Errorf("assembly_time: %w", err)
		}
		it := &factory.Item{
			Name:         rec[0],
			Kind:         factory.KindProduct,
			AssemblyTime: factory.Tick(at),
		}
		items[it.Name] = it
		in.Items = append(in.Items, it)
		rawProducts = append(rawProducts, rawProduct{item: it, rec: rec})
		return nil
	}); err != nil {
		return nil, err
	}

	// Resolve BOMs in a second pass so products may reference each
	// other regardless of file order.
	for _, rp := range rawProducts {
		batch, err := strconv.Atoi(rp.rec[2])
		if err != nil {
			return nil, fmt.Errorf("product %s batch_size: %w", rp.item.Name, err)
		}
		dur, err := strconv.ParseInt(rp.rec[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("product %s duration: %w", rp.item.Name, err)
		}
		bom, err := parseBOM(rp.rec[5], items)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", rp.item.Name, err)
		}
		in.Processes = append(in.Processes, &factory.Process{
			Output:      rp.item,
			BatchSize:   batch,
			Duration:    factory.Tick(dur),
			StationKind: rp.rec[4],
			BOM:         bom,
		})
	}

	if err := readCSV(filepath.Join(dir, "transporters.csv"), 5, func(rec []string) error {
		capacity, err := strconv.Atoi(rec[4])
		if err != nil {
			return fmt.Errorf("capacity: %w", err)
		}
		in.Transporters = append(in.Transporters, TransporterSpec{
			Name: rec[0], Area: rec[1], Kind: rec[2], Engine: rec[3], Capacity: capacity,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readCSV(filepath.Join(dir, "stations.csv"), 5, func(rec []string) error {
		inCap, err := strconv.Atoi(rec[2])
		if err != nil {
			return fmt.Errorf("input_capacity: %w", err)
		}
		outCap, err := strconv.Atoi(rec[3])
		if err != nil {
			return fmt.Errorf("output_capacity: %w", err)
		}
		budget, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil {
			return fmt.Errorf("assembly_budget: %w", err)
		}
		in.Stations = append(in.Stations, StationSpec{
			Name: rec[0], Kind: rec[1],
			InputCapacity: inCap, OutputCapacity: outCap,
			AssemblyBudget: factory.Tick(budget),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readCSV(filepath.Join(dir, "orders.csv"), 8, func(rec []string) error {
		it, ok := items[rec[1]]
		if !ok {
			return fmt.Errorf("order %s: item %q: %w", rec[0], rec[1], factory.ErrUnknownItem)
		}
		amount, err := strconv.Atoi(rec[2])
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		income, err := decimal.NewFromString(rec[3])
		if err != nil {
			return fmt.Errorf("income: %w", err)
		}
		tt, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil {
			return fmt.Errorf("travel_time: %w", err)
		}
		in.Orders = append(in.Orders, &factory.Order{
			ID:         rec[0],
			Item:       it,
			Amount:     amount,
			Income:     income,
			TravelTime: factory.Tick(tt),
			Route: factory.Route{
				Area:   rec[5],
				Engine: rec[6],
				Types:  []string{rec[7]},
			},
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return in, nil
}

// readCSV opens the file, checks the column count and hands every
// data row (header skipped) to fn.
func readCSV(path string, columns int, fn func(rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	for i, rec := range recs {
		if i == 0 {
			continue // header
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("%s row %d: %w", filepath.Base(path), i+1, err)
		}
	}
	return nil
}

// parseBOM parses "item:amount|item:amount" against known items. An
// empty cell is an empty BOM.
func parseBOM(cell string, items map[string]*factory.Item) ([]factory.Position, error) {
	if cell == "" {
		return nil, nil
	}
	var bom []factory.Position
	for _, part := range strings.Split(cell, "|") {
		name, amountStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("malformed bom entry %q", part)
		}
		it, found := items[name]
		if !found {
			return nil, fmt.Errorf("bom item %q: %w", name, factory.ErrUnknownItem)
		}
		amount, err := strconv.Atoi(amountStr)
		if err != nil {
			return nil, fmt.Errorf("bom entry %q: %w", part, err)
		}
		bom = append(bom, factory.Position{Item: it, Amount: amount})
	}
	return bom, nil
}

/*
main.go - Command-line simulation runner

PURPOSE:
  Loads an instance, plans the backlog, runs the simulation and prints
  a summary. The fastest way to compare planners on an instance
  without standing up the server.

COMMAND-LINE FLAGS:
  -instance  Built-in instance name: small, medium (default: small)
  -csv       Directory with a CSV instance (overrides -instance)
  -planner   Planner: fcfs, depth (default: fcfs)
  -orders    How many backlog orders to plan (default: all)
  -horizon   Simulation horizon in ticks (default: instance horizon)
  -shortcut  Enable the warehouse fast path
  -events    Print events of one category after the run
             (driver|station|transporter|warehouse|stock|step|simulation)
  -verbose   Stream every event while the run executes

EXAMPLES:
  ./simulate -instance=small
  ./simulate -instance=medium -planner=depth -events=step
  ./simulate -csv=./fixtures/site -horizon=500 -shortcut
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/warp/logistics-engine/dataset"
	"github.com/warp/logistics-engine/factory"
	"github.com/warp/logistics-engine/planner"
)

func main() {
	instanceName := flag.String("instance", "small", "built-in instance: small, medium")
	csvDir := flag.String("csv", "", "directory with a CSV instance (overrides -instance)")
	plannerName := flag.String("planner", "fcfs", "planner: fcfs, depth")
	orderCount := flag.Int("orders", 0, "orders to plan (0 = all)")
	horizon := flag.Int64("horizon", 0, "simulation horizon in ticks (0 = instance default)")
	shortcut := flag.Bool("shortcut", false, "enable the warehouse fast path")
	events := flag.String("events", "", "print events of one category after the run")
	verbose := flag.Bool("verbose", false, "stream every event while running")
	flag.Parse()

	in, err := loadInstance(*instanceName, *csvDir)
	if err != nil {
		log.Fatalf("Failed to load instance: %v", err)
	}

	plant, err := in.NewPlant()
	if err != nil {
		log.Fatalf("Failed to build plant: %v", err)
	}
	if *verbose {
		plant.Events().SubscribeAll(func(e factory.Event) {
			fmt.Println(e)
		})
	}

	pl, err := buildPlanner(*plannerName, plant)
	if err != nil {
		log.Fatal(err)
	}

	count := *orderCount
	if count <= 0 {
		count = len(in.Orders)
	}
	plan, err := pl.Plan(count)
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	h := in.Horizon
	if *horizon > 0 {
		h = factory.Tick(*horizon)
	}
	var opts []factory.RunOption
	if *shortcut {
		opts = append(opts, factory.WithWarehouseShortcut())
	}
	result, err := plant.Run(plan.Steps, h, opts...)
	if err != nil {
		log.Fatalf("Run rejected: %v", err)
	}

	fmt.Printf("instance  %s\n", in.Name)
	fmt.Printf("planner   %s (%d orders, %d steps)\n", pl.Name(), count, len(plan.Steps))
	fmt.Printf("horizon   %d\n", h)
	fmt.Printf("finished  t=%d, %d steps remaining\n", result.FinalTime, result.RemainingSteps)
	fmt.Printf("income    %s\n", result.Income.String())

	stock := plant.Warehouse().Snapshot()
	if len(stock) > 0 {
		fmt.Println("stock:")
		for _, pos := range stock {
			fmt.Printf("  %4d x %s\n", pos.Amount, pos.Item.Name)
		}
	}
	if plan.Attribution != nil {
		fmt.Println("attribution:")
		for item, byOrder := range plan.Attribution {
			for orderID, units := range byOrder {
				fmt.Printf("  %s: %d units for %s\n", item, units, orderID)
			}
		}
	}
	if *events != "" {
		for _, e := range plant.Events().ByCategory(factory.Category(*events)) {
			fmt.Println(e)
		}
	}

	if result.RemainingSteps > 0 {
		os.Exit(1)
	}
}

func loadInstance(name, csvDir string) (*dataset.Instance, error) {
	if csvDir != "" {
		return dataset.LoadDir(csvDir)
	}
	in := dataset.Builtin(name)
	if in == nil {
		return nil, fmt.Errorf("unknown instance %q (want small or medium)", name)
	}
	return in, nil
}

func buildPlanner(name string, plant *factory.Plant) (planner.Planner, error) {
	switch name {
	case "fcfs":
		return planner.NewFCFS(plant), nil
	case "depth":
		return planner.NewDepth(plant), nil
	}
	return nil, fmt.Errorf("unknown planner %q (want fcfs or depth)", name)
}

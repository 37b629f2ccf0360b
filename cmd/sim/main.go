package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/simulation"
	"github.com/jengzang/traffic-backend-go/internal/traffic"
	"github.com/jengzang/traffic-backend-go/internal/viz"
)

func main() {
	gridSize := flag.Int("grid", simulation.DefaultGridSize, "grid dimension (NxN intersections)")
	steps := flag.Int("steps", 24, "number of simulation steps")
	seed := flag.Int64("seed", 0, "random seed for the traffic distribution (0 = from clock)")
	emergencyScenario := flag.Bool("emergency", true, "run the emergency response comparison scenario")
	render := flag.Int("render", 3, "render the grid every N steps (0 = never)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	source := traffic.NewMemorySource(traffic.GenerateWeek(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	distributor := traffic.NewDistributor(rand.New(rand.NewSource(*seed)))
	engine := simulation.NewEngine(source, distributor, *gridSize)

	if !*emergencyScenario {
		runPlain(engine, *steps, *render)
		printMetrics(engine)
		return
	}

	fmt.Println("Running emergency vehicle scenario...")
	if _, err := engine.RunSimulation(*steps, true); err != nil {
		log.Fatal("Simulation failed:", err)
	}

	if *render > 0 {
		fmt.Println(viz.RenderGrid(engine.Snapshot()))
	}
	printMetrics(engine)
}

func runPlain(engine *simulation.Engine, steps, render int) {
	for i := 0; i < steps; i++ {
		if _, err := engine.RunStep(); err != nil {
			log.Fatal("Simulation failed:", err)
		}
		if render > 0 && i%render == 0 {
			fmt.Println(viz.RenderGrid(engine.Snapshot()))
		}
	}
}

func printMetrics(engine *simulation.Engine) {
	metrics := engine.Metrics()

	fmt.Println("\nSimulation Results:")
	if comparison := engine.Comparison(); comparison != nil {
		fmt.Printf("Normal response time: %.1f seconds\n", comparison.NormalResponseTime)
		fmt.Printf("Emergency response time: %.1f seconds\n", comparison.EmergencyResponseTime)
		fmt.Printf("Improvement: %.1f%%\n", comparison.ImprovementPercent)
	}

	if n := len(metrics.AverageWaitTime); n > 0 {
		fmt.Printf("Average wait time: %.1f vehicles\n", metrics.AverageWaitTime[n-1])
	}
	if n := len(metrics.FairnessIndex); n > 0 {
		fmt.Printf("Fairness index: %.3f (1.0 is perfectly fair)\n", metrics.FairnessIndex[n-1])
	}

	if metrics.Emergency != nil && metrics.Emergency.CompletedEmergencies > 0 {
		fmt.Printf("Simulated corridor travel time: %.0f seconds\n", *metrics.Emergency.AvgTravelTime)
	}
}

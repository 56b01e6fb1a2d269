package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/plus3/vaabbit/spatial"
)

func main() {
	count := flag.Int("n", 1000, "Number of boxes to index.")
	queries := flag.Int("queries", 1000, "Number of region queries.")
	extent := flag.Float64("extent", 1000, "Side of the square the boxes are placed in.")
	size := flag.Float64("size", 30, "Side of every indexed box.")
	depth := flag.Int("depth", 8, "Quadtree maximum depth.")
	margin := flag.Float64("margin", float64(spatial.DefaultMargin), "Dynamic tree leaf margin.")
	seed := flag.Uint64("seed", 8694, "Random seed.")
	brute := flag.Bool("brute", false, "Also check both trees against a linear scan.")
	visual := flag.Bool("visual", false, "Open a window showing both trees.")
	flag.Parse()

	r := rand.New(rand.NewPCG(*seed, *seed))
	workload := NewWorkload(r, *count, *queries, float32(*extent), float32(*size))

	half := float32(*extent)
	quad := spatial.NewQuadTree[uint32](half, half, *depth)
	dyn := spatial.NewDynamicTree[uint32](float32(*margin))

	log.Printf("Indexing %d boxes, running %d queries...", *count, *queries)
	qt := run("quadtree", quad, workload)
	dt := run("dynamic-tree", dyn, workload)

	for _, t := range []Timing{qt, dt} {
		fmt.Printf("%-13s build %-12s query %-12s nodes %-6d hits %d\n", t.Name, t.Build, t.Query, t.Nodes, t.Hits)
	}

	mismatches := CrossCheck(qt, dt)
	if *brute {
		bt := BruteForce(workload)
		fmt.Printf("%-13s build %-12s query %-12s nodes %-6d hits %d\n", bt.Name, "-", bt.Query, 0, bt.Hits)
		mismatches = append(mismatches, CrossCheck(qt, bt)...)
	}

	for _, m := range mismatches {
		log.Printf("query %d (%v): %v vs %v", m.Query, workload.Queries[m.Query], m.A, m.B)
	}
	if len(mismatches) > 0 {
		log.Printf("%d mismatching queries", len(mismatches))
		os.Exit(1)
	}
	log.Println("All queries agree.")

	if *visual {
		if err := runVisual(quad, dyn, workload, float32(*extent)); err != nil {
			log.Fatalf("visual: %v", err)
		}
	}
}

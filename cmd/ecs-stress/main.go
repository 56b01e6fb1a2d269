package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/physics"
	"github.com/plus3/vaabbit/shapes"
)

const (
	arenaWidth  = 640
	arenaHeight = 480
)

// Frame is the context handed to every actor each update.
type Frame struct {
	Dt float32
}

// Bunny bounces around the arena without reacting to contact.
type Bunny struct {
	Vel shapes.Vec2
}

func (b *Bunny) Update(self ecs.Id[Bunny], w *ecs.World, f Frame) {
	b.Vel = bounce(ecs.MoveBy(w, self, b.Vel.Scale(f.Dt)), b.Vel)
}

// Crasher bounces like a Bunny and counts every body it runs into.
type Crasher struct {
	Vel  shapes.Vec2
	Hits int
}

func (c *Crasher) Update(self ecs.Id[Crasher], w *ecs.World, f Frame) {
	c.Vel = bounce(ecs.MoveBy(w, self, c.Vel.Scale(f.Dt)), c.Vel)
}

func (c *Crasher) OnCollision(self ecs.Id[Crasher], other ecs.EntityId, w *ecs.World) {
	c.Hits++
}

// bounce reflects vel off the arena edges once pos has left them.
func bounce(pos, vel shapes.Vec2) shapes.Vec2 {
	if (pos.X < 0 && vel.X < 0) || (pos.X > arenaWidth && vel.X > 0) {
		vel.X = -vel.X
	}
	if (pos.Y < 0 && vel.Y < 0) || (pos.Y > arenaHeight && vel.Y > 0) {
		vel.Y = -vel.Y
	}
	return vel
}

func randomVelocity(r *rand.Rand) shapes.Vec2 {
	return shapes.V(r.Float32()*120-60, r.Float32()*120-60)
}

func randomPos(r *rand.Rand) shapes.Vec2 {
	return shapes.V(r.Float32()*arenaWidth, r.Float32()*arenaHeight)
}

func spawnBunnies(w *ecs.World, n int) {
	r := w.Rand()
	for range n {
		ecs.AddActor[Bunny, Frame](w, Bunny{Vel: randomVelocity(r)},
			ecs.At(randomPos(r)), ecs.Shaped(shapes.FromPosSize(shapes.Vec2{}, shapes.V(26, 37))))
	}
}

func spawnCrashers(w *ecs.World, n int) {
	r := w.Rand()
	for range n {
		ecs.AddActor[Crasher, Frame](w, Crasher{Vel: randomVelocity(r)},
			ecs.At(randomPos(r)), ecs.Shaped(shapes.Circle{Radius: 8}))
	}
}

func parseIndex(name string) (physics.IndexKind, error) {
	switch name {
	case physics.IndexDynamicTree.String():
		return physics.IndexDynamicTree, nil
	case physics.IndexQuadTree.String():
		return physics.IndexQuadTree, nil
	default:
		return 0, fmt.Errorf("unknown index %q (want %s or %s)", name, physics.IndexDynamicTree, physics.IndexQuadTree)
	}
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of bunnies to create.")
	colliderCount := flag.Int("colliders", 100, "The number of colliding actors to create.")
	spawnPerFrame := flag.Int("spawn", 0, "Bunnies added every frame while under -max.")
	maxEntities := flag.Int("max", 500000, "Upper bound on bunnies when -spawn is set.")
	indexName := flag.String("index", physics.IndexDynamicTree.String(), "Spatial index: dynamic-tree or quadtree.")
	seed := flag.Uint64("seed", 8694, "Random seed for placement.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	verbose := flag.Bool("v", false, "Log world diagnostics.")
	flag.Parse()

	index, err := parseIndex(*indexName)
	if err != nil {
		log.Fatal(err)
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("unknown profile mode %q", *profileMode)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	log.Println("Starting world stress test...")

	config := physics.DefaultConfig()
	config.Index = index
	world := ecs.NewWorld(
		ecs.WithPhysics(config),
		ecs.WithLogger(logger),
		ecs.WithRand(rand.New(rand.NewPCG(*seed, *seed))),
	)

	log.Printf("Populating world with %d bunnies and %d colliders...\n", *entityCount, *colliderCount)
	spawnBunnies(world, *entityCount)
	spawnCrashers(world, *colliderCount)
	log.Println("Population complete.")

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Colliders:      *colliderCount,
		Index:          index.String(),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			if *spawnPerFrame > 0 && ecs.Count[Bunny](world) < *maxEntities {
				spawnBunnies(world, *spawnPerFrame)
			}

			ecs.UpdateSystems(world, Frame{Dt: float32(deltaTime.Seconds())})
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, world.LogicUpdate())

			if world.Frames()%1000 == 0 {
				log.Printf("frame %d: entities=%d logic=%s", world.Frames(), world.Len(), world.LogicUpdate())
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = world.Frames()
	report.FinalEntities = world.Len()
	report.UpdateTime.Finalize()
	report.Systems = world.Stats().Systems
	for _, c := range ecs.Query[Crasher](world) {
		report.Collisions += c.Hits
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

package ecs_test

import (
	"bytes"
	"log/slog"

	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/shapes"
)

// Frame is the per-frame context used by most tests.
type Frame struct {
	Tick  int
	Trace *[]string
}

func (f Frame) trace(s string) {
	if f.Trace != nil {
		*f.Trace = append(*f.Trace, s)
	}
}

// Walker moves by Step every frame and records what it ran into.
type Walker struct {
	Name    string
	Step    shapes.Vec2
	Updates int
	Hits    []ecs.EntityId
}

func (wk *Walker) Update(self ecs.Id[Walker], w *ecs.World, f Frame) {
	wk.Updates++
	f.trace(wk.Name)
	if wk.Step != (shapes.Vec2{}) {
		ecs.MoveBy(w, self, wk.Step)
	}
}

func (wk *Walker) OnCollision(self ecs.Id[Walker], other ecs.EntityId, w *ecs.World) {
	wk.Hits = append(wk.Hits, other)
}

// Wall never moves and has no collision callback.
type Wall struct {
	Name string
}

func (wl *Wall) Update(self ecs.Id[Wall], w *ecs.World, f Frame) {
	f.trace(wl.Name)
}

// Counter is a passive target for deferred mutations and events.
type Counter struct {
	N int
}

func (c *Counter) Update(self ecs.Id[Counter], w *ecs.World, f Frame) {}

// Poker bumps its target through the deferred queue and records what it
// could observe right after queuing.
type Poker struct {
	Target ecs.Id[Counter]
	Seen   []int
}

func (p *Poker) Update(self ecs.Id[Poker], w *ecs.World, f Frame) {
	ecs.With(w, p.Target, func(c *Counter) { c.N++ })
	if c := ecs.Get(w, p.Target); c != nil {
		p.Seen = append(p.Seen, c.N)
	}
}

// Scored is emitted by Scorer every frame.
type Scored struct {
	Points int
}

type Scorer struct {
	Points int
	// Handled is the number of handlers run by the last emit.
	Handled int
}

func (s *Scorer) Update(self ecs.Id[Scorer], w *ecs.World, f Frame) {
	s.Handled = ecs.Emit(w, self, Scored{Points: s.Points})
}

// Quitter removes itself on its first update.
type Quitter struct {
	Updates int
}

func (q *Quitter) Update(self ecs.Id[Quitter], w *ecs.World, f Frame) {
	q.Updates++
	ecs.Remove(w, self)
}

// RenderFrame is a second context type, updated separately from Frame.
type RenderFrame struct {
	Drawn *int
}

type Sprite struct{}

func (s *Sprite) Update(self ecs.Id[Sprite], w *ecs.World, f RenderFrame) {
	*f.Drawn++
}

// Unused is a context type nothing is registered for.
type Unused struct{}

func newTestWorld(opts ...ecs.Option) (*ecs.World, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]ecs.Option{ecs.WithLogger(logger)}, opts...)
	return ecs.NewWorld(opts...), &logs
}

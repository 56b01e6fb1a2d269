// Package ecs hosts typed entities in a shared world: each entity is a value
// of its own Go type, updated once per frame, positioned by a body in a
// spatial index and able to mutate other entities through a deferred queue.
package ecs

import (
	"iter"
	"log/slog"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/plus3/vaabbit/physics"
	"github.com/plus3/vaabbit/shapes"
	"github.com/plus3/vaabbit/spatial"
)

type collisionPair struct {
	mover EntityId
	other EntityId
}

// World owns every entity, its body and the queues connecting them.
type World struct {
	registry *Registry
	space    *physics.Space[EntityId]
	commands *Commands
	events   *EventBus

	systems  map[reflect.Type][]*updater
	updaters []*updater

	logger       *slog.Logger
	rand         *rand.Rand
	defaultShape shapes.Shape

	pairs map[collisionPair]struct{}
	hits  []physics.Body[EntityId]

	logicUpdate time.Duration
	frames      int64
}

type worldConfig struct {
	physics      physics.Config
	logger       *slog.Logger
	rand         *rand.Rand
	defaultShape shapes.Shape
}

// Option configures a World.
type Option func(*worldConfig)

// WithPhysics selects the spatial index used for bodies.
func WithPhysics(config physics.Config) Option {
	return func(c *worldConfig) {
		c.physics = config
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *worldConfig) {
		c.logger = logger
	}
}

// WithRand injects the random source handed out by World.Rand.
func WithRand(r *rand.Rand) Option {
	return func(c *worldConfig) {
		c.rand = r
	}
}

// WithDefaultShape sets the body shape of actors added without Shaped.
func WithDefaultShape(shape shapes.Shape) Option {
	return func(c *worldConfig) {
		c.defaultShape = shape
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	cfg := worldConfig{
		physics:      physics.DefaultConfig(),
		defaultShape: shapes.NewAABB(shapes.V(0, 0), shapes.V(32, 32)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.rand == nil {
		cfg.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &World{
		registry:     newRegistry(),
		space:        physics.NewSpace[EntityId](cfg.physics),
		commands:     newCommands(),
		events:       newEventBus(),
		systems:      make(map[reflect.Type][]*updater),
		logger:       cfg.logger,
		rand:         cfg.rand,
		defaultShape: cfg.defaultShape,
		pairs:        make(map[collisionPair]struct{}),
	}
}

func (w *World) Registry() *Registry {
	return w.registry
}

func (w *World) Commands() *Commands {
	return w.commands
}

func (w *World) Events() *EventBus {
	return w.events
}

func (w *World) Logger() *slog.Logger {
	return w.logger
}

// Rand returns the world's random source for placement logic.
func (w *World) Rand() *rand.Rand {
	return w.rand
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.registry.Len()
}

// Frames returns the number of completed UpdateSystems calls.
func (w *World) Frames() int64 {
	return w.frames
}

// LogicUpdate returns how long the last UpdateSystems call took.
func (w *World) LogicUpdate() time.Duration {
	return w.logicUpdate
}

// Extent returns the bounds enclosing every body as of the last frame.
func (w *World) Extent() shapes.AABB {
	return w.space.Extent()
}

// DebugTree describes every node of the spatial index.
func (w *World) DebugTree() []spatial.DebugNode {
	return w.space.DebugInfo()
}

// QueryRegion returns the entities whose body bounds overlap bounds.
func (w *World) QueryRegion(bounds shapes.AABB) []EntityId {
	hits := w.space.Query(bounds, nil)
	out := make([]EntityId, 0, len(hits))
	for _, b := range hits {
		out = append(out, b.Owner)
	}
	return out
}

// BodyOption configures the body of an actor being added.
type BodyOption func(*physics.Body[EntityId])

// At places the body at pos.
func At(pos shapes.Vec2) BodyOption {
	return func(b *physics.Body[EntityId]) {
		b.Pos = pos
	}
}

// Shaped gives the body shape, in local coordinates. A nil shape makes a
// point body.
func Shaped(shape shapes.Shape) BodyOption {
	return func(b *physics.Body[EntityId]) {
		b.Shape = shape
	}
}

// AsKind sets the body kind. Defaults to physics.KindActor.
func AsKind(kind physics.Kind) BodyOption {
	return func(b *physics.Body[EntityId]) {
		b.Kind = kind
	}
}

// AddActor stores actor in the world and gives it a body. The first actor
// of type T registers T for updates under frame context C.
func AddActor[T any, C any, PT Actor[T, C]](w *World, actor T, opts ...BodyOption) Id[T] {
	s, created := registerType[T](w.registry)
	registerUpdater[T, C, PT](w, s)
	if created {
		w.logger.Debug("ecs: registered entity type", "type", s.typ.String(), "context", reflect.TypeFor[C]().String())
	}

	id := s.insert(actor)
	body := physics.Body[EntityId]{
		Kind:  physics.KindActor,
		Shape: w.defaultShape,
	}
	for _, opt := range opts {
		opt(&body)
	}
	w.space.Add(id.Erase(), body)
	return id
}

// Remove deletes the entity, its body and every subscription it takes part
// in. Returns false when id is already stale.
func Remove[T any](w *World, id Id[T]) bool {
	return RemoveEntity(w, id.Erase())
}

// RemoveEntity is Remove for an erased id.
func RemoveEntity(w *World, e EntityId) bool {
	if !w.registry.remove(e) {
		return false
	}
	w.space.Remove(e)
	w.events.drop(e)
	return true
}

// Get resolves id. It returns nil when the entity was removed or its type
// was never added. Inside the entity's own update, Get returns the copy
// being updated.
func Get[T any](w *World, id Id[T]) *T {
	s := storeOf[T](w.registry)
	if s == nil {
		return nil
	}
	return s.get(id)
}

// Contains reports whether e resolves to a live entity.
func (w *World) Contains(e EntityId) bool {
	return w.registry.Contains(e)
}

// BodyOf returns the current body of an entity of any type.
func (w *World) BodyOf(e EntityId) (physics.Body[EntityId], bool) {
	return w.space.Get(e)
}

// Query iterates the live entities of type T in insertion order.
func Query[T any](w *World) iter.Seq2[Id[T], *T] {
	return func(yield func(Id[T], *T) bool) {
		s := storeOf[T](w.registry)
		if s == nil {
			return
		}
		for _, id := range s.ids() {
			e := s.get(id)
			if e == nil {
				continue
			}
			if !yield(id, e) {
				return
			}
		}
	}
}

// Count returns the number of live entities of type T.
func Count[T any](w *World) int {
	s := storeOf[T](w.registry)
	if s == nil {
		return 0
	}
	return s.Len()
}

// Body returns the current body of id.
func Body[T any](w *World, id Id[T]) (physics.Body[EntityId], bool) {
	return w.space.Get(id.Erase())
}

// Pos returns the body position of id, or the zero vector when it has no
// body.
func Pos[T any](w *World, id Id[T]) shapes.Vec2 {
	b, ok := w.space.Get(id.Erase())
	if !ok {
		w.logger.Warn("ecs: position of entity without body", "id", id.String())
		return shapes.Vec2{}
	}
	return b.Pos
}

// SetPos moves the body of id to pos and runs collision detection.
func SetPos[T any](w *World, id Id[T], pos shapes.Vec2) bool {
	return updateBody(w, id, func(b *physics.Body[EntityId]) {
		b.Pos = pos
	})
}

// MoveBy offsets the body of id by delta and returns the new position.
func MoveBy[T any](w *World, id Id[T], delta shapes.Vec2) shapes.Vec2 {
	var pos shapes.Vec2
	updateBody(w, id, func(b *physics.Body[EntityId]) {
		b.Pos = b.Pos.Add(delta)
		pos = b.Pos
	})
	return pos
}

// SetShape replaces the body shape of id and runs collision detection.
func SetShape[T any](w *World, id Id[T], shape shapes.Shape) bool {
	return updateBody(w, id, func(b *physics.Body[EntityId]) {
		b.Shape = shape
	})
}

// SetKind changes the body kind of id and runs collision detection.
func SetKind[T any](w *World, id Id[T], kind physics.Kind) bool {
	return updateBody(w, id, func(b *physics.Body[EntityId]) {
		b.Kind = kind
	})
}

func updateBody[T any](w *World, id Id[T], change func(*physics.Body[EntityId])) bool {
	self := id.Erase()
	body, ok := w.space.Get(self)
	if !ok {
		w.logger.Warn("ecs: body update of entity without body", "id", id.String())
		return false
	}
	change(&body)
	w.space.Update(self, body)
	collide(w, id, body)
	return true
}

// collide queues OnCollision on the mover for every body its new shape
// truly overlaps, at most once per pair per frame.
func collide[T any](w *World, id Id[T], body physics.Body[EntityId]) {
	if _, ok := any((*T)(nil)).(Collider[T]); !ok {
		return
	}

	self := id.Erase()
	w.hits = w.space.Query(body.Bounds(), w.hits[:0])
	for i := range w.hits {
		other := &w.hits[i]
		if other.Owner == self || !body.Overlaps(other) {
			continue
		}

		pair := collisionPair{mover: self, other: other.Owner}
		if _, seen := w.pairs[pair]; seen {
			continue
		}
		w.pairs[pair] = struct{}{}

		otherId := other.Owner
		WithWorld(w, id, func(e *T, w *World) {
			any(e).(Collider[T]).OnCollision(id, otherId, w)
		})
	}
}

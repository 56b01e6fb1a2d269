package ecs

import (
	"reflect"

	"github.com/plus3/vaabbit/arena"
)

// iEntityStore is the type-erased view of an entityStore.
type iEntityStore interface {
	Type() reflect.Type
	Len() int
	Contains(key arena.Key) bool
	remove(key arena.Key) bool
	lookup(key arena.Key) any
	erasedIds() []EntityId
}

// entityStore holds every entity of one type. order keeps insertion order
// for updates; it is compacted lazily after removals.
type entityStore[T any] struct {
	typ      reflect.Type
	entities *arena.Arena[T]
	order    []Id[T]
	dirty    bool

	// the entity currently being updated lives in working until put back
	active  Id[T]
	working T
}

func newEntityStore[T any]() *entityStore[T] {
	return &entityStore[T]{
		typ:      reflect.TypeFor[T](),
		entities: arena.New[T](),
	}
}

func (s *entityStore[T]) Type() reflect.Type {
	return s.typ
}

func (s *entityStore[T]) Len() int {
	return s.entities.Len()
}

func (s *entityStore[T]) Contains(key arena.Key) bool {
	return s.entities.Contains(key)
}

func (s *entityStore[T]) insert(v T) Id[T] {
	id := Id[T]{Key: s.entities.Insert(v)}
	s.order = append(s.order, id)
	return id
}

func (s *entityStore[T]) get(id Id[T]) *T {
	if !s.active.IsZero() && id == s.active {
		if !s.entities.Contains(id.Key) {
			return nil
		}
		return &s.working
	}
	return s.entities.Get(id.Key)
}

func (s *entityStore[T]) lookup(key arena.Key) any {
	if e := s.get(Id[T]{Key: key}); e != nil {
		return e
	}
	return nil
}

func (s *entityStore[T]) remove(key arena.Key) bool {
	if _, ok := s.entities.Remove(key); !ok {
		return false
	}
	s.dirty = true
	return true
}

// ids returns a snapshot of the live ids in insertion order.
func (s *entityStore[T]) ids() []Id[T] {
	if s.dirty {
		live := s.order[:0]
		for _, id := range s.order {
			if s.entities.Contains(id.Key) {
				live = append(live, id)
			}
		}
		clear(s.order[len(live):])
		s.order = live
		s.dirty = false
	}
	out := make([]Id[T], len(s.order))
	copy(out, s.order)
	return out
}

func (s *entityStore[T]) erasedIds() []EntityId {
	ids := s.ids()
	out := make([]EntityId, len(ids))
	for i, id := range ids {
		out[i] = EntityId{Type: s.typ, Key: id.Key}
	}
	return out
}

// take moves the entity into the working copy. Returns false when the id
// no longer resolves.
func (s *entityStore[T]) take(id Id[T]) (*T, bool) {
	p := s.entities.Get(id.Key)
	if p == nil {
		return nil, false
	}
	s.working = *p
	s.active = id
	return &s.working, true
}

// putBack writes the working copy back unless the entity was removed while
// it was taken.
func (s *entityStore[T]) putBack() {
	if p := s.entities.Get(s.active.Key); p != nil {
		*p = s.working
	}
	var zero T
	s.working = zero
	s.active = Id[T]{}
}

// Registry maps entity types to their stores, remembering the order in
// which types were first seen.
type Registry struct {
	stores map[reflect.Type]iEntityStore
	types  []reflect.Type
}

func newRegistry() *Registry {
	return &Registry{
		stores: make(map[reflect.Type]iEntityStore),
	}
}

// registerType returns the store for T, creating it on first use.
func registerType[T any](r *Registry) (*entityStore[T], bool) {
	t := reflect.TypeFor[T]()
	if s, ok := r.stores[t]; ok {
		return s.(*entityStore[T]), false
	}
	s := newEntityStore[T]()
	r.stores[t] = s
	r.types = append(r.types, t)
	return s, true
}

func storeOf[T any](r *Registry) *entityStore[T] {
	s, ok := r.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return s.(*entityStore[T])
}

// Types returns the registered entity types in registration order.
func (r *Registry) Types() []reflect.Type {
	out := make([]reflect.Type, len(r.types))
	copy(out, r.types)
	return out
}

// Len returns the number of live entities across all types.
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.stores {
		n += s.Len()
	}
	return n
}

// Contains reports whether e still resolves to a live entity.
func (r *Registry) Contains(e EntityId) bool {
	s, ok := r.stores[e.Type]
	return ok && s.Contains(e.Key)
}

// Count returns the number of live entities of type t.
func (r *Registry) Count(t reflect.Type) int {
	if s, ok := r.stores[t]; ok {
		return s.Len()
	}
	return 0
}

// Ids returns the live ids of type t in insertion order.
func (r *Registry) Ids(t reflect.Type) []EntityId {
	if s, ok := r.stores[t]; ok {
		return s.erasedIds()
	}
	return nil
}

// Lookup returns a pointer to the entity e refers to, as an any, or nil.
func (r *Registry) Lookup(e EntityId) any {
	if s, ok := r.stores[e.Type]; ok {
		return s.lookup(e.Key)
	}
	return nil
}

func (r *Registry) remove(e EntityId) bool {
	s, ok := r.stores[e.Type]
	return ok && s.remove(e.Key)
}

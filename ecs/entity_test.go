package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/vaabbit/arena"
	"github.com/plus3/vaabbit/ecs"
	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	id := ecs.Id[Walker]{Key: arena.NewKey(3, 1)}

	t.Run("erase keeps type and key", func(t *testing.T) {
		e := id.Erase()
		assert.Equal(t, reflect.TypeFor[Walker](), e.Type)
		assert.Equal(t, id.Key, e.Key)
		assert.Equal(t, e, id.Erase(), "erased ids are comparable")
	})

	t.Run("as and is", func(t *testing.T) {
		e := id.Erase()

		back, ok := ecs.As[Walker](e)
		assert.True(t, ok)
		assert.Equal(t, id, back)

		_, ok = ecs.As[Wall](e)
		assert.False(t, ok)

		assert.True(t, ecs.Is[Walker](e))
		assert.False(t, ecs.Is[Wall](e))
	})

	t.Run("generation is part of equality", func(t *testing.T) {
		newer := ecs.Id[Walker]{Key: arena.NewKey(3, 2)}
		assert.NotEqual(t, id, newer)
		assert.NotEqual(t, id.Erase(), newer.Erase())

		set := map[ecs.EntityId]bool{id.Erase(): true}
		assert.False(t, set[newer.Erase()])
	})

	t.Run("same key different type", func(t *testing.T) {
		wall := ecs.Id[Wall]{Key: id.Key}
		assert.NotEqual(t, id.Erase(), wall.Erase())
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "Id[ecs_test.Walker](index=3, gen=1)", id.String())
		assert.Equal(t, id.String(), id.Erase().String())
		assert.Equal(t, "EntityId(nil)", ecs.EntityId{}.String())
	})

	t.Run("zero", func(t *testing.T) {
		assert.True(t, ecs.Id[Walker]{}.IsZero())
		assert.True(t, ecs.EntityId{}.IsZero())
		assert.False(t, id.IsZero())
	})
}

func TestRegistry(t *testing.T) {
	w, _ := newTestWorld()
	a := ecs.AddActor[Walker, Frame](w, Walker{})
	ecs.AddActor[Wall, Frame](w, Wall{})
	b := ecs.AddActor[Walker, Frame](w, Walker{})

	r := w.Registry()
	assert.Equal(t, []reflect.Type{reflect.TypeFor[Walker](), reflect.TypeFor[Wall]()}, r.Types())
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.Count(reflect.TypeFor[Walker]()))
	assert.Equal(t, 0, r.Count(reflect.TypeFor[Counter]()))
	assert.Equal(t, []ecs.EntityId{a.Erase(), b.Erase()}, r.Ids(reflect.TypeFor[Walker]()))

	found, ok := r.Lookup(b.Erase()).(*Walker)
	if assert.True(t, ok) {
		assert.Same(t, ecs.Get(w, b), found)
	}

	assert.True(t, ecs.RemoveEntity(w, a.Erase()))
	assert.Nil(t, r.Lookup(a.Erase()))
	assert.Nil(t, r.Lookup(ecs.EntityId{}))
	assert.False(t, r.Contains(a.Erase()))
	assert.Equal(t, []ecs.EntityId{b.Erase()}, r.Ids(reflect.TypeFor[Walker]()))
	assert.Nil(t, r.Ids(reflect.TypeFor[Counter]()))
}

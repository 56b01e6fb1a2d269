package ecs

import (
	"fmt"
	"reflect"

	"github.com/plus3/vaabbit/arena"
)

// Id is a typed handle to an entity of type T. It stays comparable and
// cheap to copy; a handle whose entity was removed resolves to nothing.
type Id[T any] struct {
	Key arena.Key
}

// IsZero reports whether the id was never issued.
func (id Id[T]) IsZero() bool {
	return id.Key.IsZero()
}

// Erase drops the static type, keeping it as a runtime tag.
func (id Id[T]) Erase() EntityId {
	return EntityId{Type: reflect.TypeFor[T](), Key: id.Key}
}

func (id Id[T]) String() string {
	return fmt.Sprintf("Id[%s](index=%d, gen=%d)", reflect.TypeFor[T](), id.Key.Index(), id.Key.Generation())
}

// EntityId identifies an entity of any type. Two EntityIds are equal when
// they share type, slot and generation.
type EntityId struct {
	Type reflect.Type
	Key  arena.Key
}

func (e EntityId) IsZero() bool {
	return e.Type == nil && e.Key.IsZero()
}

func (e EntityId) String() string {
	if e.Type == nil {
		return "EntityId(nil)"
	}
	return fmt.Sprintf("Id[%s](index=%d, gen=%d)", e.Type, e.Key.Index(), e.Key.Generation())
}

// As recovers the typed id when e refers to an entity of type T.
func As[T any](e EntityId) (Id[T], bool) {
	if e.Type != reflect.TypeFor[T]() {
		return Id[T]{}, false
	}
	return Id[T]{Key: e.Key}, true
}

// Is reports whether e refers to an entity of type T.
func Is[T any](e EntityId) bool {
	return e.Type == reflect.TypeFor[T]()
}

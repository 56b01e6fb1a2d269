package ecs

// Actor is implemented by pointer-to-entity types that take part in the
// update pass for frame context C.
//
// Update receives its own id and the world. The entity may mutate itself
// freely through the receiver; other entities should be changed through
// With or WithWorld so that only one entity is mutated at a time.
type Actor[T any, C any] interface {
	*T
	Update(self Id[T], w *World, ctx C)
}

// Collider is optionally implemented by *T to be told when its body moves
// onto another body. The callback runs from the deferred queue.
type Collider[T any] interface {
	OnCollision(self Id[T], other EntityId, w *World)
}

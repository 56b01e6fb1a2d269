package arena

import "iter"

const (
	blockSize = 64
)

type block[T any] struct {
	values [blockSize]T
	gens   [blockSize]uint32
	filled [blockSize]bool
}

// Arena stores values of type T in fixed-size blocks. Blocks are held by
// pointer, so the address returned by Get stays valid while the arena grows.
type Arena[T any] struct {
	blocks    []*block[T]
	freeSlots []uint32
	nextIndex uint32
	count     int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns the key that addresses it.
// Vacated slots are reused before new ones are allocated.
func (a *Arena[T]) Insert(v T) Key {
	var index uint32
	if len(a.freeSlots) > 0 {
		index = a.freeSlots[len(a.freeSlots)-1]
		a.freeSlots = a.freeSlots[:len(a.freeSlots)-1]
	} else {
		index = a.nextIndex
		a.nextIndex++
		if int(index/blockSize) >= len(a.blocks) {
			a.blocks = append(a.blocks, &block[T]{})
		}
	}

	b := a.blocks[index/blockSize]
	slot := index % blockSize

	// Generations start at 1 so that the zero key never resolves.
	if b.gens[slot] == 0 {
		b.gens[slot] = 1
	}
	b.values[slot] = v
	b.filled[slot] = true
	a.count++

	return NewKey(index, b.gens[slot])
}

func (a *Arena[T]) locate(k Key) (*block[T], uint32, bool) {
	if k.IsZero() {
		return nil, 0, false
	}
	index := k.Index()
	blockIdx := int(index / blockSize)
	if blockIdx >= len(a.blocks) {
		return nil, 0, false
	}
	b := a.blocks[blockIdx]
	slot := index % blockSize
	if !b.filled[slot] || b.gens[slot] != k.Generation() {
		return nil, 0, false
	}
	return b, slot, true
}

// Get returns a pointer to the value addressed by k, or nil if the slot was
// vacated or the key was never issued by this arena.
func (a *Arena[T]) Get(k Key) *T {
	b, slot, ok := a.locate(k)
	if !ok {
		return nil
	}
	return &b.values[slot]
}

// Contains reports whether k still addresses a live value.
func (a *Arena[T]) Contains(k Key) bool {
	_, _, ok := a.locate(k)
	return ok
}

// Remove vacates the slot addressed by k and returns the value it held.
// The slot generation is bumped, invalidating every outstanding copy of k.
func (a *Arena[T]) Remove(k Key) (T, bool) {
	var zero T
	b, slot, ok := a.locate(k)
	if !ok {
		return zero, false
	}

	v := b.values[slot]
	b.values[slot] = zero
	b.filled[slot] = false
	b.gens[slot]++
	if b.gens[slot] == 0 {
		b.gens[slot] = 1
	}
	a.freeSlots = append(a.freeSlots, k.Index())
	a.count--

	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.count
}

// All iterates live values in slot order.
func (a *Arena[T]) All() iter.Seq2[Key, *T] {
	return func(yield func(Key, *T) bool) {
		for i := uint32(0); i < a.nextIndex; i++ {
			b := a.blocks[i/blockSize]
			slot := i % blockSize
			if !b.filled[slot] {
				continue
			}
			if !yield(NewKey(i, b.gens[slot]), &b.values[slot]) {
				return
			}
		}
	}
}

// Clear removes every value. Generations are preserved so keys issued before
// the clear stay stale afterwards.
func (a *Arena[T]) Clear() {
	var zero T
	a.freeSlots = a.freeSlots[:0]
	for i := uint32(0); i < a.nextIndex; i++ {
		b := a.blocks[i/blockSize]
		slot := i % blockSize
		if b.filled[slot] {
			b.values[slot] = zero
			b.filled[slot] = false
			b.gens[slot]++
			if b.gens[slot] == 0 {
				b.gens[slot] = 1
			}
		}
		a.freeSlots = append(a.freeSlots, i)
	}
	a.count = 0
}

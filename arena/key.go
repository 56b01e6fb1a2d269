// Package arena implements a generational arena: a slot store whose keys
// carry the generation of the slot they were issued for, so a key kept after
// its value was removed can be detected as stale instead of aliasing whatever
// value reuses the slot.
package arena

import "fmt"

// Key encodes both the slot generation (upper 32 bits) and the slot index
// (lower 32 bits). The zero Key is never issued.
type Key uint64

// NewKey creates a Key from a slot index and generation
func NewKey(index uint32, generation uint32) Key {
	return Key(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the key
func (k Key) Index() uint32 {
	return uint32(k & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the key
func (k Key) Generation() uint32 {
	return uint32(k >> 32)
}

// IsZero reports whether the key is the invalid zero key.
func (k Key) IsZero() bool {
	return k == 0
}

func (k Key) String() string {
	return fmt.Sprintf("%dv%d", k.Index(), k.Generation())
}

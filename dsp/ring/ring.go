// Package ring implements a lock-free single-producer/single-consumer
// circular buffer of interleaved audio sample cells.
//
// One producer context and one consumer context may use a Buffer
// concurrently without locks: the write index is mutated only by Push and
// the read index only by Pop. This makes the buffer safe to share between
// an interrupt-style transport callback and a cooperative main loop, at the
// cost of one permanently unusable slot that disambiguates empty from full.
package ring

import (
	"fmt"
	"sync/atomic"
)

// Buffer is a fixed-capacity SPSC ring of int32 sample cells.
//
// Push and Pop are all-or-nothing and never block. A Buffer must not be
// resized after creation; all storage is allocated up front.
type Buffer struct {
	cells []int32
	read  atomic.Uint64
	write atomic.Uint64
}

// New returns a ring buffer with the given number of slots.
// Usable capacity is slots-1; slots must be at least 2.
func New(slots int) (*Buffer, error) {
	if slots < 2 {
		return nil, fmt.Errorf("ring slots must be >= 2: %d", slots)
	}
	return &Buffer{cells: make([]int32, slots)}, nil
}

// Slots returns the total number of slots including the reserved one.
func (b *Buffer) Slots() int {
	return len(b.cells)
}

// Size returns the number of cells currently stored.
func (b *Buffer) Size() int {
	r := b.read.Load()
	w := b.write.Load()
	n := uint64(len(b.cells))
	if w >= r {
		return int(w - r)
	}
	return int(n - (r - w))
}

// Capacity returns the number of cells that can still be pushed.
// Size()+Capacity() always equals Slots()-1.
func (b *Buffer) Capacity() int {
	return len(b.cells) - 1 - b.Size()
}

// Push copies all of src into the buffer and advances the write index.
// It fails, leaving the buffer untouched, when src is empty or larger than
// the current free capacity. Only the producer context may call Push.
func (b *Buffer) Push(src []int32) bool {
	n := uint64(len(src))
	if n == 0 || len(src) > b.Capacity() {
		return false
	}

	w := b.write.Load()
	slots := uint64(len(b.cells))

	first := slots - w
	if first > n {
		first = n
	}
	copy(b.cells[w:], src[:first])
	if n > first {
		copy(b.cells, src[first:])
	}

	b.write.Store((w + n) % slots)
	return true
}

// Pop copies len(dst) cells out of the buffer and advances the read index.
// It fails, leaving the buffer untouched, when dst is empty or larger than
// the current size. Only the consumer context may call Pop.
func (b *Buffer) Pop(dst []int32) bool {
	n := uint64(len(dst))
	if n == 0 || len(dst) > b.Size() {
		return false
	}

	r := b.read.Load()
	slots := uint64(len(b.cells))

	first := slots - r
	if first > n {
		first = n
	}
	copy(dst, b.cells[r:r+first])
	if n > first {
		copy(dst[first:], b.cells)
	}

	b.read.Store((r + n) % slots)
	return true
}

// Reset discards all stored cells.
// Not safe to call while the other context is active.
func (b *Buffer) Reset() {
	b.read.Store(0)
	b.write.Store(0)
}

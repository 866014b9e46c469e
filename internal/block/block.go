// Package block provides a bounded, growable array.
//
// A Block starts with a small capacity and doubles it on demand, but never
// beyond the maximum fixed at construction. Appending to a full block fails
// with ErrFull instead of truncating, so callers can turn capacity limits into
// their own diagnostics.
package block

import "errors"

// initialCap is the starting capacity of every block, clamped to its maximum.
const initialCap = 16

// Block errors.
var (
	// ErrFull is returned when a push would exceed the block maximum.
	ErrFull = errors.New("block: capacity exceeded")

	// ErrEmpty is returned when popping or peeking an empty block.
	ErrEmpty = errors.New("block: empty")
)

// Block is a growable array holding at most Max elements.
//
// The zero value is a block with maximum zero; use New.
type Block[T any] struct {
	data []T
	max  int
}

// New creates an empty block that holds up to limit elements.
// A negative limit is treated as zero.
func New[T any](limit int) *Block[T] {
	limit = max(limit, 0)
	return &Block[T]{
		data: make([]T, 0, min(initialCap, limit)),
		max:  limit,
	}
}

// Len returns the number of elements.
func (b *Block[T]) Len() int { return len(b.data) }

// Cap returns the current capacity.
func (b *Block[T]) Cap() int { return cap(b.data) }

// Max returns the hard maximum.
func (b *Block[T]) Max() int { return b.max }

// Push appends v, growing the backing store if needed.
func (b *Block[T]) Push(v T) error {
	if len(b.data) == cap(b.data) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.data = append(b.data, v)
	return nil
}

func (b *Block[T]) grow() error {
	c := cap(b.data)
	if c >= b.max {
		return ErrFull
	}
	next := min(max(c*2, 1), b.max)
	data := make([]T, len(b.data), next)
	copy(data, b.data)
	b.data = data
	return nil
}

// Pop removes and returns the last element.
func (b *Block[T]) Pop() (T, error) {
	var zero T
	n := len(b.data)
	if n == 0 {
		return zero, ErrEmpty
	}
	v := b.data[n-1]
	b.data[n-1] = zero
	b.data = b.data[:n-1]
	return v, nil
}

// Peek returns the last element without removing it.
func (b *Block[T]) Peek() (T, error) {
	if len(b.data) == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return b.data[len(b.data)-1], nil
}

// At returns element i. It panics if i is out of range.
func (b *Block[T]) At(i int) T { return b.data[i] }

// Set replaces element i. It panics if i is out of range.
func (b *Block[T]) Set(i int, v T) { b.data[i] = v }

// Slice returns the elements in insertion order. The result aliases the
// block and is only valid until the next Push.
func (b *Block[T]) Slice() []T { return b.data }

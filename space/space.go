// Package space provides a lazily enumerable cartesian product over an
// arbitrary number of ordered, finite choice sets.
package space

import "iter"

// ChoiceSet is one dimension of a product space: an ordered, finite,
// restartable sequence of candidate values that knows its own cardinality.
//
// All must yield the same values in the same order on every call, so that a
// position within the sequence is a stable identifier of a specific choice.
// Size is a float64 so that products over many dimensions can exceed the
// integer range; at extreme magnitudes the value is an approximation rather
// than an exact count.
type ChoiceSet[T any] interface {
	Size() float64
	All() iter.Seq[T]
}

// Slice adapts a fixed slice to the ChoiceSet contract.
type Slice[T any] []T

func (s Slice[T]) Size() float64 {
	return float64(len(s))
}

func (s Slice[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// Product composes choice sets into a single enumerable space. The order in
// which sets are connected is the order of dimensions in every combination a
// traversal produces.
type Product[T any] struct {
	sets []ChoiceSet[T]
}

// New creates a Product over the given choice sets.
func New[T any](sets ...ChoiceSet[T]) *Product[T] {
	return &Product[T]{sets: sets}
}

// Connect appends a dimension to the end of the chain.
func (p *Product[T]) Connect(set ChoiceSet[T]) {
	p.sets = append(p.sets, set)
}

// Len returns the number of dimensions.
func (p *Product[T]) Len() int {
	return len(p.sets)
}

// Size returns the number of combinations in the space: 0 for an empty
// chain, otherwise the product of every dimension's size. A single empty
// dimension collapses the whole space to 0.
func (p *Product[T]) Size() float64 {
	if len(p.sets) == 0 {
		return 0
	}
	size := 1.0
	for _, set := range p.sets {
		s := set.Size()
		if s == 0 {
			return 0
		}
		size *= s
	}
	return size
}

// Traverse returns a new iterator positioned before the first combination.
// Every call returns an independent cursor; cursors are not safe for
// concurrent use.
func (p *Product[T]) Traverse() *Iterator[T] {
	digits := make([]*digit[T], len(p.sets))
	for i, set := range p.sets {
		digits[i] = newDigit(set)
	}
	return &Iterator[T]{digits: digits}
}

// All returns the combinations as a restartable sequence. Each ranging
// creates a fresh traversal starting from the first combination.
func (p *Product[T]) All() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		it := p.Traverse()
		defer it.Stop()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// digit is the live cursor over one dimension: a pull iterator plus a
// one-value lookahead so exhaustion can be tested without consuming.
type digit[T any] struct {
	set     ChoiceSet[T]
	next    func() (T, bool)
	stop    func()
	pending T
	ok      bool
	current T
}

func newDigit[T any](set ChoiceSet[T]) *digit[T] {
	d := &digit[T]{set: set}
	d.next, d.stop = iter.Pull(set.All())
	d.pull()
	return d
}

func (d *digit[T]) pull() {
	d.pending, d.ok = d.next()
}

// hasNext reports whether the dimension has an unconsumed value.
func (d *digit[T]) hasNext() bool {
	return d.ok
}

// advance moves the lookahead value into current.
func (d *digit[T]) advance() {
	d.current = d.pending
	d.pull()
}

// reset rewinds the dimension to its start and takes the first value again.
func (d *digit[T]) reset() {
	d.stop()
	d.next, d.stop = iter.Pull(d.set.All())
	d.pull()
	d.advance()
}

// Iterator enumerates a Product like a mixed-radix odometer: the
// first-connected dimension is the most significant digit and the
// last-connected dimension increments fastest.
type Iterator[T any] struct {
	digits  []*digit[T]
	started bool
}

// HasNext reports whether another combination exists. Before the first
// combination it requires every dimension to be non-empty; afterwards it is
// true while any dimension can still advance.
func (it *Iterator[T]) HasNext() bool {
	if len(it.digits) == 0 {
		return false
	}
	if !it.started {
		for _, d := range it.digits {
			if !d.hasNext() {
				return false
			}
		}
		return true
	}
	for _, d := range it.digits {
		if d.hasNext() {
			return true
		}
	}
	return false
}

// Next returns the next combination in traversal order, one value per
// dimension in connection order. Calling Next when HasNext is false returns
// nil; callers are expected to guard with HasNext.
func (it *Iterator[T]) Next() []T {
	if !it.HasNext() {
		return nil
	}
	if !it.started {
		for _, d := range it.digits {
			d.advance()
		}
		it.started = true
		return it.combination()
	}
	for i := len(it.digits) - 1; i >= 0; i-- {
		d := it.digits[i]
		if d.hasNext() {
			d.advance()
			return it.combination()
		}
		// Carry: rewind this digit and increment the next one up.
		d.reset()
	}
	return nil
}

// Stop releases the underlying sub-iterators. It is safe to call multiple
// times; a stopped iterator yields no further combinations.
func (it *Iterator[T]) Stop() {
	for _, d := range it.digits {
		d.stop()
		var zero T
		d.pending, d.ok = zero, false
	}
}

func (it *Iterator[T]) combination() []T {
	out := make([]T, len(it.digits))
	for i, d := range it.digits {
		out[i] = d.current
	}
	return out
}

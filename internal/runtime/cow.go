// Package runtime implements the register file's copy-on-write
// semantics and the interpreter's suspension loop.
//
// Go has no refcounted Rc<T>; Cow approximates the original's
// SuperCow<T> discipline with an explicit refs counter on the backing
// cell: Set on a cell with refs==1 (exclusive) mutates in place,
// Set on a cell with refs>1 (shared) clones first -- the direct
// analogue of Rc::try_unwrap(...).unwrap_or_else(|rc| (*rc).clone()).
package runtime

// cowCell is the shared backing store for a value. refs counts how
// many Cow handles currently point at this cell.
type cowCell[T any] struct {
	val  T
	refs int
}

// Cow is one register's copy-on-write handle.
type Cow[T any] struct {
	cell *cowCell[T]
}

// NewCow creates an exclusively-owned Cow around v.
func NewCow[T any](v T) Cow[T] {
	return Cow[T]{cell: &cowCell[T]{val: v, refs: 1}}
}

// Get reads the current value. Readers never copy.
func (c Cow[T]) Get() T {
	return c.cell.val
}

// Shared reports whether more than one Cow handle currently aliases
// this cell.
func (c Cow[T]) Shared() bool {
	return c.cell.refs > 1
}

// Set writes a new value, cloning the backing cell first if it is
// currently shared so that other aliases are unaffected -- "a
// mutation that finds the value already shared performs a deep copy".
func (c *Cow[T]) Set(v T) {
	if c.cell.refs > 1 {
		c.cell.refs--
		c.cell = &cowCell[T]{val: v, refs: 1}
		return
	}
	c.cell.val = v
}

// Copy aliases dst to src's backing cell, incrementing its refcount,
// so both observe the same committed value until either is next
// written.
func Copy[T any](dst *Cow[T], src Cow[T]) {
	if dst.cell != nil {
		dst.cell.refs--
	}
	src.cell.refs++
	dst.cell = src.cell
}

// TryExclusive attempts to obtain exclusive (non-shared) access
// without cloning, returning false if the cell is still shared -- the
// Go analogue of attempting a mutation that must fail rather than
// silently deep-copy, matching "attempting to do so fails with a
// distinct error" for call sites that need that stricter contract.
func (c Cow[T]) TryExclusive() (T, bool) {
	var zero T
	if c.cell.refs > 1 {
		return zero, false
	}
	return c.cell.val, true
}

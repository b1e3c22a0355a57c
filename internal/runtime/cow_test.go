package runtime

import "testing"

func TestCowSetExclusiveMutatesInPlace(t *testing.T) {
	c := NewCow(1)
	cell := c.cell
	c.Set(2)
	if c.cell != cell {
		t.Fatal("exclusive Set should mutate the same cell, not allocate a new one")
	}
	if c.Get() != 2 {
		t.Fatalf("got %d, want 2", c.Get())
	}
}

func TestCowSetOnSharedClonesRatherThanMutatesAliases(t *testing.T) {
	a := NewCow(1)
	var b Cow[int]
	Copy(&b, a)
	if !a.Shared() || !b.Shared() {
		t.Fatal("both handles should report shared after Copy")
	}

	a.Set(2)
	if a.Get() != 2 {
		t.Fatalf("a should observe its own write, got %d", a.Get())
	}
	if b.Get() != 1 {
		t.Fatalf("b should be unaffected by a's write to a shared cell, got %d", b.Get())
	}
}

func TestCowTryExclusiveFailsWhileShared(t *testing.T) {
	a := NewCow("x")
	var b Cow[string]
	Copy(&b, a)
	if _, ok := a.TryExclusive(); ok {
		t.Fatal("TryExclusive should fail while the cell is shared")
	}
}

func TestCowTryExclusiveSucceedsWhenSoleOwner(t *testing.T) {
	a := NewCow("x")
	v, ok := a.TryExclusive()
	if !ok || v != "x" {
		t.Fatalf("TryExclusive should succeed for a sole owner, got (%v, %v)", v, ok)
	}
}

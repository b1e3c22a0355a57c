package runtime

import "testing"

// Reproduces the copy-on-write observation scenario: r1 aliased to
// r0, both sharing [1,2,3]; writing [4] to r0 leaves r1 = [1,2,3] and
// r0 = [4].
func TestRegisterFileCopyOnWriteObservation(t *testing.T) {
	rf := NewRegisterFile()
	rf.Set(0, NumbersValue([]float64{1, 2, 3}))
	rf.CopyReg(1, 0)

	rf.Set(0, NumbersValue([]float64{4}))

	got0 := rf.Get(0).GetNumbers()
	got1 := rf.Get(1).GetNumbers()
	if len(got0) != 1 || got0[0] != 4 {
		t.Fatalf("r0 = %v, want [4]", got0)
	}
	if len(got1) != 3 || got1[0] != 1 || got1[1] != 2 || got1[2] != 3 {
		t.Fatalf("r1 = %v, want [1 2 3]", got1)
	}
}

func TestRegisterFileUnwrittenRegisterReadsEmpty(t *testing.T) {
	rf := NewRegisterFile()
	if rf.Get(42).Kind != VEmpty {
		t.Fatal("unwritten register should read as Empty")
	}
}

func TestRegisterFileExclusiveWriteFailsWhileShared(t *testing.T) {
	rf := NewRegisterFile()
	rf.Set(0, NumbersValue([]float64{1}))
	rf.CopyReg(1, 0)
	if err := rf.ExclusiveWrite(1, NumbersValue([]float64{2})); err == nil {
		t.Fatal("expected exclusive write to be denied on a shared register")
	}
}

func TestRegisterFileCloneIsCheapUntilDivergence(t *testing.T) {
	rf := NewRegisterFile()
	rf.Set(0, NumbersValue([]float64{1, 2}))
	clone := rf.Clone()

	clone.Set(0, NumbersValue([]float64{9}))

	if got := rf.Get(0).GetNumbers(); len(got) != 2 {
		t.Fatalf("original register file mutated by clone's write: %v", got)
	}
	if got := clone.Get(0).GetNumbers(); len(got) != 1 || got[0] != 9 {
		t.Fatalf("clone did not observe its own write: %v", got)
	}
}

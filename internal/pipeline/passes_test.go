package pipeline

import (
	"testing"

	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
)

func newTestPipeline(instrs []instr.Instruction) *Pipeline {
	return &Pipeline{Instructions: instrs, Alloc: NewRegAlloc(0), Times: map[int]float64{}}
}

// TestCorePreimageFoldsFilterWhenInputsKnown checks that OpFilter
// constant-folds when both its source and mask registers are already
// known, since linearize.go turns every OpAt into an OpFilter that
// must survive compile-run's constant folding the same way Copy,
// Append, Length and NumEq already do.
func TestCorePreimageFoldsFilterWhenInputsKnown(t *testing.T) {
	ctx := preimage.NewAbstractContext(func() int { return 0 })
	ctx.Registers.Set(0, runtime.NumbersValue([]float64{10, 20, 30}))
	ctx.Registers.Set(1, runtime.BoolsValue([]bool{true, false, true}))
	ctx.MarkValid(0)
	ctx.MarkValid(1)

	in := instr.Instruction{Op: instr.OpFilter, Operands: []int{2, 0, 1}}
	outcome, err := corePreimage(ctx, in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Kind != preimage.Constant {
		t.Fatalf("expected Filter to fold to Constant when inputs are known, got %+v", outcome)
	}
	got := ctx.Registers.Get(2).GetNumbers()
	want := []float64{10, 30}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("filtered values mismatch: got %v, want %v", got, want)
	}
}

// TestCorePreimageSkipsFilterWhenInputUnknown checks the fallback: an
// unknown source or mask register must not be folded.
func TestCorePreimageSkipsFilterWhenInputUnknown(t *testing.T) {
	ctx := preimage.NewAbstractContext(func() int { return 0 })
	in := instr.Instruction{Op: instr.OpFilter, Operands: []int{2, 0, 1}}
	outcome, err := corePreimage(ctx, in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Kind != preimage.Skip {
		t.Fatalf("expected Filter to skip when inputs are unknown, got %+v", outcome)
	}
}

func TestDealiasRemovesSelfCopy(t *testing.T) {
	p := newTestPipeline([]instr.Instruction{{Op: instr.OpCopy, Operands: []int{1, 1}}})
	out, err := DealiasPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected self-copy removed, got %+v", out)
	}
}

func TestDealiasRemovesRepeatedAlias(t *testing.T) {
	p := newTestPipeline([]instr.Instruction{
		{Op: instr.OpCopy, Operands: []int{1, 0}},
		{Op: instr.OpCopy, Operands: []int{1, 0}},
	})
	out, err := DealiasPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected the repeated alias dropped, got %+v", out)
	}
}

func TestDealiasIsIdempotent(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1},
		{Op: instr.OpCopy, Operands: []int{1, 0}},
		{Op: instr.OpCopy, Operands: []int{2, 2}},
	}
	p := newTestPipeline(instrs)
	first, err := DealiasPass(p)
	if err != nil {
		t.Fatal(err)
	}
	p2 := newTestPipeline(first)
	second, err := DealiasPass(p2)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("dealias is not idempotent: %+v then %+v", first, second)
	}
	for i := range first {
		if first[i].Op != second[i].Op {
			t.Fatalf("dealias is not idempotent at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// TestPausesInsertsSoftPauseAcrossThreshold reproduces the two-slow-
// calls-in-a-row scenario: two 0.6ms calls in sequence would push
// cumulative time to 1.2ms on the second call, so the soft pause lands
// right before the instruction that would tip the threshold, and that
// instruction's own cost starts the next window.
func TestPausesInsertsSoftPauseAcrossThreshold(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpCall},
		{Op: instr.OpCall},
	}
	p := newTestPipeline(instrs)
	p.Times[0] = 0.6
	p.Times[1] = 0.6

	out, err := PausesPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected call, Pause, call (3 instructions), got %+v", out)
	}
	if out[0].Op != instr.OpCall || out[2].Op != instr.OpCall {
		t.Fatalf("expected the calls on either side of the inserted pause, got %+v", out)
	}
	if out[1].Op != instr.OpPause || out[1].Hard {
		t.Fatalf("expected a soft pause before the tipping call, got %+v", out[1])
	}
}

func TestPausesHardPauseResetsTimer(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpCall},
		{Op: instr.OpPause, Hard: true},
		{Op: instr.OpCall},
	}
	p := newTestPipeline(instrs)
	p.Times[0] = 0.9
	p.Times[2] = 0.9

	out, err := PausesPass(p)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, in := range out {
		if in.Op == instr.OpPause {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected only the hard pause to survive (timer reset, no soft pause needed), got %d pauses in %+v", count, out)
	}
}

func TestUseEarliestSubstitutesCanonicalRegister(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1},
		{Op: instr.OpCopy, Operands: []int{1, 0}},
		{Op: instr.OpLength, Operands: []int{2, 1}},
	}
	p := newTestPipeline(instrs)
	out, err := UseEarliestPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if out[2].Operands[1] != 0 {
		t.Fatalf("expected read of r1 rewritten to canonical r0, got %+v", out[2])
	}
}

func TestUseEarliestDropsClassMemberOnWrite(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1},
		{Op: instr.OpCopy, Operands: []int{1, 0}},
		{Op: instr.OpNumberConst, Operands: []int{1}, NumberVal: 2},
		{Op: instr.OpLength, Operands: []int{2, 1}},
	}
	p := newTestPipeline(instrs)
	out, err := UseEarliestPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if out[3].Operands[1] != 1 {
		t.Fatalf("register 1 was overwritten and must not be substituted to r0, got %+v", out[3])
	}
}

// TestUseEarliestInvalidatesClassWhenCanonicalOverwritten reproduces
// the miscompilation scenario: two registers copied from a common
// source, then the source itself is overwritten. Reads of either copy
// must keep resolving among themselves, never through the overwritten
// source register.
func TestUseEarliestInvalidatesClassWhenCanonicalOverwritten(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1}, // r0 = 1
		{Op: instr.OpCopy, Operands: []int{1, 0}},                   // r1 := r0
		{Op: instr.OpCopy, Operands: []int{2, 0}},                   // r2 := r0
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 2}, // r0 overwritten
		{Op: instr.OpLength, Operands: []int{3, 1}},                 // read r1
	}
	p := newTestPipeline(instrs)
	out, err := UseEarliestPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if out[4].Operands[1] == 0 {
		t.Fatalf("read of r1 rewritten through overwritten canonical r0, got %+v", out[4])
	}
}

func TestRetreatReordersIndependentInstructions(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1},
		{Op: instr.OpNumberConst, Operands: []int{1}, NumberVal: 2},
		{Op: instr.OpLength, Operands: []int{2, 0}},
	}
	p := newTestPipeline(instrs)
	out, err := RetreatPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("retreat must not change instruction count, got %+v", out)
	}
	if out[0].Op != instr.OpNumberConst || out[0].Operands[0] != 1 || out[2].Op != instr.OpLength {
		t.Fatalf("expected the independent r1 const to retreat ahead of r0's, got %+v", out)
	}
}

// TestRetreatNeverMovesCopiesOrPauses checks that a copy instruction,
// unrelated to the instruction before it, is still never walked
// backward past it: canRetreat excludes copies outright, so it is
// always appended at the current tail rather than inserted earlier;
// and that an unrelated instruction never retreats past a pause.
func TestRetreatNeverMovesCopiesOrPauses(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpNumberConst, Operands: []int{5}, NumberVal: 1},
		{Op: instr.OpCopy, Operands: []int{2, 0}},
	}
	p := newTestPipeline(instrs)
	out, err := RetreatPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Op != instr.OpNumberConst || out[1].Op != instr.OpCopy {
		t.Fatalf("copy must never retreat ahead of a preceding instruction, got %+v", out)
	}

	paused := newTestPipeline([]instr.Instruction{
		{Op: instr.OpPause},
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1},
	})
	out, err = RetreatPass(paused)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Op != instr.OpPause || out[1].Op != instr.OpNumberConst {
		t.Fatalf("nothing may retreat past a pause, got %+v", out)
	}
}

// TestRetreatNeverMovesInstructionPastLineNumber checks that a real
// instruction with no operand overlap at all still cannot retreat
// past a preceding line marker, since the marker's position relative
// to surrounding real instructions must survive reordering.
func TestRetreatNeverMovesInstructionPastLineNumber(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpLineNumber, Line: 5},
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1},
	}
	p := newTestPipeline(instrs)
	out, err := RetreatPass(p)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Op != instr.OpLineNumber || out[1].Op != instr.OpNumberConst {
		t.Fatalf("instruction must not retreat past a preceding line marker, got %+v", out)
	}
}

func TestRetreatDedupsAdjacentLineNumbers(t *testing.T) {
	instrs := []instr.Instruction{
		{Op: instr.OpLineNumber, Line: 1},
		{Op: instr.OpLineNumber, Line: 2},
		{Op: instr.OpNumberConst, Operands: []int{0}, NumberVal: 1},
	}
	p := newTestPipeline(instrs)
	out, err := RetreatPass(p)
	if err != nil {
		t.Fatal(err)
	}
	lineMarkers := 0
	for _, in := range out {
		if in.Op == instr.OpLineNumber {
			lineMarkers++
		}
	}
	if lineMarkers != 1 {
		t.Fatalf("expected adjacent line markers deduped to 1, got %d in %+v", lineMarkers, out)
	}
}

package pipeline

import "vecl/internal/instr"

// RetreatPass reorders commuting instructions earlier to shorten live
// ranges. Two adjacent instructions A (earlier) and B (later) may be
// swapped iff: neither is a pause; neither is an impure library call
// when the other is also an impure call; the output-register set of
// each does not intersect the other's full operand set. Copy and
// LineNumber instructions are never retreated, and nothing retreats
// past one: copies are aliasing boundaries, and line markers are
// positional annotations whose ordering relative to the surrounding
// real instructions must survive reordering unchanged.
//
// Grounded on the backward-scan "blocked_at" insertion algorithm of
// the original retreat pass: rather than performing pairwise adjacent
// swaps, each instruction is inserted as early as possible into the
// already-placed output by scanning backward until a non-swappable
// predecessor blocks it.
func RetreatPass(p *Pipeline) ([]instr.Instruction, error) {
	var placed []instr.Instruction
	for _, in := range p.Instructions {
		placed = insertRetreated(placed, in)
	}
	return finishRetreat(placed), nil
}

func insertRetreated(placed []instr.Instruction, in instr.Instruction) []instr.Instruction {
	if !canRetreat(in) {
		return append(placed, in)
	}
	pos := len(placed)
	for pos > 0 && canSwap(placed[pos-1], in) {
		pos--
	}
	placed = append(placed, instr.Instruction{})
	copy(placed[pos+1:], placed[pos:len(placed)-1])
	placed[pos] = in
	return placed
}

// canRetreat reports whether in is ever eligible to move earlier:
// pauses, copies and line markers are aliasing/scheduling/positional
// boundaries and never retreat.
func canRetreat(in instr.Instruction) bool {
	return !in.IsPause() && in.Op != instr.OpCopy && in.Op != instr.OpLineNumber
}

// canSwap reports whether later may retreat past earlier.
func canSwap(earlier, later instr.Instruction) bool {
	if earlier.IsPause() || later.IsPause() {
		return false
	}
	if earlier.Op == instr.OpLineNumber || later.Op == instr.OpLineNumber {
		return false
	}
	if earlier.IsImpureCall() && later.IsImpureCall() {
		return false
	}
	if intersects(earlier.Outputs(), later.AllOperands()) {
		return false
	}
	if intersects(later.Outputs(), earlier.AllOperands()) {
		return false
	}
	return true
}

func intersects(a, b []int) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[int]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	for _, y := range b {
		if set[y] {
			return true
		}
	}
	return false
}

// finishRetreat dedups consecutive LineNumber instructions: once two
// line markers are adjacent with no real instruction between them,
// only the later one (the position actually reached before the next
// real instruction) is observable.
func finishRetreat(in []instr.Instruction) []instr.Instruction {
	var out []instr.Instruction
	for i, cur := range in {
		if cur.Op == instr.OpLineNumber && i+1 < len(in) && in[i+1].Op == instr.OpLineNumber {
			continue
		}
		out = append(out, cur)
	}
	return out
}

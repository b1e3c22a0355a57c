package pipeline

import "vecl/internal/instr"

// UseEarliestPass maintains equivalence classes of registers holding
// identical values: a copy dst := src joins dst into src's class. A
// write to any register invalidates it everywhere it appears in the
// class structure -- both as a member and, if it is currently serving
// as a class's canonical value, for every other member of that class
// -- since other members' reads must no longer resolve through a
// register whose value just changed. When reading an operand, the
// class's canonical (earliest-allocated) member is substituted;
// output operands are never substituted.
//
// Grounded on the RegEquiv algorithm of the original use-earliest
// pass: each class is a full set of registers rather than a single
// member->canonical link, so that writing the current canonical
// re-derives a still-valid canonical from the remaining members
// instead of leaving other members pointing at a now-stale register.
func UseEarliestPass(p *Pipeline) ([]instr.Instruction, error) {
	classes := map[int]map[int]bool{}
	member := map[int]int{} // register -> class id (arbitrary int key into classes)
	nextClass := 0

	find := func(r int) int {
		id, ok := member[r]
		if !ok {
			return r
		}
		cls := classes[id]
		best := r
		for m := range cls {
			if m < best {
				best = m
			}
		}
		return best
	}

	// invalidate drops r from every class it belongs to; if it was the
	// class's sole member the class is discarded entirely.
	invalidate := func(r int) {
		id, ok := member[r]
		if !ok {
			return
		}
		delete(classes[id], r)
		delete(member, r)
		if len(classes[id]) <= 1 {
			for m := range classes[id] {
				delete(member, m)
			}
			delete(classes, id)
		}
	}

	var out []instr.Instruction
	for _, in := range p.Instructions {
		rewritten := in
		rewritten.Operands = append([]int{}, in.Operands...)
		for _, pos := range inputPositions(in) {
			rewritten.Operands[pos] = find(in.Operands[pos])
		}

		for _, pos := range outputPositions(in) {
			invalidate(in.Operands[pos])
		}

		if rewritten.Op == instr.OpCopy && len(rewritten.Operands) == 2 {
			dst, src := rewritten.Operands[0], rewritten.Operands[1]
			id, ok := member[src]
			if !ok {
				id = nextClass
				nextClass++
				classes[id] = map[int]bool{src: true}
				member[src] = id
			}
			classes[id][dst] = true
			member[dst] = id
		}

		out = append(out, rewritten)
	}
	return out, nil
}

// inputPositions mirrors Instruction.Inputs but returns operand
// indices rather than values, so a caller can substitute only those
// positions.
func inputPositions(in instr.Instruction) []int {
	switch in.Op {
	case instr.OpLineNumber, instr.OpPause, instr.OpConst, instr.OpNumberConst, instr.OpStringConst, instr.OpBooleanConst, instr.OpNil:
		return nil
	case instr.OpCopy:
		if len(in.Operands) < 2 {
			return nil
		}
		return []int{1}
	case instr.OpCall:
		return callPositions(in, false)
	default:
		if len(in.Operands) <= 1 {
			return nil
		}
		positions := make([]int, len(in.Operands)-1)
		for i := range positions {
			positions[i] = i + 1
		}
		return positions
	}
}

// outputPositions mirrors Instruction.Outputs but returns indices.
func outputPositions(in instr.Instruction) []int {
	switch in.Op {
	case instr.OpLineNumber, instr.OpPause:
		return nil
	case instr.OpCall:
		return callPositions(in, true)
	default:
		if len(in.Operands) == 0 {
			return nil
		}
		return []int{0}
	}
}

func callPositions(in instr.Instruction, outputs bool) []int {
	var positions []int
	pos := 0
	for idx, ft := range in.Library.Signature {
		n := ft.TotalRegisters()
		isOut := in.Library.Flow[idx] != instr.FlowIn
		isIn := in.Library.Flow[idx] != instr.FlowOut
		if (outputs && isOut) || (!outputs && isIn) {
			for i := 0; i < n; i++ {
				positions = append(positions, pos+i)
			}
		}
		pos += n
	}
	return positions
}

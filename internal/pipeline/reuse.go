package pipeline

import (
	"fmt"

	"vecl/internal/instr"
)

// ReuseCommonValuePass implements reuse-common-subexpression: a value
// is identified either by (instruction-kind, input-register-ids,
// output-position) for pure ops or by (line-number, output-position)
// for impure ops. When a new instruction would emit a value whose
// fingerprint already names a live register, a copy from that
// register is emitted instead of recomputing it.
//
// Only single-output instructions participate (the overwhelming
// majority: every core op but library calls with multiple InOut/Out
// parameters), since a multi-output fingerprint would need to key on
// the whole output tuple and no core op or the minimal standard
// library this repository ships produces more than one output.
func ReuseCommonValuePass(p *Pipeline) ([]instr.Instruction, error) {
	// store maps a fingerprint to (register, write count of it then);
	// inputs are fingerprinted with their write counts too, so no value
	// is reused across an overwrite of its register or of its inputs.
	store := map[string][2]int{}
	writes := map[int]int{}
	currentLine := 0

	var out []instr.Instruction
	for _, in := range p.Instructions {
		if in.Op == instr.OpLineNumber {
			currentLine = in.Line
			out = append(out, in)
			continue
		}
		fp := fingerprint(in, currentLine)
		for _, r := range in.Inputs() {
			fp += fmt.Sprintf("/%d.%d", r, writes[r])
		}
		outputs := in.Outputs()
		for _, r := range outputs {
			writes[r]++
		}
		if in.Op == instr.OpPause || in.Op == instr.OpCopy {
			out = append(out, in)
			continue
		}

		// Append also reads its destination, which Inputs omits.
		if len(outputs) != 1 || in.Op == instr.OpAppend {
			out = append(out, in)
			continue
		}
		dst := outputs[0]

		if e, ok := store[fp]; ok && e[0] != dst && writes[e[0]] == e[1] {
			out = append(out, instr.Instruction{Op: instr.OpCopy, Operands: []int{dst, e[0]}})
			continue
		}

		store[fp] = [2]int{dst, writes[dst]}
		out = append(out, in)
	}
	return out, nil
}

func fingerprint(in instr.Instruction, line int) string {
	if in.IsImpureCall() {
		return fmt.Sprintf("impure@%d", line)
	}
	lib := ""
	if in.Library != nil {
		lib = in.Library.ID.Module + ":" + in.Library.ID.Name
	}
	return fmt.Sprintf("%s/%s/%v/%.6f/%s/%v", in.Op, lib, in.Inputs(), in.NumberVal, in.StringVal, in.BooleanVal)
}

// ReuseDeadRegisterPass implements dead-register reuse: once a
// register is read for the last time, its number becomes available
// for a later allocation to claim, shrinking the working set of live
// registers without needing a full interval-graph colouring (that is
// assign-regs's job). This pass only relabels registers that are
// never simultaneously live, never two live-at-once registers onto
// one number.
func ReuseDeadRegisterPass(p *Pipeline) ([]instr.Instruction, error) {
	in := p.Instructions
	lastUse := map[int]int{}
	for i, ins := range in {
		for _, r := range ins.AllOperands() {
			lastUse[r] = i
		}
	}

	free := []int{}
	assigned := map[int]int{}
	resolve := func(r int) int {
		if a, ok := assigned[r]; ok {
			return a
		}
		var slot int
		if len(free) > 0 {
			slot = free[len(free)-1]
			free = free[:len(free)-1]
		} else {
			slot = p.Alloc.Alloc()
		}
		assigned[r] = slot
		return slot
	}

	out := make([]instr.Instruction, len(in))
	for i, ins := range in {
		rewritten := ins
		rewritten.Operands = make([]int, len(ins.Operands))
		for j, r := range ins.Operands {
			rewritten.Operands[j] = resolve(r)
		}
		out[i] = rewritten
		for _, r := range ins.AllOperands() {
			if lastUse[r] == i {
				free = append(free, assigned[r])
			}
		}
	}
	return out, nil
}

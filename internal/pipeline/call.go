package pipeline

import "vecl/internal/instr"

// CallPass resolves procedure invocations by inlining formal
// parameter bindings: every OpProcCall instruction is replaced by its
// body, with formal registers remapped to the call site's actual
// operands and every other register in the body remapped to a fresh
// allocation, so that two call sites of the same procedure never
// collide on registers.
func CallPass(p *Pipeline) ([]instr.Instruction, error) {
	var out []instr.Instruction
	for _, in := range p.Instructions {
		if in.Op != instr.OpProcCall {
			out = append(out, in)
			continue
		}
		inlined := inlineProc(p, in)
		out = append(out, inlined...)
	}
	return out, nil
}

func inlineProc(p *Pipeline, call instr.Instruction) []instr.Instruction {
	remap := map[int]int{}
	for i, formal := range call.Proc.FormalRegs {
		if i < len(call.Operands) {
			remap[formal] = call.Operands[i]
		}
	}
	freshOf := func(r int) int {
		if mapped, ok := remap[r]; ok {
			return mapped
		}
		fresh := p.Alloc.Alloc()
		remap[r] = fresh
		return fresh
	}

	var out []instr.Instruction
	for _, bi := range call.Proc.Body {
		out = append(out, remapInstruction(bi, freshOf))
	}

	// Destination (the register(s) after the formal prefix) receives
	// a copy of the procedure's declared return register, if any.
	if call.Proc.ReturnReg >= 0 && len(call.Operands) > len(call.Proc.FormalRegs) {
		dst := call.Operands[len(call.Proc.FormalRegs)]
		out = append(out, instr.Instruction{Op: instr.OpCopy, Operands: []int{dst, freshOf(call.Proc.ReturnReg)}})
	}
	return out
}

func remapInstruction(in instr.Instruction, freshOf func(int) int) instr.Instruction {
	out := in
	out.Operands = make([]int, len(in.Operands))
	for i, r := range in.Operands {
		out.Operands[i] = freshOf(r)
	}
	return out
}

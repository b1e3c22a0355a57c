package pipeline

import (
	"vecl/internal/complexpath"
	"vecl/internal/instr"
)

// SimplifyPass eliminates struct and enum abstractions by rewriting
// ctor/accessor/test operations into copies, const discriminator
// writes, and branch selection. One logical pass over the whole
// program suffices for any declared struct/enum nesting, since the
// rewrite is driven by register identity (fieldRegs), not per-type
// iteration order; a real multi-struct dependency ordering only
// matters when a struct-of-struct ctor appears literally nested in
// the same instruction, which the parser never emits (every nested
// construction already goes through its own MakeStruct).
func SimplifyPass(defs complexpath.DefinitionLookup) Pass {
	return func(p *Pipeline) ([]instr.Instruction, error) {
		fieldRegs := map[int][]int{}
		var out []instr.Instruction

		for _, in := range p.Instructions {
			switch in.Op {
			case instr.OpMakeStruct:
				dest := in.Operands[0]
				fieldRegs[dest] = append([]int{}, in.Operands[1:]...)
				// No instruction needed: the struct register is purely
				// virtual from here on, backed by its field registers.

			case instr.OpGetField:
				dest, structReg := in.Operands[0], in.Operands[1]
				idx := int(in.NumberVal)
				src := fieldRegs[structReg][idx]
				out = append(out, instr.Instruction{Op: instr.OpCopy, Operands: []int{dest, src}})

			case instr.OpMakeEnum:
				dest, payload := in.Operands[0], in.Operands[1]
				branch := int(in.NumberVal)
				discReg := p.Alloc.Alloc()
				out = append(out, instr.Instruction{Op: instr.OpNumberConst, Operands: []int{discReg}, NumberVal: float64(branch)})
				fieldRegs[dest] = []int{discReg, payload}

			case instr.OpEnumTest:
				dest, enumReg := in.Operands[0], in.Operands[1]
				branch := int(in.NumberVal)
				discReg := fieldRegs[enumReg][0]
				wantReg := p.Alloc.Alloc()
				out = append(out, instr.Instruction{Op: instr.OpNumberConst, Operands: []int{wantReg}, NumberVal: float64(branch)})
				out = append(out, instr.Instruction{Op: instr.OpNumEq, Operands: []int{dest, discReg, wantReg}})

			case instr.OpEnumGet:
				dest, enumReg := in.Operands[0], in.Operands[1]
				payload := fieldRegs[enumReg][1]
				out = append(out, instr.Instruction{Op: instr.OpCopy, Operands: []int{dest, payload}})

			default:
				out = append(out, in)
			}
		}
		return out, nil
	}
}

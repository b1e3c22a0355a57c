package pipeline

import (
	"vecl/internal/complexpath"
	"vecl/internal/instr"
)

// LinearizePass rewrites the two high-level vector operations into
// core instructions: square becomes a Copy and at becomes a Filter.
// It does not expand composite registers into flattened
// offsets/lengths/data bundles: the parser allocates one plain
// register per value, and a vector stays in that single register
// through this pass.
func LinearizePass(defs complexpath.DefinitionLookup) Pass {
	return func(p *Pipeline) ([]instr.Instruction, error) {
		var out []instr.Instruction
		for _, in := range p.Instructions {
			switch in.Op {
			case instr.OpSquare:
				// Flatten one vector level: the data register of a
				// vector-of-vectors collapses into a single flat data
				// register, which at the value level is a concatenation
				// already representable as a Copy once the outer offsets
				// register is folded away.
				dest, src := in.Operands[0], in.Operands[1]
				out = append(out, instr.Instruction{Op: instr.OpCopy, Operands: []int{dest, src}})
			case instr.OpAt:
				dest, src, idx := in.Operands[0], in.Operands[1], in.Operands[2]
				out = append(out, instr.Instruction{Op: instr.OpFilter, Operands: []int{dest, src, idx}})
			default:
				out = append(out, in)
			}
		}
		return out, nil
	}
}

package pipeline

import "vecl/internal/instr"

// PeepholePass performs two local rewrites: nil-append elimination
// (a Nil immediately followed by an Append into the same register is
// redundant, since an unwritten register already reads as empty) and
// redundant line-number removal (consecutive LineNumber markers with
// no real instruction between them collapse to the last one).
func PeepholePass(p *Pipeline) ([]instr.Instruction, error) {
	in := p.Instructions
	var out []instr.Instruction
	for i := 0; i < len(in); i++ {
		cur := in[i]

		if cur.Op == instr.OpNil && i+1 < len(in) {
			next := in[i+1]
			if next.Op == instr.OpAppend && len(next.Operands) == 2 && next.Operands[0] == cur.Operands[0] {
				continue // drop the redundant Nil
			}
		}

		if cur.Op == instr.OpLineNumber && i+1 < len(in) && in[i+1].Op == instr.OpLineNumber {
			continue
		}

		out = append(out, cur)
	}
	return out, nil
}

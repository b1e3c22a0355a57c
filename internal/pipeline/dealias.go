package pipeline

import "vecl/internal/instr"

// DealiasPass removes pure aliases: copies between registers that
// already hold equal values after prior passes. A copy is provably
// redundant here when its destination is its own source (self-copy,
// possibly introduced by an earlier pass's register renumbering) or
// when it immediately repeats the prior instruction's copy verbatim
// (the pass only just produced that alias and nothing observed it in
// between). This is intentionally conservative: a copy this pass
// cannot prove redundant is left for use-earliest/reuse-common-value
// to fold later in the configurable sequence. Applying it twice is a
// no-op, satisfying the pipeline's idempotence contract.
func DealiasPass(p *Pipeline) ([]instr.Instruction, error) {
	var out []instr.Instruction
	for i, in := range p.Instructions {
		if in.Op == instr.OpCopy && len(in.Operands) == 2 {
			if in.Operands[0] == in.Operands[1] {
				continue // self-copy: provably a no-op
			}
			if i > 0 {
				prev := p.Instructions[i-1]
				if prev.Op == instr.OpCopy && len(prev.Operands) == 2 &&
					prev.Operands[0] == in.Operands[0] && prev.Operands[1] == in.Operands[1] {
					continue // repeats the immediately preceding alias
				}
			}
		}
		out = append(out, in)
	}
	return out, nil
}

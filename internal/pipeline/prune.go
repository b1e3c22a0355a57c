package pipeline

import "vecl/internal/instr"

// PrunePass deletes instructions whose outputs are provably unused,
// scanning backward so a chain of now-dead producers collapses in one
// application. Pauses, line markers, and impure calls are never
// pruned regardless of their outputs' liveness.
func PrunePass(p *Pipeline) ([]instr.Instruction, error) {
	in := p.Instructions
	keep := make([]bool, len(in))
	live := map[int]bool{}

	for i := len(in) - 1; i >= 0; i-- {
		cur := in[i]
		mustKeep := cur.Op == instr.OpPause || cur.Op == instr.OpLineNumber || cur.IsImpureCall()

		outputs := cur.Outputs()
		anyLive := len(outputs) == 0
		for _, o := range outputs {
			if live[o] {
				anyLive = true
			}
		}

		if !mustKeep && !anyLive && len(outputs) > 0 {
			keep[i] = false
			continue
		}

		keep[i] = true
		for _, o := range outputs {
			delete(live, o)
		}
		for _, r := range cur.Inputs() {
			live[r] = true
		}
	}

	var out []instr.Instruction
	for i, k := range keep {
		if k {
			out = append(out, in[i])
		}
	}
	return out, nil
}

package pipeline

import "vecl/internal/instr"

const softPauseThresholdMs = 1.0

// PausesPass walks the timed instructions and inserts soft pause
// instructions whenever cumulative estimated time since the last
// pause exceeds 1ms. A hard pause already present in the stream
// always resets the timer; the buildtime force_pause command produces
// one, but no command suite registers it.
//
// Grounded on the original pauses pass: the soft pause goes in front
// of the instruction that would tip the cumulative time over the
// threshold, so that instruction runs after the pause and its own
// time starts the next window.
func PausesPass(p *Pipeline) ([]instr.Instruction, error) {
	var out []instr.Instruction
	cumulative := 0.0

	for idx, in := range p.Instructions {
		if in.Op == instr.OpPause && in.Hard {
			out = append(out, in)
			cumulative = 0
			continue
		}
		if in.Op == instr.OpLineNumber {
			out = append(out, in)
			continue
		}

		t := p.Times[idx]
		if cumulative+t > softPauseThresholdMs {
			out = append(out, instr.Instruction{Op: instr.OpPause, Hard: false})
			cumulative = 0
		}
		cumulative += t
		out = append(out, in)
	}
	return out, nil
}

package pipeline

import "vecl/internal/instr"

// AssignRegsPass compacts register numbering via interval graph
// colouring: registers whose live ranges never overlap are assigned
// the same compact number, starting from zero, so the final program's
// register space is as small as the data-dependency graph allows.
func AssignRegsPass(p *Pipeline) ([]instr.Instruction, error) {
	in := p.Instructions
	lastUse := map[int]int{}
	for i, ins := range in {
		for _, r := range ins.AllOperands() {
			lastUse[r] = i
		}
	}

	nextColor := 0
	free := []int{}
	assigned := map[int]int{}
	resolve := func(r int) int {
		if a, ok := assigned[r]; ok {
			return a
		}
		var color int
		if len(free) > 0 {
			color = free[len(free)-1]
			free = free[:len(free)-1]
		} else {
			color = nextColor
			nextColor++
		}
		assigned[r] = color
		return color
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
	p.Alloc = NewRegAlloc(nextColor)
	return out, nil
}

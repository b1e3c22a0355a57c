package stdcommands

import (
	"vecl/internal/command"
	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
)

// LtCommand is the numeric less-than comparison, std:lt.
type LtCommand struct {
	Dst, A, B int
}

func NewLtInstruction(dst, a, b int) instr.Instruction {
	return MakeCall("std", "lt", false, []instr.DataFlow{instr.FlowOut, instr.FlowIn, instr.FlowIn}, []int{dst, a, b})
}

func (c *LtCommand) GetSchema() command.Schema {
	return command.Schema{Trigger: command.Trigger{Op: instr.OpCall, Module: "std", Name: "lt"}, Values: 0}
}

func (c *LtCommand) FromInstruction(in instr.Instruction) (command.Compile, error) {
	return &LtCommand{Dst: in.Operands[0], A: in.Operands[1], B: in.Operands[2]}, nil
}

func (c *LtCommand) Serialize() ([]interface{}, bool) { return nil, true }

func (c *LtCommand) Preimage(ctx *preimage.AbstractContext, interp command.Interp) (preimage.Outcome, error) {
	if !ctx.Valid[c.A] || !ctx.Valid[c.B] {
		return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
	}
	av, bv := ctx.Registers.Get(c.A).GetNumbers(), ctx.Registers.Get(c.B).GetNumbers()
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = av[i] < bv[i]
	}
	ctx.Registers.Set(c.Dst, runtime.BoolsValue(out))
	return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{c.Dst}}, nil
}

func (c *LtCommand) ExecutionTime(ctx *preimage.AbstractContext) float64 { return 0.01 }

func (c *LtCommand) Execute(ctx *runtime.Context) error {
	av, bv := ctx.Registers.Get(c.A).GetNumbers(), ctx.Registers.Get(c.B).GetNumbers()
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = av[i] < bv[i]
	}
	ctx.Registers.Set(c.Dst, runtime.BoolsValue(out))
	return nil
}

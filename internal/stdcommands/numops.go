package stdcommands

import (
	"vecl/internal/command"
	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
)

// NumOp is one elementwise binary numeric operation: add, sub, mul,
// div (lt is LtCommand). Pure, and foldable whenever both inputs are
// compile-time known.
type NumOp struct {
	Name     string
	Dst, A, B int
	apply    func(a, b float64) float64
}

var numOpFns = map[string]func(a, b float64) float64{
	"add": func(a, b float64) float64 { return a + b },
	"sub": func(a, b float64) float64 { return a - b },
	"mul": func(a, b float64) float64 { return a * b },
	"div": func(a, b float64) float64 { return a / b },
}

func NewNumOpInstruction(name string, dst, a, b int) instr.Instruction {
	return MakeCall("std", name, false, []instr.DataFlow{instr.FlowOut, instr.FlowIn, instr.FlowIn}, []int{dst, a, b})
}

func (c *NumOp) GetSchema() command.Schema {
	return command.Schema{Trigger: command.Trigger{Op: instr.OpCall, Module: "std", Name: c.Name}, Values: 0}
}

func (c *NumOp) FromInstruction(in instr.Instruction) (command.Compile, error) {
	return &NumOp{Name: in.Library.ID.Name, Dst: in.Operands[0], A: in.Operands[1], B: in.Operands[2], apply: numOpFns[in.Library.ID.Name]}, nil
}

func (c *NumOp) Serialize() ([]interface{}, bool) { return nil, true }

func (c *NumOp) Preimage(ctx *preimage.AbstractContext, interp command.Interp) (preimage.Outcome, error) {
	if !ctx.Valid[c.A] || !ctx.Valid[c.B] {
		return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
	}
	av := ctx.Registers.Get(c.A).GetNumbers()
	bv := ctx.Registers.Get(c.B).GetNumbers()
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = c.apply(av[i], bv[i])
	}
	ctx.Registers.Set(c.Dst, runtime.NumbersValue(out))
	return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{c.Dst}}, nil
}

func (c *NumOp) ExecutionTime(ctx *preimage.AbstractContext) float64 { return 0.01 }

func (c *NumOp) Execute(ctx *runtime.Context) error {
	av := ctx.Registers.Get(c.A).GetNumbers()
	bv := ctx.Registers.Get(c.B).GetNumbers()
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = c.apply(av[i], bv[i])
	}
	ctx.Registers.Set(c.Dst, runtime.NumbersValue(out))
	return nil
}

package stdcommands

import (
	"fmt"
	"strings"

	"vecl/internal/command"
	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
)

// PrintCommand writes its single input register's formatted value to
// the context's "std"/"stdout" payload. It is impure (it performs
// visible output) and reports a 0.6ms execution time, matching the
// "slow library call" of the pause-insertion end-to-end scenario.
type PrintCommand struct {
	Value int
}

func NewPrintInstruction(value int) instr.Instruction {
	return MakeCall("std", "print", true, []instr.DataFlow{instr.FlowIn}, []int{value})
}

func (c *PrintCommand) GetSchema() command.Schema {
	return command.Schema{Trigger: command.Trigger{Op: instr.OpCall, Module: "std", Name: "print"}, Values: 0}
}

func (c *PrintCommand) FromInstruction(in instr.Instruction) (command.Compile, error) {
	return &PrintCommand{Value: in.Operands[0]}, nil
}

func (c *PrintCommand) Serialize() ([]interface{}, bool) { return nil, true }

func (c *PrintCommand) Preimage(ctx *preimage.AbstractContext, interp command.Interp) (preimage.Outcome, error) {
	// print is impure: it always runs at interpret time, never folds.
	return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
}

func (c *PrintCommand) ExecutionTime(ctx *preimage.AbstractContext) float64 { return 0.6 }

func (c *PrintCommand) Deserialize(args []interface{}) (command.Interp, error) {
	return c, nil
}

func (c *PrintCommand) Execute(ctx *runtime.Context) error {
	v := ctx.Registers.Get(c.Value)
	out, _ := ctx.Payload("std", "stdout").(*strings.Builder)
	if out == nil {
		out = &strings.Builder{}
	}
	out.WriteString(FormatValue(v))
	out.WriteString("\n")
	return nil
}

// FormatValue renders an InterpValue the way the std print command
// does: a bare scalar for a length-1 register, a bracketed
// comma-space list otherwise.
func FormatValue(v runtime.InterpValue) string {
	n := v.Len()
	if n == 1 {
		return formatElem(v, 0)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = formatElem(v, i)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatElem(v runtime.InterpValue, i int) string {
	switch v.Kind {
	case runtime.VStrings:
		return v.Strings[i]
	case runtime.VBools:
		return fmt.Sprintf("%v", v.Bools[i])
	case runtime.VIndexes:
		return fmt.Sprintf("%d", v.Indexes[i])
	case runtime.VNumbers:
		f := v.Numbers[i]
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
		return fmt.Sprintf("%g", f)
	default:
		return ""
	}
}

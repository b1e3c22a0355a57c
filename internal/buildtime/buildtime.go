// Package buildtime implements the compile-time-only supplemented
// commands: force_pause (hard pause), size_hint (feeds the pre-image
// evaluator's size map without running), and define (binds a number
// to a register at compile time). No command suite registers these
// commands and no other package imports this one, so source programs
// and the CLI's --define flags do not reach them.
//
// Grounded on dauphin-lib-buildtime's hints.rs/defines.rs: these
// commands exist only to influence compilation and are never
// serialised to the interpret-side artifact (Serialize returns
// ok=false for all three).
package buildtime

import (
	"vecl/internal/command"
	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
)

// ForcePauseCommand emits a hard pause instruction at the call site;
// per the concurrency model, a hard pause always yields and resets
// the pauses pass's timer.
type ForcePauseCommand struct{}

func (c *ForcePauseCommand) GetSchema() command.Schema {
	return command.Schema{Trigger: command.Trigger{Module: "buildtime", Name: "force_pause"}}
}
func (c *ForcePauseCommand) FromInstruction(in instr.Instruction) (command.Compile, error) {
	return &ForcePauseCommand{}, nil
}
func (c *ForcePauseCommand) Serialize() ([]interface{}, bool) { return nil, false }
func (c *ForcePauseCommand) Preimage(ctx *preimage.AbstractContext, interp command.Interp) (preimage.Outcome, error) {
	return preimage.Outcome{Kind: preimage.Replace, ReplaceInstrs: []instr.Instruction{{Op: instr.OpPause, Hard: true}}}, nil
}
func (c *ForcePauseCommand) ExecutionTime(ctx *preimage.AbstractContext) float64 { return 0 }

// SizeHintCommand feeds the pre-image evaluator's size map directly
// for a register whose value will not be known until runtime but
// whose length the author can still assert.
type SizeHintCommand struct {
	Reg, Size int
}

func (c *SizeHintCommand) GetSchema() command.Schema {
	return command.Schema{Trigger: command.Trigger{Module: "buildtime", Name: "size_hint"}}
}
func (c *SizeHintCommand) FromInstruction(in instr.Instruction) (command.Compile, error) {
	return &SizeHintCommand{Reg: in.Operands[0], Size: int(in.NumberVal)}, nil
}
func (c *SizeHintCommand) Serialize() ([]interface{}, bool) { return nil, false }
func (c *SizeHintCommand) Preimage(ctx *preimage.AbstractContext, interp command.Interp) (preimage.Outcome, error) {
	return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{c.Reg: c.Size}}, nil
}
func (c *SizeHintCommand) ExecutionTime(ctx *preimage.AbstractContext) float64 { return 0 }

// DefineCommand binds the number carried by its instruction to a
// compile-time constant register.
type DefineCommand struct {
	Reg   int
	Value float64
}

func (c *DefineCommand) GetSchema() command.Schema {
	return command.Schema{Trigger: command.Trigger{Module: "buildtime", Name: "define"}}
}
func (c *DefineCommand) FromInstruction(in instr.Instruction) (command.Compile, error) {
	return &DefineCommand{Reg: in.Operands[0], Value: in.NumberVal}, nil
}
func (c *DefineCommand) Serialize() ([]interface{}, bool) { return nil, false }
func (c *DefineCommand) Preimage(ctx *preimage.AbstractContext, interp command.Interp) (preimage.Outcome, error) {
	ctx.Registers.Set(c.Reg, runtime.NumbersValue([]float64{c.Value}))
	return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{c.Reg}}, nil
}
func (c *DefineCommand) ExecutionTime(ctx *preimage.AbstractContext) float64 { return 0 }

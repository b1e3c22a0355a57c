// Package preimage implements component D: the compile-time abstract
// evaluator. Each instruction's command supplies a Preimage method
// returning one of three outcomes: Constant, Replace, or Skip.
package preimage

import (
	"vecl/internal/errors"
	"vecl/internal/instr"
	"vecl/internal/runtime"
)

// OutcomeKind discriminates the three preimage outcomes.
type OutcomeKind int

const (
	Constant OutcomeKind = iota
	Replace
	Skip
)

// Outcome is the result a command's Preimage method reports.
type Outcome struct {
	Kind OutcomeKind

	// Valid when Kind == Constant: the registers now known.
	ConstantRegs []int

	// Valid when Kind == Replace: the replacement instruction
	// sequence, recursed over by the evaluator.
	ReplaceInstrs []instr.Instruction

	// Valid when Kind == Skip: size hints for output registers whose
	// concrete value is unknown but whose length is.
	SkipSizes map[int]int
}

// AbstractContext holds everything a Preimage hook needs: a register
// file with the same copy-on-write semantics as runtime, a validity
// set (which registers hold compile-time-known values), a size map
// (known lengths for registers whose size but not value is known),
// the maximum register ever allocated, and whether this is the final
// compile-run in the pipeline (Replace is forbidden when true).
type AbstractContext struct {
	Registers  *runtime.RegisterFile
	Valid      map[int]bool
	Sizes      map[int]int
	MaxReg     int
	IsLast     bool
	CurrentLine int

	allocNext func() int
}

func NewAbstractContext(allocNext func() int) *AbstractContext {
	return &AbstractContext{
		Registers: runtime.NewRegisterFile(),
		Valid:     map[int]bool{},
		Sizes:     map[int]int{},
		allocNext: allocNext,
	}
}

func (c *AbstractContext) noteReg(r int) {
	if r > c.MaxReg {
		c.MaxReg = r
	}
}

// MarkValid records that register r now holds a compile-time-known
// value, tracking MaxReg as it goes.
func (c *AbstractContext) MarkValid(r int) {
	c.noteReg(r)
	c.Valid[r] = true
	c.Registers.Commit()
	c.Sizes[r] = c.Registers.Get(r).Len()
}

// MarkInvalid records that register r's value is not (or is no
// longer) known at compile time, optionally with a known size hint.
func (c *AbstractContext) MarkInvalid(r int, size int, known bool) {
	c.noteReg(r)
	delete(c.Valid, r)
	if known {
		c.Sizes[r] = size
	} else {
		delete(c.Sizes, r)
	}
}

// Evaluator drives the fixed-point application of Preimage across an
// instruction list, expanding Replace outcomes recursively and
// emitting minimal-cost constant-building instructions for Constant
// outcomes.
type Evaluator struct {
	ctx *AbstractContext
}

func NewEvaluator(ctx *AbstractContext) *Evaluator {
	return &Evaluator{ctx: ctx}
}

// PreimageFunc is the per-command hook: evaluate instr abstractly
// against ctx and report an outcome.
type PreimageFunc func(ctx *AbstractContext, in instr.Instruction) (Outcome, error)

// Run evaluates one instruction, recursing over Replace outcomes and
// emitting MakeConstant instructions for Constant outcomes. It
// returns the instruction sequence to keep in the final program.
func (e *Evaluator) Run(in instr.Instruction, hook PreimageFunc) ([]instr.Instruction, error) {
	if in.Op == instr.OpLineNumber {
		e.ctx.CurrentLine = in.Line
		return []instr.Instruction{in}, nil
	}

	outcome, err := hook(e.ctx, in)
	if err != nil {
		return nil, errors.AtLine(errors.NewPreimageError(err.Error()), "", e.ctx.CurrentLine)
	}

	switch outcome.Kind {
	case Constant:
		var out []instr.Instruction
		for _, r := range outcome.ConstantRegs {
			e.ctx.MarkValid(r)
			out = append(out, MakeConstant(e.ctx, r, e.ctx.allocNext)...)
		}
		return out, nil

	case Replace:
		if e.ctx.IsLast {
			return nil, errors.NewPreimageError("Replace forbidden during final compile-run")
		}
		var out []instr.Instruction
		for _, r := range in.Outputs() {
			e.ctx.MarkInvalid(r, 0, false)
		}
		for _, ri := range outcome.ReplaceInstrs {
			expanded, err := e.Run(ri, hook)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		}
		return out, nil

	case Skip:
		for _, r := range in.Outputs() {
			size, known := outcome.SkipSizes[r]
			e.ctx.MarkInvalid(r, size, known)
		}
		return []instr.Instruction{in}, nil
	}
	return []instr.Instruction{in}, nil
}

// MakeConstant reads register r's concrete value and emits the
// minimal-cost constant instruction sequence: Nil for empty, a single
// *Const for length 1, and an explicit Nil+Append build-up for
// longer vectors of non-index primitives.
func MakeConstant(ctx *AbstractContext, r int, allocTmp func() int) []instr.Instruction {
	v := ctx.Registers.Get(r)
	if v.Len() == 0 {
		return []instr.Instruction{{Op: instr.OpNil, Operands: []int{r}}}
	}
	if v.Len() == 1 {
		return []instr.Instruction{singleConst(r, v, 0)}
	}

	var out []instr.Instruction
	out = append(out, instr.Instruction{Op: instr.OpNil, Operands: []int{r}})
	for i := 0; i < v.Len(); i++ {
		tmp := allocTmp()
		out = append(out, singleConst(tmp, v, i))
		out = append(out, instr.Instruction{Op: instr.OpAppend, Operands: []int{r, tmp}})
	}
	return out
}

func singleConst(dst int, v runtime.InterpValue, i int) instr.Instruction {
	switch v.Kind {
	case runtime.VStrings:
		return instr.Instruction{Op: instr.OpStringConst, Operands: []int{dst}, StringVal: v.Strings[i]}
	case runtime.VBools:
		return instr.Instruction{Op: instr.OpBooleanConst, Operands: []int{dst}, BooleanVal: v.Bools[i]}
	case runtime.VIndexes:
		return instr.Instruction{Op: instr.OpNumberConst, Operands: []int{dst}, NumberVal: float64(v.Indexes[i])}
	default:
		return instr.Instruction{Op: instr.OpNumberConst, Operands: []int{dst}, NumberVal: v.Numbers[i]}
	}
}

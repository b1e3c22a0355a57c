package pipeline

import (
	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
)

// CommandHooks lets the compile-run pass delegate library-call
// (OpCall) preimage evaluation to the suite's registered commands
// without this package importing the suite package directly.
type CommandHooks interface {
	Preimage(ctx *preimage.AbstractContext, in instr.Instruction) (preimage.Outcome, error)
	ExecutionTime(ctx *preimage.AbstractContext, in instr.Instruction) float64
}

// CompileRunPass abstract-executes the instruction list against a
// fresh AbstractContext, folding provably-constant instructions and
// recording per-instruction timing for the pauses pass. Core
// operations (Nil, *Const, Copy, Append, Length, NumEq, Filter) have
// built-in preimage semantics; library calls (OpCall) delegate to
// hooks.
func CompileRunPass(hooks CommandHooks, isLast bool) Pass {
	return func(p *Pipeline) ([]instr.Instruction, error) {
		ctx := preimage.NewAbstractContext(func() int { return p.Alloc.Alloc() })
		ctx.IsLast = isLast
		ev := preimage.NewEvaluator(ctx)

		p.Times = map[int]float64{}
		var out []instr.Instruction
		for _, in := range p.Instructions {
			expanded, err := ev.Run(in, func(ctx *preimage.AbstractContext, in instr.Instruction) (preimage.Outcome, error) {
				return corePreimage(ctx, in, hooks)
			})
			if err != nil {
				return nil, err
			}
			for _, e := range expanded {
				if hooks != nil && e.Op == instr.OpCall {
					p.Times[len(out)] = hooks.ExecutionTime(ctx, e)
				} else {
					p.Times[len(out)] = builtinExecutionTime(e)
				}
				out = append(out, e)
			}
		}
		return out, nil
	}
}

func builtinExecutionTime(in instr.Instruction) float64 {
	switch in.Op {
	case instr.OpCall:
		if in.Library != nil && in.Library.Impure {
			return 0.05
		}
		return 0.01
	default:
		return 0.001
	}
}

// corePreimage implements the built-in preimage rules for core
// operations, per the outcomes of component D: Nil/Const variants are
// always Constant; Copy/Append/Length/NumEq/Filter are Constant when
// every input register is currently valid and Skip otherwise; OpCall
// delegates to hooks.
func corePreimage(ctx *preimage.AbstractContext, in instr.Instruction, hooks CommandHooks) (preimage.Outcome, error) {
	switch in.Op {
	case instr.OpNil:
		r := in.Operands[0]
		ctx.Registers.Set(r, runtime.EmptyValue())
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{r}}, nil

	case instr.OpNumberConst:
		r := in.Operands[0]
		ctx.Registers.Set(r, runtime.NumbersValue([]float64{in.NumberVal}))
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{r}}, nil

	case instr.OpStringConst:
		r := in.Operands[0]
		ctx.Registers.Set(r, runtime.StringsValue([]string{in.StringVal}))
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{r}}, nil

	case instr.OpBooleanConst:
		r := in.Operands[0]
		ctx.Registers.Set(r, runtime.BoolsValue([]bool{in.BooleanVal}))
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{r}}, nil

	case instr.OpCopy:
		dst, src := in.Operands[0], in.Operands[1]
		if !ctx.Valid[src] {
			sizes := map[int]int{}
			if n, ok := ctx.Sizes[src]; ok {
				sizes[dst] = n
			}
			return preimage.Outcome{Kind: preimage.Skip, SkipSizes: sizes}, nil
		}
		ctx.Registers.CopyReg(dst, src)
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{dst}}, nil

	case instr.OpAppend:
		dst, src := in.Operands[0], in.Operands[1]
		if !ctx.Valid[dst] || !ctx.Valid[src] {
			return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
		}
		merged := appendValue(ctx.Registers.Get(dst), ctx.Registers.Get(src))
		ctx.Registers.Set(dst, merged)
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{dst}}, nil

	case instr.OpLength:
		dst, src := in.Operands[0], in.Operands[1]
		if !ctx.Valid[src] {
			return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
		}
		ctx.Registers.Set(dst, runtime.IndexesValue([]uint64{uint64(ctx.Registers.Get(src).Len())}))
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{dst}}, nil

	case instr.OpNumEq:
		dst, a, b := in.Operands[0], in.Operands[1], in.Operands[2]
		if !ctx.Valid[a] || !ctx.Valid[b] {
			return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
		}
		av, bv := ctx.Registers.Get(a).GetNumbers(), ctx.Registers.Get(b).GetNumbers()
		eq := make([]bool, minLen(len(av), len(bv)))
		for i := range eq {
			eq[i] = av[i] == bv[i]
		}
		ctx.Registers.Set(dst, runtime.BoolsValue(eq))
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{dst}}, nil

	case instr.OpFilter:
		dst, src, mask := in.Operands[0], in.Operands[1], in.Operands[2]
		if !ctx.Valid[src] || !ctx.Valid[mask] {
			return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
		}
		ctx.Registers.Set(dst, filterValue(ctx.Registers.Get(src), ctx.Registers.Get(mask)))
		return preimage.Outcome{Kind: preimage.Constant, ConstantRegs: []int{dst}}, nil

	case instr.OpCall:
		if hooks == nil {
			return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
		}
		return hooks.Preimage(ctx, in)

	default:
		return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
	}
}

// filterValue mirrors runtime.executeCore's interpret-time filterValue
// so compile-time constant-folding of OpFilter agrees with what the
// interpreter would produce for the same registers.
func filterValue(src, mask runtime.InterpValue) runtime.InterpValue {
	keep := mask.GetBools()
	switch src.Kind {
	case runtime.VStrings:
		var out []string
		for i, s := range src.Strings {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return runtime.StringsValue(out)
	case runtime.VBools:
		var out []bool
		for i, s := range src.Bools {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return runtime.BoolsValue(out)
	case runtime.VIndexes:
		var out []uint64
		for i, s := range src.Indexes {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return runtime.IndexesValue(out)
	default:
		var out []float64
		for i, s := range src.Numbers {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return runtime.NumbersValue(out)
	}
}

func appendValue(a, b runtime.InterpValue) runtime.InterpValue {
	switch a.Kind {
	case runtime.VStrings:
		return runtime.StringsValue(append(append([]string{}, a.Strings...), b.GetStrings()...))
	case runtime.VBools:
		return runtime.BoolsValue(append(append([]bool{}, a.Bools...), b.GetBools()...))
	case runtime.VIndexes:
		return runtime.IndexesValue(append(append([]uint64{}, a.Indexes...), b.GetIndexes()...))
	case runtime.VEmpty:
		return b
	default:
		return runtime.NumbersValue(append(append([]float64{}, a.Numbers...), b.GetNumbers()...))
	}
}

func minLen(a, b int) int {
	if a < b {
		return a
	}
	return b
}

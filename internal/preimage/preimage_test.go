package preimage

import (
	"testing"

	"vecl/internal/instr"
	"vecl/internal/runtime"
)

func newTestCtx() *AbstractContext {
	next := 100
	return NewAbstractContext(func() int {
		r := next
		next++
		return r
	})
}

func constantFold(ctx *AbstractContext, in instr.Instruction) (Outcome, error) {
	switch in.Op {
	case instr.OpNumberConst:
		r := in.Operands[0]
		ctx.Registers.Set(r, runtime.NumbersValue([]float64{in.NumberVal}))
		return Outcome{Kind: Constant, ConstantRegs: []int{r}}, nil
	default:
		return Outcome{Kind: Skip, SkipSizes: map[int]int{}}, nil
	}
}

func TestRunEmptyVectorFoldsToSingleNil(t *testing.T) {
	ctx := newTestCtx()
	ctx.Registers.Set(5, runtime.EmptyValue())
	out := MakeConstant(ctx, 5, ctx.allocNext)
	if len(out) != 1 || out[0].Op != instr.OpNil {
		t.Fatalf("empty vector should constant-fold into a single Nil, got %+v", out)
	}
}

func TestRunLengthOneFoldsToSingleConst(t *testing.T) {
	ctx := newTestCtx()
	ctx.Registers.Set(5, runtime.NumbersValue([]float64{42}))
	out := MakeConstant(ctx, 5, ctx.allocNext)
	if len(out) != 1 || out[0].Op != instr.OpNumberConst || out[0].NumberVal != 42 {
		t.Fatalf("length-1 vector should fold to a single Const, got %+v", out)
	}
}

func TestRunMultiElementBuildsNilThenAppends(t *testing.T) {
	ctx := newTestCtx()
	ctx.Registers.Set(5, runtime.NumbersValue([]float64{1, 2, 3}))
	out := MakeConstant(ctx, 5, ctx.allocNext)
	if out[0].Op != instr.OpNil {
		t.Fatalf("expected leading Nil, got %+v", out[0])
	}
	appends := 0
	for _, in := range out {
		if in.Op == instr.OpAppend {
			appends++
		}
	}
	if appends != 3 {
		t.Fatalf("expected 3 appends for a 3-element vector, got %d", appends)
	}
}

func TestRunReplaceForbiddenWhenIsLast(t *testing.T) {
	ctx := newTestCtx()
	ctx.IsLast = true
	ev := NewEvaluator(ctx)
	_, err := ev.Run(instr.Instruction{Op: instr.OpCall}, func(ctx *AbstractContext, in instr.Instruction) (Outcome, error) {
		return Outcome{Kind: Replace, ReplaceInstrs: []instr.Instruction{{Op: instr.OpNil, Operands: []int{0}}}}, nil
	})
	if err == nil {
		t.Fatal("expected Replace to be rejected during final compile-run")
	}
}

func TestRunConstantEmitsMinimalInstructions(t *testing.T) {
	ctx := newTestCtx()
	ev := NewEvaluator(ctx)
	out, err := ev.Run(instr.Instruction{Op: instr.OpNumberConst, Operands: []int{5}, NumberVal: 7}, constantFold)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].NumberVal != 7 {
		t.Fatalf("expected single folded const, got %+v", out)
	}
	if !ctx.Valid[5] {
		t.Fatal("register 5 should be marked valid after a Constant outcome")
	}
}

func TestRunSkipMarksOutputInvalidWithSizeHint(t *testing.T) {
	ctx := newTestCtx()
	ev := NewEvaluator(ctx)
	_, err := ev.Run(instr.Instruction{Op: instr.OpCopy, Operands: []int{5, 6}}, func(ctx *AbstractContext, in instr.Instruction) (Outcome, error) {
		return Outcome{Kind: Skip, SkipSizes: map[int]int{5: 3}}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Valid[5] {
		t.Fatal("register should not be valid after Skip")
	}
	if ctx.Sizes[5] != 3 {
		t.Fatalf("expected size hint 3, got %d", ctx.Sizes[5])
	}
}

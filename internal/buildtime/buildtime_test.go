package buildtime

import (
	"testing"

	"vecl/internal/instr"
	"vecl/internal/preimage"
)

func newTestCtx() *preimage.AbstractContext {
	next := 1000
	return preimage.NewAbstractContext(func() int {
		r := next
		next++
		return r
	})
}

func TestForcePauseReplacesWithHardPause(t *testing.T) {
	c := &ForcePauseCommand{}
	out, err := c.Preimage(newTestCtx(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != preimage.Replace || len(out.ReplaceInstrs) != 1 {
		t.Fatalf("expected a single Replace instruction, got %+v", out)
	}
	if out.ReplaceInstrs[0].Op != instr.OpPause || !out.ReplaceInstrs[0].Hard {
		t.Fatalf("expected a hard Pause, got %+v", out.ReplaceInstrs[0])
	}
}

func TestForcePauseNeverSerializes(t *testing.T) {
	c := &ForcePauseCommand{}
	if _, ok := c.Serialize(); ok {
		t.Fatal("force_pause is compile-time only and must not serialise")
	}
}

func TestSizeHintFeedsSizeMapWithoutRunning(t *testing.T) {
	c := &SizeHintCommand{Reg: 3, Size: 7}
	out, err := c.Preimage(newTestCtx(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != preimage.Skip {
		t.Fatalf("size_hint should Skip, not fold, got %+v", out)
	}
	if out.SkipSizes[3] != 7 {
		t.Fatalf("expected size hint 7 for register 3, got %d", out.SkipSizes[3])
	}
	if _, ok := c.Serialize(); ok {
		t.Fatal("size_hint is compile-time only and must not serialise")
	}
}

func TestDefineBindsConstantRegister(t *testing.T) {
	ctx := newTestCtx()
	c := &DefineCommand{Reg: 4, Value: 42}
	out, err := c.Preimage(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != preimage.Constant || len(out.ConstantRegs) != 1 || out.ConstantRegs[0] != 4 {
		t.Fatalf("expected register 4 to fold to a constant, got %+v", out)
	}
	got := ctx.Registers.Get(4).GetNumbers()
	if len(got) != 1 || got[0] != 42 {
		t.Fatalf("expected register 4 bound to [42], got %v", got)
	}
	if _, ok := c.Serialize(); ok {
		t.Fatal("define is compile-time only and must not serialise")
	}
}

func TestDefineFromInstructionCarriesNumberVal(t *testing.T) {
	c := &DefineCommand{}
	compiled, err := c.FromInstruction(instr.Instruction{Operands: []int{9}, NumberVal: 3.5})
	if err != nil {
		t.Fatal(err)
	}
	d := compiled.(*DefineCommand)
	if d.Reg != 9 || d.Value != 3.5 {
		t.Fatalf("got %+v, want Reg=9 Value=3.5", d)
	}
}

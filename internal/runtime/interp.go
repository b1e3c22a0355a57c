package runtime

import "vecl/internal/instr"

// Executable runs one instruction's interpret-side effect against a
// Context; library calls resolve to one of these via a Dispatcher.
type Executable interface {
	Execute(ctx *Context) error
}

// Dispatcher resolves an OpCall instruction to its Executable,
// keeping the interpreter loop free of any concrete command registry
// -- component E's suite owns that lookup.
type Dispatcher interface {
	Resolve(in instr.Instruction) (Executable, error)
}

// Status reports why More returned control to its caller.
type Status int

const (
	StatusDone Status = iota
	StatusPaused
)

// Program is a pipeline's final instruction list, ready for
// cooperative interpretation.
type Program struct {
	Instructions []instr.Instruction
	pos          int
}

func NewProgram(instrs []instr.Instruction) *Program {
	return &Program{Instructions: instrs}
}

// Done reports whether every instruction has been executed.
func (p *Program) Done() bool { return p.pos >= len(p.Instructions) }

// More executes instructions from the current position until the
// program ends, a Pause instruction is reached, or the context's test
// pause flag is set after a command runs -- the cooperative-yield
// contract: callers loop on More, doing whatever concurrent work they
// like between calls, until it reports StatusDone.
func (p *Program) More(ctx *Context, d Dispatcher) (Status, error) {
	for p.pos < len(p.Instructions) {
		in := p.Instructions[p.pos]
		p.pos++
		if in.Op == instr.OpPause {
			return StatusPaused, nil
		}
		if err := executeCore(ctx, in, d); err != nil {
			return StatusDone, err
		}
		if ctx.consumePause() {
			return StatusPaused, nil
		}
	}
	return StatusDone, nil
}

// Run drives More to completion, ignoring pauses (the synchronous
// entry point used by the in-process integration tests; `vecl run`
// loops on More itself).
func (p *Program) Run(ctx *Context, d Dispatcher) error {
	for {
		status, err := p.More(ctx, d)
		if err != nil {
			return err
		}
		if status == StatusDone {
			return nil
		}
	}
}

func executeCore(ctx *Context, in instr.Instruction, d Dispatcher) error {
	switch in.Op {
	case instr.OpLineNumber:
		return nil
	case instr.OpNil:
		ctx.Registers.Set(in.Operands[0], EmptyValue())
		return nil
	case instr.OpNumberConst:
		ctx.Registers.Set(in.Operands[0], NumbersValue([]float64{in.NumberVal}))
		return nil
	case instr.OpStringConst:
		ctx.Registers.Set(in.Operands[0], StringsValue([]string{in.StringVal}))
		return nil
	case instr.OpBooleanConst:
		ctx.Registers.Set(in.Operands[0], BoolsValue([]bool{in.BooleanVal}))
		return nil
	case instr.OpCopy:
		ctx.Registers.CopyReg(in.Operands[0], in.Operands[1])
		return nil
	case instr.OpAppend:
		dst, src := in.Operands[0], in.Operands[1]
		ctx.Registers.Set(dst, appendValues(ctx.Registers.Get(dst), ctx.Registers.Get(src)))
		return nil
	case instr.OpLength:
		dst, src := in.Operands[0], in.Operands[1]
		ctx.Registers.Set(dst, IndexesValue([]uint64{uint64(ctx.Registers.Get(src).Len())}))
		return nil
	case instr.OpNumEq:
		dst, a, b := in.Operands[0], in.Operands[1], in.Operands[2]
		av, bv := ctx.Registers.Get(a).GetNumbers(), ctx.Registers.Get(b).GetNumbers()
		n := len(av)
		if len(bv) < n {
			n = len(bv)
		}
		eq := make([]bool, n)
		for i := 0; i < n; i++ {
			eq[i] = av[i] == bv[i]
		}
		ctx.Registers.Set(dst, BoolsValue(eq))
		return nil
	case instr.OpFilter:
		dst, src, mask := in.Operands[0], in.Operands[1], in.Operands[2]
		ctx.Registers.Set(dst, filterValue(ctx.Registers.Get(src), ctx.Registers.Get(mask)))
		return nil
	case instr.OpCall:
		if d == nil {
			return nil
		}
		exec, err := d.Resolve(in)
		if err != nil {
			return err
		}
		return exec.Execute(ctx)
	default:
		return nil
	}
}

func appendValues(a, b InterpValue) InterpValue {
	switch a.Kind {
	case VStrings:
		return StringsValue(append(append([]string{}, a.Strings...), b.GetStrings()...))
	case VBools:
		return BoolsValue(append(append([]bool{}, a.Bools...), b.GetBools()...))
	case VIndexes:
		return IndexesValue(append(append([]uint64{}, a.Indexes...), b.GetIndexes()...))
	case VEmpty:
		return b
	default:
		return NumbersValue(append(append([]float64{}, a.Numbers...), b.GetNumbers()...))
	}
}

func filterValue(src, mask InterpValue) InterpValue {
	keep := mask.GetBools()
	switch src.Kind {
	case VStrings:
		var out []string
		for i, s := range src.Strings {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return StringsValue(out)
	case VBools:
		var out []bool
		for i, s := range src.Bools {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return BoolsValue(out)
	case VIndexes:
		var out []uint64
		for i, s := range src.Indexes {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return IndexesValue(out)
	default:
		var out []float64
		for i, s := range src.Numbers {
			if i < len(keep) && keep[i] {
				out = append(out, s)
			}
		}
		return NumbersValue(out)
	}
}

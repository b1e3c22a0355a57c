package stdcommands

import (
	"fmt"

	"vecl/internal/command"
	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
	"vecl/internal/suite"
)

// BuildCompileSet registers every command in this package into a
// fresh CompileSet at set name "std", major.minor 1.0, with each
// command's local opcode chosen by the author (not auto-incremented),
// matching the set-id addressing scheme of component E.
func BuildCompileSet() *suite.CompileSet {
	s := suite.NewCompileSet("std", 1, 0)
	s.Register(0, (&PrintCommand{}).GetSchema(), func() command.Compile { return &PrintCommand{} })
	s.Register(1, (&NumOp{Name: "add"}).GetSchema(), func() command.Compile { return &NumOp{Name: "add", apply: numOpFns["add"]} })
	s.Register(2, (&NumOp{Name: "sub"}).GetSchema(), func() command.Compile { return &NumOp{Name: "sub", apply: numOpFns["sub"]} })
	s.Register(3, (&NumOp{Name: "mul"}).GetSchema(), func() command.Compile { return &NumOp{Name: "mul", apply: numOpFns["mul"]} })
	s.Register(4, (&NumOp{Name: "div"}).GetSchema(), func() command.Compile { return &NumOp{Name: "div", apply: numOpFns["div"]} })
	s.Register(5, (&LtCommand{}).GetSchema(), func() command.Compile { return &LtCommand{} })
	return s
}

// BuildInterpretSet mirrors BuildCompileSet on the interpret side:
// each local opcode's deserialiser reconstructs the zero-argument
// command (std commands here carry no serialised payload, since their
// state lives entirely in their register operands bound at
// from_instruction time).
func BuildInterpretSet(bind map[int]command.Interp) *suite.InterpretSet {
	s := suite.NewInterpretSet("std", 1, 0)
	for local, cmd := range bind {
		c := cmd
		s.Register(local, commandName(local), 0, func(args []interface{}) (command.Interp, error) { return c, nil })
	}
	return s
}

func commandName(local int) string {
	switch local {
	case 0:
		return "print"
	case 1:
		return "add"
	case 2:
		return "sub"
	case 3:
		return "mul"
	case 4:
		return "div"
	case 5:
		return "lt"
	default:
		return "?"
	}
}

// Hooks adapts a CompileSuite into pipeline.CommandHooks, dispatching
// OpCall instructions to the command registered under their trigger.
type Hooks struct {
	Suite *suite.CompileSuite
}

func (h Hooks) trigger(in instr.Instruction) command.Trigger {
	return command.Trigger{Op: instr.OpCall, Module: in.Library.ID.Module, Name: in.Library.ID.Name}
}

func (h Hooks) Preimage(ctx *preimage.AbstractContext, in instr.Instruction) (preimage.Outcome, error) {
	entry, ok := h.Suite.Lookup(h.trigger(in))
	if !ok {
		return preimage.Outcome{Kind: preimage.Skip, SkipSizes: map[int]int{}}, nil
	}
	c, err := entry.Factory().FromInstruction(in)
	if err != nil {
		return preimage.Outcome{}, err
	}
	return c.Preimage(ctx, nil)
}

func (h Hooks) ExecutionTime(ctx *preimage.AbstractContext, in instr.Instruction) float64 {
	entry, ok := h.Suite.Lookup(h.trigger(in))
	if !ok {
		return 0.01
	}
	c, err := entry.Factory().FromInstruction(in)
	if err != nil {
		return 0.01
	}
	return c.ExecutionTime(ctx)
}

// CompileAll converts every OpCall instruction in a pipeline's final
// output into its compile-side command.Compile object, the form
// suite.EncodeProgram needs; non-call instructions (core ops, Pause)
// carry no serialised command and are skipped -- the artifact format
// is component E's opcode+argument stream for library calls only.
func CompileAll(cs *suite.CompileSuite, instrs []instr.Instruction) ([]command.Compile, error) {
	var out []command.Compile
	for _, in := range instrs {
		if in.Op != instr.OpCall {
			continue
		}
		entry, ok := cs.Lookup(command.Trigger{Op: instr.OpCall, Module: in.Library.ID.Module, Name: in.Library.ID.Name})
		if !ok {
			return nil, fmt.Errorf("no command registered for %s:%s", in.Library.ID.Module, in.Library.ID.Name)
		}
		c, err := entry.Factory().FromInstruction(in)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// OpcodeOf looks up a command's global opcode by re-deriving its
// trigger from its schema, for use as suite.EncodeProgram's opcodeOf.
func OpcodeOf(cs *suite.CompileSuite) func(command.Compile) (int, error) {
	return func(c command.Compile) (int, error) {
		entry, ok := cs.Lookup(c.GetSchema().Trigger)
		if !ok {
			return 0, fmt.Errorf("command %+v not registered", c.GetSchema().Trigger)
		}
		return entry.GlobalOpcode, nil
	}
}

// ExecDispatcher resolves a post-pipeline OpCall instruction straight
// to its compile-side command object: every command in this package
// implements both command.Compile and runtime.Executable (its
// Execute method), so the same object built by FromInstruction at
// preimage time can run the interpret-side effect directly, without a
// round trip through the suite's serialised opcode stream.
type ExecDispatcher struct {
	Suite *suite.CompileSuite
}

func (d ExecDispatcher) Resolve(in instr.Instruction) (runtime.Executable, error) {
	entry, ok := d.Suite.Lookup(command.Trigger{Op: instr.OpCall, Module: in.Library.ID.Module, Name: in.Library.ID.Name})
	if !ok {
		return nil, fmt.Errorf("no command registered for %s:%s", in.Library.ID.Module, in.Library.ID.Name)
	}
	c, err := entry.Factory().FromInstruction(in)
	if err != nil {
		return nil, err
	}
	exec, ok := c.(runtime.Executable)
	if !ok {
		return nil, fmt.Errorf("command %s:%s has no interpret-side effect", in.Library.ID.Module, in.Library.ID.Name)
	}
	return exec, nil
}

// Package command declares the interfaces every instruction kind
// implements on the compile side and the interpret side, per the
// external interfaces section: get_schema/from_instruction/serialize/
// preimage/execution_time at compile time, deserialize/execute at
// interpret time.
package command

import (
	"vecl/internal/instr"
	"vecl/internal/preimage"
	"vecl/internal/runtime"
)

// Trigger is the key under which a command kind is indexed: either a
// bare instruction kind or a specific library call identifier
// (module, name).
type Trigger struct {
	Op       instr.Op
	Module   string // non-empty only for library-call triggers
	Name     string
}

// Schema declares a command's serialised argument count and its
// trigger.
type Schema struct {
	Trigger Trigger
	Values  int
}

// Compile is the compile-side command interface.
type Compile interface {
	GetSchema() Schema
	FromInstruction(in instr.Instruction) (Compile, error)
	// Serialize emits the CBOR argument values for this command; the
	// second return is false when the command is compile-only (no
	// interpret-side counterpart is serialised).
	Serialize() ([]interface{}, bool)
	Preimage(ctx *preimage.AbstractContext, interp Interp) (preimage.Outcome, error)
	ExecutionTime(ctx *preimage.AbstractContext) float64
}

// Interp is the interpret-side command interface.
type Interp interface {
	Execute(ctx *runtime.Context) error
}

// Deserializer builds an Interp command from its CBOR-decoded
// argument values; the opcode it is registered under selects it.
type Deserializer func(args []interface{}) (Interp, error)

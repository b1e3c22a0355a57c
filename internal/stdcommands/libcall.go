// Package stdcommands is the minimal standard command library needed
// to drive the end-to-end scenarios: print, the arithmetic ops add,
// sub, mul and div, and the comparison lt. There is no assign, len,
// eq or vector-op command; square, filter and at are core
// instructions handled by the pipeline and the interpreter.
//
// Grounded on dauphin-lib-std's assign.rs/print.rs/numops.rs/eq.rs/
// vector.rs: each command there is a small struct binding concrete
// registers from its instruction, with from_instruction/preimage/
// execute methods; this package reproduces that shape with Go
// methods instead of a macro-generated accessor set.
package stdcommands

import (
	"vecl/internal/complexpath"
	"vecl/internal/instr"
)

// ScalarSignature builds the degenerate one-register-per-entry
// FullType signature used by every command in this package: every
// operand is a depth-0 leaf, so TotalRegisters() per entry is 1 and
// operand position i lines up 1:1 with signature entry i.
func ScalarSignature(flows []instr.DataFlow) []complexpath.FullType {
	sig := make([]complexpath.FullType, len(flows))
	for i, f := range flows {
		mode := complexpath.ModeIn
		switch f {
		case instr.FlowOut:
			mode = complexpath.ModeOut
		case instr.FlowInOut:
			mode = complexpath.ModeInOut
		}
		sig[i] = complexpath.FullType{
			Mode: mode,
			Entries: []complexpath.PathEntry{{
				Registers: complexpath.VectorRegisters{Depth: 0, Data: 0, DataType: complexpath.Number},
			}},
		}
	}
	return sig
}

// MakeCall builds a library-call instruction with a scalar signature
// matching operands 1:1 with flows.
func MakeCall(module, name string, impure bool, flows []instr.DataFlow, operands []int) instr.Instruction {
	return instr.Instruction{
		Op:       instr.OpCall,
		Operands: operands,
		Library: &instr.Library{
			ID:        complexpath.Identifier{Module: module, Name: name},
			Signature: ScalarSignature(flows),
			Flow:      flows,
			Impure:    impure,
		},
	}
}

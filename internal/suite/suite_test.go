package suite

import (
	"testing"

	"vecl/internal/command"
)

func dummySchema(name string) command.Schema {
	return command.Schema{Trigger: command.Trigger{Op: 99, Module: "std", Name: name}, Values: 1}
}

func dummyFactory() command.Compile { return nil }

func TestCompileSuiteAssignsContiguousBases(t *testing.T) {
	cs := NewCompileSuite()
	a := NewCompileSet("a", 1, 0)
	a.Register(0, dummySchema("one"), dummyFactory)
	a.Register(1, dummySchema("two"), dummyFactory)
	if err := cs.AddSet(a); err != nil {
		t.Fatal(err)
	}
	b := NewCompileSet("b", 1, 0)
	b.Register(0, dummySchema("three"), dummyFactory)
	if err := cs.AddSet(b); err != nil {
		t.Fatal(err)
	}

	baseA, _ := cs.Base("a")
	baseB, _ := cs.Base("b")
	if baseA != 0 || baseB != 2 {
		t.Fatalf("expected bases 0, 2, got %d, %d", baseA, baseB)
	}

	entry, ok := cs.Lookup(command.Trigger{Op: 99, Module: "std", Name: "three"})
	if !ok || entry.GlobalOpcode != 2 {
		t.Fatalf("expected global opcode 2 for set b's local 0, got %+v ok=%v", entry, ok)
	}
}

func TestCompileSuiteRejectsDuplicateTrigger(t *testing.T) {
	cs := NewCompileSuite()
	a := NewCompileSet("a", 1, 0)
	a.Register(0, dummySchema("dup"), dummyFactory)
	if err := cs.AddSet(a); err != nil {
		t.Fatal(err)
	}
	b := NewCompileSet("b", 1, 0)
	b.Register(0, dummySchema("dup"), dummyFactory)
	if err := cs.AddSet(b); err == nil {
		t.Fatal("expected duplicate trigger registration to fail")
	}
}

func TestSetIDHashStableUnderRegistrationOrder(t *testing.T) {
	s1 := NewCompileSet("a", 1, 0)
	s1.Register(0, dummySchema("x"), dummyFactory)
	s1.Register(1, dummySchema("y"), dummyFactory)

	s2 := NewCompileSet("a", 1, 0)
	s2.Register(1, dummySchema("y"), dummyFactory)
	s2.Register(0, dummySchema("x"), dummyFactory)

	if s1.ID().Hash != s2.ID().Hash {
		t.Fatal("hash should not depend on registration order")
	}
}

func TestSetIDHashChangesWithDifferentCommands(t *testing.T) {
	s1 := NewCompileSet("a", 1, 0)
	s1.Register(0, dummySchema("x"), dummyFactory)

	s2 := NewCompileSet("a", 1, 0)
	s2.Register(0, dummySchema("z"), dummyFactory)

	if s1.ID().Hash == s2.ID().Hash {
		t.Fatal("different command names should produce different hashes")
	}
}

// TestLinkerRejectsMissingUsedSet reproduces the version-drift
// scenario: a compiled artifact references a used command suite the
// interpreter never registered.
func TestLinkerRejectsMissingUsedSet(t *testing.T) {
	is := NewInterpretSuite()
	linker := NewLinker(is)

	table := []SuiteEntry{{Base: 0, ID: SetID{Name: "std", Major: 2, Minor: 0, Hash: 1}}}
	err := linker.Link(table, map[string]bool{"std": true})
	if err == nil {
		t.Fatal("expected link error for missing used command suite")
	}
}

func TestLinkerIgnoresMissingUnusedSet(t *testing.T) {
	is := NewInterpretSuite()
	linker := NewLinker(is)

	table := []SuiteEntry{{Base: 0, ID: SetID{Name: "extra", Major: 1, Minor: 0, Hash: 1}}}
	if err := linker.Link(table, map[string]bool{"std": true}); err != nil {
		t.Fatalf("unused missing set should not fail linking: %v", err)
	}
}

func TestLinkerRejectsTooOldMinor(t *testing.T) {
	is := NewInterpretSuite()
	local := NewInterpretSet("std", 1, 0)
	local.Register(0, "print", 1, func(args []interface{}) (command.Interp, error) { return nil, nil })
	is.RegisterSet(local)

	linker := NewLinker(is)
	remote := SetID{Name: "std", Major: 1, Minor: 3, Hash: local.ID().Hash}
	err := linker.Link([]SuiteEntry{{Base: 0, ID: remote}}, map[string]bool{"std": true})
	if err == nil {
		t.Fatal("expected link error when local minor is older than the compiler's")
	}
}

func TestLinkerRejectsHashMismatch(t *testing.T) {
	is := NewInterpretSuite()
	local := NewInterpretSet("std", 1, 0)
	local.Register(0, "print", 1, func(args []interface{}) (command.Interp, error) { return nil, nil })
	is.RegisterSet(local)

	linker := NewLinker(is)
	remote := SetID{Name: "std", Major: 1, Minor: 0, Hash: local.ID().Hash + 1}
	err := linker.Link([]SuiteEntry{{Base: 0, ID: remote}}, map[string]bool{"std": true})
	if err == nil {
		t.Fatal("expected link error on hash mismatch")
	}
}

func TestLinkerRebindsGlobalOpcodes(t *testing.T) {
	is := NewInterpretSuite()
	local := NewInterpretSet("std", 1, 0)
	local.Register(0, "print", 1, func(args []interface{}) (command.Interp, error) { return nil, nil })
	is.RegisterSet(local)

	linker := NewLinker(is)
	remote := local.ID()
	if err := linker.Link([]SuiteEntry{{Base: 10, ID: remote}}, map[string]bool{"std": true}); err != nil {
		t.Fatal(err)
	}
	if _, ok := is.Dispatch(10); !ok {
		t.Fatal("expected global opcode 10 to dispatch after rebinding with base 10")
	}
	if _, ok := is.Dispatch(0); ok {
		t.Fatal("opcode 0 should not resolve; the artifact's base was 10")
	}
}

func TestArtifactEncodeDecodeRoundTrip(t *testing.T) {
	cs := NewCompileSuite()
	a := NewCompileSet("std", 1, 0)
	a.Register(0, dummySchema("print"), dummyFactory)
	if err := cs.AddSet(a); err != nil {
		t.Fatal(err)
	}

	bases := map[string]SetID{"std": a.ID()}
	prog := ProgramCmd{Cmds: []interface{}{0, 42}}
	artifact := NewArtifact(bases, map[string]ProgramCmd{"main": prog})
	artifact.WithBases(cs)

	b, err := artifact.Encode()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Version != artifactVersion {
		t.Fatalf("unexpected version %d", decoded.Version)
	}
	if len(decoded.Suite) != 1 || decoded.Suite[0].Name != "std" {
		t.Fatalf("unexpected suite table: %+v", decoded.Suite)
	}
	if len(decoded.Programs["main"].Cmds) != 2 {
		t.Fatalf("unexpected program cmds: %+v", decoded.Programs["main"])
	}
}

func TestDecodeProgramConsumesDeclaredArgCount(t *testing.T) {
	is := NewInterpretSuite()
	local := NewInterpretSet("std", 1, 0)
	var gotArgs []interface{}
	local.Register(0, "print", 1, func(args []interface{}) (command.Interp, error) {
		gotArgs = args
		return nil, nil
	})
	is.RegisterSet(local)
	linker := NewLinker(is)
	if err := linker.Link([]SuiteEntry{{Base: 0, ID: local.ID()}}, map[string]bool{"std": true}); err != nil {
		t.Fatal(err)
	}

	prog := ProgramCmd{Cmds: []interface{}{0, "hello"}}
	out, err := DecodeProgram(prog, is)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one decoded command, got %d", len(out))
	}
	if len(gotArgs) != 1 || gotArgs[0] != "hello" {
		t.Fatalf("deserialiser received unexpected args: %v", gotArgs)
	}
}

func TestDecodeProgramRejectsUnknownOpcode(t *testing.T) {
	is := NewInterpretSuite()
	prog := ProgramCmd{Cmds: []interface{}{7}}
	if _, err := DecodeProgram(prog, is); err == nil {
		t.Fatal("expected error for unknown global opcode")
	}
}

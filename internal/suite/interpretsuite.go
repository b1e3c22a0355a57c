package suite

import (
	"fmt"

	"vecl/internal/command"
	"vecl/internal/errors"
)

// InterpretSet is one named, versioned set of interpret-side command
// deserialisers awaiting a base offset assignment from the linker.
type InterpretSet struct {
	Name         string
	Major, Minor int
	locals       map[int]localDeser
}

type localDeser struct {
	Values int
	Deser  command.Deserializer
	Name   string
}

func NewInterpretSet(name string, major, minor int) *InterpretSet {
	return &InterpretSet{Name: name, Major: major, Minor: minor, locals: map[int]localDeser{}}
}

// Register declares one deserialiser at its local opcode, along with
// how many CBOR argument values it consumes.
func (s *InterpretSet) Register(localOpcode int, name string, values int, deser command.Deserializer) {
	s.locals[localOpcode] = localDeser{Values: values, Deser: deser, Name: name}
}

func (s *InterpretSet) hashEntries() map[int]string {
	m := map[int]string{}
	for op, l := range s.locals {
		m[op] = l.Name
	}
	return m
}

func (s *InterpretSet) ID() SetID {
	return SetID{Name: s.Name, Major: s.Major, Minor: s.Minor, Hash: HashSet(s.hashEntries())}
}

// InterpretSuite is keyed by global-opcode -> deserialiser, built by
// a Linker that rebinds each registered set's locals by the base
// recorded in an artifact's suite table.
type InterpretSuite struct {
	registry map[string]*InterpretSet // name -> set, for linker lookup by (name, major)
	byName   map[string][]*InterpretSet
	global   map[int]localDeser
}

func NewInterpretSuite() *InterpretSuite {
	return &InterpretSuite{byName: map[string][]*InterpretSet{}, global: map[int]localDeser{}}
}

// RegisterSet adds an available interpret-side set to the registry,
// indexed by name (multiple majors of the same name may coexist).
func (is *InterpretSuite) RegisterSet(s *InterpretSet) {
	is.byName[s.Name] = append(is.byName[s.Name], s)
}

// findByNameMajor looks up a registered set compatible with the
// requested (name, major), per the linker's lookup rule.
func (is *InterpretSuite) findByNameMajor(name string, major int) (*InterpretSet, bool) {
	for _, s := range is.byName[name] {
		if s.Major == major {
			return s, true
		}
	}
	return nil, false
}

// Dispatch looks up the deserialiser bound to a global opcode after
// linking.
func (is *InterpretSuite) Dispatch(globalOpcode int) (localDeser, bool) {
	d, ok := is.global[globalOpcode]
	return d, ok
}

// Linker rebinds remote (compiler-side) opcodes to local
// deserialisers while tolerating minor-version drift, per the opcode
// rebinding algorithm.
type Linker struct {
	suite *InterpretSuite
}

func NewLinker(suite *InterpretSuite) *Linker {
	return &Linker{suite: suite}
}

// Link iterates the artifact's suite table: for each (base, set-id)
// entry it looks up the set-id by (name, major) in the interpreter's
// own registry, verifies minor-version compatibility and hash match,
// and records the offset between compiler-side and interpreter-side
// bases, rewriting the local deserialiser map so that incoming
// opcodes resolve correctly. Missing sets fail linking only if used
// by the artifact (signalled by usedSets).
func (l *Linker) Link(table []SuiteEntry, usedSets map[string]bool) error {
	for _, entry := range table {
		remote := entry.ID
		local, ok := l.suite.findByNameMajor(remote.Name, remote.Major)
		if !ok {
			if usedSets[remote.Name] {
				return errors.NewLinkError(fmt.Sprintf("missing command suite %s.%d", remote.Name, remote.Major))
			}
			continue
		}
		localID := local.ID()
		if !localID.MinorAtLeast(remote) {
			return errors.NewLinkError(fmt.Sprintf("command suite %s.%d too old: have minor %d, need %d",
				remote.Name, remote.Major, localID.Minor, remote.Minor))
		}
		if localID.Hash != remote.Hash {
			return errors.NewLinkError(fmt.Sprintf("command suite %s.%d hash mismatch", remote.Name, remote.Major))
		}
		for localOp, d := range local.locals {
			globalOp := entry.Base + localOp
			l.suite.global[globalOp] = d
		}
	}
	return nil
}

// SuiteEntry is one (base, set-id) pair in an artifact's suite table.
type SuiteEntry struct {
	Base int
	ID   SetID
}

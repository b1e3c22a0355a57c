package suite

import (
	"fmt"

	"vecl/internal/command"
	"vecl/internal/errors"
)

// registration is one command's (local opcode, schema, factory)
// tuple as declared by a command set at registration time.
type registration struct {
	LocalOpcode int
	Schema      command.Schema
	FromInstr   func() command.Compile
}

// CompileSet is one named, versioned set of compile-side commands
// awaiting assignment of a contiguous opcode base.
type CompileSet struct {
	Name          string
	Major, Minor  int
	registrations []registration
}

func NewCompileSet(name string, major, minor int) *CompileSet {
	return &CompileSet{Name: name, Major: major, Minor: minor}
}

// Register declares one command kind at its author-assigned local
// opcode. Opcodes are NOT auto-incremented: the author picks the
// local opcode, and the global opcode is base+local, fixed when the
// set is added to a CompileSuite.
func (s *CompileSet) Register(localOpcode int, schema command.Schema, factory func() command.Compile) {
	s.registrations = append(s.registrations, registration{localOpcode, schema, factory})
}

func (s *CompileSet) hashEntries() map[int]string {
	m := map[int]string{}
	for _, r := range s.registrations {
		key := r.Schema.Trigger.Name
		if r.Schema.Trigger.Module == "" {
			key = r.Schema.Trigger.Op.String()
		}
		m[r.LocalOpcode] = key
	}
	return m
}

// ID computes this set's SetID, hashing its registered (opcode, name)
// pairs for the integrity hash.
func (s *CompileSet) ID() SetID {
	return SetID{Name: s.Name, Major: s.Major, Minor: s.Minor, Hash: HashSet(s.hashEntries())}
}

// CompileSuite is keyed by trigger -> (command-type, global-opcode)
// and by set-id -> global-opcode-base. Triggers are unique across all
// registered sets.
type CompileSuite struct {
	bases     map[string]int // set name -> base
	nextBase  int
	byTrigger map[command.Trigger]triggerEntry
	sets      []*CompileSet
}

type triggerEntry struct {
	GlobalOpcode int
	Factory      func() command.Compile
	Schema       command.Schema
}

func NewCompileSuite() *CompileSuite {
	return &CompileSuite{bases: map[string]int{}, byTrigger: map[command.Trigger]triggerEntry{}}
}

// AddSet assigns s a contiguous opcode base and indexes every trigger
// it declares; returns an error if any trigger is already registered
// by a previously-added set.
func (cs *CompileSuite) AddSet(s *CompileSet) error {
	base := cs.nextBase
	cs.bases[s.Name] = base
	maxLocal := 0
	for _, r := range s.registrations {
		global := base + r.LocalOpcode
		if _, exists := cs.byTrigger[r.Schema.Trigger]; exists {
			return errors.NewDefinitionError(fmt.Sprintf("trigger already registered: %+v", r.Schema.Trigger))
		}
		cs.byTrigger[r.Schema.Trigger] = triggerEntry{GlobalOpcode: global, Factory: r.FromInstr, Schema: r.Schema}
		if r.LocalOpcode+1 > maxLocal {
			maxLocal = r.LocalOpcode + 1
		}
	}
	cs.nextBase = base + maxLocal
	cs.sets = append(cs.sets, s)
	return nil
}

// Lookup resolves a trigger to its command factory and global opcode.
func (cs *CompileSuite) Lookup(t command.Trigger) (triggerEntry, bool) {
	e, ok := cs.byTrigger[t]
	return e, ok
}

// Base returns the assigned opcode base for a set name.
func (cs *CompileSuite) Base(setName string) (int, bool) {
	b, ok := cs.bases[setName]
	return b, ok
}

// Sets returns every registered set, in registration order.
func (cs *CompileSuite) Sets() []*CompileSet { return cs.sets }

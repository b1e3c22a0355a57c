package suite

import (
	"github.com/fxamacker/cbor/v2"

	"vecl/internal/errors"
)

// Artifact is the serialised tagged-map layout: a version tag, the
// suite identity table, and per-program opcode streams.
type Artifact struct {
	Version  uint32                `cbor:"version"`
	Suite    []rawSuiteEntry       `cbor:"suite"`
	Programs map[string]ProgramCmd `cbor:"programs"`
}

type rawSuiteEntry struct {
	Base  int    `cbor:"base"`
	Name  string `cbor:"name"`
	Major int    `cbor:"major"`
	Minor int    `cbor:"minor"`
	Hash  uint64 `cbor:"hash"`
}

// ProgramCmd is one program's opcode+argument stream plus optional
// debug symbols.
type ProgramCmd struct {
	Cmds    []interface{}   `cbor:"cmds"`
	Symbols []SymbolEntry   `cbor:"symbols,omitempty"`
}

// SymbolEntry is one debug symbol: a text label plus its registers.
type SymbolEntry struct {
	Text      string `cbor:"text"`
	Registers []int  `cbor:"registers"`
}

const artifactVersion uint32 = 1

// NewArtifact builds an artifact from a compile suite's set table and
// a set of compiled programs.
func NewArtifact(bases map[string]SetID, programs map[string]ProgramCmd) Artifact {
	var entries []rawSuiteEntry
	for name, id := range bases {
		entries = append(entries, rawSuiteEntry{Base: 0, Name: id.Name, Major: id.Major, Minor: id.Minor, Hash: id.Hash})
		_ = name
	}
	return Artifact{Version: artifactVersion, Suite: entries, Programs: programs}
}

// WithBases sets the base offset for each suite entry, looked up by
// name from the supplied CompileSuite.
func (a *Artifact) WithBases(cs *CompileSuite) {
	for i, e := range a.Suite {
		if base, ok := cs.Base(e.Name); ok {
			a.Suite[i].Base = base
		}
	}
}

// SuiteTable converts the artifact's raw suite entries into the form
// Linker.Link expects.
func (a Artifact) SuiteTable() []SuiteEntry {
	out := make([]SuiteEntry, len(a.Suite))
	for i, e := range a.Suite {
		out[i] = SuiteEntry{Base: e.Base, ID: SetID{Name: e.Name, Major: e.Major, Minor: e.Minor, Hash: e.Hash}}
	}
	return out
}

// Encode serialises the artifact to CBOR bytes.
func (a Artifact) Encode() ([]byte, error) {
	b, err := cbor.Marshal(a)
	if err != nil {
		return nil, errors.NewLinkError("encode artifact: " + err.Error())
	}
	return b, nil
}

// Decode parses CBOR bytes into an Artifact, failing with a Link
// error on malformed CBOR.
func Decode(b []byte) (Artifact, error) {
	var a Artifact
	if err := cbor.Unmarshal(b, &a); err != nil {
		return Artifact{}, errors.NewLinkError("malformed artifact: " + err.Error())
	}
	return a, nil
}

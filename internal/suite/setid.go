// Package suite implements component E: a command suite maps each
// instruction kind to a stable opcode via a two-level identifier
// (set-id x local opcode); the serialised artifact stores a version
// tag, the suite identity table, and per-program opcode streams; an
// interpreter-side linker rebinds remote opcodes to local
// deserialisers while tolerating minor-version drift.
package suite

import (
	"fmt"
	"hash/fnv"
	"sort"

	"golang.org/x/mod/semver"
)

// SetID is a command set identity: a triple (name, (major, minor),
// 64-bit integrity hash). Two sets with the same name and major
// compare compatible; minor must be >= the consumer's requirement;
// hash must match exactly or linking fails.
type SetID struct {
	Name  string
	Major int
	Minor int
	Hash  uint64
}

// semverString renders (major, minor) in the form golang.org/x/mod's
// semver comparator expects, so set-version compatibility reuses the
// same comparison primitives the rest of the toolchain leans on
// rather than hand-rolling integer comparison.
func (s SetID) semverString() string {
	return fmt.Sprintf("v%d.%d.0", s.Major, s.Minor)
}

// CompatibleMajor reports whether s and other share the same name and
// major version.
func (s SetID) CompatibleMajor(other SetID) bool {
	return s.Name == other.Name && s.Major == other.Major
}

// MinorAtLeast reports whether s's minor version is >= required.
func (s SetID) MinorAtLeast(required SetID) bool {
	return semver.Compare(s.semverString(), required.semverString()) >= 0
}

func (s SetID) String() string {
	return fmt.Sprintf("%s.%d.%d", s.Name, s.Major, s.Minor)
}

// opcodeName is one (opcode, name) pair the integrity hash is
// computed over.
type opcodeName struct {
	Opcode int
	Name   string
}

// HashSet computes the integrity hash of a command set by hashing the
// ordered (opcode, name) pairs of every command it registers.
func HashSet(entries map[int]string) uint64 {
	ordered := make([]opcodeName, 0, len(entries))
	for op, name := range entries {
		ordered = append(ordered, opcodeName{op, name})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Opcode < ordered[j].Opcode })

	h := fnv.New64a()
	for _, e := range ordered {
		fmt.Fprintf(h, "%d:%s;", e.Opcode, e.Name)
	}
	return h.Sum64()
}

package complexpath

// DefinitionLookup resolves a struct/enum identifier to its
// definition; the flattener needs it to recurse into fields.
type DefinitionLookup interface {
	Lookup(id Identifier) (*Definition, bool)
}

// NoDefs is a DefinitionLookup with no entries, for programs that
// declare no structs or enums.
type NoDefs struct{}

func (NoDefs) Lookup(id Identifier) (*Definition, bool) { return nil, false }

// Flattener allocates per-full-type register numbers from an
// internal counter starting at zero, per the register assignment
// rule: "registers inside a single full-type are numbered from an
// internal counter starting at zero".
type Flattener struct {
	defs    DefinitionLookup
	counter int
}

func NewFlattener(defs DefinitionLookup) *Flattener {
	return &Flattener{defs: defs}
}

func (f *Flattener) alloc() int {
	r := f.counter
	f.counter++
	return r
}

// Flatten performs the depth-first traversal described in the path
// flattener's algorithm: on a primitive, emit one pair with the
// accumulated depth; on a struct, extend the path per field and
// recurse; on an enum, first emit a number-typed discriminator leaf,
// then recurse into each branch; each vector level increments the
// depth counter recorded as a break in the path.
func (f *Flattener) Flatten(t MemberType, mode MemberMode) (FullType, error) {
	f.counter = 0
	var entries []PathEntry
	if err := f.walk(t, ComplexPath{}, 0, &entries); err != nil {
		return FullType{}, err
	}
	return FullType{Mode: mode, Entries: entries}, nil
}

func (f *Flattener) walk(t MemberType, path ComplexPath, depth int, out *[]PathEntry) error {
	switch t.Kind {
	case KindBase:
		*out = append(*out, PathEntry{Path: path, Registers: f.allocLeaf(depth, t.Base)})
		return nil
	case KindVector:
		return f.walk(*t.Elem, path.breakAt(depth+1), depth+1, out)
	case KindStructOrEnum:
		def, ok := f.defs.Lookup(t.Ref)
		if !ok {
			return errUndefined(t.Ref)
		}
		switch def.Kind {
		case DefStruct:
			for _, field := range def.Fields {
				step := PathStep{Owner: t.Ref, Field: field.Name}
				if err := f.walk(field.Type, path.push(step), depth, out); err != nil {
					return err
				}
			}
			return nil
		case DefEnum:
			discStep := PathStep{Owner: t.Ref, Field: "#discriminant"}
			*out = append(*out, PathEntry{Path: path.push(discStep), Registers: f.allocLeaf(depth, Number)})
			for _, branch := range def.Fields {
				step := PathStep{Owner: t.Ref, Field: branch.Name}
				if err := f.walk(branch.Type, path.push(step), depth, out); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return errUnreachable()
}

func (f *Flattener) allocLeaf(depth int, base BaseType) VectorRegisters {
	levels := make([]LevelRegisters, depth)
	for i := 0; i < depth; i++ {
		levels[i] = LevelRegisters{Offsets: f.alloc(), Lengths: f.alloc()}
	}
	return VectorRegisters{Depth: depth, Levels: levels, Data: f.alloc(), DataType: base}
}

// ShiftRegisters offsets every register number in a FullType by
// `base`, used when a full-type is placed inside a register
// signature after prior full-types have claimed the lower range.
func ShiftRegisters(ft FullType, base int) FullType {
	out := FullType{Mode: ft.Mode, Entries: make([]PathEntry, len(ft.Entries))}
	for i, e := range ft.Entries {
		levels := make([]LevelRegisters, len(e.Registers.Levels))
		for j, lvl := range e.Registers.Levels {
			levels[j] = LevelRegisters{Offsets: lvl.Offsets + base, Lengths: lvl.Lengths + base}
		}
		out.Entries[i] = PathEntry{
			Path: e.Path,
			Registers: VectorRegisters{
				Depth:    e.Registers.Depth,
				Levels:   levels,
				Data:     e.Registers.Data + base,
				DataType: e.Registers.DataType,
			},
		}
	}
	return out
}

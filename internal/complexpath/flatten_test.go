package complexpath

import "testing"

func TestFlattenPrimitiveAllocatesOneRegister(t *testing.T) {
	f := NewFlattener(NoDefs{})
	ft, err := f.Flatten(Prim(Number), ModeIn)
	if err != nil {
		t.Fatal(err)
	}
	if len(ft.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(ft.Entries))
	}
	if ft.Entries[0].Registers.Depth != 0 || ft.Entries[0].Registers.NumRegisters() != 1 {
		t.Fatalf("primitive should allocate exactly 1 register, got %+v", ft.Entries[0].Registers)
	}
}

func TestFlattenVectorAllocatesTwoPlusOneRegisters(t *testing.T) {
	f := NewFlattener(NoDefs{})
	ft, err := f.Flatten(VectorOf(Prim(Number)), ModeIn)
	if err != nil {
		t.Fatal(err)
	}
	if len(ft.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(ft.Entries))
	}
	regs := ft.Entries[0].Registers
	if regs.Depth != 1 || regs.NumRegisters() != 3 {
		t.Fatalf("vector of depth 1 should allocate 2*1+1=3 registers, got %+v", regs)
	}
	if len(regs.Levels) != 1 {
		t.Fatalf("expected 1 level, got %d", len(regs.Levels))
	}
}

func TestFlattenRegistersAreDistinctAndZeroBased(t *testing.T) {
	f := NewFlattener(NoDefs{})
	ft, err := f.Flatten(VectorOf(VectorOf(Prim(Number))), ModeIn)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for _, e := range ft.Entries {
		regs := []int{e.Registers.Data}
		for _, lvl := range e.Registers.Levels {
			regs = append(regs, lvl.Offsets, lvl.Lengths)
		}
		for _, r := range regs {
			if seen[r] {
				t.Fatalf("register %d allocated twice", r)
			}
			seen[r] = true
		}
	}
	if !seen[0] {
		t.Fatal("register numbering should start at 0")
	}
}

type fakeDefs struct {
	m map[Identifier]*Definition
}

func (d fakeDefs) Lookup(id Identifier) (*Definition, bool) {
	def, ok := d.m[id]
	return def, ok
}

func TestFlattenStructWalksFieldsInOrder(t *testing.T) {
	point := Identifier{Module: "geo", Name: "point"}
	defs := fakeDefs{m: map[Identifier]*Definition{
		point: {
			ID:   point,
			Kind: DefStruct,
			Fields: []FieldDef{
				{Name: "x", Type: Prim(Number)},
				{Name: "y", Type: Prim(Number)},
			},
		},
	}}
	f := NewFlattener(defs)
	ft, err := f.Flatten(Struct(point), ModeIn)
	if err != nil {
		t.Fatal(err)
	}
	if len(ft.Entries) != 2 {
		t.Fatalf("expected 2 leaf entries for a 2-field struct, got %d", len(ft.Entries))
	}
	if ft.Entries[0].Path.Steps[0].Field != "x" || ft.Entries[1].Path.Steps[0].Field != "y" {
		t.Fatalf("fields out of order: %+v", ft.Entries)
	}
}

func TestFlattenEnumEmitsDiscriminatorFirst(t *testing.T) {
	shape := Identifier{Module: "geo", Name: "shape"}
	defs := fakeDefs{m: map[Identifier]*Definition{
		shape: {
			ID:   shape,
			Kind: DefEnum,
			Fields: []FieldDef{
				{Name: "circle", Type: Prim(Number)},
				{Name: "square", Type: Prim(Number)},
			},
		},
	}}
	f := NewFlattener(defs)
	ft, err := f.Flatten(Struct(shape), ModeIn)
	if err != nil {
		t.Fatal(err)
	}
	if len(ft.Entries) != 3 {
		t.Fatalf("expected discriminator + 2 branches, got %d", len(ft.Entries))
	}
	if ft.Entries[0].Path.Steps[0].Field != "#discriminant" {
		t.Fatalf("expected discriminator leaf first, got %+v", ft.Entries[0].Path)
	}
}

func TestFlattenUndefinedReferenceErrors(t *testing.T) {
	f := NewFlattener(NoDefs{})
	if _, err := f.Flatten(Struct(Identifier{Module: "x", Name: "y"}), ModeIn); err == nil {
		t.Fatal("expected error for undefined struct reference")
	}
}

func TestShiftRegistersOffsetsEveryRegister(t *testing.T) {
	f := NewFlattener(NoDefs{})
	ft, err := f.Flatten(VectorOf(Prim(Number)), ModeIn)
	if err != nil {
		t.Fatal(err)
	}
	shifted := ShiftRegisters(ft, 10)
	orig := ft.Entries[0].Registers
	got := shifted.Entries[0].Registers
	if got.Data != orig.Data+10 {
		t.Fatalf("data register not shifted: got %d want %d", got.Data, orig.Data+10)
	}
	if got.Levels[0].Offsets != orig.Levels[0].Offsets+10 || got.Levels[0].Lengths != orig.Levels[0].Lengths+10 {
		t.Fatalf("level registers not shifted: %+v", got.Levels[0])
	}
}

package complexpath

import "testing"

func TestXStructureReconstructsStructFields(t *testing.T) {
	point := Identifier{Module: "geo", Name: "point"}
	defs := fakeDefs{m: map[Identifier]*Definition{
		point: {
			ID:   point,
			Kind: DefStruct,
			Fields: []FieldDef{
				{Name: "x", Type: Prim(Number)},
				{Name: "y", Type: VectorOf(Prim(Number))},
			},
		},
	}}
	f := NewFlattener(defs)
	ft, err := f.Flatten(Struct(point), ModeIn)
	if err != nil {
		t.Fatal(err)
	}

	root := XStructure(ft)
	if root.IsLeaf() {
		t.Fatal("root of a struct should not be a leaf")
	}
	if len(root.FieldOrder) != 2 || root.FieldOrder[0] != "x" || root.FieldOrder[1] != "y" {
		t.Fatalf("unexpected field order: %v", root.FieldOrder)
	}
	if !root.Struct["x"].IsLeaf() {
		t.Fatal("x should reconstruct as a leaf")
	}
	if !root.Struct["y"].IsLeaf() {
		t.Fatal("y should reconstruct as a leaf (vector wrapping is a register-bundle detail, not a further field)")
	}
}

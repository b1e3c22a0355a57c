package runtime

// InterpValue is the tagged union of vector payloads a register can
// hold at runtime (and, identically, at pre-image evaluation time):
// Numbers, Indexes, Booleans, Strings, Bytes, or Empty.
type InterpValue struct {
	Kind    ValueKind
	Numbers []float64
	Indexes []uint64
	Bools   []bool
	Strings []string
	Bytes   [][]byte
}

type ValueKind int

const (
	VEmpty ValueKind = iota
	VNumbers
	VIndexes
	VBools
	VStrings
	VBytes
)

func EmptyValue() InterpValue                { return InterpValue{Kind: VEmpty} }
func NumbersValue(v []float64) InterpValue   { return InterpValue{Kind: VNumbers, Numbers: v} }
func IndexesValue(v []uint64) InterpValue    { return InterpValue{Kind: VIndexes, Indexes: v} }
func BoolsValue(v []bool) InterpValue        { return InterpValue{Kind: VBools, Bools: v} }
func StringsValue(v []string) InterpValue    { return InterpValue{Kind: VStrings, Strings: v} }
func BytesValue(v [][]byte) InterpValue      { return InterpValue{Kind: VBytes, Bytes: v} }

// Len returns the vector's element count regardless of kind.
func (v InterpValue) Len() int {
	switch v.Kind {
	case VNumbers:
		return len(v.Numbers)
	case VIndexes:
		return len(v.Indexes)
	case VBools:
		return len(v.Bools)
	case VStrings:
		return len(v.Strings)
	case VBytes:
		return len(v.Bytes)
	default:
		return 0
	}
}

// GetNumbers returns the Numbers payload, coercing from Indexes when
// the register was typed as an index view of number.
func (v InterpValue) GetNumbers() []float64 {
	if v.Kind == VIndexes {
		out := make([]float64, len(v.Indexes))
		for i, x := range v.Indexes {
			out[i] = float64(x)
		}
		return out
	}
	return v.Numbers
}

// GetIndexes returns the Indexes payload, coercing from Numbers.
func (v InterpValue) GetIndexes() []uint64 {
	if v.Kind == VNumbers {
		out := make([]uint64, len(v.Numbers))
		for i, x := range v.Numbers {
			out[i] = uint64(x)
		}
		return out
	}
	return v.Indexes
}

func (v InterpValue) GetBools() []bool     { return v.Bools }
func (v InterpValue) GetStrings() []string { return v.Strings }
func (v InterpValue) GetBytes() [][]byte   { return v.Bytes }

// Clone deep-copies the payload slice, so the result shares no backing
// array with v.
func (v InterpValue) Clone() InterpValue {
	switch v.Kind {
	case VNumbers:
		return NumbersValue(append([]float64{}, v.Numbers...))
	case VIndexes:
		return IndexesValue(append([]uint64{}, v.Indexes...))
	case VBools:
		return BoolsValue(append([]bool{}, v.Bools...))
	case VStrings:
		return StringsValue(append([]string{}, v.Strings...))
	case VBytes:
		out := make([][]byte, len(v.Bytes))
		for i, b := range v.Bytes {
			out[i] = append([]byte{}, b...)
		}
		return BytesValue(out)
	default:
		return EmptyValue()
	}
}

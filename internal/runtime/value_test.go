package runtime

import "testing"

func TestInterpValueLenByKind(t *testing.T) {
	if NumbersValue([]float64{1, 2, 3}).Len() != 3 {
		t.Fatal("numbers length mismatch")
	}
	if EmptyValue().Len() != 0 {
		t.Fatal("empty value should have length 0")
	}
}

func TestGetNumbersCoercesFromIndexes(t *testing.T) {
	v := IndexesValue([]uint64{1, 2, 3})
	got := v.GetNumbers()
	want := []float64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GetNumbers() = %v, want %v", got, want)
		}
	}
}

func TestGetIndexesCoercesFromNumbers(t *testing.T) {
	v := NumbersValue([]float64{1, 2, 3})
	got := v.GetIndexes()
	want := []uint64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GetIndexes() = %v, want %v", got, want)
		}
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	v := NumbersValue([]float64{1, 2, 3})
	c := v.Clone()
	c.Numbers[0] = 99
	if v.Numbers[0] != 1 {
		t.Fatal("clone should not alias the original slice")
	}
}

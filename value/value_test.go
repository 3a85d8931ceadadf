package value

import (
	"reflect"
	"testing"
)

func TestElemKind(t *testing.T) {
	tests := []struct {
		name  string
		kind  ElemKind
		size  int
		typed bool
	}{
		{"int8", Int8, 1, true},
		{"uint8", Uint8, 1, true},
		{"uint8-clamped", Uint8Clamped, 1, true},
		{"int16", Int16, 2, true},
		{"uint16", Uint16, 2, true},
		{"int32", Int32, 4, true},
		{"uint32", Uint32, 4, true},
		{"float32", Float32, 4, true},
		{"float64", Float64, 8, true},
		{"bigint64", BigInt64, 8, true},
		{"biguint64", BigUint64, 8, true},
		{"bool", Bool, 1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.name {
				t.Errorf("String() = %q, want %q", got, tc.name)
			}
			if got := tc.kind.Size(); got != tc.size {
				t.Errorf("Size() = %d, want %d", got, tc.size)
			}
			if got := tc.kind.IsTypedArrayKind(); got != tc.typed {
				t.Errorf("IsTypedArrayKind() = %v, want %v", got, tc.typed)
			}
		})
	}

	unknown := ElemKind(200)
	if unknown.Valid() || unknown.Size() != 0 || unknown.IsTypedArrayKind() {
		t.Error("unknown kind should be invalid with size 0")
	}
	if unknown.String() != "ElemKind(200)" {
		t.Errorf("String() = %q", unknown.String())
	}
}

func TestTypedArrayLen(t *testing.T) {
	ta := TypedArray{Kind: Float32, Data: make([]byte, 12)}
	if ta.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ta.Len())
	}
	if (TypedArray{Kind: ElemKind(99), Data: make([]byte, 4)}).Len() != 0 {
		t.Error("unknown kind should have Len 0")
	}
}

func TestPrimitiveKind(t *testing.T) {
	tests := []struct {
		value any
		kind  ElemKind
		ok    bool
	}{
		{[]int32{}, Int32, true},
		{[]int64{}, BigInt64, true},
		{[]float64{}, Float64, true},
		{[]bool{}, Bool, true},
		{[]uint16{}, Uint16, true},
		{[]byte{}, 0, false},
		{[]string{}, 0, false},
		{"not a slice", 0, false},
	}

	for _, tc := range tests {
		t.Run(reflect.TypeOf(tc.value).String(), func(t *testing.T) {
			kind, ok := PrimitiveKind(reflect.TypeOf(tc.value))
			if ok != tc.ok || kind != tc.kind {
				t.Errorf("PrimitiveKind = (%v, %v), want (%v, %v)", kind, ok, tc.kind, tc.ok)
			}
		})
	}
}

func TestIsAbsent(t *testing.T) {
	var nilPtr *float64
	var nilSlice []int32
	var nilMap map[string]any
	f := 1.5

	tests := []struct {
		value  any
		name   string
		absent bool
	}{
		{nil, "nil", true},
		{nilPtr, "nil pointer", true},
		{&f, "pointer", false},
		{nilSlice, "nil slice", false},
		{nilMap, "nil map", false},
		{0, "zero int", false},
		{"", "empty string", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAbsent(tc.value); got != tc.absent {
				t.Errorf("IsAbsent = %v, want %v", got, tc.absent)
			}
		})
	}
}

package value

import (
	"reflect"
	"strconv"
)

// ObjectRef is an opaque handle to a scripting-side object.
type ObjectRef struct {
	Handle uint32
}

// FunctionRef is an opaque handle to a scripting-side function.
type FunctionRef struct {
	Handle uint32
}

// JSValue boxes a dynamic value whose shape is only known at runtime.
type JSValue struct {
	V any
}

// ViewTag identifies a native view in the host's view hierarchy.
type ViewTag int32

// SharedObjectID identifies an object shared between both runtimes.
type SharedObjectID uint32

// ReadableArray is a dynamically typed array read from the scripting side.
type ReadableArray []any

// ReadableMap is a dynamically typed map read from the scripting side.
type ReadableMap map[string]any

// ElemKind is the element type of a typed or primitive array.
type ElemKind uint8

const (
	Int8 ElemKind = iota
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
	BigInt64
	BigUint64
	Bool
)

var elemKindNames = [...]string{
	Int8:         "int8",
	Uint8:        "uint8",
	Uint8Clamped: "uint8-clamped",
	Int16:        "int16",
	Uint16:       "uint16",
	Int32:        "int32",
	Uint32:       "uint32",
	Float32:      "float32",
	Float64:      "float64",
	BigInt64:     "bigint64",
	BigUint64:    "biguint64",
	Bool:         "bool",
}

var elemKindSizes = [...]int{
	Int8:         1,
	Uint8:        1,
	Uint8Clamped: 1,
	Int16:        2,
	Uint16:       2,
	Int32:        4,
	Uint32:       4,
	Float32:      4,
	Float64:      8,
	BigInt64:     8,
	BigUint64:    8,
	Bool:         1,
}

func (k ElemKind) String() string {
	if int(k) < len(elemKindNames) {
		return elemKindNames[k]
	}
	return "ElemKind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is a known element kind.
func (k ElemKind) Valid() bool {
	return int(k) < len(elemKindNames)
}

// Size returns the element width in bytes, 0 for unknown kinds.
func (k ElemKind) Size() int {
	if int(k) < len(elemKindSizes) {
		return elemKindSizes[k]
	}
	return 0
}

// IsTypedArrayKind reports whether k names a scripting-side typed array.
// Bool exists only for primitive arrays.
func (k ElemKind) IsTypedArrayKind() bool {
	return k.Valid() && k != Bool
}

// TypedArray is a scripting-side typed array view over raw little-endian bytes.
type TypedArray struct {
	Data []byte
	Kind ElemKind
}

// Len returns the element count.
func (ta TypedArray) Len() int {
	size := ta.Kind.Size()
	if size == 0 {
		return 0
	}
	return len(ta.Data) / size
}

var primitiveSliceKinds = map[reflect.Kind]ElemKind{
	reflect.Int8:    Int8,
	reflect.Int16:   Int16,
	reflect.Uint16:  Uint16,
	reflect.Int32:   Int32,
	reflect.Uint32:  Uint32,
	reflect.Float32: Float32,
	reflect.Float64: Float64,
	reflect.Int64:   BigInt64,
	reflect.Uint64:  BigUint64,
	reflect.Bool:    Bool,
}

// PrimitiveKind returns the element kind for a Go slice type usable as a
// primitive array. Byte slices are Uint8 typed arrays and report false.
func PrimitiveKind(t reflect.Type) (ElemKind, bool) {
	if t.Kind() != reflect.Slice {
		return 0, false
	}
	k, ok := primitiveSliceKinds[t.Elem().Kind()]
	return k, ok
}

// IsAbsent reports whether v is nil or a nil pointer.
// Nil slices and maps are present, empty containers.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

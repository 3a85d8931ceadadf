package marshal

import (
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/boundary/classify"
	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/abi"
	"github.com/wippyai/boundary/tagset"
	"github.com/wippyai/boundary/value"
)

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	return e.Kind
}

func TestRoundTrip(t *testing.T) {
	m := New()

	tests := []struct {
		in   any
		want any
		name string
	}{
		{3.14, 3.14, "double"},
		{int32(-7), int32(-7), "int"},
		{int64(math.MaxInt64), int64(math.MaxInt64), "long"},
		{float32(1.5), float32(1.5), "float"},
		{true, true, "boolean"},
		{"héllo", "héllo", "string"},
		{"", "", "empty_string"},
		{[]byte{0, 255}, []byte{0, 255}, "bytes"},
		{
			value.TypedArray{Kind: value.Float32, Data: []byte{0, 0, 0x80, 0x3f}},
			value.TypedArray{Kind: value.Float32, Data: []byte{0, 0, 0x80, 0x3f}},
			"typed_array",
		},
		// Uint8 typed arrays decode to their canonical []byte form
		{value.TypedArray{Kind: value.Uint8, Data: []byte{1, 2}}, []byte{1, 2}, "uint8_typed_array"},
		{[]any{value.TypedArray{Kind: value.Uint8, Data: []byte{1, 2}}}, []any{[]byte{1, 2}}, "uint8_typed_array_in_list"},
		{[]int32{1, 2, 3}, []int32{1, 2, 3}, "primitive_int32"},
		{[]float64{0.5, -2}, []float64{0.5, -2}, "primitive_float64"},
		{[]bool{true, false}, []bool{true, false}, "primitive_bool"},
		{[]uint64{math.MaxUint64}, []uint64{math.MaxUint64}, "primitive_biguint64"},
		{[]any{1, "x", nil, 2.5}, []any{int32(1), "x", nil, 2.5}, "list"},
		{[]string{"a", "b"}, []any{"a", "b"}, "typed_list"},
		{
			map[string]any{"n": 1, "nested": map[string]any{"ok": true}},
			map[string]any{"n": int32(1), "nested": map[string]any{"ok": true}},
			"map",
		},
		{map[string]any{}, map[string]any{}, "empty_map"},
		{value.ReadableArray{"a", int64(1) << 40}, value.ReadableArray{"a", int64(1) << 40}, "readable_array"},
		{value.ReadableMap{"k": float32(2)}, value.ReadableMap{"k": float32(2)}, "readable_map"},
		{value.ViewTag(-3), value.ViewTag(-3), "view_tag"},
		{value.SharedObjectID(9), value.SharedObjectID(9), "shared_object_id"},
		{value.ObjectRef{Handle: 5}, value.ObjectRef{Handle: 5}, "object_ref"},
		{value.FunctionRef{Handle: 6}, value.FunctionRef{Handle: 6}, "function_ref"},
		{value.JSValue{V: "dyn"}, value.JSValue{V: "dyn"}, "js_value"},
		{value.JSValue{V: []any{true}}, value.JSValue{V: []any{true}}, "js_value_list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := m.Classify(tt.in)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			data, err := m.Encode(tt.in, set)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := m.Decode(data, set)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeDoubleScenario(t *testing.T) {
	m := Default()
	set := tagset.Of(tagset.Double)

	data, err := m.Encode(3.14, set)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(data))
	}
	rule, _ := m.Registry().Select(set)
	if rule.Name != "double" {
		t.Errorf("expected double rule, got %s", rule.Name)
	}
	got, err := m.Decode(data, set)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != 3.14 {
		t.Errorf("got %v, want 3.14", got)
	}
}

func TestNullableShortCircuit(t *testing.T) {
	// A registry without any double rule proves the table is never consulted.
	reg, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	m := New(WithRegistry(reg))

	set, err := m.ClassifyRequest(classify.Request{Declared: tagset.Of(tagset.Double)})
	if err != nil {
		t.Fatalf("ClassifyRequest failed: %v", err)
	}
	if want := tagset.Of(tagset.Double, tagset.Nullable); set != want {
		t.Fatalf("got %s, want %s", set, want)
	}

	data, err := m.Encode(nil, set)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if diff := cmp.Diff(Null(), data); diff != "" {
		t.Errorf("null representation mismatch (-want +got):\n%s", diff)
	}

	got, err := m.Decode(data, set)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	var p *float64
	if data, err = m.Encode(p, set); err != nil || len(data) != 1 || data[0] != 0 {
		t.Errorf("nil pointer: got %x, %v", data, err)
	}
}

func TestNullablePresent(t *testing.T) {
	m := New()
	set := tagset.Of(tagset.Int, tagset.Nullable)

	x := 12
	data, err := m.Encode(&x, set)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if data[0] != 0x01 || len(data) != 5 {
		t.Fatalf("expected present marker plus s32, got %x", data)
	}
	got, err := m.Decode(data, set)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != int32(12) {
		t.Errorf("got %v (%T), want int32(12)", got, got)
	}
}

func TestEncodeAbsentNonNullable(t *testing.T) {
	_, err := New().Encode(nil, tagset.Of(tagset.Double))
	if got := kindOf(t, err); got != errors.KindNilPointer {
		t.Errorf("got kind %s, want %s", got, errors.KindNilPointer)
	}
}

func TestEncodeClassifiesEmptySet(t *testing.T) {
	m := New()

	data, err := m.Encode("go", tagset.None)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := m.Decode(data, tagset.Of(tagset.String))
	if err != nil || got != "go" {
		t.Errorf("got %v, %v", got, err)
	}

	_, err = m.Encode(make(chan int), tagset.None)
	if !stderrors.Is(err, errors.ErrUnclassifiable) {
		t.Errorf("expected unclassifiable, got %v", err)
	}
}

func TestNoMatchingRule(t *testing.T) {
	reg, err := NewRegistry(DefaultRules()[:6]...) // scalars and string only
	if err != nil {
		t.Fatal(err)
	}
	m := New(WithRegistry(reg))

	_, err = m.Encode([]any{1}, tagset.Of(tagset.List))
	if !stderrors.Is(err, errors.ErrNoMatchingRule) {
		t.Fatalf("expected no matching rule, got %v", err)
	}
	if !strings.Contains(err.Error(), "LIST") {
		t.Errorf("error should name the tag set: %v", err)
	}

	_, err = m.Decode([]byte{0, 0, 0, 0}, tagset.Of(tagset.Map))
	if !stderrors.Is(err, errors.ErrNoMatchingRule) {
		t.Errorf("expected no matching rule on decode, got %v", err)
	}
}

func TestEncodeErrors(t *testing.T) {
	m := New()

	tests := []struct {
		value any
		name  string
		tags  tagset.Set
		kind  errors.Kind
	}{
		{"x", "string_as_double", tagset.Of(tagset.Double), errors.KindTypeMismatch},
		{int64(1) << 40, "long_as_int", tagset.Of(tagset.Int), errors.KindOverflow},
		{-1, "negative_object_handle", tagset.Of(tagset.JSObject), errors.KindOverflow},
		{value.ObjectRef{Handle: 1}, "object_as_function", tagset.Of(tagset.JSFunction), errors.KindTypeMismatch},
		{"\xff", "invalid_utf8", tagset.Of(tagset.String), errors.KindInvalidUTF8},
		{value.TypedArray{Kind: value.Int32, Data: []byte{1, 2}}, "ragged_typed_array", tagset.Of(tagset.TypedArray), errors.KindInvalidData},
		{value.TypedArray{Kind: value.Bool, Data: []byte{1}}, "bool_typed_array", tagset.Of(tagset.TypedArray), errors.KindInvalidData},
		{[]int{1}, "int_slice_as_primitive", tagset.Of(tagset.PrimitiveArray), errors.KindTypeMismatch},
		{map[int]any{}, "int_keyed_map", tagset.Of(tagset.Map), errors.KindTypeMismatch},
		{struct{}{}, "struct_as_any", tagset.Of(tagset.Any), errors.KindNoMatchingRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Encode(tt.value, tt.tags)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := kindOf(t, err); got != tt.kind {
				t.Errorf("got kind %s, want %s: %v", got, tt.kind, err)
			}
		})
	}
}

func TestAnyUnclassifiableCause(t *testing.T) {
	_, err := New().Encode(make(chan int), tagset.Of(tagset.Any))
	if !stderrors.Is(err, errors.ErrNoMatchingRule) {
		t.Fatalf("expected no matching rule, got %v", err)
	}
	if !stderrors.Is(err, errors.ErrUnclassifiable) {
		t.Errorf("expected unclassifiable cause, got %v", err)
	}
}

func TestErrorPath(t *testing.T) {
	m := New()
	in := map[string]any{
		"items": []any{1, 2, map[string]any{"name": make(chan int)}},
	}

	_, err := m.Encode(in, tagset.None)
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if diff := cmp.Diff([]string{"items", "[2]", "name"}, e.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "items[2].name") {
		t.Errorf("message should carry the path: %v", err)
	}
}

// sharedErrorRules replaces the string rule with one that returns the
// package sentinel on both encode and decode.
func sharedErrorRules() []Rule {
	rules := DefaultRules()
	for i := range rules {
		if rules[i].Name == "string" {
			rules[i].Encode = func(e *Encoder, v any) error { return errors.ErrNoMatchingRule }
			rules[i].Decode = func(d *Decoder) (any, error) { return nil, errors.ErrNoMatchingRule }
		}
	}
	return rules
}

func TestPathDoesNotMutateSharedErrors(t *testing.T) {
	reg, err := NewRegistry(sharedErrorRules()...)
	if err != nil {
		t.Fatal(err)
	}
	m := New(WithRegistry(reg))
	in := map[string]any{"k": "v"}
	set := tagset.Of(tagset.Map)

	_, encErr := m.Encode(in, set)
	data, err := New().Encode(in, set)
	if err != nil {
		t.Fatal(err)
	}
	_, decErr := m.Decode(data, set)

	for name, err := range map[string]error{"encode": encErr, "decode": decErr} {
		var e *errors.Error
		if !stderrors.As(err, &e) {
			t.Fatalf("%s: expected *errors.Error, got %v", name, err)
		}
		if diff := cmp.Diff([]string{"k"}, e.Path); diff != "" {
			t.Errorf("%s: path mismatch (-want +got):\n%s", name, diff)
		}
		if e == errors.ErrNoMatchingRule {
			t.Errorf("%s: returned the sentinel itself", name)
		}
	}
	if len(errors.ErrNoMatchingRule.Path) != 0 {
		t.Errorf("sentinel was modified: %v", errors.ErrNoMatchingRule.Path)
	}
}

func TestByteLengthLimit(t *testing.T) {
	if testing.Short() || math.MaxInt == math.MaxInt32 {
		t.Skip("needs a payload over 1 GiB")
	}
	// never written, so the pages stay untouched
	big := make([]byte, abi.MaxBytesSize+1)

	tests := []struct {
		value any
		name  string
		tags  tagset.Set
	}{
		{big, "bytes", tagset.Of(tagset.Uint8TypedArray, tagset.TypedArray)},
		{value.TypedArray{Kind: value.Uint8, Data: big}, "uint8_typed_array", tagset.Of(tagset.Uint8TypedArray, tagset.TypedArray)},
		{value.TypedArray{Kind: value.Int8, Data: big}, "typed_array", tagset.Of(tagset.TypedArray)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Encode(tt.value, tt.tags)
			if got := kindOf(t, err); got != errors.KindOverflow {
				t.Errorf("got kind %s, want overflow: %v", got, err)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	m := New()

	tests := []struct {
		name string
		data []byte
		tags tagset.Set
		kind errors.Kind
	}{
		{"short_double", []byte{1, 2, 3}, tagset.Of(tagset.Double), errors.KindOutOfBounds},
		{"trailing_bytes", []byte{1, 0, 0, 0, 9}, tagset.Of(tagset.Int), errors.KindInvalidData},
		{"bad_bool", []byte{2}, tagset.Of(tagset.Boolean), errors.KindInvalidData},
		{"bad_null_marker", []byte{7}, tagset.Of(tagset.Int, tagset.Nullable), errors.KindInvalidData},
		{"bad_utf8", []byte{1, 0, 0, 0, 0xff}, tagset.Of(tagset.String), errors.KindInvalidUTF8},
		{"huge_list_count", []byte{0xff, 0xff, 0, 0}, tagset.Of(tagset.List), errors.KindOutOfBounds},
		{"bad_element_bits", []byte{1, 0, 0, 0, 0, 0, 0xf0, 0, 0, 0, 0, 0}, tagset.Of(tagset.List), errors.KindInvalidData},
		{"bad_typed_kind", []byte{11, 0, 0, 0, 0}, tagset.Of(tagset.TypedArray), errors.KindInvalidData},
		{"bad_primitive_kind", []byte{1, 0, 0, 0, 0}, tagset.Of(tagset.PrimitiveArray), errors.KindInvalidData},
		{
			"duplicate_key",
			[]byte{
				2, 0, 0, 0,
				1, 0, 0, 0, 'a', 0x10, 0, 0, 0, 1, 0, 0, 0, 1,
				1, 0, 0, 0, 'a', 0x10, 0, 0, 0, 1, 0, 0, 0, 0,
			},
			tagset.Of(tagset.Map),
			errors.KindInvalidData,
		},
		{"empty_set", []byte{0}, tagset.None, errors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Decode(tt.data, tt.tags)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := kindOf(t, err); got != tt.kind {
				t.Errorf("got kind %s, want %s: %v", got, tt.kind, err)
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	m := New(WithMaxDepth(3))

	var nested any = 1
	for i := 0; i < 5; i++ {
		nested = []any{nested}
	}

	_, err := m.Encode(nested, tagset.None)
	if got := kindOf(t, err); got != errors.KindTooDeep {
		t.Errorf("got kind %s, want %s", got, errors.KindTooDeep)
	}

	shallow := []any{[]any{1}}
	data, err := m.Encode(shallow, tagset.None)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := m.Decode(data, tagset.Of(tagset.List)); err != nil {
		t.Errorf("Decode failed: %v", err)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	data, err := New().Encode([]any{[]any{[]any{1}}}, tagset.None)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(WithMaxDepth(1)).Decode(data, tagset.Of(tagset.List))
	if got := kindOf(t, err); got != errors.KindTooDeep {
		t.Errorf("got kind %s, want %s", got, errors.KindTooDeep)
	}
}

func TestCanonicalNaN(t *testing.T) {
	m := New()
	quiet := math.Float64frombits(0x7ff8000000000001)

	data, err := m.Encode(quiet, tagset.Of(tagset.Double))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 0, 0, 0, 0xf8, 0x7f}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("NaN not canonicalized (-want +got):\n%s", diff)
	}
}

func TestAnyFallbackClassifier(t *testing.T) {
	m := New(WithClassifier(classify.New(classify.WithAnyFallback())))

	set, err := m.Classify(struct{}{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if set != tagset.Of(tagset.Any) {
		t.Fatalf("got %s, want ANY", set)
	}
	if _, err := m.Encode(struct{}{}, set); !stderrors.Is(err, errors.ErrNoMatchingRule) {
		t.Errorf("expected no matching rule for shapeless value, got %v", err)
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default should return the same instance")
	}
}

func TestCoercedScalars(t *testing.T) {
	m := New()

	tests := []struct {
		in   any
		want any
		name string
		tags tagset.Set
	}{
		{7, 7.0, "int_as_double", tagset.Of(tagset.Double)},
		{3.0, int32(3), "whole_float_as_int", tagset.Of(tagset.Int)},
		{uint16(9), int64(9), "uint16_as_long", tagset.Of(tagset.Long)},
		{value.ViewTag(4), int32(4), "view_tag_as_int", tagset.Of(tagset.Int)},
		{uint32(8), value.ObjectRef{Handle: 8}, "handle_from_int", tagset.Of(tagset.JSObject)},
		{"boxed", value.JSValue{V: "boxed"}, "plain_as_js_value", tagset.Of(tagset.JSValue)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := m.Encode(tt.in, tt.tags)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := m.Decode(data, tt.tags)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

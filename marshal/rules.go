package marshal

import (
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/boundary/classify"
	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/abi"
	"github.com/wippyai/boundary/tagset"
	"github.com/wippyai/boundary/value"
)

var (
	bytesType       = &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	kindedBytesType = &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "kind", Type: wit.U8{}},
		{Name: "data", Type: bytesType},
	}}}
)

// Minimum encoded sizes used to bound counts before allocating.
const (
	minElementSize  = 8  // tag bits + payload length
	minMapEntrySize = 12 // key length + element
)

// DefaultRules returns the built-in rules in registration order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "double", Requires: tagset.Of(tagset.Double), Native: wit.F64{}, Encode: encodeDouble, Decode: decodeDouble},
		{Name: "int", Requires: tagset.Of(tagset.Int), Native: wit.S32{}, Encode: encodeInt, Decode: decodeInt},
		{Name: "long", Requires: tagset.Of(tagset.Long), Native: wit.S64{}, Encode: encodeLong, Decode: decodeLong},
		{Name: "float", Requires: tagset.Of(tagset.Float), Native: wit.F32{}, Encode: encodeFloat, Decode: decodeFloat},
		{Name: "boolean", Requires: tagset.Of(tagset.Boolean), Native: wit.Bool{}, Encode: encodeBoolean, Decode: decodeBoolean},
		{Name: "string", Requires: tagset.Of(tagset.String), Native: wit.String{}, Encode: encodeString, Decode: decodeString},
		{Name: "typed-array", Requires: tagset.Of(tagset.TypedArray), Native: kindedBytesType, Encode: encodeTypedArray, Decode: decodeTypedArray},
		{Name: "uint8-typed-array", Requires: tagset.Of(tagset.Uint8TypedArray, tagset.TypedArray), Native: bytesType, Encode: encodeUint8Array, Decode: decodeUint8Array},
		{Name: "primitive-array", Requires: tagset.Of(tagset.PrimitiveArray), Native: kindedBytesType, Encode: encodePrimitiveArray, Decode: decodePrimitiveArray},
		{Name: "list", Requires: tagset.Of(tagset.List), Encode: encodeList, Decode: decodeList},
		{Name: "readable-array", Requires: tagset.Of(tagset.ReadableArray), Encode: encodeList, Decode: decodeReadableArray},
		{Name: "map", Requires: tagset.Of(tagset.Map), Encode: encodeMap, Decode: decodeMap},
		{Name: "readable-map", Requires: tagset.Of(tagset.ReadableMap), Encode: encodeMap, Decode: decodeReadableMap},
		{Name: "view-tag", Requires: tagset.Of(tagset.ViewTag), Native: wit.S32{}, Encode: encodeViewTag, Decode: decodeViewTag},
		{Name: "shared-object-id", Requires: tagset.Of(tagset.SharedObjectID), Native: wit.U32{}, Encode: encodeSharedObjectID, Decode: decodeSharedObjectID},
		{Name: "js-object", Requires: tagset.Of(tagset.JSObject), Native: wit.U32{}, Encode: encodeObjectRef, Decode: decodeObjectRef},
		{Name: "js-function", Requires: tagset.Of(tagset.JSFunction), Native: wit.U32{}, Encode: encodeFunctionRef, Decode: decodeFunctionRef},
		{Name: "js-value", Requires: tagset.Of(tagset.JSValue), Encode: encodeJSValue, Decode: decodeJSValue},
		{Name: "any", Requires: tagset.Of(tagset.Any), Encode: encodeAny, Decode: decodeAny},
	}
}

// Scalars

func encodeDouble(e *Encoder, v any) error {
	f, ok := abi.CoerceToFloat64(v)
	if !ok {
		return e.Mismatch(v)
	}
	e.Writer().WriteF64(f)
	return nil
}

func decodeDouble(d *Decoder) (any, error) {
	return d.Reader().ReadF64()
}

func encodeInt(e *Encoder, v any) error {
	i, ok := abi.CoerceToInt32(v)
	if !ok {
		return e.Mismatch(v)
	}
	e.Writer().WriteS32(i)
	return nil
}

func decodeInt(d *Decoder) (any, error) {
	return d.Reader().ReadS32()
}

func encodeLong(e *Encoder, v any) error {
	i, ok := abi.CoerceToInt64(v)
	if !ok {
		return e.Mismatch(v)
	}
	e.Writer().WriteS64(i)
	return nil
}

func decodeLong(d *Decoder) (any, error) {
	return d.Reader().ReadS64()
}

func encodeFloat(e *Encoder, v any) error {
	f, ok := abi.CoerceToFloat32(v)
	if !ok {
		return e.Mismatch(v)
	}
	e.Writer().WriteF32(f)
	return nil
}

func decodeFloat(d *Decoder) (any, error) {
	return d.Reader().ReadF32()
}

func encodeBoolean(e *Encoder, v any) error {
	b, ok := abi.CoerceToBool(v)
	if !ok {
		return e.Mismatch(v)
	}
	e.Writer().WriteBool(b)
	return nil
}

func decodeBoolean(d *Decoder) (any, error) {
	return d.Reader().ReadBool()
}

func encodeString(e *Encoder, v any) error {
	s, ok := abi.CoerceToString(v)
	if !ok {
		return e.Mismatch(v)
	}
	if err := checkString(e, s); err != nil {
		return err
	}
	e.Writer().WriteString(s)
	return nil
}

func decodeString(d *Decoder) (any, error) {
	return d.Reader().ReadString()
}

func checkString(e *Encoder, s string) error {
	if len(s) > abi.MaxStringSize {
		return errors.Overflow(errors.PhaseEncode, e.Path(), len(s), "string length limit")
	}
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, e.Path(), []byte(s))
	}
	return nil
}

// Typed arrays

func encodeTypedArray(e *Encoder, v any) error {
	var ta value.TypedArray
	switch x := v.(type) {
	case value.TypedArray:
		ta = x
	default:
		data, ok := byteSlice(v)
		if !ok {
			return e.Mismatch(v)
		}
		ta = value.TypedArray{Kind: value.Uint8, Data: data}
	}

	if !ta.Kind.IsTypedArrayKind() {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(e.Path()...).
			Detail("invalid typed array kind %s", ta.Kind).
			Build()
	}
	if len(ta.Data)%ta.Kind.Size() != 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(e.Path()...).
			Detail("%d bytes is not a whole number of %s elements", len(ta.Data), ta.Kind).
			Build()
	}

	if err := checkBytes(e, ta.Data); err != nil {
		return err
	}

	w := e.Writer()
	w.WriteU8(uint8(ta.Kind))
	w.WriteBytes(ta.Data)
	return nil
}

func decodeTypedArray(d *Decoder) (any, error) {
	b, err := d.Reader().ReadU8()
	if err != nil {
		return nil, err
	}
	kind := value.ElemKind(b)
	if !kind.IsTypedArrayKind() {
		return nil, d.Invalid("invalid typed array kind %d", b)
	}
	data, err := d.Reader().ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(data)%kind.Size() != 0 {
		return nil, d.Invalid("%d bytes is not a whole number of %s elements", len(data), kind)
	}
	return value.TypedArray{Kind: kind, Data: data}, nil
}

func encodeUint8Array(e *Encoder, v any) error {
	var data []byte
	if ta, ok := v.(value.TypedArray); ok {
		if ta.Kind != value.Uint8 {
			return e.Mismatch(v)
		}
		data = ta.Data
	} else if data, ok = byteSlice(v); !ok {
		return e.Mismatch(v)
	}
	if err := checkBytes(e, data); err != nil {
		return err
	}
	e.Writer().WriteBytes(data)
	return nil
}

// checkBytes keeps byte payloads within the u32 length prefix.
func checkBytes(e *Encoder, data []byte) error {
	if len(data) > abi.MaxBytesSize {
		return errors.Overflow(errors.PhaseEncode, e.Path(), len(data), "byte length limit")
	}
	return nil
}

func decodeUint8Array(d *Decoder) (any, error) {
	return d.Reader().ReadBytes()
}

func byteSlice(v any) ([]byte, bool) {
	if b, ok := v.([]byte); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Bytes(), true
	}
	return nil, false
}

// Primitive arrays

func encodePrimitiveArray(e *Encoder, v any) error {
	rv := reflect.ValueOf(v)
	kind, ok := value.PrimitiveKind(rv.Type())
	if !ok {
		return e.Mismatch(v)
	}
	n := rv.Len()
	if n > abi.MaxListLength {
		return errors.Overflow(errors.PhaseEncode, e.Path(), n, "list length limit")
	}

	w := e.Writer()
	w.WriteU8(uint8(kind))
	w.WriteU32(uint32(n))
	for i := 0; i < n; i++ {
		el := rv.Index(i)
		switch kind {
		case value.Int8:
			w.WriteU8(uint8(el.Int()))
		case value.Int16:
			w.WriteU16(uint16(el.Int()))
		case value.Uint16:
			w.WriteU16(uint16(el.Uint()))
		case value.Int32:
			w.WriteS32(int32(el.Int()))
		case value.Uint32:
			w.WriteU32(uint32(el.Uint()))
		case value.Float32:
			w.WriteF32(float32(el.Float()))
		case value.Float64:
			w.WriteF64(el.Float())
		case value.BigInt64:
			w.WriteS64(el.Int())
		case value.BigUint64:
			w.WriteU64(el.Uint())
		case value.Bool:
			w.WriteBool(el.Bool())
		}
	}
	return nil
}

func decodePrimitiveArray(d *Decoder) (any, error) {
	r := d.Reader()
	b, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	kind := value.ElemKind(b)
	if !kind.Valid() || kind == value.Uint8 || kind == value.Uint8Clamped {
		return nil, d.Invalid("invalid primitive array kind %d", b)
	}
	n, err := r.ReadCount(abi.MaxListLength, kind.Size())
	if err != nil {
		return nil, err
	}

	switch kind {
	case value.Int8:
		return readSlice(n, func() (int8, error) { u, err := r.ReadU8(); return int8(u), err })
	case value.Int16:
		return readSlice(n, func() (int16, error) { u, err := r.ReadU16(); return int16(u), err })
	case value.Uint16:
		return readSlice(n, r.ReadU16)
	case value.Int32:
		return readSlice(n, r.ReadS32)
	case value.Uint32:
		return readSlice(n, r.ReadU32)
	case value.Float32:
		return readSlice(n, r.ReadF32)
	case value.Float64:
		return readSlice(n, r.ReadF64)
	case value.BigInt64:
		return readSlice(n, r.ReadS64)
	case value.BigUint64:
		return readSlice(n, r.ReadU64)
	default:
		return readSlice(n, r.ReadBool)
	}
}

func readSlice[T any](n int, read func() (T, error)) (any, error) {
	out := make([]T, n)
	for i := range out {
		v, err := read()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Containers

func encodeList(e *Encoder, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return e.Mismatch(v)
	}
	n := rv.Len()
	if n > abi.MaxListLength {
		return errors.Overflow(errors.PhaseEncode, e.Path(), n, "list length limit")
	}

	e.Writer().WriteU32(uint32(n))
	for i := 0; i < n; i++ {
		if err := e.Element(indexKey(i), rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func decodeList(d *Decoder) (any, error) {
	return decodeElements(d)
}

func decodeReadableArray(d *Decoder) (any, error) {
	items, err := decodeElements(d)
	if err != nil {
		return nil, err
	}
	return value.ReadableArray(items), nil
}

func decodeElements(d *Decoder) ([]any, error) {
	n, err := d.Reader().ReadCount(abi.MaxListLength, minElementSize)
	if err != nil {
		return nil, err
	}
	out := make([]any, n)
	for i := range out {
		if out[i], err = d.Element(indexKey(i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func indexKey(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// Map entries are written in sorted key order so equal maps encode identically.
func encodeMap(e *Encoder, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return e.Mismatch(v)
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	e.Writer().WriteU32(uint32(len(keys)))
	for _, k := range keys {
		key := k.String()
		if err := checkString(e, key); err != nil {
			return err
		}
		e.Writer().WriteString(key)
		if err := e.Element(key, rv.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func decodeMap(d *Decoder) (any, error) {
	return decodeEntries(d)
}

func decodeReadableMap(d *Decoder) (any, error) {
	m, err := decodeEntries(d)
	if err != nil {
		return nil, err
	}
	return value.ReadableMap(m), nil
}

func decodeEntries(d *Decoder) (map[string]any, error) {
	r := d.Reader()
	n, err := r.ReadCount(abi.MaxListLength, minMapEntrySize)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		key, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, d.Invalid("duplicate map key %q", key)
		}
		if out[key], err = d.Element(key); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Handles and identifiers

func encodeViewTag(e *Encoder, v any) error {
	i, ok := abi.CoerceToInt32(v)
	if !ok {
		return e.Mismatch(v)
	}
	e.Writer().WriteS32(i)
	return nil
}

func decodeViewTag(d *Decoder) (any, error) {
	i, err := d.Reader().ReadS32()
	return value.ViewTag(i), err
}

func encodeSharedObjectID(e *Encoder, v any) error {
	id, ok := abi.CoerceToUint32(v)
	if !ok {
		return e.Mismatch(v)
	}
	e.Writer().WriteU32(id)
	return nil
}

func decodeSharedObjectID(d *Decoder) (any, error) {
	id, err := d.Reader().ReadU32()
	return value.SharedObjectID(id), err
}

func encodeObjectRef(e *Encoder, v any) error {
	var h uint32
	switch x := v.(type) {
	case value.ObjectRef:
		h = x.Handle
	case value.FunctionRef:
		return e.Mismatch(v)
	default:
		var ok bool
		if h, ok = abi.CoerceToUint32(v); !ok {
			return e.Mismatch(v)
		}
	}
	e.Writer().WriteU32(h)
	return nil
}

func decodeObjectRef(d *Decoder) (any, error) {
	h, err := d.Reader().ReadU32()
	return value.ObjectRef{Handle: h}, err
}

func encodeFunctionRef(e *Encoder, v any) error {
	var h uint32
	switch x := v.(type) {
	case value.FunctionRef:
		h = x.Handle
	case value.ObjectRef:
		return e.Mismatch(v)
	default:
		var ok bool
		if h, ok = abi.CoerceToUint32(v); !ok {
			return e.Mismatch(v)
		}
	}
	e.Writer().WriteU32(h)
	return nil
}

func decodeFunctionRef(d *Decoder) (any, error) {
	h, err := d.Reader().ReadU32()
	return value.FunctionRef{Handle: h}, err
}

// Dynamic values

func encodeJSValue(e *Encoder, v any) error {
	if jv, ok := v.(value.JSValue); ok {
		return e.Element("", jv.V)
	}
	return e.Element("", v)
}

func decodeJSValue(d *Decoder) (any, error) {
	v, err := d.Element("")
	if err != nil {
		return nil, err
	}
	return value.JSValue{V: v}, nil
}

// encodeAny resolves the concrete shape strictly so an ANY-classified value
// cannot select this rule again.
func encodeAny(e *Encoder, v any) error {
	set, err := classify.Classify(v)
	if err != nil {
		return errors.New(errors.PhaseEncode, errors.KindNoMatchingRule).
			Path(e.Path()...).
			GoType(abi.TypeName(v)).
			Tags(e.Tags().String()).
			Detail("dynamic value has no concrete shape").
			Cause(err).
			Build()
	}
	return e.ElementWithTags("", v, set)
}

func decodeAny(d *Decoder) (any, error) {
	return d.Element("")
}

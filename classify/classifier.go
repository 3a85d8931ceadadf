package classify

import (
	"math"
	"reflect"

	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/abi"
	"github.com/wippyai/boundary/tagset"
	"github.com/wippyai/boundary/value"
)

// Request is a single boundary value plus the context needed to classify it.
type Request struct {
	// Value is the observed value. nil and nil pointers are absent.
	Value any
	// Declared is the shape the caller expects. It only shapes the result
	// for absent values; present values are classified as observed.
	Declared tagset.Set
	// Nullable marks a value that may be absent at this position.
	Nullable bool
}

// Classifier maps boundary values to tag sets. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	anyFallback bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithAnyFallback classifies unknown shapes as {ANY} instead of failing.
func WithAnyFallback() Option {
	return func(c *Classifier) {
		c.anyFallback = true
	}
}

func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var std = New()

// Classify uses a strict classifier without ANY fallback.
func Classify(v any) (tagset.Set, error) {
	return std.Classify(v)
}

// AnyFallback reports whether unknown shapes coerce to ANY.
func (c *Classifier) AnyFallback() bool {
	return c.anyFallback
}

func (c *Classifier) Classify(v any) (tagset.Set, error) {
	return c.ClassifyRequest(Request{Value: v})
}

// ClassifyRequest returns the most specific set describing req.Value.
// Present values never yield NONE. Absent values yield the declared shape,
// or ANY, together with NULLABLE.
func (c *Classifier) ClassifyRequest(req Request) (tagset.Set, error) {
	if value.IsAbsent(req.Value) {
		shape := req.Declared.Shape()
		if shape.IsEmpty() {
			shape = tagset.Of(tagset.Any)
		}
		return shape.Union(tagset.Of(tagset.Nullable)), nil
	}

	rv := reflect.ValueOf(req.Value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return c.ClassifyRequest(Request{Declared: req.Declared})
		}
		rv = rv.Elem()
	}

	shape, ok := shapeOf(rv)
	if !ok {
		if !c.anyFallback {
			return tagset.None, errors.Unclassifiable(nil, abi.TypeName(req.Value))
		}
		shape = tagset.Of(tagset.Any)
	}

	if req.Nullable || req.Declared.Nullable() {
		shape = shape.Union(tagset.Of(tagset.Nullable))
	}
	return shape, nil
}

var (
	uint8TypedArray = tagset.Of(tagset.Uint8TypedArray, tagset.TypedArray)

	objectRefType      = reflect.TypeOf(value.ObjectRef{})
	functionRefType    = reflect.TypeOf(value.FunctionRef{})
	jsValueType        = reflect.TypeOf(value.JSValue{})
	viewTagType        = reflect.TypeOf(value.ViewTag(0))
	sharedObjectIDType = reflect.TypeOf(value.SharedObjectID(0))
	readableArrayType  = reflect.TypeOf(value.ReadableArray(nil))
	readableMapType    = reflect.TypeOf(value.ReadableMap(nil))
	typedArrayType     = reflect.TypeOf(value.TypedArray{})
)

func shapeOf(rv reflect.Value) (tagset.Set, bool) {
	switch rv.Type() {
	case objectRefType:
		return tagset.Of(tagset.JSObject), true
	case functionRefType:
		return tagset.Of(tagset.JSFunction), true
	case jsValueType:
		return tagset.Of(tagset.JSValue), true
	case viewTagType:
		return tagset.Of(tagset.ViewTag), true
	case sharedObjectIDType:
		return tagset.Of(tagset.SharedObjectID), true
	case readableArrayType:
		return tagset.Of(tagset.ReadableArray), true
	case readableMapType:
		return tagset.Of(tagset.ReadableMap), true
	case typedArrayType:
		kind := value.ElemKind(rv.FieldByName("Kind").Uint())
		switch {
		case kind == value.Uint8:
			return uint8TypedArray, true
		case kind.IsTypedArrayKind():
			return tagset.Of(tagset.TypedArray), true
		default:
			return tagset.None, false
		}
	}

	switch rv.Kind() {
	case reflect.Float64:
		return tagset.Of(tagset.Double), true
	case reflect.Float32:
		return tagset.Of(tagset.Float), true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return tagset.Of(tagset.Int), true
	case reflect.Int:
		if i := rv.Int(); i >= math.MinInt32 && i <= math.MaxInt32 {
			return tagset.Of(tagset.Int), true
		}
		return tagset.Of(tagset.Long), true
	case reflect.Int64, reflect.Uint32:
		return tagset.Of(tagset.Long), true
	case reflect.Uint, reflect.Uint64:
		if rv.Uint() <= math.MaxInt64 {
			return tagset.Of(tagset.Long), true
		}
		return tagset.None, false
	case reflect.Bool:
		return tagset.Of(tagset.Boolean), true
	case reflect.String:
		return tagset.Of(tagset.String), true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return uint8TypedArray, true
		}
		if _, ok := value.PrimitiveKind(rv.Type()); ok {
			return tagset.Of(tagset.PrimitiveArray), true
		}
		return tagset.Of(tagset.List), true
	case reflect.Array:
		return tagset.Of(tagset.List), true
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return tagset.Of(tagset.Map), true
		}
	}
	return tagset.None, false
}

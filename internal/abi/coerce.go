package abi

import (
	"math"
	"reflect"
)

// Coercions accept any Go numeric type, including named types such as
// value.ViewTag, and succeed only when the conversion is lossless.
// Numbers parsed from YAML or JSON arrive as int or float64.

func CoerceToInt32(value any) (int32, bool) {
	i, ok := coerceToInt64(value)
	if !ok || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, false
	}
	return int32(i), true
}

func CoerceToInt64(value any) (int64, bool) {
	return coerceToInt64(value)
}

func CoerceToUint32(value any) (uint32, bool) {
	i, ok := coerceToInt64(value)
	if ok {
		if i < 0 || i > math.MaxUint32 {
			return 0, false
		}
		return uint32(i), true
	}
	rv := reflect.ValueOf(value)
	if value != nil && rv.CanUint() && rv.Uint() <= math.MaxUint32 {
		return uint32(rv.Uint()), true
	}
	return 0, false
}

func CoerceToFloat64(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		f := float64(rv.Int())
		if f >= 1<<63 || int64(f) != rv.Int() {
			return 0, false
		}
		return f, true
	case rv.CanUint():
		f := float64(rv.Uint())
		if f >= 1<<64 || uint64(f) != rv.Uint() {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func CoerceToFloat32(value any) (float32, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Float32 {
		return float32(rv.Float()), true
	}
	f, ok := CoerceToFloat64(value)
	if !ok {
		return 0, false
	}
	narrowed := float32(f)
	if float64(narrowed) != f && f == f {
		return 0, false
	}
	return narrowed, true
}

func CoerceToBool(value any) (bool, bool) {
	if value == nil {
		return false, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func CoerceToString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func coerceToInt64(value any) (int64, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.CanInt():
		return rv.Int(), true
	case rv.CanUint():
		if rv.Uint() > math.MaxInt64 {
			return 0, false
		}
		return int64(rv.Uint()), true
	case rv.CanFloat():
		f := rv.Float()
		if f < math.MinInt64 || f >= math.MaxInt64 || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// Package errors provides structured error types for the boundary module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: element path, Go type, tag set and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("items", "[2]").
//		GoType("string").
//		Tags("DOUBLE").
//		Detail("cannot convert string to double").
//		Build()
//
// which renders as
//
//	encode: type_mismatch at items[2] (string as DOUBLE): cannot convert string to double
//
// Errors are values shared across goroutines; use WithPath to relocate one
// instead of assigning its fields.
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unclassifiable(path, "chan int")
//	err := errors.NoMatchingRule(errors.PhaseDecode, path, "VIEW_TAG")
//
// The two caller-facing failure kinds have sentinels that match regardless
// of phase:
//
//	if errors.Is(err, boundaryerrors.ErrNoMatchingRule) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

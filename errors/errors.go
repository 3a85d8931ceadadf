package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseClassify Phase = "classify" // value -> tag set
	PhaseEncode   Phase = "encode"   // value -> native bytes
	PhaseDecode   Phase = "decode"   // native bytes -> value
	PhaseRegister Phase = "register" // conversion rule registration
	PhaseMemory   Phase = "memory"   // guest memory transfer
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnclassifiable Kind = "unclassifiable"
	KindNoMatchingRule Kind = "no_matching_rule"
	KindTypeMismatch   Kind = "type_mismatch"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidData    Kind = "invalid_data"
	KindInvalidUTF8    Kind = "invalid_utf8"
	KindOverflow       Kind = "overflow"
	KindNilPointer     Kind = "nil_pointer"
	KindAllocation     Kind = "allocation"
	KindRegistration   Kind = "registration"
	KindTooDeep        Kind = "too_deep"
	KindInvalidInput   Kind = "invalid_input"
)

// Sentinels for errors.Is checks that only care about the kind.
var (
	ErrUnclassifiable = &Error{Kind: KindUnclassifiable}
	ErrNoMatchingRule = &Error{Kind: KindNoMatchingRule}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Tags   string
	Detail string
	Path   []string
}

// Error renders "phase: kind at path (goType as TAGS): detail: cause".
// Parts that are unset are left out.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteString(string(e.Phase))
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(FormatPath(e.Path))
	}

	switch {
	case e.GoType != "" && e.Tags != "":
		fmt.Fprintf(&b, " (%s as %s)", e.GoType, e.Tags)
	case e.GoType != "":
		fmt.Fprintf(&b, " (%s)", e.GoType)
	case e.Tags != "":
		fmt.Fprintf(&b, " (%s)", e.Tags)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// FormatPath joins element path segments with dots. Index segments such
// as "[2]" attach to the previous segment: items[2].name.
func FormatPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// WithPath returns a copy of e located at path. e itself is never
// modified, so shared values such as the sentinels stay intact.
func (e *Error) WithPath(path []string) *Error {
	c := *e
	c.Path = append([]string(nil), path...)
	return &c
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path. The segments are copied.
func (b *Builder) Path(path ...string) *Builder {
	if len(path) > 0 {
		b.err.Path = append([]string(nil), path...)
	}
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Tags sets the rendered tag set
func (b *Builder) Tags(t string) *Builder {
	b.err.Tags = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unclassifiable reports a value whose shape matches no known tag.
func Unclassifiable(path []string, goType string) *Error {
	return &Error{
		Phase:  PhaseClassify,
		Kind:   KindUnclassifiable,
		Path:   path,
		GoType: goType,
		Detail: "value shape matches no known tag",
	}
}

// NoMatchingRule reports a tag set that no registered conversion rule covers.
func NoMatchingRule(phase Phase, path []string, tags string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoMatchingRule,
		Path:   path,
		Tags:   tags,
		Detail: "no conversion rule covers this tag set",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, tags string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Tags:   tags,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, tags string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Tags:   tags,
		Detail: "absent value for a non-nullable tag set",
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// TooDeep reports nesting beyond the configured depth limit.
func TooDeep(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTooDeep,
		Path:   path,
		Detail: fmt.Sprintf("nesting exceeds %d levels", limit),
	}
}

// Registration creates a rule registration error
func Registration(name, detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %q: %s", name, detail),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

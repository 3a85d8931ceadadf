package marshal

import (
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/boundary/classify"
	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/abi"
	"github.com/wippyai/boundary/tagset"
	"github.com/wippyai/boundary/wire"
)

// EncodeFunc writes v through e. v is never absent and never a pointer.
type EncodeFunc func(e *Encoder, v any) error

// DecodeFunc reads one value through d.
type DecodeFunc func(d *Decoder) (any, error)

// Rule is a conversion pair keyed by the tags it requires.
type Rule struct {
	// Native describes the byte representation as a Component Model type.
	// nil means an opaque list<u8>.
	Native   wit.Type
	Encode   EncodeFunc
	Decode   DecodeFunc
	Name     string
	Requires tagset.Set
}

// Specificity is the number of required tags, ignoring the ANY wildcard.
func (r *Rule) Specificity() int {
	return r.Requires.Without(tagset.Of(tagset.Any)).Len()
}

// Matches reports whether every required tag except ANY is in the shape of set.
// A rule requiring only ANY matches every non-empty shape.
func (r *Rule) Matches(set tagset.Set) bool {
	shape := set.Shape()
	if shape.IsEmpty() {
		return false
	}
	return shape.ContainsAll(r.Requires.Without(tagset.Of(tagset.Any)))
}

func (r *Rule) validate() error {
	switch {
	case r.Name == "":
		return errors.Registration(r.Name, "empty name")
	case r.Requires.IsEmpty():
		return errors.Registration(r.Name, "empty requirement")
	case !r.Requires.Modifiers().IsEmpty():
		return errors.Registration(r.Name, "requirement contains modifier "+r.Requires.Modifiers().String())
	case r.Encode == nil || r.Decode == nil:
		return errors.Registration(r.Name, "missing encode or decode func")
	}
	return nil
}

// Encoder carries per-call encoding state. Not safe for concurrent use.
type Encoder struct {
	m     *Marshaler
	w     *wire.Writer
	path  []string
	tags  tagset.Set
	depth int
}

// Writer returns the output buffer.
func (e *Encoder) Writer() *wire.Writer {
	return e.w
}

// Tags returns the set the current rule was selected for.
func (e *Encoder) Tags() tagset.Set {
	return e.tags
}

// Path returns the element path of the value being encoded.
func (e *Encoder) Path() []string {
	return e.path
}

// Element classifies v and writes it self-describing:
// u32 tag bits, u32 payload length, payload. key extends the path; "" keeps it.
func (e *Encoder) Element(key string, v any) error {
	path := e.childPath(key)
	set, err := e.m.classifier.ClassifyRequest(classify.Request{Value: v})
	if err != nil {
		return withPath(err, path)
	}
	return e.writeElement(path, v, set)
}

// ElementWithTags writes v self-describing under an explicit set.
func (e *Encoder) ElementWithTags(key string, v any, set tagset.Set) error {
	return e.writeElement(e.childPath(key), v, set)
}

func (e *Encoder) writeElement(path []string, v any, set tagset.Set) error {
	e.w.WriteU32(set.Bits())
	lenOff := e.w.Reserve()
	start := e.w.Len()
	if err := e.m.encodeInto(e.w, v, set, path, e.depth+1); err != nil {
		return err
	}
	e.w.PatchU32(lenOff, uint32(e.w.Len()-start))
	return nil
}

func (e *Encoder) childPath(key string) []string {
	if key == "" {
		return e.path
	}
	return appendPath(e.path, key)
}

// Mismatch reports v as unusable for the current rule. Numeric values that
// are merely out of range report an overflow instead.
func (e *Encoder) Mismatch(v any) error {
	if isNumeric(v) {
		return errors.Overflow(errors.PhaseEncode, e.path, v, e.tags.Shape().String())
	}
	return errors.TypeMismatch(errors.PhaseEncode, e.path, abi.TypeName(v), e.tags.String())
}

// Decoder carries per-call decoding state. Not safe for concurrent use.
type Decoder struct {
	m     *Marshaler
	r     *wire.Reader
	path  []string
	tags  tagset.Set
	depth int
}

// Reader returns the input.
func (d *Decoder) Reader() *wire.Reader {
	return d.r
}

// Tags returns the set the current rule was selected for.
func (d *Decoder) Tags() tagset.Set {
	return d.tags
}

// Path returns the element path of the value being decoded.
func (d *Decoder) Path() []string {
	return d.path
}

// Element reads one self-describing element written by Encoder.Element.
func (d *Decoder) Element(key string) (any, error) {
	path := d.path
	if key != "" {
		path = appendPath(d.path, key)
	}

	bits, err := d.r.ReadU32()
	if err != nil {
		return nil, withPath(err, path)
	}
	set := tagset.FromBits(bits)
	if set.Shape().IsEmpty() || set.Bits() != bits {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).
			Detail("invalid element tag bits %#x", bits).
			Build()
	}

	n, err := d.r.ReadU32()
	if err != nil {
		return nil, withPath(err, path)
	}
	payload, err := d.r.ReadRaw(int(n))
	if err != nil {
		return nil, withPath(err, path)
	}

	sub := wire.NewReader(payload)
	v, err := d.m.decodeFrom(sub, set, path, d.depth+1)
	if err != nil {
		return nil, err
	}
	if err := sub.ExpectEOF(); err != nil {
		return nil, withPath(err, path)
	}
	return v, nil
}

// Invalid reports malformed input at the current path.
func (d *Decoder) Invalid(format string, args ...any) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path(d.path...).
		Tags(d.tags.String()).
		Detail(format, args...).
		Build()
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

// withPath locates structured errors that were built without a path.
// Wrapped errors are returned unchanged.
func withPath(err error, path []string) error {
	e, ok := err.(*errors.Error)
	if !ok || e == nil || len(path) == 0 || len(e.Path) > 0 {
		return err
	}
	return e.WithPath(path)
}

func isNumeric(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.CanInt() || rv.CanUint() || rv.CanFloat()
}

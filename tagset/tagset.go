package tagset

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/wippyai/boundary/errors"
)

// Tag is a single value-shape or modifier bit.
// Bit positions are a wire contract and must never change.
type Tag uint32

const (
	Double          Tag = 1 << 0
	Int             Tag = 1 << 1
	Long            Tag = 1 << 2
	Float           Tag = 1 << 3
	Boolean         Tag = 1 << 4
	String          Tag = 1 << 5
	JSObject        Tag = 1 << 6
	JSValue         Tag = 1 << 7
	ReadableArray   Tag = 1 << 8
	ReadableMap     Tag = 1 << 9
	Uint8TypedArray Tag = 1 << 10
	TypedArray      Tag = 1 << 11
	PrimitiveArray  Tag = 1 << 12
	List            Tag = 1 << 13
	Map             Tag = 1 << 14
	ViewTag         Tag = 1 << 15
	SharedObjectID  Tag = 1 << 16
	JSFunction      Tag = 1 << 17
	Any             Tag = 1 << 18
	Nullable        Tag = 1 << 19
)

// None is the empty tag set.
const None Set = 0

const (
	tagCount = 20
	allBits  = 1<<tagCount - 1
)

var tagNames = [tagCount]string{
	"DOUBLE",
	"INT",
	"LONG",
	"FLOAT",
	"BOOLEAN",
	"STRING",
	"JS_OBJECT",
	"JS_VALUE",
	"READABLE_ARRAY",
	"READABLE_MAP",
	"UINT8_TYPED_ARRAY",
	"TYPED_ARRAY",
	"PRIMITIVE_ARRAY",
	"LIST",
	"MAP",
	"VIEW_TAG",
	"SHARED_OBJECT_ID",
	"JS_FUNCTION",
	"ANY",
	"NULLABLE",
}

// modifiers holds tags that qualify a shape rather than describe one.
const modifiers = Set(Nullable)

func (t Tag) String() string {
	if t != 0 && t&(t-1) == 0 && uint32(t) <= allBits {
		return tagNames[bits.TrailingZeros32(uint32(t))]
	}
	return "Tag(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// IsModifier reports whether t qualifies a shape (Nullable) instead of naming one.
func (t Tag) IsModifier() bool {
	return Set(t)&modifiers != 0
}

// All returns every tag of the vocabulary in ascending bit order.
func All() []Tag {
	out := make([]Tag, tagCount)
	for i := range out {
		out[i] = Tag(1) << i
	}
	return out
}

// Lookup returns the tag with the given name, ignoring case.
func Lookup(name string) (Tag, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range tagNames {
		if n == upper {
			return Tag(1) << i, true
		}
	}
	return 0, false
}

// Set is an immutable combination of tags. The zero value is None.
type Set uint32

// Of builds a set from individual tags.
func Of(tags ...Tag) Set {
	var s Set
	for _, t := range tags {
		s |= Set(t)
	}
	return s & allBits
}

// FromBits builds a set from its wire representation. Unknown bits are dropped.
func FromBits(b uint32) Set {
	return Set(b & allBits)
}

// Bits returns the wire representation.
func (s Set) Bits() uint32 {
	return uint32(s)
}

func (s Set) Contains(t Tag) bool {
	return t != 0 && Set(t)&s == Set(t)
}

// ContainsAll reports whether every tag of other is in s.
func (s Set) ContainsAll(other Set) bool {
	return s&other == other
}

func (s Set) Union(other Set) Set {
	return s | other
}

func (s Set) Intersects(other Set) bool {
	return s&other != 0
}

func (s Set) Without(other Set) Set {
	return s &^ other
}

func (s Set) IsEmpty() bool {
	return s == None
}

// Len returns the number of tags in s.
func (s Set) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Shape strips modifier tags.
func (s Set) Shape() Set {
	return s &^ modifiers
}

// Modifiers keeps only modifier tags.
func (s Set) Modifiers() Set {
	return s & modifiers
}

// Nullable is shorthand for Contains(Nullable).
func (s Set) Nullable() bool {
	return s&Set(Nullable) != 0
}

// Tags returns the members of s in ascending bit order.
func (s Set) Tags() []Tag {
	out := make([]Tag, 0, s.Len())
	for b := uint32(s); b != 0; b &= b - 1 {
		out = append(out, Tag(1)<<bits.TrailingZeros32(b))
	}
	return out
}

func (s Set) String() string {
	if s == None {
		return "NONE"
	}
	var b strings.Builder
	for i, t := range s.Tags() {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// MarshalText renders the set in the same form as String.
func (s Set) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything Parse accepts.
func (s *Set) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parse reads a set from tag names separated by '|', ',', '+' or whitespace.
// A decimal or 0x-prefixed number is read as wire bits. "NONE" and "" are empty.
func Parse(text string) (Set, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "NONE") {
		return None, nil
	}

	if n, err := strconv.ParseUint(trimmed, 0, 32); err == nil {
		if n&^allBits != 0 {
			return None, errors.InvalidInput(errors.PhaseClassify, "tag bits out of range: "+trimmed)
		}
		return Set(n), nil
	}

	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '|' || r == ',' || r == '+' || r == ' ' || r == '\t'
	})

	var s Set
	for _, f := range fields {
		if strings.EqualFold(f, "NONE") {
			continue
		}
		t, ok := Lookup(f)
		if !ok {
			return None, errors.InvalidInput(errors.PhaseClassify, "unknown tag "+strconv.Quote(f))
		}
		s |= Set(t)
	}
	return s, nil
}

// MustParse is Parse that panics, for static tables.
func MustParse(text string) Set {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

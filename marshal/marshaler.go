package marshal

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/boundary/classify"
	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/abi"
	"github.com/wippyai/boundary/tagset"
	"github.com/wippyai/boundary/value"
	"github.com/wippyai/boundary/wire"
)

// Null framing bytes for nullable sets.
const (
	nullByte    = 0x00
	presentByte = 0x01
)

// Marshaler encodes and decodes boundary values by rule selection.
// It is safe for concurrent use.
type Marshaler struct {
	registry   *Registry
	classifier *classify.Classifier
	logger     *zap.Logger
	maxDepth   int
}

// Option configures a Marshaler.
type Option func(*Marshaler)

// WithRegistry replaces the default rule registry.
func WithRegistry(r *Registry) Option {
	return func(m *Marshaler) {
		m.registry = r
	}
}

// WithClassifier replaces the strict default classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(m *Marshaler) {
		m.classifier = c
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Marshaler) {
		m.logger = l
	}
}

// WithMaxDepth bounds container nesting. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(m *Marshaler) {
		if n > 0 {
			m.maxDepth = n
		}
	}
}

// New returns a Marshaler. Without WithRegistry it gets a fresh registry
// holding DefaultRules.
func New(opts ...Option) *Marshaler {
	m := &Marshaler{maxDepth: abi.MaxDepth}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = mustDefaultRegistry()
	}
	if m.classifier == nil {
		m.classifier = classify.New()
	}
	if m.logger == nil {
		m.logger = Logger()
	}
	return m
}

func mustDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultRules()...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultMarshaler = sync.OnceValue(func() *Marshaler { return New() })

// Default returns the process-wide Marshaler with the default rules.
func Default() *Marshaler {
	return defaultMarshaler()
}

func (m *Marshaler) Registry() *Registry {
	return m.registry
}

func (m *Marshaler) Classifier() *classify.Classifier {
	return m.classifier
}

func (m *Marshaler) Classify(v any) (tagset.Set, error) {
	return m.classifier.Classify(v)
}

func (m *Marshaler) ClassifyRequest(req classify.Request) (tagset.Set, error) {
	return m.classifier.ClassifyRequest(req)
}

// Null returns the representation of an absent value under a nullable set.
func Null() []byte {
	return []byte{nullByte}
}

// Encode converts v to its native representation under set. An empty set
// classifies v first.
func (m *Marshaler) Encode(v any, set tagset.Set) ([]byte, error) {
	if set.IsEmpty() {
		classified, err := m.classifier.ClassifyRequest(classify.Request{Value: v})
		if err != nil {
			return nil, err
		}
		set = classified
	}

	w := getWriter()
	defer putWriter(w)

	if err := m.encodeInto(w, v, set, nil, 0); err != nil {
		return nil, err
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// Decode converts data back to a value under set. Trailing bytes are an error.
func (m *Marshaler) Decode(data []byte, set tagset.Set) (any, error) {
	if set.IsEmpty() {
		return nil, errors.InvalidInput(errors.PhaseDecode, "decode needs a non-empty tag set")
	}
	r := wire.NewReader(data)
	v, err := m.decodeFrom(r, set, nil, 0)
	if err != nil {
		return nil, err
	}
	if err := r.ExpectEOF(); err != nil {
		return nil, err
	}
	return v, nil
}

func (m *Marshaler) encodeInto(w *wire.Writer, v any, set tagset.Set, path []string, depth int) error {
	if depth > m.maxDepth {
		return errors.TooDeep(errors.PhaseEncode, path, m.maxDepth)
	}

	v = deref(v)
	if value.IsAbsent(v) {
		if !set.Nullable() {
			return errors.NilPointer(errors.PhaseEncode, path, set.String())
		}
		w.WriteU8(nullByte)
		return nil
	}
	if set.Nullable() {
		w.WriteU8(presentByte)
	}

	rule, err := m.selectRule(errors.PhaseEncode, set, path)
	if err != nil {
		return err
	}

	e := &Encoder{m: m, w: w, path: path, tags: set, depth: depth}
	return withPath(rule.Encode(e, v), path)
}

func (m *Marshaler) decodeFrom(r *wire.Reader, set tagset.Set, path []string, depth int) (any, error) {
	if depth > m.maxDepth {
		return nil, errors.TooDeep(errors.PhaseDecode, path, m.maxDepth)
	}

	if set.Nullable() {
		b, err := r.ReadU8()
		if err != nil {
			return nil, withPath(err, path)
		}
		switch b {
		case nullByte:
			return nil, nil
		case presentByte:
		default:
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(path...).
				Tags(set.String()).
				Detail("invalid null marker %#x", b).
				Build()
		}
	}

	rule, err := m.selectRule(errors.PhaseDecode, set, path)
	if err != nil {
		return nil, err
	}

	d := &Decoder{m: m, r: r, path: path, tags: set, depth: depth}
	v, err := rule.Decode(d)
	if err != nil {
		return nil, withPath(err, path)
	}
	return v, nil
}

func (m *Marshaler) selectRule(phase errors.Phase, set tagset.Set, path []string) (*Rule, error) {
	rule, ok := m.registry.Select(set)
	if !ok {
		m.logger.Debug("no matching rule",
			zap.String("phase", string(phase)),
			zap.Stringer("tags", set))
		return nil, errors.NoMatchingRule(phase, path, set.String())
	}
	if ce := m.logger.Check(zap.DebugLevel, "rule selected"); ce != nil {
		ce.Write(
			zap.String("phase", string(phase)),
			zap.String("rule", rule.Name),
			zap.Stringer("tags", set),
			zap.Strings("path", path))
	}
	return rule, nil
}

package marshal

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/internal/layout"
	"github.com/wippyai/boundary/tagset"
)

// Descriptor describes the native representation chosen for a tag set.
type Descriptor struct {
	WIT   wit.Type
	Rule  string
	Tags  tagset.Set
	Size  uint32
	Align uint32
}

// TypeName renders the WIT type, for example "option<f64>".
func (d Descriptor) TypeName() string {
	return layout.Name(d.WIT)
}

// Describe reports the rule selected for set and its Component Model type
// with Canonical ABI size and alignment. NULLABLE wraps the type in option.
func (m *Marshaler) Describe(set tagset.Set) (Descriptor, error) {
	if set.IsEmpty() {
		return Descriptor{}, errors.InvalidInput(errors.PhaseEncode, "describe needs a non-empty tag set")
	}
	rule, ok := m.registry.Select(set)
	if !ok {
		return Descriptor{}, errors.NoMatchingRule(errors.PhaseEncode, nil, set.String())
	}

	t := rule.Native
	if t == nil {
		t = bytesType
	}
	if set.Nullable() {
		t = &wit.TypeDef{Kind: &wit.Option{Type: t}}
	}

	info := layout.NewCalculator().Calculate(t)
	return Descriptor{
		Rule:  rule.Name,
		Tags:  set,
		WIT:   t,
		Size:  info.Size,
		Align: info.Align,
	}, nil
}

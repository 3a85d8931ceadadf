package marshal

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/boundary/errors"
	"github.com/wippyai/boundary/tagset"
)

// Registry holds conversion rules in registration order. Reads never block:
// Register publishes a new snapshot and in-flight selections keep the old one.
type Registry struct {
	snap atomic.Pointer[snapshot]
	mu   sync.Mutex // serializes writers
}

type snapshot struct {
	rules []Rule
	cache sync.Map // tagset.Set -> int (rule index, -1 for none)
}

// NewRegistry registers rules in order.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{}
	r.snap.Store(&snapshot{})
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends rule. Names are unique; requirements are non-empty and
// carry no modifiers.
func (r *Registry) Register(rule Rule) error {
	if err := rule.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	for i := range cur.rules {
		if cur.rules[i].Name == rule.Name {
			return errors.Registration(rule.Name, "duplicate name")
		}
	}

	rules := make([]Rule, len(cur.rules), len(cur.rules)+1)
	copy(rules, cur.rules)
	r.snap.Store(&snapshot{rules: append(rules, rule)})

	Logger().Debug("rule registered",
		zap.String("rule", rule.Name),
		zap.Stringer("requires", rule.Requires),
		zap.Int("specificity", rule.Specificity()))
	return nil
}

// Select returns the most specific matching rule. Ties go to the rule
// registered first. Modifiers in set never affect the outcome.
func (r *Registry) Select(set tagset.Set) (*Rule, bool) {
	s := r.snap.Load()
	shape := set.Shape()

	if cached, ok := s.cache.Load(shape); ok {
		idx := cached.(int)
		if idx < 0 {
			return nil, false
		}
		return &s.rules[idx], true
	}

	best, bestScore := -1, -1
	for i := range s.rules {
		rule := &s.rules[i]
		if !rule.Matches(shape) {
			continue
		}
		if score := rule.Specificity(); score > bestScore {
			best, bestScore = i, score
		}
	}

	s.cache.Store(shape, best)
	if best < 0 {
		return nil, false
	}
	return &s.rules[best], true
}

// Lookup finds a rule by name.
func (r *Registry) Lookup(name string) (*Rule, bool) {
	s := r.snap.Load()
	for i := range s.rules {
		if s.rules[i].Name == name {
			return &s.rules[i], true
		}
	}
	return nil, false
}

// Rules returns a copy of the registered rules in order.
func (r *Registry) Rules() []Rule {
	s := r.snap.Load()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

func (r *Registry) Len() int {
	return len(r.snap.Load().rules)
}

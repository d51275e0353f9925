// Package rules holds the field rule registry: a read-only table from wire
// field name to the syntactic rule its values must satisfy.
package rules

import (
	"fmt"
	"sort"
)

// Registry maps field names to compiled rules. It is immutable after
// construction and safe for concurrent use without locking.
type Registry struct {
	rules map[string]*FieldRule
}

// NewRegistry compiles specs. It fails on duplicate fields, invalid
// expressions, and list rules whose element field is not registered.
func NewRegistry(specs ...Spec) (*Registry, error) {
	reg := &Registry{rules: make(map[string]*FieldRule, len(specs))}
	elements := make(map[string]string)

	for _, s := range specs {
		if _, dup := reg.rules[s.Field]; dup {
			return nil, fmt.Errorf("duplicate rule for field %s", s.Field)
		}
		r, err := compile(s)
		if err != nil {
			return nil, err
		}
		reg.rules[s.Field] = r
		if s.Kind == KindListOf {
			elements[s.Field] = s.Element
		}
	}

	for field, element := range elements {
		el, ok := reg.rules[element]
		if !ok {
			return nil, fmt.Errorf("field %s: element rule %s is not registered", field, element)
		}
		if el.kind == KindListOf {
			return nil, fmt.Errorf("field %s: nested list rules are not supported", field)
		}
		reg.rules[field].element = el
	}
	return reg, nil
}

// MustNewRegistry is NewRegistry for static tables known to be valid.
func MustNewRegistry(specs ...Spec) *Registry {
	reg, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Default returns a registry built from the authority's published field
// formats.
func Default() *Registry {
	return MustNewRegistry(DefaultSpecs()...)
}

// RuleFor returns the rule registered for field.
func (r *Registry) RuleFor(field string) (*FieldRule, bool) {
	rule, ok := r.rules[field]
	return rule, ok
}

// Has reports whether field has a rule.
func (r *Registry) Has(field string) bool {
	_, ok := r.rules[field]
	return ok
}

// Fields returns registered field names in sorted order.
func (r *Registry) Fields() []string {
	out := make([]string, 0, len(r.rules))
	for f := range r.rules {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

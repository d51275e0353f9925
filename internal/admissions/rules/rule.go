package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// Kind identifies how a FieldRule checks a value.
type Kind string

const (
	KindPattern      Kind = "pattern"
	KindAnyOf        Kind = "any_of"
	KindEnum         Kind = "enumerated"
	KindIntRange     Kind = "integer_range"
	KindDecimalRange Kind = "decimal_range"
	KindListOf       Kind = "list_of"
	KindDate         Kind = "date"
	KindEmail        Kind = "email"
	KindText         Kind = "text"
)

// Spec is the declarative form of a rule. Registries compile specs once; new
// fields are added by appending a Spec, never by touching the validator.
type Spec struct {
	Field string
	Label string
	Kind  Kind

	// Pattern is the expression for KindPattern. Patterns lists the accepted
	// alternatives for KindAnyOf.
	Pattern  string
	Patterns []string

	Allowed []string

	Min, Max               int64
	MinDecimal, MaxDecimal float64

	// Element names the field whose rule applies to each item of a
	// KindListOf value. Separator defaults to ",".
	Element   string
	Separator string

	// Layout is the time layout for KindDate (default "2006-01-02").
	Layout string

	// MinLength and MaxLength bound KindText values, counted in runes.
	MinLength, MaxLength int
}

// FieldRule is a compiled, immutable rule for one wire field.
type FieldRule struct {
	field string
	label string
	kind  Kind

	patterns []*regexp.Regexp
	allowed  map[string]struct{}
	allowedS []string

	min, max               int64
	minDecimal, maxDecimal float64

	element   *FieldRule
	separator string
	layout    string

	minLength, maxLength int
}

func (r *FieldRule) Field() string { return r.field }
func (r *FieldRule) Kind() Kind     { return r.kind }

// Label is the human-readable field name, e.g. "form four index number".
func (r *FieldRule) Label() string {
	if r.label == "" {
		return r.field
	}
	return r.label
}

// Patterns returns the source expressions of pattern rules.
func (r *FieldRule) Patterns() []string {
	out := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		out[i] = p.String()
	}
	return out
}

// Check applies the rule. It returns a reason when value is rejected.
// Values that XML cannot carry unchanged are rejected under every kind.
func (r *FieldRule) Check(value string) (string, bool) {
	if reason, ok := encodable(value); !ok {
		return reason, false
	}
	switch r.kind {
	case KindPattern:
		if r.patterns[0].MatchString(value) {
			return "", true
		}
		return fmt.Sprintf("must match %s", r.patterns[0]), false

	case KindAnyOf:
		for _, p := range r.patterns {
			if p.MatchString(value) {
				return "", true
			}
		}
		return fmt.Sprintf("must match one of %s", strings.Join(r.Patterns(), ", ")), false

	case KindEnum:
		if _, ok := r.allowed[value]; ok {
			return "", true
		}
		return fmt.Sprintf("must be one of %s", strings.Join(r.allowedS, ", ")), false

	case KindIntRange:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < r.min || n > r.max {
			return fmt.Sprintf("must be an integer between %d and %d", r.min, r.max), false
		}
		return "", true

	case KindDecimalRange:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < r.minDecimal || f > r.maxDecimal {
			return fmt.Sprintf("must be a number between %g and %g", r.minDecimal, r.maxDecimal), false
		}
		return "", true

	case KindListOf:
		items := strings.Split(value, r.separator)
		for i, item := range items {
			item = strings.TrimSpace(item)
			if reason, ok := r.element.Check(item); !ok {
				return fmt.Sprintf("item %d %s", i+1, reason), false
			}
		}
		return "", true

	case KindDate:
		if _, err := time.Parse(r.layout, value); err != nil {
			return fmt.Sprintf("must be a date in %s form", r.layout), false
		}
		return "", true

	case KindEmail:
		if govalidator.IsEmail(value) {
			return "", true
		}
		return "must be a valid email address", false

	case KindText:
		n := len([]rune(value))
		if n < r.minLength || (r.maxLength > 0 && n > r.maxLength) {
			if r.maxLength > 0 {
				return fmt.Sprintf("must be between %d and %d characters", r.minLength, r.maxLength), false
			}
			return fmt.Sprintf("must be at least %d characters", r.minLength), false
		}
		return "", true
	}
	return fmt.Sprintf("has unsupported rule kind %q", r.kind), false
}

// encodable rejects invalid UTF-8 and control characters other than tab,
// newline and carriage return.
func encodable(value string) (string, bool) {
	if !utf8.ValidString(value) {
		return "must be valid UTF-8 text", false
	}
	for _, c := range value {
		if (c < 0x20 && c != '\t' && c != '\n' && c != '\r') || c == 0x7f {
			return fmt.Sprintf("must not contain control character %U", c), false
		}
	}
	return "", true
}

func compile(s Spec) (*FieldRule, error) {
	if s.Field == "" {
		return nil, fmt.Errorf("rule without field name")
	}
	r := &FieldRule{field: s.Field, label: s.Label, kind: s.Kind}

	switch s.Kind {
	case KindPattern:
		if s.Pattern == "" {
			return nil, fmt.Errorf("field %s: pattern rule needs a pattern", s.Field)
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", s.Field, err)
		}
		r.patterns = []*regexp.Regexp{re}

	case KindAnyOf:
		if len(s.Patterns) < 2 {
			return nil, fmt.Errorf("field %s: any-of rule needs at least two patterns", s.Field)
		}
		for _, p := range s.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", s.Field, err)
			}
			r.patterns = append(r.patterns, re)
		}

	case KindEnum:
		if len(s.Allowed) == 0 {
			return nil, fmt.Errorf("field %s: enumerated rule needs allowed values", s.Field)
		}
		r.allowed = make(map[string]struct{}, len(s.Allowed))
		for _, v := range s.Allowed {
			r.allowed[v] = struct{}{}
		}
		r.allowedS = append([]string(nil), s.Allowed...)

	case KindIntRange:
		if s.Min > s.Max {
			return nil, fmt.Errorf("field %s: min %d exceeds max %d", s.Field, s.Min, s.Max)
		}
		r.min, r.max = s.Min, s.Max

	case KindDecimalRange:
		if s.MinDecimal > s.MaxDecimal {
			return nil, fmt.Errorf("field %s: min %g exceeds max %g", s.Field, s.MinDecimal, s.MaxDecimal)
		}
		r.minDecimal, r.maxDecimal = s.MinDecimal, s.MaxDecimal

	case KindListOf:
		if s.Element == "" {
			return nil, fmt.Errorf("field %s: list rule needs an element field", s.Field)
		}
		r.separator = s.Separator
		if r.separator == "" {
			r.separator = ","
		}

	case KindDate:
		r.layout = s.Layout
		if r.layout == "" {
			r.layout = "2006-01-02"
		}

	case KindEmail:

	case KindText:
		if s.MaxLength > 0 && s.MinLength > s.MaxLength {
			return nil, fmt.Errorf("field %s: min length exceeds max length", s.Field)
		}
		r.minLength, r.maxLength = s.MinLength, s.MaxLength

	default:
		return nil, fmt.Errorf("field %s: unknown rule kind %q", s.Field, s.Kind)
	}
	return r, nil
}

// Package validation applies the field rule registry to request payloads.
// A payload is either valid or carries an ordered list of violations; there
// is no partially valid payload.
package validation

import (
	"fmt"
	"strings"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	"tcubridge/internal/admissions/rules"
)

// Rule names reported for structural violations. Field-level rule failures
// report the rule kind instead (pattern, enumerated, ...).
const (
	RuleRequired   = "required"
	RuleUndeclared = "undeclared"
	RuleOperation  = "known_operation"
	RuleShape      = "payload_shape"
	RuleBatchSize  = "batch_size"
	RuleDuplicate  = "duplicate_field"
)

// NoIndex marks violations that do not belong to a batch subject.
const NoIndex = -1

// Violation names the offending field, the rule that failed, and why.
type Violation struct {
	Index  int
	Field  string
	Rule   string
	Reason string
}

func (v Violation) String() string {
	if v.Index == NoIndex {
		return fmt.Sprintf("%s: %s", v.Field, v.Reason)
	}
	return fmt.Sprintf("subjects[%d].%s: %s", v.Index, v.Field, v.Reason)
}

// Result is the outcome of Validate.
type Result struct {
	Violations []Violation
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Summary joins all violation messages.
func (r Result) Summary() string {
	parts := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// Validator checks payloads against the catalog and registry it was built
// with. It holds no mutable state.
type Validator struct {
	registry *rules.Registry
	catalog  *operations.Catalog
}

func New(registry *rules.Registry, catalog *operations.Catalog) *Validator {
	return &Validator{registry: registry, catalog: catalog}
}

// Validate checks p against its operation's descriptor. Batch subjects are
// validated independently and every violation is reported with the index of
// its subject.
func (v *Validator) Validate(p payload.Payload) Result {
	desc, ok := v.catalog.Lookup(p.Operation)
	if !ok {
		return Result{Violations: []Violation{{
			Index: NoIndex, Field: "operation", Rule: RuleOperation,
			Reason: fmt.Sprintf("unknown operation %q", p.Operation),
		}}}
	}

	if desc.Batch != p.IsBatch() {
		reason := "operation takes a single subject, not a list"
		if desc.Batch {
			reason = "operation takes a list of subjects"
		}
		return Result{Violations: []Violation{{Index: NoIndex, Field: "payload", Rule: RuleShape, Reason: reason}}}
	}

	if !desc.Batch {
		return Result{Violations: v.validateSubject(desc, p.Fields, NoIndex)}
	}

	if len(p.Subjects) == 0 {
		return Result{Violations: []Violation{{
			Index: NoIndex, Field: "subjects", Rule: RuleBatchSize, Reason: "at least one subject is required",
		}}}
	}
	if desc.MaxSubjects > 0 && len(p.Subjects) > desc.MaxSubjects {
		return Result{Violations: []Violation{{
			Index: NoIndex, Field: "subjects", Rule: RuleBatchSize,
			Reason: fmt.Sprintf("at most %d subjects per request, got %d", desc.MaxSubjects, len(p.Subjects)),
		}}}
	}

	var out []Violation
	for i, subject := range p.Subjects {
		out = append(out, v.validateSubject(desc, subject, i)...)
	}
	return Result{Violations: out}
}

func (v *Validator) validateSubject(desc operations.Descriptor, fields payload.Fields, index int) []Violation {
	var out []Violation

	for _, name := range desc.Required {
		if val, ok := fields.Get(name); !ok || strings.TrimSpace(val) == "" {
			out = append(out, Violation{Index: index, Field: name, Rule: RuleRequired, Reason: "is required"})
		}
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			out = append(out, Violation{Index: index, Field: f.Name, Rule: RuleDuplicate, Reason: "appears more than once"})
			continue
		}
		seen[f.Name] = true

		if !desc.Declares(f.Name) {
			out = append(out, Violation{
				Index: index, Field: f.Name, Rule: RuleUndeclared,
				Reason: fmt.Sprintf("is not accepted by %s", desc.Name),
			})
			continue
		}
		if desc.IsPassthrough(f.Name) {
			continue
		}
		// required-but-empty is already reported; optional-and-empty is omitted
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		rule, ok := v.registry.RuleFor(f.Name)
		if !ok {
			// NewCatalog rejects declared fields without rules, so this only
			// happens when the validator is given a mismatched registry.
			out = append(out, Violation{Index: index, Field: f.Name, Rule: RuleUndeclared, Reason: "has no validation rule"})
			continue
		}
		if reason, ok := rule.Check(f.Value); !ok {
			out = append(out, Violation{Index: index, Field: f.Name, Rule: string(rule.Kind()), Reason: reason})
		}
	}
	return out
}

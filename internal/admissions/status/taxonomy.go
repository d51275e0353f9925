// Package status maps the authority's numeric status codes onto a closed set
// of local outcome categories.
package status

import (
	"fmt"
	"sort"
)

// Category is the local outcome of a remote call. It is always derived from
// a status code, never stored as the source of truth.
type Category string

const (
	Success                 Category = "success"
	BusinessCondition       Category = "business_condition"
	ValidationFailure       Category = "validation_failure"
	AuthenticationFailure   Category = "authentication_failure"
	TransientNetworkFailure Category = "transient_network_failure"
	UnclassifiedRemoteError Category = "unclassified_remote_error"
)

// IsFailure reports whether the category should be surfaced as an error.
// Business conditions are outcomes the caller branches on, not failures.
func (c Category) IsFailure() bool {
	switch c {
	case ValidationFailure, AuthenticationFailure, TransientNetworkFailure:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// Entry binds a status code to its category and a fallback description used
// when a response omits its own.
type Entry struct {
	Code        int
	Category    Category
	Description string
}

// Taxonomy is an immutable code table.
type Taxonomy struct {
	entries map[int]Entry
}

// NewTaxonomy indexes entries. Duplicate codes, and entries that classify a
// remote code as a transport failure, are rejected.
func NewTaxonomy(entries ...Entry) (*Taxonomy, error) {
	t := &Taxonomy{entries: make(map[int]Entry, len(entries))}
	for _, e := range entries {
		if _, dup := t.entries[e.Code]; dup {
			return nil, fmt.Errorf("duplicate status code %d", e.Code)
		}
		switch e.Category {
		case Success, BusinessCondition, ValidationFailure, AuthenticationFailure, UnclassifiedRemoteError:
		default:
			return nil, fmt.Errorf("status code %d: category %q cannot come from a remote response", e.Code, e.Category)
		}
		t.entries[e.Code] = e
	}
	return t, nil
}

// Default returns the authority's published code table.
func Default() *Taxonomy {
	t, err := NewTaxonomy(DefaultEntries()...)
	if err != nil {
		panic(err)
	}
	return t
}

// Classify is pure: the same code always yields the same category. Codes
// missing from the table are UnclassifiedRemoteError.
func (t *Taxonomy) Classify(code int) Category {
	if e, ok := t.entries[code]; ok {
		return e.Category
	}
	return UnclassifiedRemoteError
}

// Describe returns the table's description of code.
func (t *Taxonomy) Describe(code int) (string, bool) {
	e, ok := t.entries[code]
	return e.Description, ok
}

// Entries returns the table ordered by code.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// DefaultEntries returns a fresh copy of the built-in code table.
func DefaultEntries() []Entry {
	return []Entry{
		{200, Success, "Successful"},
		{201, BusinessCondition, "Applicant has a prior admission"},
		{202, Success, "Applicant is clear to proceed"},
		{203, BusinessCondition, "Applicant already admitted"},
		{204, AuthenticationFailure, "Invalid or expired session token"},
		{205, ValidationFailure, "Malformed request structure"},
		{206, ValidationFailure, "Invalid index number format"},
		{207, BusinessCondition, "Applicant not found"},
		{208, ValidationFailure, "Missing mandatory parameter"},
		{209, Success, "Admission confirmed"},
		{210, BusinessCondition, "Confirmation code does not match"},
		{211, BusinessCondition, "Admission already confirmed"},
		{212, Success, "Admission unconfirmed"},
		{213, BusinessCondition, "Admission not confirmed"},
		{214, BusinessCondition, "Multiple admission not resolved"},
		{215, BusinessCondition, "Programme capacity exceeded"},
		{216, ValidationFailure, "Invalid programme code"},
		{217, BusinessCondition, "Transfer not permitted"},
		{218, Success, "Transfer submitted"},
		{219, BusinessCondition, "Submission window closed"},
		{220, ValidationFailure, "Invalid date format"},
		{221, BusinessCondition, "Record already submitted"},
		{222, Success, "Graduates submitted"},
		{223, Success, "Staff submitted"},
		{224, BusinessCondition, "Applicant not eligible for programme"},
		{227, BusinessCondition, "Verification pending"},
		{228, ValidationFailure, "Invalid national identification number"},
		{229, BusinessCondition, "Unconfirmation not permitted"},
		{230, Success, "Verification submitted"},
		{231, Success, "Enrollment submitted"},
		{232, BusinessCondition, "Request limit reached for this period"},
		{233, Success, "Foreign applicant registered"},
		{234, ValidationFailure, "Invalid batch size"},
	}
}

// Package failure defines the normalized error taxonomy returned by the
// dispatcher. Every failure carries a Kind so callers can branch without
// string matching.
package failure

import (
	"errors"
	"fmt"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/validation"
	dErrors "tcubridge/pkg/domain-errors"
)

// Kind is the failure category.
type Kind string

const (
	// KindValidation covers local validation failures and remote codes that
	// mark the request as invalid.
	KindValidation Kind = "validation_failure"

	// KindAuthentication covers rejected or expired credentials.
	KindAuthentication Kind = "authentication_failure"

	// KindTransient covers network errors, timeouts and server-side transport
	// failures. Only this kind is retried.
	KindTransient Kind = "transient_network_failure"

	// KindMalformedResponse means a response arrived but could not be read.
	KindMalformedResponse Kind = "malformed_response"

	// KindInternal covers local faults such as a missing identity.
	KindInternal Kind = "internal"
)

// Error is a categorized dispatch failure. Remote failures carry the status
// pair; local validation failures carry Violations.
type Error struct {
	Kind       Kind
	Operation  operations.Name
	Message    string
	Underlying error
	Retryable  bool

	Violations        []validation.Violation
	StatusCode        int
	StatusDescription string
	// Raw is the undecodable body of a malformed response.
	Raw      []byte
	Attempts int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s [%s]: %s", e.Operation, e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d: %s)", msg, e.StatusCode, e.StatusDescription)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a categorized failure. Only transient failures are retryable.
func New(kind Kind, op operations.Name, message string, underlying error) *Error {
	return &Error{
		Kind:       kind,
		Operation:  op,
		Message:    message,
		Underlying: underlying,
		Retryable:  kind == KindTransient,
	}
}

// Validation reports a payload rejected before any transport call.
func Validation(op operations.Name, res validation.Result) *Error {
	return &Error{
		Kind:       KindValidation,
		Operation:  op,
		Message:    res.Summary(),
		Violations: res.Violations,
	}
}

// Malformed reports a response that arrived but could not be decoded.
func Malformed(op operations.Name, raw []byte, underlying error) *Error {
	e := New(KindMalformedResponse, op, "response could not be decoded", underlying)
	e.Raw = raw
	return e
}

// Remote reports a failure category returned by the authority.
func Remote(kind Kind, op operations.Name, code int, description string) *Error {
	return &Error{
		Kind:              kind,
		Operation:         op,
		Message:           "rejected by the authority",
		StatusCode:        code,
		StatusDescription: description,
	}
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// KindOf extracts the failure kind, defaulting to KindInternal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// Is reports whether err is a failure of kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// ToDomain maps a failure onto the shared domain error codes, for surfaces
// that speak dErrors (CLI exit codes, HTTP handlers).
func ToDomain(err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if !errors.As(err, &fe) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "dispatch failed")
	}
	var code dErrors.Code
	switch fe.Kind {
	case KindValidation:
		code = dErrors.CodeValidation
	case KindAuthentication:
		code = dErrors.CodeUnauthorized
	case KindTransient:
		code = dErrors.CodeUnavailable
	case KindMalformedResponse:
		code = dErrors.CodeBadRequest
	default:
		code = dErrors.CodeInternal
	}
	return dErrors.Wrap(fe, code, fe.Message)
}

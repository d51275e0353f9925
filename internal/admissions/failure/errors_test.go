package failure

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/validation"
	dErrors "tcubridge/pkg/domain-errors"
)

func TestNew(t *testing.T) {
	cases := []struct {
		kind      Kind
		retryable bool
	}{
		{KindValidation, false},
		{KindAuthentication, false},
		{KindTransient, true},
		{KindMalformedResponse, false},
		{KindInternal, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			err := New(tc.kind, operations.ApplicantsCheckStatus, "boom", nil)
			assert.Equal(t, tc.retryable, IsRetryable(err))
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestErrorChain(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("invoke: %w", New(KindTransient, operations.AdmissionsConfirm, "send failed", cause))

	assert.True(t, Is(err, KindTransient))
	assert.False(t, Is(err, KindValidation))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "admissions.confirm [transient_network_failure]: send failed")
}

func TestUncategorized(t *testing.T) {
	plain := errors.New("plain")
	assert.Equal(t, KindInternal, KindOf(plain))
	assert.False(t, IsRetryable(plain))
	assert.False(t, Is(nil, KindInternal))
}

func TestValidation(t *testing.T) {
	res := validation.Result{Violations: []validation.Violation{
		{Index: validation.NoIndex, Field: "Reason", Rule: validation.RuleRequired, Reason: "is required"},
	}}
	err := Validation(operations.AdmissionsUnconfirm, res)

	assert.Equal(t, KindValidation, err.Kind)
	assert.Len(t, err.Violations, 1)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Error(), "Reason: is required")
}

func TestRemote(t *testing.T) {
	err := Remote(KindAuthentication, operations.ApplicantsCheckStatus, 204, "Invalid or expired session token")
	assert.Equal(t, 204, err.StatusCode)
	assert.Contains(t, err.Error(), "status 204: Invalid or expired session token")
}

func TestToDomain(t *testing.T) {
	cases := map[Kind]dErrors.Code{
		KindValidation:        dErrors.CodeValidation,
		KindAuthentication:    dErrors.CodeUnauthorized,
		KindTransient:         dErrors.CodeUnavailable,
		KindMalformedResponse: dErrors.CodeBadRequest,
		KindInternal:          dErrors.CodeInternal,
	}
	for kind, code := range cases {
		err := ToDomain(New(kind, operations.ApplicantsCheckStatus, "x", nil))
		assert.True(t, dErrors.HasCode(err, code), kind)
		assert.True(t, Is(err, kind))
	}

	assert.Nil(t, ToDomain(nil))
	assert.True(t, dErrors.HasCode(ToDomain(errors.New("x")), dErrors.CodeInternal))
}

func TestMalformed(t *testing.T) {
	raw := []byte("<html>")
	err := Malformed(operations.ApplicantsCheckStatus, raw, errors.New("root element is <html>"))
	assert.Equal(t, KindMalformedResponse, err.Kind)
	assert.Equal(t, raw, err.Raw)
	assert.False(t, IsRetryable(err))
}

package client

import (
	"context"

	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	r "tcubridge/internal/admissions/rules"
)

// Admissions resolves multiple admissions: confirming, withdrawing and
// cancelling an applicant's place.
type Admissions struct{ base }

// Confirm records the applicant's choice using the code the authority sent
// them.
func (a *Admissions) Confirm(ctx context.Context, f4IndexNo, confirmationCode string) (*dispatcher.Result, error) {
	f := payload.FieldsOf(r.FieldF4IndexNo, f4IndexNo, r.FieldConfirmationCode, confirmationCode)
	return a.single(ctx, operations.AdmissionsConfirm, f)
}

func (a *Admissions) Unconfirm(ctx context.Context, f4IndexNo, reason string) (*dispatcher.Result, error) {
	f := payload.FieldsOf(r.FieldF4IndexNo, f4IndexNo, r.FieldReason, reason)
	return a.single(ctx, operations.AdmissionsUnconfirm, f)
}

// Reject cancels an admission. programmeCode narrows the cancellation to one
// programme and may be empty.
func (a *Admissions) Reject(ctx context.Context, f4IndexNo, reason, programmeCode string) (*dispatcher.Result, error) {
	f := payload.FieldsOf(r.FieldF4IndexNo, f4IndexNo, r.FieldReason, reason).
		WithOptional(r.FieldProgrammeCode, programmeCode)
	return a.single(ctx, operations.AdmissionsReject, f)
}

func (a *Admissions) RestoreCancelled(ctx context.Context, f4IndexNo, programmeCode, reason string) (*dispatcher.Result, error) {
	f := payload.FieldsOf(
		r.FieldF4IndexNo, f4IndexNo,
		r.FieldProgrammeCode, programmeCode,
		r.FieldReason, reason,
	)
	return a.single(ctx, operations.AdmissionsRestoreCancelled, f)
}

package client

import (
	"context"
	"strconv"

	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	r "tcubridge/internal/admissions/rules"
)

// Dashboard reports applicant counts per programme.
type Dashboard struct{ base }

type ProgrammeCount struct {
	ProgrammeCode string
	Males         int
	Females       int
}

func (c ProgrammeCount) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldProgrammeCode, c.ProgrammeCode,
		r.FieldMales, strconv.Itoa(c.Males),
		r.FieldFemales, strconv.Itoa(c.Females),
	)
}

func (d *Dashboard) Populate(ctx context.Context, counts []ProgrammeCount) (*dispatcher.Result, error) {
	return batch(ctx, d.base, operations.DashboardPopulate, counts)
}

// GetDashboard returns the figures for every programme, or one when
// programmeCode is set.
func (d *Dashboard) GetDashboard(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	f := payload.Fields{}.WithOptional(r.FieldProgrammeCode, programmeCode)
	return d.single(ctx, operations.DashboardGetDashboard, f)
}

// Transfers moves admitted students between programmes.
type Transfers struct{ base }

type Transfer struct {
	F4IndexNo             string
	F6IndexNo             string
	CurrentProgrammeCode  string
	PreviousProgrammeCode string
	// PreviousInstitution is required for inter-institutional transfers only.
	PreviousInstitution string
}

func (t Transfer) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldF4IndexNo, t.F4IndexNo,
		r.FieldF6IndexNo, t.F6IndexNo,
		r.FieldCurrentProgrammeCode, t.CurrentProgrammeCode,
		r.FieldPreviousProgrammeCode, t.PreviousProgrammeCode,
	)
}

type interInstitutional Transfer

func (t interInstitutional) fields() payload.Fields {
	return Transfer(t).fields().With(r.FieldPreviousInstitution, t.PreviousInstitution)
}

func (t *Transfers) SubmitInternal(ctx context.Context, transfers []Transfer) (*dispatcher.Result, error) {
	return batch(ctx, t.base, operations.TransfersSubmitInternal, transfers)
}

func (t *Transfers) SubmitInterInstitutional(ctx context.Context, transfers []Transfer) (*dispatcher.Result, error) {
	items := make([]interInstitutional, len(transfers))
	for i, tr := range transfers {
		items[i] = interInstitutional(tr)
	}
	return batch(ctx, t.base, operations.TransfersSubmitInterInstitutional, items)
}

func (t *Transfers) GetInternalStatus(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return t.single(ctx, operations.TransfersGetInternalStatus, byProgramme(programmeCode))
}

func (t *Transfers) GetInterInstitutionalStatus(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return t.single(ctx, operations.TransfersGetInterInstitutionalStatus, byProgramme(programmeCode))
}

// Verification submits applicants for certificate checks.
type Verification struct{ base }

type VerificationRequest struct {
	F4IndexNo        string
	ProgrammeCode    string
	F6IndexNo        string
	NationalIDNumber string
}

func (v VerificationRequest) fields() payload.Fields {
	return payload.FieldsOf(r.FieldF4IndexNo, v.F4IndexNo, r.FieldProgrammeCode, v.ProgrammeCode).
		WithOptional(r.FieldF6IndexNo, v.F6IndexNo).
		WithOptional(r.FieldNationalIDNumber, v.NationalIDNumber)
}

func (v *Verification) SubmitVerification(ctx context.Context, reqs []VerificationRequest) (*dispatcher.Result, error) {
	return batch(ctx, v.base, operations.VerificationSubmit, reqs)
}

func (v *Verification) GetVerificationStatus(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return v.single(ctx, operations.VerificationGetStatus, byProgramme(programmeCode))
}

func (v *Verification) CheckNationalID(ctx context.Context, nationalID, f4IndexNo string) (*dispatcher.Result, error) {
	f := payload.FieldsOf(r.FieldNationalIDNumber, nationalID, r.FieldF4IndexNo, f4IndexNo)
	return v.single(ctx, operations.VerificationCheckNationalID, f)
}

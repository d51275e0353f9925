package client

import (
	"context"

	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	r "tcubridge/internal/admissions/rules"
)

// Applicants covers registration and programme submission for local
// applicants.
type Applicants struct{ base }

// StatusQuery identifies an applicant by examination index numbers.
type StatusQuery struct {
	F4IndexNo      string
	F6IndexNo      string
	OtherF4IndexNo []string
	OtherF6IndexNo []string
}

func (q StatusQuery) fields() payload.Fields {
	return payload.FieldsOf(r.FieldF4IndexNo, q.F4IndexNo).
		WithOptional(r.FieldF6IndexNo, q.F6IndexNo).
		WithOptional(r.FieldOtherF4IndexNo, joinList(q.OtherF4IndexNo)).
		WithOptional(r.FieldOtherF6IndexNo, joinList(q.OtherF6IndexNo))
}

// CheckStatus asks whether the applicant already holds an admission. The
// authority answers 201 (prior admission) or 202 (clear to proceed).
func (a *Applicants) CheckStatus(ctx context.Context, q StatusQuery) (*dispatcher.Result, error) {
	return a.single(ctx, operations.ApplicantsCheckStatus, q.fields())
}

type Applicant struct {
	F4IndexNo      string
	F6IndexNo      string
	Gender         string
	Category       string
	OtherF4IndexNo []string
	OtherF6IndexNo []string
	Nationality    string
	DateOfBirth    string
}

func (ap Applicant) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldF4IndexNo, ap.F4IndexNo,
		r.FieldF6IndexNo, ap.F6IndexNo,
		r.FieldGender, ap.Gender,
		r.FieldCategory, ap.Category,
	).
		WithOptional(r.FieldOtherF4IndexNo, joinList(ap.OtherF4IndexNo)).
		WithOptional(r.FieldOtherF6IndexNo, joinList(ap.OtherF6IndexNo)).
		WithOptional(r.FieldNationality, ap.Nationality).
		WithOptional(r.FieldDateOfBirth, ap.DateOfBirth)
}

func (a *Applicants) Add(ctx context.Context, ap Applicant) (*dispatcher.Result, error) {
	return a.single(ctx, operations.ApplicantsAdd, ap.fields())
}

// ProgrammeSubmission is the body of submitProgramme and resubmit.
type ProgrammeSubmission struct {
	F4IndexNo          string
	F6IndexNo          string
	SelectedProgrammes []string
	MobileNumber       string
	EmailAddress       string
	AdmissionStatus    string
	ProgrammeAdmitted  string

	OtherMobileNumber string
	Reason            string
	Nationality       string
	Impairment        string
	DateOfBirth       string
	NationalIDNumber  string
	OtherF4IndexNo    []string
	OtherF6IndexNo    []string
	Category          string
	Sponsorship       string
	Remarks           string
}

func (s ProgrammeSubmission) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldF4IndexNo, s.F4IndexNo,
		r.FieldF6IndexNo, s.F6IndexNo,
		r.FieldSelectedProgrammes, joinList(s.SelectedProgrammes),
		r.FieldMobileNumber, s.MobileNumber,
		r.FieldEmailAddress, s.EmailAddress,
		r.FieldAdmissionStatus, s.AdmissionStatus,
		r.FieldProgrammeAdmitted, s.ProgrammeAdmitted,
	).
		WithOptional(r.FieldOtherMobileNumber, s.OtherMobileNumber).
		WithOptional(r.FieldReason, s.Reason).
		WithOptional(r.FieldNationality, s.Nationality).
		WithOptional(r.FieldImpairment, s.Impairment).
		WithOptional(r.FieldDateOfBirth, s.DateOfBirth).
		WithOptional(r.FieldNationalIDNumber, s.NationalIDNumber).
		WithOptional(r.FieldOtherF4IndexNo, joinList(s.OtherF4IndexNo)).
		WithOptional(r.FieldOtherF6IndexNo, joinList(s.OtherF6IndexNo)).
		WithOptional(r.FieldCategory, s.Category).
		WithOptional(r.FieldSponsorship, s.Sponsorship).
		WithOptional("Remarks", s.Remarks)
}

func (a *Applicants) SubmitProgramme(ctx context.Context, s ProgrammeSubmission) (*dispatcher.Result, error) {
	return a.single(ctx, operations.ApplicantsSubmitProgramme, s.fields())
}

// Resubmit replaces an earlier programme submission for the same applicant.
func (a *Applicants) Resubmit(ctx context.Context, s ProgrammeSubmission) (*dispatcher.Result, error) {
	return a.single(ctx, operations.ApplicantsResubmit, s.fields())
}

func (a *Applicants) GetAdmitted(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return a.single(ctx, operations.ApplicantsGetAdmitted, byProgramme(programmeCode))
}

func (a *Applicants) GetStatus(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return a.single(ctx, operations.ApplicantsGetStatus, byProgramme(programmeCode))
}

func (a *Applicants) GetConfirmed(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return a.single(ctx, operations.ApplicantsGetConfirmed, byProgramme(programmeCode))
}

// RequestConfirmationCode asks the authority to resend the code by SMS, and
// by email when an address is given.
func (a *Applicants) RequestConfirmationCode(ctx context.Context, f4IndexNo, mobile, email string) (*dispatcher.Result, error) {
	f := payload.FieldsOf(r.FieldF4IndexNo, f4IndexNo, r.FieldMobileNumber, mobile).
		WithOptional(r.FieldEmailAddress, email)
	return a.single(ctx, operations.ApplicantsRequestConfirmationCode, f)
}

// GetProgrammes lists the institution's programmes, optionally for one
// academic year ("2025/2026").
func (a *Applicants) GetProgrammes(ctx context.Context, academicYear string) (*dispatcher.Result, error) {
	f := payload.Fields{}.WithOptional(r.FieldAcademicYear, academicYear)
	return a.single(ctx, operations.ApplicantsGetProgrammes, f)
}

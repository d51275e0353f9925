package client

import (
	"context"
	"strconv"

	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	r "tcubridge/internal/admissions/rules"
)

// Staff submits academic staff records.
type Staff struct{ base }

type StaffMember struct {
	StaffNumber    string
	FirstName      string
	MiddleName     string
	Surname        string
	Gender         string
	Nationality    string
	Qualification  string
	Designation    string
	EmploymentType string

	DateOfBirth      string
	NationalIDNumber string
	EmailAddress     string
	MobileNumber     string
}

func (m StaffMember) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldStaffNumber, m.StaffNumber,
		r.FieldFirstName, m.FirstName,
		r.FieldSurname, m.Surname,
		r.FieldGender, m.Gender,
		r.FieldNationality, m.Nationality,
		r.FieldQualification, m.Qualification,
		r.FieldDesignation, m.Designation,
		r.FieldEmploymentType, m.EmploymentType,
	).
		WithOptional(r.FieldMiddleName, m.MiddleName).
		WithOptional(r.FieldDateOfBirth, m.DateOfBirth).
		WithOptional(r.FieldNationalIDNumber, m.NationalIDNumber).
		WithOptional(r.FieldEmailAddress, m.EmailAddress).
		WithOptional(r.FieldMobileNumber, m.MobileNumber)
}

func (s *Staff) SubmitStaff(ctx context.Context, members []StaffMember) (*dispatcher.Result, error) {
	return batch(ctx, s.base, operations.StaffSubmit, members)
}

func (s *Staff) GetStaffStatus(ctx context.Context, academicYear string) (*dispatcher.Result, error) {
	f := payload.Fields{}.WithOptional(r.FieldAcademicYear, academicYear)
	return s.single(ctx, operations.StaffGetStatus, f)
}

// Graduates submits completed awards.
type Graduates struct{ base }

type Graduate struct {
	F4IndexNo          string
	RegistrationNumber string
	FirstName          string
	MiddleName         string
	Surname            string
	Gender             string
	ProgrammeCode      string
	GPA                float64
	AwardClass         string
	GraduationDate     string
	AcademicYear       string

	F6IndexNo        string
	NationalIDNumber string
}

func (g Graduate) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldF4IndexNo, g.F4IndexNo,
		r.FieldRegistrationNumber, g.RegistrationNumber,
		r.FieldFirstName, g.FirstName,
		r.FieldSurname, g.Surname,
		r.FieldGender, g.Gender,
		r.FieldProgrammeCode, g.ProgrammeCode,
		r.FieldGPA, strconv.FormatFloat(g.GPA, 'f', -1, 64),
		r.FieldAwardClass, g.AwardClass,
		r.FieldGraduationDate, g.GraduationDate,
		r.FieldAcademicYear, g.AcademicYear,
	).
		WithOptional(r.FieldMiddleName, g.MiddleName).
		WithOptional(r.FieldF6IndexNo, g.F6IndexNo).
		WithOptional(r.FieldNationalIDNumber, g.NationalIDNumber)
}

func (g *Graduates) SubmitGraduates(ctx context.Context, graduates []Graduate) (*dispatcher.Result, error) {
	return batch(ctx, g.base, operations.GraduatesSubmit, graduates)
}

func (g *Graduates) GetGraduatesStatus(ctx context.Context, academicYear, programmeCode string) (*dispatcher.Result, error) {
	return g.single(ctx, operations.GraduatesGetStatus, byYear(academicYear, programmeCode))
}

// Foreign handles applicants identified by passport rather than index number.
type Foreign struct{ base }

type ForeignApplicant struct {
	PassportNumber     string
	FirstName          string
	MiddleName         string
	Surname            string
	Gender             string
	CountryCode        string
	DateOfBirth        string
	EntryQualification string
	EmailAddress       string
	MobileNumber       string
}

func (fa ForeignApplicant) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldPassportNumber, fa.PassportNumber,
		r.FieldFirstName, fa.FirstName,
		r.FieldSurname, fa.Surname,
		r.FieldGender, fa.Gender,
		r.FieldCountryCode, fa.CountryCode,
		r.FieldDateOfBirth, fa.DateOfBirth,
		r.FieldEntryQualification, fa.EntryQualification,
	).
		WithOptional(r.FieldMiddleName, fa.MiddleName).
		WithOptional(r.FieldEmailAddress, fa.EmailAddress).
		WithOptional(r.FieldMobileNumber, fa.MobileNumber)
}

func (f *Foreign) AddForeign(ctx context.Context, fa ForeignApplicant) (*dispatcher.Result, error) {
	return f.single(ctx, operations.ForeignAdd, fa.fields())
}

type ForeignProgramme struct {
	PassportNumber    string
	ProgrammeAdmitted string
	AdmissionStatus   string
	Reason            string
	Sponsorship       string
}

func (f *Foreign) SubmitForeignProgramme(ctx context.Context, fp ForeignProgramme) (*dispatcher.Result, error) {
	fields := payload.FieldsOf(
		r.FieldPassportNumber, fp.PassportNumber,
		r.FieldProgrammeAdmitted, fp.ProgrammeAdmitted,
		r.FieldAdmissionStatus, fp.AdmissionStatus,
	).
		WithOptional(r.FieldReason, fp.Reason).
		WithOptional(r.FieldSponsorship, fp.Sponsorship)
	return f.single(ctx, operations.ForeignSubmitProgramme, fields)
}

func (f *Foreign) GetForeignAdmitted(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return f.single(ctx, operations.ForeignGetAdmitted, byProgramme(programmeCode))
}

// Enrollment reports registered students per year of study.
type Enrollment struct{ base }

type Enrollee struct {
	F4IndexNo          string
	RegistrationNumber string
	ProgrammeCode      string
	YearOfStudy        int
	StudyMode          string
	AcademicYear       string
	F6IndexNo          string
	Sponsorship        string
}

func (e Enrollee) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldF4IndexNo, e.F4IndexNo,
		r.FieldRegistrationNumber, e.RegistrationNumber,
		r.FieldProgrammeCode, e.ProgrammeCode,
		r.FieldYearOfStudy, strconv.Itoa(e.YearOfStudy),
		r.FieldStudyMode, e.StudyMode,
		r.FieldAcademicYear, e.AcademicYear,
	).
		WithOptional(r.FieldF6IndexNo, e.F6IndexNo).
		WithOptional(r.FieldSponsorship, e.Sponsorship)
}

func (e *Enrollment) SubmitEnrollment(ctx context.Context, enrollees []Enrollee) (*dispatcher.Result, error) {
	return batch(ctx, e.base, operations.EnrollmentSubmit, enrollees)
}

func (e *Enrollment) GetEnrollmentStatus(ctx context.Context, academicYear, programmeCode string) (*dispatcher.Result, error) {
	return e.single(ctx, operations.EnrollmentGetStatus, byYear(academicYear, programmeCode))
}

// NonDegree covers certificate and diploma students.
type NonDegree struct{ base }

type NonDegreeStudent struct {
	F4IndexNo     string
	FirstName     string
	MiddleName    string
	Surname       string
	Gender        string
	ProgrammeCode string
	Award         string
	AcademicYear  string
	MobileNumber  string
}

func (s NonDegreeStudent) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldF4IndexNo, s.F4IndexNo,
		r.FieldFirstName, s.FirstName,
		r.FieldSurname, s.Surname,
		r.FieldGender, s.Gender,
		r.FieldProgrammeCode, s.ProgrammeCode,
		r.FieldAward, s.Award,
		r.FieldAcademicYear, s.AcademicYear,
	).
		WithOptional(r.FieldMiddleName, s.MiddleName).
		WithOptional(r.FieldMobileNumber, s.MobileNumber)
}

func (n *NonDegree) SubmitNonDegree(ctx context.Context, students []NonDegreeStudent) (*dispatcher.Result, error) {
	return batch(ctx, n.base, operations.NonDegreeSubmit, students)
}

func (n *NonDegree) GetNonDegreeStatus(ctx context.Context, academicYear string) (*dispatcher.Result, error) {
	return n.single(ctx, operations.NonDegreeGetStatus, byYear(academicYear, ""))
}

// Postgraduate covers PGD, masters and doctoral admissions.
type Postgraduate struct{ base }

type PostgraduateStudent struct {
	F4IndexNo           string
	FirstName           string
	MiddleName          string
	Surname             string
	Gender              string
	ProgrammeCode       string
	ProgrammeLevel      string
	AcademicYear        string
	ResearchTitle       string
	SupervisorName      string
	PreviousInstitution string
}

func (s PostgraduateStudent) fields() payload.Fields {
	return payload.FieldsOf(
		r.FieldF4IndexNo, s.F4IndexNo,
		r.FieldFirstName, s.FirstName,
		r.FieldSurname, s.Surname,
		r.FieldGender, s.Gender,
		r.FieldProgrammeCode, s.ProgrammeCode,
		r.FieldProgrammeLevel, s.ProgrammeLevel,
		r.FieldAcademicYear, s.AcademicYear,
	).
		WithOptional(r.FieldMiddleName, s.MiddleName).
		WithOptional(r.FieldResearchTitle, s.ResearchTitle).
		WithOptional(r.FieldSupervisorName, s.SupervisorName).
		WithOptional(r.FieldPreviousInstitution, s.PreviousInstitution)
}

func (p *Postgraduate) SubmitPostgraduate(ctx context.Context, students []PostgraduateStudent) (*dispatcher.Result, error) {
	return batch(ctx, p.base, operations.PostgraduateSubmit, students)
}

func (p *Postgraduate) GetPostgraduateAdmitted(ctx context.Context, programmeCode string) (*dispatcher.Result, error) {
	return p.single(ctx, operations.PostgraduateGetAdmitted, byProgramme(programmeCode))
}

func (p *Postgraduate) GetPostgraduateStatus(ctx context.Context, academicYear string) (*dispatcher.Result, error) {
	return p.single(ctx, operations.PostgraduateGetStatus, byYear(academicYear, ""))
}

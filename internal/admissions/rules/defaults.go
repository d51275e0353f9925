package rules

// Wire field names. They double as XML element names in request envelopes.
const (
	FieldF4IndexNo             = "f4indexno"
	FieldF6IndexNo             = "f6indexno"
	FieldOtherF4IndexNo        = "Other_f4indexno"
	FieldOtherF6IndexNo        = "Other_f6indexno"
	FieldConfirmationCode      = "ConfirmationCode"
	FieldMobileNumber          = "MobileNumber"
	FieldOtherMobileNumber     = "OtherMobileNumber"
	FieldEmailAddress          = "EmailAddress"
	FieldGender                = "Gender"
	FieldCategory              = "Category"
	FieldSponsorship           = "Sponsorship"
	FieldProgrammeCode         = "ProgrammeCode"
	FieldCurrentProgrammeCode  = "CurrentProgrammeCode"
	FieldPreviousProgrammeCode = "PreviousProgrammeCode"
	FieldProgrammeAdmitted     = "ProgrammeAdmitted"
	FieldSelectedProgrammes    = "SelectedProgrammes"
	FieldNationalIDNumber      = "NationalIdNumber"
	FieldReason                = "Reason"
	FieldFirstName             = "FirstName"
	FieldMiddleName            = "MiddleName"
	FieldSurname               = "Surname"
	FieldDateOfBirth           = "DateOfBirth"
	FieldNationality           = "Nationality"
	FieldImpairment            = "Impairment"
	FieldAdmissionStatus       = "AdmissionStatus"
	FieldMales                 = "Males"
	FieldFemales               = "Females"
	FieldYearOfStudy           = "YearOfStudy"
	FieldStudyMode             = "StudyMode"
	FieldRegistrationNumber    = "RegistrationNumber"
	FieldAcademicYear          = "AcademicYear"
	FieldGPA                   = "GPA"
	FieldGraduationDate        = "GraduationDate"
	FieldAwardClass            = "AwardClassification"
	FieldPassportNumber        = "PassportNumber"
	FieldCountryCode           = "CountryCode"
	FieldInstitutionCode       = "InstitutionCode"
	FieldPreviousInstitution   = "PreviousInstitutionCode"
	FieldStaffNumber           = "StaffNumber"
	FieldDesignation           = "Designation"
	FieldQualification         = "HighestQualification"
	FieldEmploymentType        = "EmploymentType"
	FieldProgrammeLevel        = "ProgrammeLevel"
	FieldResearchTitle         = "ResearchTitle"
	FieldSupervisorName        = "SupervisorName"
	FieldAward                 = "Award"
	FieldEntryQualification    = "EntryQualification"
)

// DefaultSpecs returns a fresh copy of the built-in rule table.
func DefaultSpecs() []Spec {
	return []Spec{
		{Field: FieldF4IndexNo, Label: "form four index number", Kind: KindPattern, Pattern: `^[A-Z][0-9]{4}/[0-9]{4}/[0-9]{4}$`},
		{Field: FieldF6IndexNo, Label: "form six index number", Kind: KindPattern, Pattern: `^[A-Z][0-9]{4}/[0-9]{4}/[0-9]{4}$`},
		{Field: FieldOtherF4IndexNo, Label: "other form four index numbers", Kind: KindListOf, Element: FieldF4IndexNo},
		{Field: FieldOtherF6IndexNo, Label: "other form six index numbers", Kind: KindListOf, Element: FieldF6IndexNo},
		// The authority has issued both formats over time; both stay valid.
		{Field: FieldConfirmationCode, Label: "confirmation code", Kind: KindAnyOf, Patterns: []string{
			`^[A-Z][0-9]{4}[A-Z]$`,
			`^[A-Z0-9]{6}$`,
		}},
		{Field: FieldMobileNumber, Label: "mobile number", Kind: KindAnyOf, Patterns: []string{
			`^[0-9]{10}$`,
			`^\+?255[0-9]{9}$`,
		}},
		{Field: FieldOtherMobileNumber, Label: "alternative mobile number", Kind: KindAnyOf, Patterns: []string{
			`^[0-9]{10}$`,
			`^\+?255[0-9]{9}$`,
		}},
		{Field: FieldEmailAddress, Label: "email address", Kind: KindEmail},
		{Field: FieldGender, Label: "gender", Kind: KindEnum, Allowed: []string{"M", "F"}},
		{Field: FieldCategory, Label: "applicant category", Kind: KindEnum, Allowed: []string{"A", "B", "C", "D", "E", "F", "G"}},
		{Field: FieldSponsorship, Label: "sponsorship", Kind: KindEnum, Allowed: []string{"Government", "Private"}},
		{Field: FieldProgrammeCode, Label: "programme code", Kind: KindPattern, Pattern: `^[A-Z]{2}[0-9]{3}$`},
		{Field: FieldCurrentProgrammeCode, Label: "current programme code", Kind: KindPattern, Pattern: `^[A-Z]{2}[0-9]{3}$`},
		{Field: FieldPreviousProgrammeCode, Label: "previous programme code", Kind: KindPattern, Pattern: `^[A-Z]{2}[0-9]{3}$`},
		{Field: FieldProgrammeAdmitted, Label: "admitted programme code", Kind: KindPattern, Pattern: `^[A-Z]{2}[0-9]{3}$`},
		{Field: FieldSelectedProgrammes, Label: "selected programmes", Kind: KindListOf, Element: FieldProgrammeCode},
		{Field: FieldNationalIDNumber, Label: "national identification number", Kind: KindPattern, Pattern: `^[0-9]{8}-[0-9]{5}-[0-9]{5}-[0-9]{2}$`},
		{Field: FieldReason, Label: "reason", Kind: KindText, MinLength: 1, MaxLength: 255},
		{Field: FieldFirstName, Label: "first name", Kind: KindText, MinLength: 1, MaxLength: 64},
		{Field: FieldMiddleName, Label: "middle name", Kind: KindText, MinLength: 1, MaxLength: 64},
		{Field: FieldSurname, Label: "surname", Kind: KindText, MinLength: 1, MaxLength: 64},
		{Field: FieldDateOfBirth, Label: "date of birth", Kind: KindDate},
		{Field: FieldNationality, Label: "nationality", Kind: KindText, MinLength: 2, MaxLength: 64},
		{Field: FieldImpairment, Label: "impairment", Kind: KindEnum, Allowed: []string{"None", "Visual", "Hearing", "Physical", "Intellectual", "Multiple", "Other"}},
		{Field: FieldAdmissionStatus, Label: "admission status", Kind: KindEnum, Allowed: []string{"Provisional", "Admitted", "NotAdmitted"}},
		{Field: FieldMales, Label: "male applicants", Kind: KindIntRange, Min: 0, Max: 100000},
		{Field: FieldFemales, Label: "female applicants", Kind: KindIntRange, Min: 0, Max: 100000},
		{Field: FieldYearOfStudy, Label: "year of study", Kind: KindIntRange, Min: 1, Max: 7},
		{Field: FieldStudyMode, Label: "study mode", Kind: KindEnum, Allowed: []string{"FullTime", "PartTime", "Distance"}},
		{Field: FieldRegistrationNumber, Label: "registration number", Kind: KindPattern, Pattern: `^[A-Za-z0-9/\-]{3,32}$`},
		{Field: FieldAcademicYear, Label: "academic year", Kind: KindPattern, Pattern: `^[0-9]{4}/[0-9]{4}$`},
		{Field: FieldGPA, Label: "grade point average", Kind: KindDecimalRange, MinDecimal: 0, MaxDecimal: 5},
		{Field: FieldGraduationDate, Label: "graduation date", Kind: KindDate},
		{Field: FieldAwardClass, Label: "award classification", Kind: KindEnum, Allowed: []string{"First Class", "Upper Second", "Lower Second", "Pass", "Distinction", "Credit"}},
		{Field: FieldPassportNumber, Label: "passport number", Kind: KindPattern, Pattern: `^[A-Z0-9]{6,12}$`},
		{Field: FieldCountryCode, Label: "country code", Kind: KindPattern, Pattern: `^[A-Z]{2}$`},
		{Field: FieldInstitutionCode, Label: "institution code", Kind: KindPattern, Pattern: `^[A-Z]{2,6}[0-9]{0,3}$`},
		{Field: FieldPreviousInstitution, Label: "previous institution code", Kind: KindPattern, Pattern: `^[A-Z]{2,6}[0-9]{0,3}$`},
		{Field: FieldStaffNumber, Label: "staff number", Kind: KindPattern, Pattern: `^[A-Za-z0-9/\-]{2,32}$`},
		{Field: FieldDesignation, Label: "designation", Kind: KindText, MinLength: 2, MaxLength: 128},
		{Field: FieldQualification, Label: "highest qualification", Kind: KindEnum, Allowed: []string{"Diploma", "Bachelor", "Masters", "PhD"}},
		{Field: FieldEmploymentType, Label: "employment type", Kind: KindEnum, Allowed: []string{"Permanent", "Contract", "PartTime"}},
		{Field: FieldProgrammeLevel, Label: "programme level", Kind: KindEnum, Allowed: []string{"PGD", "Masters", "PhD"}},
		{Field: FieldResearchTitle, Label: "research title", Kind: KindText, MinLength: 1, MaxLength: 500},
		{Field: FieldSupervisorName, Label: "supervisor name", Kind: KindText, MinLength: 2, MaxLength: 128},
		{Field: FieldAward, Label: "award", Kind: KindEnum, Allowed: []string{"Certificate", "Diploma"}},
		{Field: FieldEntryQualification, Label: "entry qualification", Kind: KindText, MinLength: 2, MaxLength: 128},
	}
}

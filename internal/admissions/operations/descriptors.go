package operations

import r "tcubridge/internal/admissions/rules"

const (
	ApplicantsCheckStatus             Name = "applicants.checkStatus"
	ApplicantsAdd                     Name = "applicants.add"
	ApplicantsSubmitProgramme         Name = "applicants.submitProgramme"
	ApplicantsResubmit                Name = "applicants.resubmit"
	ApplicantsGetAdmitted             Name = "applicants.getAdmitted"
	ApplicantsGetStatus               Name = "applicants.getStatus"
	ApplicantsGetConfirmed            Name = "applicants.getConfirmed"
	ApplicantsRequestConfirmationCode Name = "applicants.requestConfirmationCode"
	ApplicantsGetProgrammes           Name = "applicants.getProgrammes"

	AdmissionsConfirm          Name = "admissions.confirm"
	AdmissionsUnconfirm        Name = "admissions.unconfirm"
	AdmissionsReject           Name = "admissions.reject"
	AdmissionsRestoreCancelled Name = "admissions.restoreCancelled"

	DashboardPopulate     Name = "dashboard.populate"
	DashboardGetDashboard Name = "dashboard.getDashboard"

	TransfersSubmitInternal              Name = "transfers.submitInternal"
	TransfersSubmitInterInstitutional    Name = "transfers.submitInterInstitutional"
	TransfersGetInternalStatus           Name = "transfers.getInternalStatus"
	TransfersGetInterInstitutionalStatus Name = "transfers.getInterInstitutionalStatus"

	VerificationSubmit          Name = "verification.submitVerification"
	VerificationGetStatus       Name = "verification.getVerificationStatus"
	VerificationCheckNationalID Name = "verification.checkNationalId"

	StaffSubmit    Name = "staff.submitStaff"
	StaffGetStatus Name = "staff.getStaffStatus"

	GraduatesSubmit    Name = "graduates.submitGraduates"
	GraduatesGetStatus Name = "graduates.getGraduatesStatus"

	ForeignAdd             Name = "foreign.addForeign"
	ForeignSubmitProgramme Name = "foreign.submitForeignProgramme"
	ForeignGetAdmitted     Name = "foreign.getForeignAdmitted"

	EnrollmentSubmit    Name = "enrollment.submitEnrollment"
	EnrollmentGetStatus Name = "enrollment.getEnrollmentStatus"

	NonDegreeSubmit    Name = "nondegree.submitNonDegree"
	NonDegreeGetStatus Name = "nondegree.getNonDegreeStatus"

	PostgraduateSubmit      Name = "postgraduate.submitPostgraduate"
	PostgraduateGetAdmitted Name = "postgraduate.getPostgraduateAdmitted"
	PostgraduateGetStatus   Name = "postgraduate.getPostgraduateStatus"
)

// maxBatch is the authority's documented ceiling on blocks per envelope.
const maxBatch = 500

// DefaultDescriptors returns a fresh copy of the built-in operation table.
func DefaultDescriptors() []Descriptor {
	applicant := []string{r.FieldF4IndexNo, r.FieldF6IndexNo, r.FieldGender, r.FieldCategory}
	programmeSubmission := []string{
		r.FieldF4IndexNo, r.FieldF6IndexNo, r.FieldSelectedProgrammes, r.FieldMobileNumber,
		r.FieldEmailAddress, r.FieldAdmissionStatus, r.FieldProgrammeAdmitted,
	}
	programmeSubmissionOptional := []string{
		r.FieldOtherMobileNumber, r.FieldReason, r.FieldNationality, r.FieldImpairment,
		r.FieldDateOfBirth, r.FieldNationalIDNumber, r.FieldOtherF4IndexNo, r.FieldOtherF6IndexNo,
		r.FieldCategory, r.FieldSponsorship,
	}
	byProgramme := []string{r.FieldProgrammeCode}

	return []Descriptor{
		// applicants
		{
			Name: ApplicantsCheckStatus, Resource: ResourceApplicants, Path: "/applicants/checkStatus",
			Summary:  "Check whether an applicant holds an admission elsewhere",
			Required: []string{r.FieldF4IndexNo},
			Optional: []string{r.FieldF6IndexNo, r.FieldOtherF4IndexNo, r.FieldOtherF6IndexNo},
		},
		{
			Name: ApplicantsAdd, Resource: ResourceApplicants, Path: "/applicants/add",
			Summary:  "Register an applicant with the authority",
			Required: applicant,
			Optional: []string{r.FieldOtherF4IndexNo, r.FieldOtherF6IndexNo, r.FieldNationality, r.FieldDateOfBirth},
		},
		{
			Name: ApplicantsSubmitProgramme, Resource: ResourceApplicants, Path: "/applicants/submitProgramme",
			Summary:     "Submit an applicant's selected and admitted programmes",
			Required:    programmeSubmission,
			Optional:    programmeSubmissionOptional,
			Passthrough: []string{"Remarks"},
		},
		{
			Name: ApplicantsResubmit, Resource: ResourceApplicants, Path: "/applicants/resubmit",
			Summary:     "Resubmit a corrected programme submission",
			Required:    programmeSubmission,
			Optional:    programmeSubmissionOptional,
			Passthrough: []string{"Remarks"},
		},
		{
			Name: ApplicantsGetAdmitted, Resource: ResourceApplicants, Path: "/applicants/getAdmitted",
			Summary: "List applicants admitted to a programme", Required: byProgramme, Shape: ShapeList,
		},
		{
			Name: ApplicantsGetStatus, Resource: ResourceApplicants, Path: "/applicants/getStatus",
			Summary: "List admission status of a programme's applicants", Required: byProgramme, Shape: ShapeList,
		},
		{
			Name: ApplicantsGetConfirmed, Resource: ResourceApplicants, Path: "/applicants/getConfirmed",
			Summary: "List applicants who confirmed a programme", Required: byProgramme, Shape: ShapeList,
		},
		{
			Name: ApplicantsRequestConfirmationCode, Resource: ResourceApplicants, Path: "/applicants/requestConfirmationCode",
			Summary:  "Ask the authority to resend a confirmation code",
			Required: []string{r.FieldF4IndexNo, r.FieldMobileNumber},
			Optional: []string{r.FieldEmailAddress},
		},
		{
			Name: ApplicantsGetProgrammes, Resource: ResourceApplicants, Path: "/applicants/getProgrammes",
			Summary: "List programmes registered for the institution", Optional: []string{r.FieldAcademicYear}, Shape: ShapeList,
		},

		// admissions
		{
			Name: AdmissionsConfirm, Resource: ResourceAdmissions, Path: "/admission/confirm",
			Summary:  "Confirm a multiple-admission applicant's choice",
			Required: []string{r.FieldF4IndexNo, r.FieldConfirmationCode},
		},
		{
			Name: AdmissionsUnconfirm, Resource: ResourceAdmissions, Path: "/admission/unconfirm",
			Summary:  "Withdraw a confirmation",
			Required: []string{r.FieldF4IndexNo, r.FieldReason},
		},
		{
			Name: AdmissionsReject, Resource: ResourceAdmissions, Path: "/admission/reject",
			Summary:  "Reject or cancel an applicant's admission",
			Required: []string{r.FieldF4IndexNo, r.FieldReason},
			Optional: []string{r.FieldProgrammeCode},
		},
		{
			Name: AdmissionsRestoreCancelled, Resource: ResourceAdmissions, Path: "/admission/restoreCancelledAdmission",
			Summary:  "Restore a previously cancelled admission",
			Required: []string{r.FieldF4IndexNo, r.FieldProgrammeCode, r.FieldReason},
		},

		// dashboard
		{
			Name: DashboardPopulate, Resource: ResourceDashboard, Path: "/dashboard/populate",
			Summary:  "Report applicant counts per programme",
			Required: []string{r.FieldProgrammeCode, r.FieldMales, r.FieldFemales},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: DashboardGetDashboard, Resource: ResourceDashboard, Path: "/dashboard/get",
			Summary: "Fetch the institution's dashboard figures", Optional: []string{r.FieldProgrammeCode}, Shape: ShapeList,
		},

		// transfers
		{
			Name: TransfersSubmitInternal, Resource: ResourceTransfers, Path: "/transfers/submitInternalTransfers",
			Summary:  "Submit transfers between programmes of this institution",
			Required: []string{r.FieldF4IndexNo, r.FieldF6IndexNo, r.FieldCurrentProgrammeCode, r.FieldPreviousProgrammeCode},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: TransfersSubmitInterInstitutional, Resource: ResourceTransfers, Path: "/transfers/submitInterInstitutionalTransfers",
			Summary: "Submit transfers arriving from another institution",
			Required: []string{
				r.FieldF4IndexNo, r.FieldF6IndexNo, r.FieldCurrentProgrammeCode,
				r.FieldPreviousProgrammeCode, r.FieldPreviousInstitution,
			},
			Batch: true, MaxSubjects: maxBatch,
		},
		{
			Name: TransfersGetInternalStatus, Resource: ResourceTransfers, Path: "/transfers/getInternalTransferStatus",
			Summary: "Internal transfer decisions for a programme", Required: byProgramme, Shape: ShapeList,
		},
		{
			Name: TransfersGetInterInstitutionalStatus, Resource: ResourceTransfers, Path: "/transfers/getInterInstitutionalTransferStatus",
			Summary: "Inter-institutional transfer decisions for a programme", Required: byProgramme, Shape: ShapeList,
		},

		// verification
		{
			Name: VerificationSubmit, Resource: ResourceVerification, Path: "/verification/submit",
			Summary:  "Submit applicants for certificate verification",
			Required: []string{r.FieldF4IndexNo, r.FieldProgrammeCode},
			Optional: []string{r.FieldF6IndexNo, r.FieldNationalIDNumber},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: VerificationGetStatus, Resource: ResourceVerification, Path: "/verification/getApplicantVerificationStatus",
			Summary: "Verification outcomes for a programme", Required: byProgramme, Shape: ShapeList,
		},
		{
			Name: VerificationCheckNationalID, Resource: ResourceVerification, Path: "/verification/checkNationalId",
			Summary:  "Match a national identification number against an applicant",
			Required: []string{r.FieldNationalIDNumber, r.FieldF4IndexNo},
		},

		// staff
		{
			Name: StaffSubmit, Resource: ResourceStaff, Path: "/staff/submit",
			Summary: "Submit academic staff records",
			Required: []string{
				r.FieldStaffNumber, r.FieldFirstName, r.FieldSurname, r.FieldGender,
				r.FieldNationality, r.FieldQualification, r.FieldDesignation, r.FieldEmploymentType,
			},
			Optional: []string{r.FieldMiddleName, r.FieldDateOfBirth, r.FieldNationalIDNumber, r.FieldEmailAddress, r.FieldMobileNumber},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: StaffGetStatus, Resource: ResourceStaff, Path: "/staff/getStatus",
			Summary: "Staff submission status", Optional: []string{r.FieldAcademicYear}, Shape: ShapeList,
		},

		// graduates
		{
			Name: GraduatesSubmit, Resource: ResourceGraduates, Path: "/graduates/submit",
			Summary: "Submit graduates of an academic year",
			Required: []string{
				r.FieldF4IndexNo, r.FieldRegistrationNumber, r.FieldFirstName, r.FieldSurname, r.FieldGender,
				r.FieldProgrammeCode, r.FieldGPA, r.FieldAwardClass, r.FieldGraduationDate, r.FieldAcademicYear,
			},
			Optional: []string{r.FieldMiddleName, r.FieldF6IndexNo, r.FieldNationalIDNumber},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: GraduatesGetStatus, Resource: ResourceGraduates, Path: "/graduates/getStatus",
			Summary: "Graduate submission status", Required: []string{r.FieldAcademicYear}, Optional: byProgramme, Shape: ShapeList,
		},

		// foreign applicants
		{
			Name: ForeignAdd, Resource: ResourceForeign, Path: "/foreign/add",
			Summary: "Register a foreign applicant",
			Required: []string{
				r.FieldPassportNumber, r.FieldFirstName, r.FieldSurname, r.FieldGender,
				r.FieldCountryCode, r.FieldDateOfBirth, r.FieldEntryQualification,
			},
			Optional: []string{r.FieldMiddleName, r.FieldEmailAddress, r.FieldMobileNumber},
		},
		{
			Name: ForeignSubmitProgramme, Resource: ResourceForeign, Path: "/foreign/submitProgramme",
			Summary:  "Submit a foreign applicant's programme",
			Required: []string{r.FieldPassportNumber, r.FieldProgrammeAdmitted, r.FieldAdmissionStatus},
			Optional: []string{r.FieldReason, r.FieldSponsorship},
		},
		{
			Name: ForeignGetAdmitted, Resource: ResourceForeign, Path: "/foreign/getAdmitted",
			Summary: "List admitted foreign applicants for a programme", Required: byProgramme, Shape: ShapeList,
		},

		// enrollment
		{
			Name: EnrollmentSubmit, Resource: ResourceEnrollment, Path: "/enrollment/submit",
			Summary: "Submit enrolled students",
			Required: []string{
				r.FieldF4IndexNo, r.FieldRegistrationNumber, r.FieldProgrammeCode,
				r.FieldYearOfStudy, r.FieldStudyMode, r.FieldAcademicYear,
			},
			Optional: []string{r.FieldF6IndexNo, r.FieldSponsorship},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: EnrollmentGetStatus, Resource: ResourceEnrollment, Path: "/enrollment/getStatus",
			Summary: "Enrollment submission status", Required: []string{r.FieldAcademicYear}, Optional: byProgramme, Shape: ShapeList,
		},

		// non-degree
		{
			Name: NonDegreeSubmit, Resource: ResourceNonDegree, Path: "/nondegree/submit",
			Summary: "Submit certificate and diploma students",
			Required: []string{
				r.FieldF4IndexNo, r.FieldFirstName, r.FieldSurname, r.FieldGender,
				r.FieldProgrammeCode, r.FieldAward, r.FieldAcademicYear,
			},
			Optional: []string{r.FieldMiddleName, r.FieldMobileNumber},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: NonDegreeGetStatus, Resource: ResourceNonDegree, Path: "/nondegree/getStatus",
			Summary: "Non-degree submission status", Required: []string{r.FieldAcademicYear}, Shape: ShapeList,
		},

		// postgraduate
		{
			Name: PostgraduateSubmit, Resource: ResourcePostgraduate, Path: "/postgraduate/submit",
			Summary: "Submit postgraduate admissions",
			Required: []string{
				r.FieldF4IndexNo, r.FieldFirstName, r.FieldSurname, r.FieldGender,
				r.FieldProgrammeCode, r.FieldProgrammeLevel, r.FieldAcademicYear,
			},
			Optional: []string{r.FieldMiddleName, r.FieldResearchTitle, r.FieldSupervisorName, r.FieldPreviousInstitution},
			Batch:    true, MaxSubjects: maxBatch,
		},
		{
			Name: PostgraduateGetAdmitted, Resource: ResourcePostgraduate, Path: "/postgraduate/getAdmitted",
			Summary: "List admitted postgraduate students", Required: byProgramme, Shape: ShapeList,
		},
		{
			Name: PostgraduateGetStatus, Resource: ResourcePostgraduate, Path: "/postgraduate/getStatus",
			Summary: "Postgraduate submission status", Required: []string{r.FieldAcademicYear}, Shape: ShapeList,
		},
	}
}

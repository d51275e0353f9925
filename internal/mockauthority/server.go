// Package mockauthority is a local stand-in for the admissions authority. It
// serves every catalog operation at its path, checks the session token and
// mandatory fields, and answers with deterministic status codes backed by an
// in-memory ledger. It is for development and end-to-end tests only.
package mockauthority

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	r "tcubridge/internal/admissions/rules"
	"tcubridge/pkg/platform/privacy"
)

const maxRequestBytes = 4 << 20

// Status codes the stub answers with. They follow the authority's published
// table.
const (
	codeOK                = 200
	codePriorAdmission    = 201
	codeClear             = 202
	codeBadSession        = 204
	codeMalformedRequest  = 205
	codeNotFound          = 207
	codeMissingParameter  = 208
	codeConfirmed         = 209
	codeCodeMismatch      = 210
	codeAlreadyConfirmed  = 211
	codeUnconfirmed       = 212
	codeNotConfirmed      = 213
	codeTransferSubmitted = 218
	codeDuplicate         = 221
	codeGraduatesOK       = 222
	codeStaffOK           = 223
	codeVerificationOK    = 230
	codeEnrollmentOK      = 231
	codeForeignOK         = 233
	codeBatchSize         = 234
)

var descriptions = map[int]string{
	codeOK:                "Successful",
	codePriorAdmission:    "Applicant has a prior admission",
	codeClear:             "Applicant is clear to proceed",
	codeBadSession:        "Invalid or expired session token",
	codeMalformedRequest:  "Malformed request structure",
	codeNotFound:          "Applicant not found",
	codeMissingParameter:  "Missing mandatory parameter",
	codeConfirmed:         "Admission confirmed",
	codeCodeMismatch:      "Confirmation code does not match",
	codeAlreadyConfirmed:  "Admission already confirmed",
	codeUnconfirmed:       "Admission unconfirmed",
	codeNotConfirmed:      "Admission not confirmed",
	codeTransferSubmitted: "Transfer submitted",
	codeDuplicate:         "Record already submitted",
	codeGraduatesOK:       "Graduates submitted",
	codeStaffOK:           "Staff submitted",
	codeVerificationOK:    "Verification submitted",
	codeEnrollmentOK:      "Enrollment submitted",
	codeForeignOK:         "Foreign applicant registered",
	codeBatchSize:         "Invalid batch size",
}

// batchSuccess is the acknowledgement code of each batch submission.
var batchSuccess = map[operations.Name]int{
	operations.DashboardPopulate:                 codeOK,
	operations.TransfersSubmitInternal:           codeTransferSubmitted,
	operations.TransfersSubmitInterInstitutional: codeTransferSubmitted,
	operations.VerificationSubmit:                codeVerificationOK,
	operations.StaffSubmit:                       codeStaffOK,
	operations.GraduatesSubmit:                   codeGraduatesOK,
	operations.EnrollmentSubmit:                  codeEnrollmentOK,
	operations.NonDegreeSubmit:                   codeOK,
	operations.PostgraduateSubmit:                codeOK,
}

// listSource maps a query operation onto the submissions it reports.
type listSource struct {
	from   operations.Name
	stored string
	query  string
}

var listSources = map[operations.Name]listSource{
	operations.DashboardGetDashboard:                {operations.DashboardPopulate, r.FieldProgrammeCode, r.FieldProgrammeCode},
	operations.TransfersGetInternalStatus:           {operations.TransfersSubmitInternal, r.FieldCurrentProgrammeCode, r.FieldProgrammeCode},
	operations.TransfersGetInterInstitutionalStatus: {operations.TransfersSubmitInterInstitutional, r.FieldCurrentProgrammeCode, r.FieldProgrammeCode},
	operations.VerificationGetStatus:                {operations.VerificationSubmit, r.FieldProgrammeCode, r.FieldProgrammeCode},
	operations.StaffGetStatus:                       {operations.StaffSubmit, "", ""},
	operations.GraduatesGetStatus:                   {operations.GraduatesSubmit, r.FieldAcademicYear, r.FieldAcademicYear},
	operations.EnrollmentGetStatus:                  {operations.EnrollmentSubmit, r.FieldAcademicYear, r.FieldAcademicYear},
	operations.NonDegreeGetStatus:                   {operations.NonDegreeSubmit, r.FieldAcademicYear, r.FieldAcademicYear},
	operations.PostgraduateGetStatus:                {operations.PostgraduateSubmit, r.FieldAcademicYear, r.FieldAcademicYear},
	operations.PostgraduateGetAdmitted:              {operations.PostgraduateSubmit, r.FieldProgrammeCode, r.FieldProgrammeCode},
	operations.ForeignGetAdmitted:                   {operations.ForeignSubmitProgramme, r.FieldProgrammeAdmitted, r.FieldProgrammeCode},
}

// Server answers authority requests.
type Server struct {
	catalog     *operations.Catalog
	token       privacy.Secret
	institution string
	state       *state
	logger      *slog.Logger
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessionToken makes the stub reject any other token with code 204. With
// no token configured every non-empty token is accepted.
func WithSessionToken(token privacy.Secret) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithInstitution names the institution the stub believes it is talking to.
// Admissions held elsewhere surface as prior admissions.
func WithInstitution(code string) Option {
	return func(s *Server) {
		s.institution = code
	}
}

// WithAdmissions seeds the ledger.
func WithAdmissions(seed ...Admission) Option {
	return func(s *Server) {
		s.state = newState(seed)
	}
}

// DefaultAdmissions is the ledger the stub starts with: one applicant
// admitted elsewhere awaiting confirmation, and one already confirmed.
func DefaultAdmissions() []Admission {
	return []Admission{
		{F4IndexNo: "S0101/0001/2017", Institution: "MUHAS", ProgrammeCode: "MD001", ConfirmationCode: "A1234B"},
		{F4IndexNo: "S0202/0002/2017", Institution: "UDSM", ProgrammeCode: "UD023", ConfirmationCode: "B2345C", Confirmed: true},
	}
}

func New(catalog *operations.Catalog, opts ...Option) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	s := &Server{
		catalog:     catalog,
		institution: "UDSM",
		state:       newState(DefaultAdmissions()),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register mounts one POST route per catalog operation.
func (s *Server) Register(router chi.Router) {
	for _, d := range s.catalog.All() {
		router.Post(d.Path, s.handle(d))
	}
}

// Handler returns a router with the standard middleware stack.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.Register(router)
	return router
}

func (s *Server) handle(desc operations.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		body, err := io.ReadAll(io.LimitReader(req.Body, maxRequestBytes))
		if err != nil {
			s.write(w, req, desc, status(codeMalformedRequest))
			return
		}

		in, err := decodeRequest(body)
		if err != nil {
			s.logger.InfoContext(ctx, "mock authority rejected envelope",
				"request_id", middleware.GetReqID(ctx),
				"operation", desc.Name,
				"error", err,
			)
			s.write(w, req, desc, status(codeMalformedRequest))
			return
		}
		if in.Username == "" || in.SessionToken == "" ||
			(!s.token.IsZero() && in.SessionToken != s.token.Reveal()) {
			s.write(w, req, desc, status(codeBadSession))
			return
		}
		if !desc.Batch && len(in.Blocks) != 1 {
			s.write(w, req, desc, status(codeMalformedRequest))
			return
		}
		if desc.Batch && desc.MaxSubjects > 0 && len(in.Blocks) > desc.MaxSubjects {
			s.write(w, req, desc, status(codeBatchSize))
			return
		}
		for _, block := range in.Blocks {
			if missing := missingRequired(desc, block); missing != "" {
				rep := status(codeMissingParameter)
				rep.Description += ": " + missing
				s.write(w, req, desc, rep)
				return
			}
		}

		if desc.Batch {
			s.write(w, req, desc, s.submitBatch(desc, in.Blocks))
			return
		}
		s.write(w, req, desc, s.respond(desc, in.Blocks[0]))
	}
}

func (s *Server) write(w http.ResponseWriter, req *http.Request, desc operations.Descriptor, rep reply) {
	out, err := rep.encode()
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	s.logger.InfoContext(req.Context(), "mock authority answered",
		"request_id", middleware.GetReqID(req.Context()),
		"operation", desc.Name,
		"status_code", rep.Code,
		"records", len(rep.Records),
	)
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) respond(desc operations.Descriptor, f payload.Fields) reply {
	f4 := f.Value(r.FieldF4IndexNo)

	switch desc.Name {
	case operations.ApplicantsCheckStatus:
		if a, ok := s.state.admission(f4); ok && !a.Cancelled && a.Institution != s.institution {
			rep := status(codePriorAdmission)
			rep.Records = []replyRecord{{Fields: payload.FieldsOf(
				r.FieldF4IndexNo, f4,
				r.FieldInstitutionCode, a.Institution,
				r.FieldProgrammeCode, a.ProgrammeCode,
				r.FieldAdmissionStatus, "Admitted",
			)}}
			return rep
		}
		rep := status(codeClear)
		rep.Records = []replyRecord{{Fields: payload.FieldsOf(r.FieldF4IndexNo, f4)}}
		return rep

	case operations.ApplicantsAdd:
		return s.submitOne(desc.Name, f4, f, codeOK)

	case operations.ApplicantsSubmitProgramme:
		rep := s.submitOne(desc.Name, f4, f, codeOK)
		if rep.Code == codeOK && f.Value(r.FieldAdmissionStatus) == "Admitted" {
			s.state.admit(Admission{
				F4IndexNo:        f4,
				Institution:      s.institution,
				ProgrammeCode:    f.Value(r.FieldProgrammeAdmitted),
				ConfirmationCode: confirmationCodeFor(f4),
			})
		}
		return rep

	case operations.ApplicantsResubmit:
		if _, ok := s.state.lookup(operations.ApplicantsSubmitProgramme, f4); !ok {
			return status(codeNotFound)
		}
		s.state.put(operations.ApplicantsSubmitProgramme, f4, f)
		return status(codeOK)

	case operations.ApplicantsGetAdmitted, operations.ApplicantsGetStatus, operations.ApplicantsGetConfirmed:
		rep := status(codeOK)
		for _, a := range s.state.admittedTo(f.Value(r.FieldProgrammeCode)) {
			if desc.Name == operations.ApplicantsGetConfirmed && !a.Confirmed {
				continue
			}
			rep.Records = append(rep.Records, replyRecord{Fields: admissionFields(a)})
		}
		return rep

	case operations.ApplicantsRequestConfirmationCode:
		if _, ok := s.state.admission(f4); !ok {
			return status(codeNotFound)
		}
		return status(codeOK)

	case operations.ApplicantsGetProgrammes:
		rep := status(codeOK)
		seen := map[string]bool{}
		for _, sub := range s.state.list(operations.ApplicantsSubmitProgramme, "", "") {
			code := sub.Value(r.FieldProgrammeAdmitted)
			if code != "" && !seen[code] {
				seen[code] = true
				rep.Records = append(rep.Records, replyRecord{Fields: payload.FieldsOf(r.FieldProgrammeCode, code)})
			}
		}
		return rep

	case operations.AdmissionsConfirm:
		code := codeConfirmed
		found := s.state.update(f4, func(a *Admission) {
			switch {
			case a.Confirmed:
				code = codeAlreadyConfirmed
			case a.ConfirmationCode != f.Value(r.FieldConfirmationCode):
				code = codeCodeMismatch
			default:
				a.Confirmed = true
			}
		})
		if !found {
			return status(codeNotFound)
		}
		return status(code)

	case operations.AdmissionsUnconfirm:
		code := codeUnconfirmed
		found := s.state.update(f4, func(a *Admission) {
			if !a.Confirmed {
				code = codeNotConfirmed
				return
			}
			a.Confirmed = false
		})
		if !found {
			return status(codeNotFound)
		}
		return status(code)

	case operations.AdmissionsReject, operations.AdmissionsRestoreCancelled:
		cancel := desc.Name == operations.AdmissionsReject
		if !s.state.update(f4, func(a *Admission) { a.Cancelled = cancel }) {
			return status(codeNotFound)
		}
		return status(codeOK)

	case operations.VerificationCheckNationalID:
		sub, ok := s.state.lookup(operations.VerificationSubmit, f4)
		if !ok || sub.Value(r.FieldNationalIDNumber) != f.Value(r.FieldNationalIDNumber) {
			return status(codeNotFound)
		}
		rep := status(codeOK)
		rep.Records = []replyRecord{{Fields: sub}}
		return rep

	case operations.ForeignAdd:
		return s.submitOne(desc.Name, f.Value(r.FieldPassportNumber), f, codeForeignOK)

	case operations.ForeignSubmitProgramme:
		passport := f.Value(r.FieldPassportNumber)
		if _, ok := s.state.lookup(operations.ForeignAdd, passport); !ok {
			return status(codeNotFound)
		}
		s.state.put(desc.Name, passport, f)
		return status(codeOK)
	}

	if src, ok := listSources[desc.Name]; ok {
		field, value := src.stored, f.Value(src.query)
		if value == "" {
			field = ""
		}
		rep := status(codeOK)
		for _, sub := range s.state.list(src.from, field, value) {
			rep.Records = append(rep.Records, replyRecord{Fields: sub})
		}
		return rep
	}
	return status(codeOK)
}

func (s *Server) submitOne(op operations.Name, key string, f payload.Fields, okCode int) reply {
	if !s.state.submit(op, key, f) {
		return status(codeDuplicate)
	}
	return status(okCode)
}

// submitBatch acknowledges each block with its own status. Dashboard counts
// overwrite; every other submission is rejected per block when repeated.
func (s *Server) submitBatch(desc operations.Descriptor, blocks []payload.Fields) reply {
	okCode := batchSuccess[desc.Name]
	if okCode == 0 {
		okCode = codeOK
	}
	rep := status(okCode)
	for _, block := range blocks {
		key := subjectKey(desc, block)
		code := okCode
		if desc.Name == operations.DashboardPopulate {
			s.state.put(desc.Name, key, block)
		} else if !s.state.submit(desc.Name, key, block) {
			code = codeDuplicate
		}
		first := desc.Required[0]
		rep.Records = append(rep.Records, replyRecord{
			Fields:      payload.FieldsOf(first, block.Value(first)),
			Code:        code,
			Description: descriptions[code],
		})
	}
	return rep
}

func subjectKey(desc operations.Descriptor, block payload.Fields) string {
	key := block.Value(desc.Required[0])
	if year := block.Value(r.FieldAcademicYear); year != "" {
		key += "|" + year
	}
	return key
}

func missingRequired(desc operations.Descriptor, block payload.Fields) string {
	var missing []string
	for _, name := range desc.Required {
		if strings.TrimSpace(block.Value(name)) == "" {
			missing = append(missing, name)
		}
	}
	return strings.Join(missing, ", ")
}

func admissionFields(a Admission) payload.Fields {
	confirmed := "No"
	if a.Confirmed {
		confirmed = "Yes"
	}
	return payload.FieldsOf(
		r.FieldF4IndexNo, a.F4IndexNo,
		r.FieldProgrammeCode, a.ProgrammeCode,
		r.FieldAdmissionStatus, "Admitted",
		"Confirmed", confirmed,
	)
}

// confirmationCodeFor derives a stable code in the letter-digits-letter form.
func confirmationCodeFor(f4 string) string {
	var sum int
	for _, c := range f4 {
		sum = (sum*31 + int(c)) % 10000
	}
	return fmt.Sprintf("C%04dX", sum)
}

func status(code int) reply {
	return reply{Code: code, Description: descriptions[code]}
}

package mockauthority

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"tcubridge/internal/admissions/envelope"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	"tcubridge/internal/admissions/rules"
	"tcubridge/pkg/platform/privacy"
	"tcubridge/pkg/testutil"
)

type ServerSuite struct {
	suite.Suite
	stub    *Server
	server  *httptest.Server
	catalog *operations.Catalog
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	cat, err := operations.Default(rules.Default())
	s.Require().NoError(err)
	s.catalog = cat

	srv, err := New(cat,
		WithLogger(testutil.QuietLogger()),
		WithSessionToken(privacy.NewSecret("good-token")),
	)
	s.Require().NoError(err)
	s.stub = srv
	s.server = httptest.NewServer(srv.Handler())
}

func (s *ServerSuite) TearDownTest() {
	s.server.Close()
}

// call sends p under token and parses the answer.
func (s *ServerSuite) call(token string, p payload.Payload) *envelope.Response {
	env, err := envelope.Build(envelope.Identity{Username: "UDSM", SessionToken: privacy.NewSecret(token)}, p)
	s.Require().NoError(err)
	body, err := env.Marshal()
	s.Require().NoError(err)
	return s.post(p.Operation, string(body))
}

func (s *ServerSuite) post(op operations.Name, body string) *envelope.Response {
	desc, ok := s.catalog.Lookup(op)
	s.Require().True(ok)
	resp, err := http.Post(s.server.URL+desc.Path, "application/xml", strings.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	parsed, err := envelope.Parse(raw)
	s.Require().NoError(err, string(raw))
	return parsed
}

func (s *ServerSuite) TestEveryOperationIsRouted() {
	for _, d := range s.catalog.All() {
		resp, err := http.Post(s.server.URL+d.Path, "application/xml", strings.NewReader("not xml"))
		s.Require().NoError(err)
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode, d.Path)
	}
}

func (s *ServerSuite) TestHealthz() {
	rr := testutil.DoRequest(s.stub.Handler(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *ServerSuite) TestEnvelopeWithoutParameters() {
	desc, ok := s.catalog.Lookup(operations.ApplicantsCheckStatus)
	s.Require().True(ok)
	req := testutil.NewXMLRequest(s.T(), desc.Path,
		"<Request><UsernameToken><Username>UDSM</Username><SessionToken>good-token</SessionToken></UsernameToken></Request>")
	rr := testutil.DoRequest(s.stub.Handler(), req)
	s.Require().Equal(http.StatusOK, rr.Code)

	parsed, err := envelope.Parse(rr.Body.Bytes())
	s.Require().NoError(err)
	s.Equal(codeMalformedRequest, parsed.StatusCode)
}

func (s *ServerSuite) TestMalformedEnvelope() {
	resp := s.post(operations.ApplicantsCheckStatus, "<Request><UsernameToken/></Request>")
	s.Equal(codeMalformedRequest, resp.StatusCode)
}

func (s *ServerSuite) TestWrongToken() {
	resp := s.call("stale-token", payload.New(operations.ApplicantsCheckStatus, payload.FieldsOf("f4indexno", "S1001/0012/2018")))
	s.Equal(codeBadSession, resp.StatusCode)
}

func (s *ServerSuite) TestMissingMandatoryField() {
	resp := s.call("good-token", payload.New(operations.AdmissionsUnconfirm, payload.FieldsOf("f4indexno", "S1001/0012/2018")))
	s.Equal(codeMissingParameter, resp.StatusCode)
	s.Contains(resp.StatusDescription, "Reason")
}

func (s *ServerSuite) TestCheckStatus() {
	s.Run("clear applicant echoes index number", func() {
		resp := s.call("good-token", payload.New(operations.ApplicantsCheckStatus, payload.FieldsOf("f4indexno", "S1001/0012/2018")))
		s.Equal(codeClear, resp.StatusCode)
		s.Require().Len(resp.Records, 1)
		s.Equal("S1001/0012/2018", resp.Records[0].Get("f4indexno"))
	})

	s.Run("applicant admitted elsewhere", func() {
		resp := s.call("good-token", payload.New(operations.ApplicantsCheckStatus, payload.FieldsOf("f4indexno", "S0101/0001/2017")))
		s.Equal(codePriorAdmission, resp.StatusCode)
		s.Equal("MUHAS", resp.Records[0].Get("InstitutionCode"))
	})
}

func (s *ServerSuite) TestConfirmLifecycle() {
	confirm := func(code string) int {
		return s.call("good-token", payload.New(operations.AdmissionsConfirm,
			payload.FieldsOf("f4indexno", "S0101/0001/2017", "ConfirmationCode", code))).StatusCode
	}
	unconfirm := func() int {
		return s.call("good-token", payload.New(operations.AdmissionsUnconfirm,
			payload.FieldsOf("f4indexno", "S0101/0001/2017", "Reason", "changed choice"))).StatusCode
	}

	s.Equal(codeNotConfirmed, unconfirm())
	s.Equal(codeCodeMismatch, confirm("Z9999Z"))
	s.Equal(codeConfirmed, confirm("A1234B"))
	s.Equal(codeAlreadyConfirmed, confirm("A1234B"))
	s.Equal(codeUnconfirmed, unconfirm())
}

func (s *ServerSuite) TestBatchAcknowledgesEachBlock() {
	transfers := func() payload.Payload {
		return payload.NewBatch(operations.TransfersSubmitInternal, []payload.Fields{
			payload.FieldsOf("f4indexno", "S1001/0012/2018", "f6indexno", "S1001/0562/2020", "CurrentProgrammeCode", "UD024", "PreviousProgrammeCode", "UD023"),
			payload.FieldsOf("f4indexno", "S1001/0013/2018", "f6indexno", "S1001/0563/2020", "CurrentProgrammeCode", "UD024", "PreviousProgrammeCode", "UD023"),
		})
	}

	first := s.call("good-token", transfers())
	s.Equal(codeTransferSubmitted, first.StatusCode)
	s.Require().Len(first.Records, 2)
	for _, rec := range first.Records {
		s.True(rec.HasStatus)
		s.Equal(codeTransferSubmitted, rec.StatusCode)
	}

	again := s.call("good-token", transfers())
	s.Equal(codeDuplicate, again.Records[1].StatusCode)

	listed := s.call("good-token", payload.New(operations.TransfersGetInternalStatus, payload.FieldsOf("ProgrammeCode", "UD024")))
	s.Equal(codeOK, listed.StatusCode)
	s.Len(listed.Records, 2)
}

func TestConfirmationCodeForIsStable(t *testing.T) {
	a, b := confirmationCodeFor("S1001/0012/2018"), confirmationCodeFor("S1001/0012/2018")
	if a != b || len(a) != 6 {
		t.Fatalf("unstable or malformed code %q / %q", a, b)
	}
}

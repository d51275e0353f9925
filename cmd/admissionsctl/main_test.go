package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	"tcubridge/internal/admissions/rules"
	"tcubridge/internal/mockauthority"
	"tcubridge/pkg/platform/privacy"
	"tcubridge/pkg/testutil"
)

const testToken = "cli-session-token"

type CLISuite struct {
	suite.Suite
	server *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	cat, err := operations.Default(rules.Default())
	s.Require().NoError(err)
	stub, err := mockauthority.New(cat,
		mockauthority.WithLogger(testutil.QuietLogger()),
		mockauthority.WithSessionToken(privacy.NewSecret(testToken)),
	)
	s.Require().NoError(err)
	s.server = httptest.NewServer(stub.Handler())

	t := s.T()
	t.Setenv("TCU_BASE_URL", s.server.URL)
	t.Setenv("TCU_USERNAME", "UDSM")
	t.Setenv("TCU_SESSION_TOKEN", testToken)
	t.Setenv("TCU_RETRY_ATTEMPTS", "2")
	t.Setenv("TCU_RETRY_DELAY", "1ms")
	t.Setenv("TCU_LOG_LEVEL", "error")
	t.Setenv("TCU_POSTGRES_DSN", "")
	t.Setenv("TCU_REDIS_URL", "")
	t.Setenv("TCU_KAFKA_BROKERS", "")
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

// run executes the root command with args and returns stdout and stderr.
func (s *CLISuite) run(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// =============================================================================
// operations
// =============================================================================

func (s *CLISuite) TestOperationsListsCatalog() {
	out, _, err := s.run("operations")
	s.Require().NoError(err)
	s.Contains(out, "applicants.checkStatus")
	s.Contains(out, "postgraduate.getPostgraduateStatus")
}

func (s *CLISuite) TestOperationsFilteredByResource() {
	out, _, err := s.run("operations", "--resource", "admissions")
	s.Require().NoError(err)
	s.Contains(out, "admissions.confirm")
	s.NotContains(out, "applicants.checkStatus")

	_, _, err = s.run("operations", "--resource", "nope")
	s.Error(err)
}

// =============================================================================
// invoke
// =============================================================================

func (s *CLISuite) TestInvokeDryRunMasksToken() {
	out, _, err := s.run("invoke", "applicants.checkStatus", "--field", "f4indexno=S1001/0012/2018", "--dry-run")
	s.Require().NoError(err)
	s.Contains(out, "S1001/0012/2018")
	s.NotContains(out, testToken)
}

func (s *CLISuite) TestInvokeSendsToAuthority() {
	out, _, err := s.run("invoke", "applicants.checkStatus", "--field", "f4indexno=S1001/0012/2018")
	s.Require().NoError(err)
	s.Contains(out, "202")
	s.Contains(out, "f4indexno=S1001/0012/2018")
}

func (s *CLISuite) TestInvokeBatch() {
	out, _, err := s.run("invoke", "dashboard.populate",
		"--subject", "ProgrammeCode=UD023,Males=40,Females=38",
		"--subject", "ProgrammeCode=UD024,Males=2,Females=9",
	)
	s.Require().NoError(err)
	s.Contains(out, "[1]")
}

func (s *CLISuite) TestInvokeRejectsInvalidPayloadLocally() {
	_, errOut, err := s.run("invoke", "admissions.confirm", "--field", "f4indexno=S1001/0012/2018", "--field", "ConfirmationCode=invalid_code")
	s.Require().Error(err)
	s.Contains(errOut, "ConfirmationCode")
}

func (s *CLISuite) TestInvokeUnknownOperation() {
	_, _, err := s.run("invoke", "applicants.teleport")
	s.Require().Error(err)
	s.Contains(err.Error(), "unknown operation")
}

func (s *CLISuite) TestInvokeWithoutCredentials() {
	s.T().Setenv("TCU_SESSION_TOKEN", "")
	_, _, err := s.run("invoke", "applicants.checkStatus", "--field", "f4indexno=S1001/0012/2018")
	s.Require().Error(err)
	s.Contains(err.Error(), "session token")
}

// =============================================================================
// applicant
// =============================================================================

func (s *CLISuite) TestApplicantConfirmLifecycle() {
	out, _, err := s.run("applicant", "status", "S0101/0001/2017")
	s.Require().NoError(err)
	s.Contains(out, "201")

	out, _, err = s.run("applicant", "confirm", "S0101/0001/2017", "A1234B")
	s.Require().NoError(err)
	s.Contains(out, "209")
}

func (s *CLISuite) TestStatsNeedsDatabase() {
	_, _, err := s.run("stats")
	s.Require().Error(err)
	s.Contains(err.Error(), "call-log database")
}

// =============================================================================
// helpers
// =============================================================================

func TestParseAssignments(t *testing.T) {
	f, err := parseAssignments([]string{"f4indexno=S1001/0012/2018", "Reason=a=b"})
	require.NoError(t, err)
	assert.Equal(t, payload.FieldsOf("f4indexno", "S1001/0012/2018", "Reason", "a=b"), f)

	for _, bad := range []string{"novalue", "=S1001"} {
		_, err := parseAssignments([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestSplitSubject(t *testing.T) {
	pairs, err := splitSubject(`ProgrammeCode=UD023,Designation=Senior Lecturer\, Law,Note=a\\b`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ProgrammeCode=UD023", "Designation=Senior Lecturer, Law", `Note=a\b`}, pairs)

	for _, bad := range []string{`Designation=Lecturer\`, `Designation=Lec\turer`} {
		_, err := splitSubject(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuildPayloadShape(t *testing.T) {
	cat, err := operations.Default(rules.Default())
	require.NoError(t, err)

	batch, _ := cat.Lookup(operations.DashboardPopulate)
	single, _ := cat.Lookup(operations.ApplicantsCheckStatus)

	_, err = buildPayload(batch, &invokeOptions{fields: []string{"ProgrammeCode=UD023"}})
	assert.Error(t, err)
	_, err = buildPayload(single, &invokeOptions{subjects: []string{"f4indexno=S1001/0012/2018"}})
	assert.Error(t, err)

	p, err := buildPayload(batch, &invokeOptions{subjects: []string{"ProgrammeCode=UD023,Males=1,Females=2"}})
	require.NoError(t, err)
	assert.True(t, p.IsBatch())
	assert.Len(t, p.Blocks(), 1)

	staff, _ := cat.Lookup(operations.StaffSubmit)
	p, err = buildPayload(staff, &invokeOptions{subjects: []string{`f4indexno=S1001/0012/2018,Designation=Senior Lecturer\, Law`}})
	require.NoError(t, err)
	assert.Equal(t, "Senior Lecturer, Law", p.Blocks()[0].Value("Designation"))
}

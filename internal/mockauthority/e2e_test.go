package mockauthority_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tcubridge/internal/admissions/client"
	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/envelope"
	"tcubridge/internal/admissions/failure"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/ports"
	"tcubridge/internal/admissions/rules"
	"tcubridge/internal/admissions/status"
	"tcubridge/internal/admissions/validation"
	"tcubridge/internal/mockauthority"
	"tcubridge/internal/observability"
	"tcubridge/internal/observability/store/memory"
	httptransport "tcubridge/internal/transport/http"
	"tcubridge/pkg/platform/privacy"
)

// countingTransport wraps the HTTP transport to count sends.
type countingTransport struct {
	*httptransport.Client
	sends int
}

func (c *countingTransport) Send(ctx context.Context, req ports.Request) ([]byte, error) {
	c.sends++
	return c.Client.Send(ctx, req)
}

type EndToEndSuite struct {
	suite.Suite
	server    *httptest.Server
	transport *countingTransport
	store     *memory.InMemoryStore
	client    *client.Client
}

func TestEndToEndSuite(t *testing.T) {
	suite.Run(t, new(EndToEndSuite))
}

func (s *EndToEndSuite) SetupTest() {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := rules.Default()
	cat, err := operations.Default(reg)
	s.Require().NoError(err)

	token := privacy.NewSecret("e2e-session-token")
	stub, err := mockauthority.New(cat, mockauthority.WithLogger(quiet), mockauthority.WithSessionToken(token))
	s.Require().NoError(err)
	s.server = httptest.NewServer(stub.Handler())

	tr, err := httptransport.New(s.server.URL, httptransport.WithLogger(quiet))
	s.Require().NoError(err)
	s.transport = &countingTransport{Client: tr}
	s.store = memory.NewInMemoryStore(100)

	d, err := dispatcher.New(reg, cat, status.Default(), s.transport,
		envelope.Identity{Username: "UDSM", SessionToken: token},
		dispatcher.WithLogger(quiet),
		dispatcher.WithSink(s.store),
		dispatcher.WithRetry(3, time.Millisecond),
		dispatcher.WithTimeout(5*time.Second),
	)
	s.Require().NoError(err)
	s.client = client.New(d)
}

func (s *EndToEndSuite) TearDownTest() {
	s.server.Close()
}

func (s *EndToEndSuite) TestCheckStatusClearToProceed() {
	res, err := s.client.Applicants.CheckStatus(context.Background(), client.StatusQuery{F4IndexNo: "S1001/0012/2018"})
	s.Require().NoError(err)
	s.Equal(202, res.StatusCode)
	s.Equal(status.Success, res.Category)
	s.Equal("S1001/0012/2018", res.Record().Get("f4indexno"))

	recs := s.store.All()
	s.Require().Len(recs, 1)
	s.Equal(observability.OutcomeSuccess, recs[0].Outcome)
	s.Positive(recs[0].ResponseBytes)
}

func (s *EndToEndSuite) TestConfirmWithInvalidCodeNeverSends() {
	res, err := s.client.Admissions.Confirm(context.Background(), "S1001/0012/2018", "invalid_code")
	s.Nil(res)

	var fe *failure.Error
	s.Require().ErrorAs(err, &fe)
	s.Equal(failure.KindValidation, fe.Kind)
	s.Require().Len(fe.Violations, 1)
	s.Equal("ConfirmationCode", fe.Violations[0].Field)
	s.Zero(s.transport.sends)
	s.Equal(observability.OutcomeRejectedLocally, s.store.All()[0].Outcome)
}

func (s *EndToEndSuite) TestUnconfirmWithEmptyReasonNeverSends() {
	_, err := s.client.Admissions.Unconfirm(context.Background(), "S1001/0012/2018", "")

	var fe *failure.Error
	s.Require().ErrorAs(err, &fe)
	s.Require().Len(fe.Violations, 1)
	s.Equal("Reason", fe.Violations[0].Field)
	s.Equal(validation.RuleRequired, fe.Violations[0].Rule)
	s.Contains(err.Error(), "Reason")
	s.Zero(s.transport.sends)
}

func (s *EndToEndSuite) TestPriorAdmissionIsBusinessCondition() {
	res, err := s.client.Applicants.CheckStatus(context.Background(), client.StatusQuery{F4IndexNo: "S0101/0001/2017"})
	s.Require().NoError(err)
	s.Equal(status.BusinessCondition, res.Category)
	s.Equal(201, res.StatusCode)

	res, err = s.client.Admissions.Confirm(context.Background(), "S0101/0001/2017", "A1234B")
	s.Require().NoError(err)
	s.Equal(209, res.StatusCode)
}

func (s *EndToEndSuite) TestBadTokenIsAuthenticationFailure() {
	reg := rules.Default()
	cat, err := operations.Default(reg)
	s.Require().NoError(err)

	d, err := dispatcher.New(reg, cat, status.Default(), s.transport,
		envelope.Identity{Username: "UDSM", SessionToken: privacy.NewSecret("expired")},
		dispatcher.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		dispatcher.WithRetry(3, time.Millisecond),
	)
	s.Require().NoError(err)

	res, err := client.New(d).Applicants.GetAdmitted(context.Background(), "UD023")
	s.True(failure.Is(err, failure.KindAuthentication))
	s.Require().NotNil(res)
	s.Equal(204, res.StatusCode)
	s.Equal(1, s.transport.sends, "authentication failures are not retried")
}

func (s *EndToEndSuite) TestUnreachableAuthorityExhaustsRetries() {
	s.server.Close()

	_, err := s.client.Applicants.CheckStatus(context.Background(), client.StatusQuery{F4IndexNo: "S1001/0012/2018"})
	s.True(failure.Is(err, failure.KindTransient))
	s.Equal(3, s.transport.sends)
	s.Equal(observability.OutcomeTransientFailure, s.store.All()[0].Outcome)
}

func (s *EndToEndSuite) TestBatchPerRecordStatus() {
	counts := []client.ProgrammeCount{{ProgrammeCode: "UD023", Males: 40, Females: 38}, {ProgrammeCode: "UD024", Males: 2, Females: 9}}
	res, err := s.client.Dashboard.Populate(context.Background(), counts)
	s.Require().NoError(err)
	s.Require().Len(res.Records, 2)
	for i := range res.Records {
		cat, ok := res.RecordOutcome(i)
		s.True(ok)
		s.Equal(status.Success, cat)
	}

	dash, err := s.client.Dashboard.GetDashboard(context.Background(), "UD024")
	s.Require().NoError(err)
	s.Equal([]string{"9"}, dash.Values("Females"))
}

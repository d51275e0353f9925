//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tcubridge/internal/observability"
	"tcubridge/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Store
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(Migrate(context.Background(), s.pg.DB))
	s.Require().NoError(Migrate(context.Background(), s.pg.DB), "migrate must be idempotent")
	s.store = New(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "api_calls"))
}

func (s *PostgresStoreSuite) record(started time.Time, outcome observability.Outcome, code int, d time.Duration) observability.CallRecord {
	rec := observability.NewCallRecord("applicants.checkStatus", "applicants", started)
	rec.Path = "/applicants/checkStatus"
	rec.Outcome = outcome
	rec.StatusCode = code
	rec.Duration = d
	rec.Attempts = 1
	s.Require().NoError(s.store.Record(context.Background(), rec))
	return rec
}

func (s *PostgresStoreSuite) TestRecordAndRecent() {
	base := time.Now().UTC().Truncate(time.Microsecond)
	first := s.record(base, observability.OutcomeSuccess, 202, 2*time.Millisecond)
	second := s.record(base.Add(time.Second), observability.OutcomeBusinessCondition, 203, 3*time.Millisecond)

	s.Run("duplicate IDs are ignored", func() {
		s.Require().NoError(s.store.Record(context.Background(), first))
	})

	recs, err := s.store.Recent(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal(second.ID, recs[0].ID)
	s.Equal(203, recs[0].StatusCode)
	s.Equal(3*time.Millisecond, recs[0].Duration)
	s.True(first.StartedAt.Equal(recs[1].StartedAt))
}

func (s *PostgresStoreSuite) TestSummary() {
	base := time.Now().UTC()
	s.record(base.Add(-2*time.Hour), observability.OutcomeSuccess, 200, time.Second)
	s.record(base, observability.OutcomeSuccess, 200, 10*time.Millisecond)
	s.record(base, observability.OutcomeTransientFailure, 0, 30*time.Millisecond)

	sum, err := s.store.Summary(context.Background(), base.Add(-time.Hour))
	s.Require().NoError(err)
	s.Equal(2, sum.Total)
	s.Equal(1, sum.ByOutcome[observability.OutcomeTransientFailure])
	s.Equal(20*time.Millisecond, sum.AvgDuration)
	s.Equal(30*time.Millisecond, sum.MaxDuration)
}

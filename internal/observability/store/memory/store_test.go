package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tcubridge/internal/observability"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	base  time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore(0)
	s.base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) record(offset time.Duration, outcome observability.Outcome, d time.Duration) {
	rec := observability.NewCallRecord("applicants.checkStatus", "applicants", s.base.Add(offset))
	rec.Outcome = outcome
	rec.Duration = d
	s.Require().NoError(s.store.Record(context.Background(), rec))
}

func (s *InMemoryStoreSuite) TestSummary() {
	s.record(-time.Hour, observability.OutcomeSuccess, time.Second)
	s.record(0, observability.OutcomeSuccess, 100*time.Millisecond)
	s.record(time.Minute, observability.OutcomeSuccess, 300*time.Millisecond)
	s.record(2*time.Minute, observability.OutcomeTransientFailure, 200*time.Millisecond)

	sum, err := s.store.Summary(context.Background(), s.base)
	s.Require().NoError(err)

	s.Equal(3, sum.Total)
	s.Equal(2, sum.ByOutcome[observability.OutcomeSuccess])
	s.Equal(1, sum.ByOutcome[observability.OutcomeTransientFailure])
	s.Equal(200*time.Millisecond, sum.AvgDuration)
	s.Equal(300*time.Millisecond, sum.MaxDuration)
}

func (s *InMemoryStoreSuite) TestRecent() {
	s.record(0, observability.OutcomeSuccess, 0)
	s.record(2*time.Minute, observability.OutcomeBusinessCondition, 0)
	s.record(time.Minute, observability.OutcomeTransientFailure, 0)

	s.Run("newest first", func() {
		recs, err := s.store.Recent(context.Background(), 2)
		s.Require().NoError(err)
		s.Require().Len(recs, 2)
		s.Equal(observability.OutcomeBusinessCondition, recs[0].Outcome)
		s.Equal(observability.OutcomeTransientFailure, recs[1].Outcome)
	})

	s.Run("zero limit returns everything", func() {
		recs, err := s.store.Recent(context.Background(), 0)
		s.Require().NoError(err)
		s.Len(recs, 3)
	})
}

func (s *InMemoryStoreSuite) TestLimitDropsOldest() {
	s.store = NewInMemoryStore(2)
	s.record(0, observability.OutcomeSuccess, 0)
	s.record(time.Minute, observability.OutcomeBusinessCondition, 0)
	s.record(2*time.Minute, observability.OutcomeTransientFailure, 0)

	all := s.store.All()
	s.Require().Len(all, 2)
	s.Equal(observability.OutcomeBusinessCondition, all[0].Outcome)
}

func (s *InMemoryStoreSuite) TestClear() {
	s.record(0, observability.OutcomeSuccess, 0)
	s.store.Clear()
	s.Empty(s.store.All())
}

//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"tcubridge/internal/observability"
	"tcubridge/pkg/testutil/containers"
)

type ProducerSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
}

func TestProducerSuite(t *testing.T) {
	suite.Run(t, new(ProducerSuite))
}

func (s *ProducerSuite) SetupSuite() {
	s.broker = containers.NewRedpandaContainer(s.T())
}

func (s *ProducerSuite) TestRecordIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := New(s.broker.Brokers, "tcubridge.calls")
	s.Require().NoError(err)
	defer p.Close()

	s.Require().NoError(p.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(p.EnsureTopic(ctx, 1, 1), "existing topic is not an error")

	rec := observability.NewCallRecord("staff.submitStaff", "staff", time.Now().UTC())
	rec.Outcome = observability.OutcomeSuccess
	rec.StatusCode = 223
	s.Require().NoError(p.Record(ctx, rec))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Brokers...),
		kgo.ConsumeTopics("tcubridge.calls"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)

	s.Equal("staff.submitStaff", string(records[0].Key))
	got, err := observability.DecodeRecord(records[0].Value)
	s.Require().NoError(err)
	s.Equal(rec.ID, got.ID)
	s.Equal(223, got.StatusCode)
}

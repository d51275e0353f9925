// Package kafka publishes call records to a Kafka topic for downstream
// analytics.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"tcubridge/internal/observability"
	"tcubridge/pkg/platform/sentinel"
)

const headerOutcome = "outcome"

// Producer writes one message per call record, keyed by operation so records
// of one operation stay ordered within a partition.
type Producer struct {
	client *kgo.Client
	topic  string
}

// New connects a producer. Extra options are appended to the defaults.
func New(brokers []string, topic string, opts ...kgo.Opt) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka producer needs at least one broker")
	}
	if topic == "" {
		return nil, errors.New("kafka producer needs a topic")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client, topic: topic}, nil
}

func (p *Producer) Topic() string {
	return p.topic
}

// EnsureTopic creates the topic when it does not exist yet.
func (p *Producer) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func (p *Producer) Record(ctx context.Context, rec observability.CallRecord) error {
	payload, err := observability.EncodeRecord(rec)
	if err != nil {
		return err
	}
	msg := &kgo.Record{
		Key:   []byte(rec.Operation),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: headerOutcome, Value: []byte(rec.Outcome)},
		},
	}
	if err := p.client.ProduceSync(ctx, msg).FirstErr(); err != nil {
		if errors.Is(err, kgo.ErrClientClosed) {
			return fmt.Errorf("produce to %s: %w", p.topic, sentinel.ErrClosed)
		}
		return fmt.Errorf("produce to %s: %w: %v", p.topic, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (p *Producer) Close() {
	p.client.Close()
}

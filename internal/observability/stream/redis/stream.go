// Package redis publishes call records to a Redis stream so dashboards can
// tail live traffic.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tcubridge/internal/observability"
	"tcubridge/pkg/platform/sentinel"
)

const (
	fieldRecord    = "record"
	fieldOperation = "operation"
	fieldOutcome   = "outcome"
)

// Stream appends records to a capped Redis stream.
type Stream struct {
	client redis.Cmdable
	key    string
	maxLen int64
}

type Option func(*Stream)

// WithMaxLen caps the stream length (approximate trimming).
func WithMaxLen(n int64) Option {
	return func(s *Stream) {
		s.maxLen = n
	}
}

func New(client redis.Cmdable, key string, opts ...Option) *Stream {
	s := &Stream{client: client, key: key, maxLen: 100_000}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stream) Record(ctx context.Context, rec observability.CallRecord) error {
	payload, err := observability.EncodeRecord(rec)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: s.key,
		Values: map[string]any{
			fieldRecord:    payload,
			fieldOperation: rec.Operation,
			fieldOutcome:   string(rec.Outcome),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w: %v", s.key, sentinel.ErrUnavailable, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Stream) Recent(ctx context.Context, limit int) ([]observability.CallRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	msgs, err := s.client.XRevRangeN(ctx, s.key, "+", "-", int64(limit)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("xrevrange %s: %w", s.key, err)
	}

	out := make([]observability.CallRecord, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values[fieldRecord].(string)
		if !ok {
			return nil, fmt.Errorf("stream entry %s has no %s field", msg.ID, fieldRecord)
		}
		rec, err := observability.DecodeRecord([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("stream entry %s: %w", msg.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

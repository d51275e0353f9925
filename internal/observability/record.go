// Package observability defines the per-call record emitted by the dispatcher
// and the sinks that receive it. Records are transport-agnostic so stores and
// streams can fan out.
package observability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome is the recorded result label of one dispatch. It is a denormalized
// copy; the status code remains the source of truth.
type Outcome string

const (
	OutcomeSuccess               Outcome = "success"
	OutcomeBusinessCondition     Outcome = "business_condition"
	OutcomeValidationFailure     Outcome = "validation_failure"
	OutcomeRejectedLocally       Outcome = "rejected_locally"
	OutcomeAuthenticationFailure Outcome = "authentication_failure"
	OutcomeTransientFailure      Outcome = "transient_network_failure"
	OutcomeMalformedResponse     Outcome = "malformed_response"
	OutcomeUnclassified          Outcome = "unclassified_remote_error"
	OutcomeInternal              Outcome = "internal"
)

// CallRecord describes one dispatch. It never carries credentials; Error is
// redacted before the record is built.
type CallRecord struct {
	ID                uuid.UUID
	Operation         string
	Resource          string
	Path              string
	Principal         string
	Outcome           Outcome
	StatusCode        int
	StatusDescription string
	Attempts          int
	RequestBytes      int
	ResponseBytes     int
	Duration          time.Duration
	StartedAt         time.Time
	Error             string
}

// NewCallRecord stamps a record with a fresh ID.
func NewCallRecord(operation, resource string, startedAt time.Time) CallRecord {
	return CallRecord{
		ID:        uuid.New(),
		Operation: operation,
		Resource:  resource,
		StartedAt: startedAt,
	}
}

// Sink receives call records.
type Sink interface {
	Record(ctx context.Context, rec CallRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec CallRecord) error

func (f SinkFunc) Record(ctx context.Context, rec CallRecord) error {
	return f(ctx, rec)
}

// Discard drops every record.
var Discard Sink = SinkFunc(func(context.Context, CallRecord) error { return nil })

// Summary aggregates recorded calls.
type Summary struct {
	Since       time.Time
	Total       int
	ByOutcome   map[Outcome]int
	AvgDuration time.Duration
	MaxDuration time.Duration
}

// Rate returns the share of calls with outcome o, in [0,1].
func (s Summary) Rate(o Outcome) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.ByOutcome[o]) / float64(s.Total)
}

// Store is a queryable call log.
type Store interface {
	Sink
	Summary(ctx context.Context, since time.Time) (Summary, error)
	Recent(ctx context.Context, limit int) ([]CallRecord, error)
}

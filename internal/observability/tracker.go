package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tcubridge/pkg/platform/circuit"
	"tcubridge/pkg/platform/sentinel"
)

// SinkMetrics is the slice of platform metrics the tracker reports to.
type SinkMetrics interface {
	IncSinkFailure(sink string)
	SetSinkCircuitOpen(sink string, open bool)
}

// Tracker guards a sink with a circuit breaker and a per-record timeout. While
// the breaker is open records are dropped without touching the sink.
type Tracker struct {
	name    string
	sink    Sink
	breaker *circuit.Breaker
	timeout time.Duration
	metrics SinkMetrics
	logger  *slog.Logger
}

type TrackerOption func(*Tracker)

func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithMetrics(m SinkMetrics) TrackerOption {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) TrackerOption {
	return func(t *Tracker) {
		t.breaker = b
	}
}

// WithTimeout bounds each sink write. Zero disables the bound.
func WithTimeout(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.timeout = d
	}
}

func NewTracker(name string, sink Sink, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		name:    name,
		sink:    sink,
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.breaker == nil {
		t.breaker = circuit.New(name)
	}
	return t
}

func (t *Tracker) Name() string {
	return t.name
}

func (t *Tracker) Record(ctx context.Context, rec CallRecord) error {
	if !t.breaker.Allow() {
		return fmt.Errorf("sink %s circuit open: %w", t.name, sentinel.ErrUnavailable)
	}

	writeCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if err := t.sink.Record(writeCtx, rec); err != nil {
		_, change := t.breaker.RecordFailure()
		if t.metrics != nil {
			t.metrics.IncSinkFailure(t.name)
		}
		if change.Opened {
			t.setOpen(true)
			if t.logger != nil {
				t.logger.WarnContext(ctx, "sink circuit opened", "sink", t.name, "error", err)
			}
		}
		return fmt.Errorf("sink %s: %w", t.name, err)
	}

	if _, change := t.breaker.RecordSuccess(); change.Closed {
		t.setOpen(false)
		if t.logger != nil {
			t.logger.InfoContext(ctx, "sink circuit closed", "sink", t.name)
		}
	}
	return nil
}

func (t *Tracker) setOpen(open bool) {
	if t.metrics != nil {
		t.metrics.SetSinkCircuitOpen(t.name, open)
	}
}

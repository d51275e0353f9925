// Package dispatcher runs one remote operation end to end: validate, build the
// envelope, send with fixed-delay retry, parse, classify. It is driven by the
// operation catalog; no per-operation code lives here.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tcubridge/internal/admissions/envelope"
	"tcubridge/internal/admissions/failure"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	"tcubridge/internal/admissions/ports"
	"tcubridge/internal/admissions/rules"
	"tcubridge/internal/admissions/status"
	"tcubridge/internal/admissions/validation"
	"tcubridge/internal/observability"
	"tcubridge/pkg/platform/privacy"
)

const (
	AttrOperation  = attribute.Key("admissions.operation")
	AttrResource   = attribute.Key("admissions.resource")
	AttrStatusCode = attribute.Key("admissions.status_code")
	AttrOutcome    = attribute.Key("admissions.outcome")
	AttrAttempts   = attribute.Key("admissions.attempts")
)

// Metrics is the slice of platform metrics the dispatcher reports to.
type Metrics interface {
	ObserveDispatch(operation, outcome string, d time.Duration)
	IncTransportRetry(operation string)
}

// Dispatcher is safe for concurrent use; every call is independent.
type Dispatcher struct {
	catalog   *operations.Catalog
	validator *validation.Validator
	taxonomy  *status.Taxonomy
	transport ports.Transport
	identity  envelope.Identity

	retryAttempts int
	retryDelay    time.Duration
	timeout       time.Duration

	sink    ports.Sink
	metrics Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithSink(s ports.Sink) Option {
	return func(d *Dispatcher) {
		d.sink = s
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

// WithRetry sets the total number of transport invocations per call and the
// fixed delay between them. Attempts below 1 are raised to 1.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(d *Dispatcher) {
		if attempts < 1 {
			attempts = 1
		}
		if delay < 0 {
			delay = 0
		}
		d.retryAttempts = attempts
		d.retryDelay = delay
	}
}

// WithTimeout bounds each transport invocation.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = t
	}
}

// WithSleep replaces the wait between attempts, for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Dispatcher) {
		d.sleep = fn
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New wires a dispatcher. The registry, catalog and taxonomy are shared
// read-only; the identity is used for every envelope.
func New(
	reg *rules.Registry,
	catalog *operations.Catalog,
	taxonomy *status.Taxonomy,
	transport ports.Transport,
	identity envelope.Identity,
	opts ...Option,
) (*Dispatcher, error) {
	if reg == nil || catalog == nil || taxonomy == nil {
		return nil, errors.New("dispatcher needs a registry, catalog and taxonomy")
	}
	if transport == nil {
		return nil, errors.New("dispatcher needs a transport")
	}
	if identity.Username == "" || identity.SessionToken.IsZero() {
		return nil, envelope.ErrMissingIdentity
	}

	d := &Dispatcher{
		catalog:       catalog,
		validator:     validation.New(reg, catalog),
		taxonomy:      taxonomy,
		transport:     transport,
		identity:      identity,
		retryAttempts: 3,
		retryDelay:    2 * time.Second,
		timeout:       30 * time.Second,
		sink:          observability.Discard,
		logger:        slog.Default(),
		tracer:        otel.Tracer("tcubridge/dispatcher"),
		sleep:         sleepContext,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Catalog exposes the descriptor table the dispatcher serves.
func (d *Dispatcher) Catalog() *operations.Catalog {
	return d.catalog
}

// Validate runs local validation only, without building or sending.
func (d *Dispatcher) Validate(p payload.Payload) validation.Result {
	return d.validator.Validate(p)
}

// Preview validates p and renders its envelope with the credential masked.
// Nothing is sent and no call record is emitted.
func (d *Dispatcher) Preview(p payload.Payload) ([]byte, error) {
	if res := d.validator.Validate(p); !res.Valid() {
		return nil, failure.Validation(p.Operation, res)
	}
	env, err := envelope.Build(d.identity, p)
	if err != nil {
		return nil, failure.New(failure.KindInternal, p.Operation, "build envelope", err)
	}
	return env.MarshalMasked()
}

// Invoke dispatches p.
//
// Local validation, exhausted transport and malformed responses return a nil
// Result with a *failure.Error. Success, business conditions and unmapped codes
// return a Result and nil. Authentication failures and remote validation
// failures return both, so the caller sees the raw status and a typed error.
// Exactly one call record is emitted per call.
func (d *Dispatcher) Invoke(ctx context.Context, p payload.Payload) (*Result, error) {
	start := d.now()
	desc, _ := d.catalog.Lookup(p.Operation)

	rec := observability.NewCallRecord(string(p.Operation), string(desc.Resource), start)
	rec.Path = desc.Path
	rec.Principal = d.identity.Username

	ctx, span := d.tracer.Start(ctx, "admissions.dispatch",
		trace.WithAttributes(
			AttrOperation.String(string(p.Operation)),
			AttrResource.String(string(desc.Resource)),
		),
	)
	defer span.End()

	res, outcome, err := d.run(ctx, desc, p, &rec)
	err = d.scrub(err)

	rec.Outcome = outcome
	rec.Duration = d.now().Sub(start)
	if res != nil {
		rec.StatusCode = res.StatusCode
		rec.StatusDescription = res.StatusDescription
	}
	if err != nil {
		rec.Error = err.Error()
	}

	span.SetAttributes(AttrOutcome.String(string(outcome)), AttrAttempts.Int(rec.Attempts))
	if rec.StatusCode != 0 {
		span.SetAttributes(AttrStatusCode.Int(rec.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(failure.KindOf(err)))
	}

	if d.metrics != nil {
		d.metrics.ObserveDispatch(string(p.Operation), string(outcome), rec.Duration)
	}
	d.log(ctx, rec, err)
	d.emit(ctx, rec)

	return res, err
}

func (d *Dispatcher) run(ctx context.Context, desc operations.Descriptor, p payload.Payload, rec *observability.CallRecord) (*Result, observability.Outcome, error) {
	if vr := d.validator.Validate(p); !vr.Valid() {
		return nil, observability.OutcomeRejectedLocally, failure.Validation(p.Operation, vr)
	}

	env, err := envelope.Build(d.identity, p)
	if err != nil {
		return nil, observability.OutcomeInternal, failure.New(failure.KindInternal, p.Operation, "build envelope", err)
	}
	body, err := env.Marshal()
	if err != nil {
		return nil, observability.OutcomeInternal, failure.New(failure.KindInternal, p.Operation, "marshal envelope", err)
	}
	rec.RequestBytes = len(body)

	raw, attempts, err := d.send(ctx, desc, body)
	rec.Attempts = attempts
	if err != nil {
		switch failure.KindOf(err) {
		case failure.KindTransient:
			return nil, observability.OutcomeTransientFailure, err
		case failure.KindMalformedResponse:
			return nil, observability.OutcomeMalformedResponse, err
		default:
			return nil, observability.OutcomeInternal, err
		}
	}
	rec.ResponseBytes = len(raw)

	resp, err := envelope.Parse(raw)
	if err != nil {
		return nil, observability.OutcomeMalformedResponse, failure.Malformed(p.Operation, raw, err)
	}

	category := d.taxonomy.Classify(resp.StatusCode)
	description := resp.StatusDescription
	if description == "" {
		description, _ = d.taxonomy.Describe(resp.StatusCode)
	}
	res := &Result{
		Operation:         p.Operation,
		Shape:             desc.Shape,
		Category:          category,
		StatusCode:        resp.StatusCode,
		StatusDescription: description,
		Records:           shapeRecords(desc.Shape, resp.Records),
		Attempts:          attempts,
		taxonomy:          d.taxonomy,
	}

	switch category {
	case status.AuthenticationFailure:
		return res, observability.OutcomeAuthenticationFailure,
			failure.Remote(failure.KindAuthentication, p.Operation, resp.StatusCode, description)
	case status.ValidationFailure:
		return res, observability.OutcomeValidationFailure,
			failure.Remote(failure.KindValidation, p.Operation, resp.StatusCode, description)
	case status.BusinessCondition:
		return res, observability.OutcomeBusinessCondition, nil
	case status.Success:
		return res, observability.OutcomeSuccess, nil
	default:
		return res, observability.OutcomeUnclassified, nil
	}
}

// send invokes the transport up to retryAttempts times with a fixed delay in
// between. Only transient failures are retried.
func (d *Dispatcher) send(ctx context.Context, desc operations.Descriptor, body []byte) ([]byte, int, error) {
	req := ports.Request{
		Operation: desc.Name,
		Method:    desc.Method,
		Path:      desc.Path,
		Body:      body,
		Timeout:   d.timeout,
	}

	var lastErr error
	attempts := 0
	for attempts < d.retryAttempts {
		if attempts > 0 {
			if err := d.sleep(ctx, d.retryDelay); err != nil {
				fe := failure.New(failure.KindTransient, desc.Name, "retry wait aborted",
					fmt.Errorf("%w (last error: %v)", err, lastErr))
				fe.Retryable = false
				fe.Attempts = attempts
				return nil, attempts, fe
			}
			if d.metrics != nil {
				d.metrics.IncTransportRetry(string(desc.Name))
			}
		}

		attempts++
		raw, err := d.transport.Send(ctx, req)
		if err == nil {
			return raw, attempts, nil
		}
		lastErr = err

		var fe *failure.Error
		if errors.As(err, &fe) && !fe.Retryable {
			fe.Attempts = attempts
			return nil, attempts, fe
		}
		if ctx.Err() != nil {
			break
		}
		d.logger.DebugContext(ctx, "transport attempt failed",
			"operation", desc.Name,
			"attempt", attempts,
			"max_attempts", d.retryAttempts,
			"error", privacy.Redact(err.Error(), d.identity.SessionToken),
		)
	}

	fe := failure.New(failure.KindTransient, desc.Name,
		fmt.Sprintf("transport failed after %d attempt(s)", attempts), lastErr)
	fe.Attempts = attempts
	if ctx.Err() != nil {
		fe.Retryable = false
	}
	return nil, attempts, fe
}

// scrub keeps the session token out of anything returned to the caller.
func (d *Dispatcher) scrub(err error) error {
	if err == nil {
		return nil
	}
	token := d.identity.SessionToken.Reveal()
	var fe *failure.Error
	if !errors.As(err, &fe) || fe.Underlying == nil || !strings.Contains(fe.Underlying.Error(), token) {
		return err
	}
	fe.Underlying = errors.New(privacy.Redact(fe.Underlying.Error(), d.identity.SessionToken))
	return err
}

func (d *Dispatcher) emit(ctx context.Context, rec observability.CallRecord) {
	if err := d.sink.Record(context.WithoutCancel(ctx), rec); err != nil {
		d.logger.WarnContext(ctx, "call record not stored",
			"operation", rec.Operation,
			"record_id", rec.ID,
			"error", err,
		)
	}
}

func (d *Dispatcher) log(ctx context.Context, rec observability.CallRecord, err error) {
	attrs := []any{
		"operation", rec.Operation,
		"outcome", rec.Outcome,
		"status_code", rec.StatusCode,
		"attempts", rec.Attempts,
		"duration_ms", rec.Duration.Milliseconds(),
	}
	switch {
	case err == nil:
		d.logger.InfoContext(ctx, "dispatch completed", attrs...)
	case failure.Is(err, failure.KindValidation) && rec.StatusCode == 0:
		d.logger.InfoContext(ctx, "dispatch rejected locally", append(attrs, "error", err)...)
	default:
		d.logger.WarnContext(ctx, "dispatch failed", append(attrs, "error", err)...)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package ports declares the collaborators the dispatcher depends on. Adapters
// (HTTP transport, call-log stores, streams) implement them.
package ports

import (
	"context"
	"time"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/observability"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Transport,Sink

// Request is one transport invocation.
type Request struct {
	Operation operations.Name
	Method    string
	Path      string
	Body      []byte
	Timeout   time.Duration
}

// Transport delivers a serialized envelope and returns the raw response body.
// Errors mean no usable body arrived; they are treated as transient unless
// the transport returns a categorized failure.
type Transport interface {
	Send(ctx context.Context, req Request) ([]byte, error)
}

// Sink receives exactly one record per dispatch. A sink error never changes
// the outcome of the call.
type Sink interface {
	Record(ctx context.Context, rec observability.CallRecord) error
}

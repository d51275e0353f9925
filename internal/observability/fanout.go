package observability

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Fanout delivers each record to every sink concurrently. One sink failing
// does not stop the others; their errors are joined.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Fanout{sinks: kept}
}

func (f *Fanout) Len() int {
	return len(f.sinks)
}

func (f *Fanout) Record(ctx context.Context, rec CallRecord) error {
	switch len(f.sinks) {
	case 0:
		return nil
	case 1:
		return f.sinks[0].Record(ctx, rec)
	}

	var g errgroup.Group
	errs := make([]error, len(f.sinks))
	for i, s := range f.sinks {
		g.Go(func() error {
			if err := s.Record(ctx, rec); err != nil {
				errs[i] = fmt.Errorf("sink %d: %w", i, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

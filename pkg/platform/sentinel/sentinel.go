// Package sentinel names infrastructure facts reported by call-log stores and
// streams. Callers match them with errors.Is; the stores wrap them with the
// failing operation.
package sentinel

import "errors"

var (
	// ErrUnavailable means the backend could not be reached or dropped the
	// connection. The statement itself may be fine.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrClosed means the sink was used after Close.
	ErrClosed = errors.New("sink closed")
)

// IsUnavailable reports whether err stems from an unreachable backend.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

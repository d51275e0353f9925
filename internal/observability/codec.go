package observability

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// wireRecord is the JSON form published to streams. Field names are stable;
// consumers outside this module read them.
type wireRecord struct {
	ID                string `json:"id"`
	Operation         string `json:"operation"`
	Resource          string `json:"resource"`
	Path              string `json:"path,omitempty"`
	Principal         string `json:"principal,omitempty"`
	Outcome           string `json:"outcome"`
	StatusCode        int    `json:"status_code,omitempty"`
	StatusDescription string `json:"status_description,omitempty"`
	Attempts          int    `json:"attempts"`
	RequestBytes      int    `json:"request_bytes"`
	ResponseBytes     int    `json:"response_bytes"`
	DurationMicros    int64  `json:"duration_us"`
	StartedAt         string `json:"started_at"`
	Error             string `json:"error,omitempty"`
}

// EncodeRecord renders rec for stream sinks.
func EncodeRecord(rec CallRecord) ([]byte, error) {
	b, err := json.Marshal(wireRecord{
		ID:                rec.ID.String(),
		Operation:         rec.Operation,
		Resource:          rec.Resource,
		Path:              rec.Path,
		Principal:         rec.Principal,
		Outcome:           string(rec.Outcome),
		StatusCode:        rec.StatusCode,
		StatusDescription: rec.StatusDescription,
		Attempts:          rec.Attempts,
		RequestBytes:      rec.RequestBytes,
		ResponseBytes:     rec.ResponseBytes,
		DurationMicros:    rec.Duration.Microseconds(),
		StartedAt:         rec.StartedAt.UTC().Format(time.RFC3339Nano),
		Error:             rec.Error,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal call record: %w", err)
	}
	return b, nil
}

// DecodeRecord parses the output of EncodeRecord.
func DecodeRecord(data []byte) (CallRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return CallRecord{}, fmt.Errorf("unmarshal call record: %w", err)
	}
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return CallRecord{}, fmt.Errorf("call record id: %w", err)
	}
	started, err := time.Parse(time.RFC3339Nano, w.StartedAt)
	if err != nil {
		return CallRecord{}, fmt.Errorf("call record started_at: %w", err)
	}
	return CallRecord{
		ID:                id,
		Operation:         w.Operation,
		Resource:          w.Resource,
		Path:              w.Path,
		Principal:         w.Principal,
		Outcome:           Outcome(w.Outcome),
		StatusCode:        w.StatusCode,
		StatusDescription: w.StatusDescription,
		Attempts:          w.Attempts,
		RequestBytes:      w.RequestBytes,
		ResponseBytes:     w.ResponseBytes,
		Duration:          time.Duration(w.DurationMicros) * time.Microsecond,
		StartedAt:         started,
		Error:             w.Error,
	}, nil
}

package dispatcher

import (
	"tcubridge/internal/admissions/envelope"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/status"
)

// Result is the classified outcome of one remote call. Records follows Shape:
// a single-shape operation carries at most one record, a list-shape
// operation always carries a non-nil slice.
type Result struct {
	Operation         operations.Name
	Shape             operations.Shape
	Category          status.Category
	StatusCode        int
	StatusDescription string
	Records           []envelope.Record
	Attempts          int

	taxonomy *status.Taxonomy
}

// OK reports whether the authority accepted the request.
func (r *Result) OK() bool {
	return r != nil && r.Category == status.Success
}

// Record returns the first record, or an empty one when the response had none.
func (r *Result) Record() envelope.Record {
	if r == nil || len(r.Records) == 0 {
		return envelope.Record{}
	}
	return r.Records[0]
}

// IsList reports whether the operation answers with a list of records.
func (r *Result) IsList() bool {
	return r != nil && r.Shape == operations.ShapeList
}

// shapeRecords fits decoded records to the operation's response shape.
func shapeRecords(shape operations.Shape, recs []envelope.Record) []envelope.Record {
	if shape == operations.ShapeList {
		if recs == nil {
			return []envelope.Record{}
		}
		return recs
	}
	if len(recs) > 1 {
		return recs[:1:1]
	}
	return recs
}

// RecordOutcome classifies the per-block status of record i in a batch
// response. It reports false when the block carried no status of its own.
func (r *Result) RecordOutcome(i int) (status.Category, bool) {
	if r == nil || i < 0 || i >= len(r.Records) || !r.Records[i].HasStatus {
		return "", false
	}
	if r.taxonomy == nil {
		return status.Default().Classify(r.Records[i].StatusCode), true
	}
	return r.taxonomy.Classify(r.Records[i].StatusCode), true
}

// Values collects field name from every record, skipping records without it.
func (r *Result) Values(name string) []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		if v, ok := rec.Fields.Get(name); ok {
			out = append(out, v)
		}
	}
	return out
}

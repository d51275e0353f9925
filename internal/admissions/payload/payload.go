// Package payload defines the request payload handed to the dispatcher: an
// ordered field mapping, or an ordered list of subjects for batch operations,
// tagged with the operation it belongs to.
package payload

import "tcubridge/internal/admissions/operations"

// Field is one name/value pair.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered field mapping. Order is kept on the wire.
type Fields []Field

// FieldsOf builds Fields from alternating names and values. A trailing name
// without a value is ignored.
func FieldsOf(pairs ...string) Fields {
	out := make(Fields, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = out.With(pairs[i], pairs[i+1])
	}
	return out
}

// Get returns the value of name.
func (f Fields) Get(name string) (string, bool) {
	for _, fld := range f {
		if fld.Name == name {
			return fld.Value, true
		}
	}
	return "", false
}

// Value returns the value of name, or "".
func (f Fields) Value(name string) string {
	v, _ := f.Get(name)
	return v
}

// With returns a copy of f with name set to value. An existing entry keeps
// its position; f itself is never modified.
func (f Fields) With(name, value string) Fields {
	out := make(Fields, len(f), len(f)+1)
	copy(out, f)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Name: name, Value: value})
}

// WithOptional sets name only when value is non-empty.
func (f Fields) WithOptional(name, value string) Fields {
	if value == "" {
		return f
	}
	return f.With(name, value)
}

// Names returns field names in order.
func (f Fields) Names() []string {
	out := make([]string, len(f))
	for i, fld := range f {
		out[i] = fld.Name
	}
	return out
}

// Payload is the caller's input for one invocation.
type Payload struct {
	Operation operations.Name
	Fields    Fields
	Subjects  []Fields
	batch     bool
}

// New tags a single-subject payload.
func New(op operations.Name, fields Fields) Payload {
	return Payload{Operation: op, Fields: fields}
}

// NewBatch tags a list of subjects. Subject order is preserved on the wire.
func NewBatch(op operations.Name, subjects []Fields) Payload {
	return Payload{Operation: op, Subjects: subjects, batch: true}
}

func (p Payload) IsBatch() bool {
	return p.batch
}

// Blocks returns the payload as parameter blocks: one for a single subject,
// one per subject for a batch.
func (p Payload) Blocks() []Fields {
	if p.batch {
		return p.Subjects
	}
	return []Fields{p.Fields}
}

// Package envelope serializes authenticated request envelopes and decodes
// the authority's response envelopes. The XML shape is a fixed external
// contract.
package envelope

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	"tcubridge/pkg/platform/privacy"
)

// Element names of the request envelope.
const (
	elemRequest       = "Request"
	elemUsernameToken = "UsernameToken"
	elemUsername      = "Username"
	elemSessionToken  = "SessionToken"
	elemParameters    = "RequestParameters"
)

var (
	ErrMissingIdentity = errors.New("envelope identity needs a username and session token")
	ErrNoBlocks        = errors.New("envelope needs at least one parameter block")
	ErrInvalidName     = errors.New("field name is not a valid element name")
)

// Element names are restricted to a conservative subset of XML names so a
// field name can never open or close structure of its own.
var elementName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// Identity authenticates an envelope.
type Identity struct {
	Username     string
	SessionToken privacy.Secret
}

// ParameterBlock carries the fields of one subject.
type ParameterBlock struct {
	Fields payload.Fields
}

// Envelope is a request ready to serialize: exactly one identity and at
// least one parameter block.
type Envelope struct {
	Operation operations.Name
	Identity  Identity
	Blocks    []ParameterBlock
}

// Build splits p into parameter blocks under id. Block order follows input
// order; the authority correlates batch acknowledgements by position.
func Build(id Identity, p payload.Payload) (*Envelope, error) {
	if id.Username == "" || id.SessionToken.IsZero() {
		return nil, ErrMissingIdentity
	}
	blocks := p.Blocks()
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}

	env := &Envelope{Operation: p.Operation, Identity: id, Blocks: make([]ParameterBlock, len(blocks))}
	for i, fields := range blocks {
		for _, f := range fields {
			if !elementName.MatchString(f.Name) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidName, f.Name)
			}
		}
		env.Blocks[i] = ParameterBlock{Fields: append(payload.Fields(nil), fields...)}
	}
	return env, nil
}

// Marshal renders the wire form, session token included.
func (e *Envelope) Marshal() ([]byte, error) {
	return e.render(e.Identity.SessionToken.Reveal())
}

// MarshalMasked renders the envelope with the session token masked, for dry
// runs and diagnostics.
func (e *Envelope) MarshalMasked() ([]byte, error) {
	return e.render(e.Identity.SessionToken.String())
}

func (e *Envelope) render(token string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := start(elemRequest)
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	auth := start(elemUsernameToken)
	if err := enc.EncodeToken(auth); err != nil {
		return nil, err
	}
	if err := enc.EncodeElement(e.Identity.Username, start(elemUsername)); err != nil {
		return nil, err
	}
	if err := enc.EncodeElement(token, start(elemSessionToken)); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(auth.End()); err != nil {
		return nil, err
	}

	for _, block := range e.Blocks {
		params := start(elemParameters)
		if err := enc.EncodeToken(params); err != nil {
			return nil, err
		}
		for _, f := range block.Fields {
			if err := enc.EncodeElement(f.Value, start(f.Name)); err != nil {
				return nil, fmt.Errorf("encode %s: %w", f.Name, err)
			}
		}
		if err := enc.EncodeToken(params.End()); err != nil {
			return nil, err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func start(name string) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}}
}

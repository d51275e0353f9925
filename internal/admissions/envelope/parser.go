package envelope

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tcubridge/internal/admissions/payload"
)

// Element names of the response envelope.
const (
	elemResponse          = "Response"
	elemResponseParams    = "ResponseParameters"
	elemStatusCode        = "StatusCode"
	elemStatusDescription = "StatusDescription"
)

// ErrMalformedResponse means the response could not be read as an envelope.
// It points at the transport or the contract, never at the caller's input.
var ErrMalformedResponse = errors.New("malformed response envelope")

// Record is one decoded payload entry. Batch responses may carry a status
// per block; HasStatus tells whether this record had one.
type Record struct {
	Fields            payload.Fields
	StatusCode        int
	StatusDescription string
	HasStatus         bool
}

// Get returns the value of a payload field.
func (r Record) Get(name string) string {
	return r.Fields.Value(name)
}

// Response is a decoded response envelope. StatusCode is the only input to
// outcome classification; Records may be empty on success.
type Response struct {
	StatusCode        int
	StatusDescription string
	Records           []Record
}

type node struct {
	XMLName xml.Name
	Content string `xml:",chardata"`
	Nodes   []node `xml:",any"`
}

func (n node) isLeaf() bool {
	return len(n.Nodes) == 0
}

func (n node) child(name string) (node, bool) {
	for _, c := range n.Nodes {
		if c.XMLName.Local == name {
			return c, true
		}
	}
	return node{}, false
}

// Parse decodes raw. The status code may sit directly under <Response> or in
// the first <ResponseParameters> block. Anything else that cannot locate a
// numeric status code and a status description is malformed.
func Parse(raw []byte) (*Response, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var root node
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if root.XMLName.Local != elemResponse {
		return nil, fmt.Errorf("%w: root element is <%s>", ErrMalformedResponse, root.XMLName.Local)
	}

	holder := root
	if _, ok := root.child(elemStatusCode); !ok {
		params, ok := root.child(elemResponseParams)
		if !ok {
			return nil, fmt.Errorf("%w: no %s", ErrMalformedResponse, elemStatusCode)
		}
		holder = params
	}

	code, desc, ok, err := readStatus(holder)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no %s", ErrMalformedResponse, elemStatusCode)
	}

	return &Response{
		StatusCode:        code,
		StatusDescription: desc,
		Records:           collect(root, true),
	}, nil
}

// readStatus extracts the status pair of n. ok is false when n carries no
// status code at all.
func readStatus(n node) (code int, desc string, ok bool, err error) {
	codeNode, found := n.child(elemStatusCode)
	if !found {
		return 0, "", false, nil
	}
	code, convErr := strconv.Atoi(strings.TrimSpace(codeNode.Content))
	if convErr != nil {
		return 0, "", false, fmt.Errorf("%w: non-numeric %s %q", ErrMalformedResponse, elemStatusCode, strings.TrimSpace(codeNode.Content))
	}
	descNode, found := n.child(elemStatusDescription)
	if !found {
		return 0, "", false, fmt.Errorf("%w: no %s", ErrMalformedResponse, elemStatusDescription)
	}
	return code, strings.TrimSpace(descNode.Content), true, nil
}

// collect turns n into records: the leaf children of n form one record, and
// each nested element contributes its own records. At the root, the envelope
// status pair is not payload.
func collect(n node, isRoot bool) []Record {
	var (
		own    Record
		nested []Record
	)
	for _, c := range n.Nodes {
		name := c.XMLName.Local
		if !c.isLeaf() {
			nested = append(nested, collect(c, false)...)
			continue
		}
		switch name {
		case elemStatusCode:
			if isRoot {
				continue
			}
			if code, err := strconv.Atoi(strings.TrimSpace(c.Content)); err == nil {
				own.StatusCode = code
				own.HasStatus = true
			}
			continue
		case elemStatusDescription:
			if !isRoot {
				own.StatusDescription = strings.TrimSpace(c.Content)
			}
			continue
		}
		own.Fields = append(own.Fields, payload.Field{Name: name, Value: strings.TrimSpace(c.Content)})
	}

	if len(own.Fields) == 0 && !own.HasStatus {
		return nested
	}
	return append([]Record{own}, nested...)
}

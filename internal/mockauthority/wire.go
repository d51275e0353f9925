package mockauthority

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"tcubridge/internal/admissions/payload"
)

var errNoParameters = errors.New("request carries no RequestParameters")

type wireRequest struct {
	XMLName xml.Name `xml:"Request"`
	Token   struct {
		Username     string `xml:"Username"`
		SessionToken string `xml:"SessionToken"`
	} `xml:"UsernameToken"`
	Blocks []struct {
		Fields []wireField `xml:",any"`
	} `xml:"RequestParameters"`
}

type wireField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// inbound is a decoded request envelope.
type inbound struct {
	Username     string
	SessionToken string
	Blocks       []payload.Fields
}

func decodeRequest(body []byte) (inbound, error) {
	var req wireRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		return inbound{}, err
	}
	if len(req.Blocks) == 0 {
		return inbound{}, errNoParameters
	}
	in := inbound{
		Username:     strings.TrimSpace(req.Token.Username),
		SessionToken: strings.TrimSpace(req.Token.SessionToken),
		Blocks:       make([]payload.Fields, len(req.Blocks)),
	}
	for i, b := range req.Blocks {
		fields := make(payload.Fields, 0, len(b.Fields))
		for _, f := range b.Fields {
			fields = append(fields, payload.Field{Name: f.XMLName.Local, Value: strings.TrimSpace(f.Value)})
		}
		in.Blocks[i] = fields
	}
	return in, nil
}

// reply is a response envelope under construction. Records with a non-zero
// code carry their own status pair.
type reply struct {
	Code        int
	Description string
	Records     []replyRecord
}

type replyRecord struct {
	Fields      payload.Fields
	Code        int
	Description string
}

func (r reply) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "Response"}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	if err := leaf(enc, "StatusCode", strconv.Itoa(r.Code)); err != nil {
		return nil, err
	}
	if err := leaf(enc, "StatusDescription", r.Description); err != nil {
		return nil, err
	}
	for _, rec := range r.Records {
		block := xml.StartElement{Name: xml.Name{Local: "ResponseParameters"}}
		if err := enc.EncodeToken(block); err != nil {
			return nil, err
		}
		for _, f := range rec.Fields {
			if err := leaf(enc, f.Name, f.Value); err != nil {
				return nil, err
			}
		}
		if rec.Code != 0 {
			if err := leaf(enc, "StatusCode", strconv.Itoa(rec.Code)); err != nil {
				return nil, err
			}
			if err := leaf(enc, "StatusDescription", rec.Description); err != nil {
				return nil, err
			}
		}
		if err := enc.EncodeToken(block.End()); err != nil {
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

func leaf(enc *xml.Encoder, name, value string) error {
	return enc.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
}

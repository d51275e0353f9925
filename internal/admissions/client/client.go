// Package client exposes the authority's operations as typed per-resource
// methods. Every method builds a payload and hands it to the dispatcher;
// validation, retry and classification all happen there.
package client

import (
	"context"

	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	r "tcubridge/internal/admissions/rules"
	liststr "tcubridge/pkg/platform/strings"
)

// Invoker runs one payload. *dispatcher.Dispatcher satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, p payload.Payload) (*dispatcher.Result, error)
}

// Client groups the resource facades over one invoker.
type Client struct {
	Applicants   *Applicants
	Admissions   *Admissions
	Dashboard    *Dashboard
	Transfers    *Transfers
	Verification *Verification
	Staff        *Staff
	Graduates    *Graduates
	Foreign      *Foreign
	Enrollment   *Enrollment
	NonDegree    *NonDegree
	Postgraduate *Postgraduate
}

func New(inv Invoker) *Client {
	b := base{inv: inv}
	return &Client{
		Applicants:   &Applicants{b},
		Admissions:   &Admissions{b},
		Dashboard:    &Dashboard{b},
		Transfers:    &Transfers{b},
		Verification: &Verification{b},
		Staff:        &Staff{b},
		Graduates:    &Graduates{b},
		Foreign:      &Foreign{b},
		Enrollment:   &Enrollment{b},
		NonDegree:    &NonDegree{b},
		Postgraduate: &Postgraduate{b},
	}
}

type base struct {
	inv Invoker
}

func (b base) single(ctx context.Context, op operations.Name, f payload.Fields) (*dispatcher.Result, error) {
	return b.inv.Invoke(ctx, payload.New(op, f))
}

// subject is a typed batch entry.
type subject interface {
	fields() payload.Fields
}

func batch[T subject](ctx context.Context, b base, op operations.Name, items []T) (*dispatcher.Result, error) {
	subjects := make([]payload.Fields, len(items))
	for i, it := range items {
		subjects[i] = it.fields()
	}
	return b.inv.Invoke(ctx, payload.NewBatch(op, subjects))
}

// byProgramme is the common query shape of the list operations.
func byProgramme(code string) payload.Fields {
	return payload.FieldsOf(r.FieldProgrammeCode, code)
}

func byYear(year, programme string) payload.Fields {
	return payload.FieldsOf(r.FieldAcademicYear, year).WithOptional(r.FieldProgrammeCode, programme)
}

func joinList(items []string) string {
	return liststr.JoinList(items)
}

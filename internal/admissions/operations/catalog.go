// Package operations describes every remote operation as data: its endpoint,
// the fields it requires and accepts, whether it carries one subject or a
// batch, and the shape of its response payload. One generic dispatcher is
// driven from this table.
package operations

import (
	"fmt"
	"net/http"
	"sort"

	"tcubridge/internal/admissions/rules"
)

// Name identifies an operation, e.g. "applicants.checkStatus".
type Name string

func (n Name) String() string { return string(n) }

// Resource is a logical resource group of the remote API.
type Resource string

const (
	ResourceApplicants   Resource = "applicants"
	ResourceAdmissions   Resource = "admissions"
	ResourceDashboard    Resource = "dashboard"
	ResourceTransfers    Resource = "transfers"
	ResourceVerification Resource = "verification"
	ResourceStaff        Resource = "staff"
	ResourceGraduates    Resource = "graduates"
	ResourceForeign      Resource = "foreign"
	ResourceEnrollment   Resource = "enrollment"
	ResourceNonDegree    Resource = "nondegree"
	ResourcePostgraduate Resource = "postgraduate"
)

// Shape is the response payload shape. Batch operations default to a list,
// one acknowledgement per block.
type Shape string

const (
	ShapeSingle Shape = "single"
	ShapeList   Shape = "list"
)

// Descriptor is the static metadata of one operation.
type Descriptor struct {
	Name     Name
	Resource Resource
	Path     string
	Method   string
	Summary  string

	Required []string
	Optional []string
	// Passthrough fields are accepted without a rule.
	Passthrough []string

	Batch       bool
	MaxSubjects int
	Shape       Shape
}

// declares reports whether field is declared and whether it skips validation.
func (d Descriptor) declares(field string) (declared, passthrough bool) {
	for _, f := range d.Required {
		if f == field {
			return true, false
		}
	}
	for _, f := range d.Optional {
		if f == field {
			return true, false
		}
	}
	for _, f := range d.Passthrough {
		if f == field {
			return true, true
		}
	}
	return false, false
}

// IsPassthrough reports whether field is accepted without validation.
func (d Descriptor) IsPassthrough(field string) bool {
	_, pt := d.declares(field)
	return pt
}

// Declares reports whether field may appear in the operation's payload.
func (d Descriptor) Declares(field string) bool {
	ok, _ := d.declares(field)
	return ok
}

// Catalog is the immutable descriptor table.
type Catalog struct {
	byName map[Name]Descriptor
}

// NewCatalog indexes descriptors and checks them against reg. A required or
// optional field without a rule is a configuration defect and fails here,
// at load time, rather than on the first call that uses it.
func NewCatalog(reg *rules.Registry, descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{byName: make(map[Name]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" || d.Path == "" {
			return nil, fmt.Errorf("operation %q: name and path are required", d.Name)
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate operation %s", d.Name)
		}
		if d.Method == "" {
			d.Method = http.MethodPost
		}
		if d.Shape == "" {
			d.Shape = ShapeSingle
			if d.Batch {
				d.Shape = ShapeList
			}
		}
		for _, f := range append(append([]string(nil), d.Required...), d.Optional...) {
			if !reg.Has(f) {
				return nil, fmt.Errorf("operation %s: field %s has no rule", d.Name, f)
			}
		}
		if !d.Batch && d.MaxSubjects != 0 {
			return nil, fmt.Errorf("operation %s: subject limit on a single-subject operation", d.Name)
		}
		c.byName[d.Name] = d
	}
	return c, nil
}

// MustNewCatalog panics on an invalid table.
func MustNewCatalog(reg *rules.Registry, descriptors ...Descriptor) *Catalog {
	c, err := NewCatalog(reg, descriptors...)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the built-in catalog checked against reg.
func Default(reg *rules.Registry) (*Catalog, error) {
	return NewCatalog(reg, DefaultDescriptors()...)
}

func (c *Catalog) Lookup(name Name) (Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// All returns descriptors ordered by resource then name.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, 0, len(c.byName))
	for _, d := range c.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ByResource returns the descriptors of one resource group.
func (c *Catalog) ByResource(r Resource) []Descriptor {
	var out []Descriptor
	for _, d := range c.All() {
		if d.Resource == r {
			out = append(out, d)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.byName)
}

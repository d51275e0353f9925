//go:build property

package validation

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
	"tcubridge/internal/admissions/rules"
)

var indexPattern = regexp.MustCompile(`^[A-Z][0-9]{4}/[0-9]{4}/[0-9]{4}$`)

func newValidator(t *testing.T) *Validator {
	reg := rules.Default()
	cat, err := operations.Default(reg)
	if err != nil {
		t.Fatal(err)
	}
	return New(reg, cat)
}

func genIndexNumber() gopter.Gen {
	return gopter.CombineGens(
		gen.RuneRange('A', 'Z'),
		gen.IntRange(0, 9999),
		gen.IntRange(0, 9999),
		gen.IntRange(1990, 2099),
	).Map(func(v []interface{}) string {
		return fmt.Sprintf("%c%04d/%04d/%04d", v[0].(rune), v[1].(int), v[2].(int), v[3].(int))
	})
}

func TestIndexNumberProperties(t *testing.T) {
	v := newValidator(t)
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	check := func(index string) Result {
		return v.Validate(payload.New(operations.ApplicantsCheckStatus, payload.FieldsOf(rules.FieldF4IndexNo, index)))
	}

	properties.Property("well-formed index numbers are valid", prop.ForAll(
		func(index string) bool {
			return check(index).Valid()
		},
		genIndexNumber(),
	))

	properties.Property("anything else yields exactly one violation on the field", prop.ForAll(
		func(index string) bool {
			if indexPattern.MatchString(index) {
				return true
			}
			res := check(index)
			return len(res.Violations) == 1 && res.Violations[0].Field == rules.FieldF4IndexNo
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestConfirmationCodeProperties(t *testing.T) {
	v := newValidator(t)
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	confirm := func(code string) Result {
		return v.Validate(payload.New(operations.AdmissionsConfirm, payload.FieldsOf(
			rules.FieldF4IndexNo, "S1001/0012/2018",
			rules.FieldConfirmationCode, code,
		)))
	}

	properties.Property("letter-digits-letter codes are accepted", prop.ForAll(
		func(a rune, n int, b rune) bool {
			return confirm(fmt.Sprintf("%c%04d%c", a, n, b)).Valid()
		},
		gen.RuneRange('A', 'Z'), gen.IntRange(0, 9999), gen.RuneRange('A', 'Z'),
	))

	properties.Property("codes with a lowercase letter are rejected", prop.ForAll(
		func(lower rune, n int) bool {
			return !confirm(fmt.Sprintf("%c%04dA", lower, n)).Valid()
		},
		gen.RuneRange('a', 'z'), gen.IntRange(0, 9999),
	))

	properties.TestingRun(t)
}

func TestBatchIndexProperty(t *testing.T) {
	v := newValidator(t)
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("a single bad subject is reported at its own index", prop.ForAll(
		func(size, bad int) bool {
			bad = bad % size
			subjects := make([]payload.Fields, size)
			for i := range subjects {
				subjects[i] = graduate(fmt.Sprintf("S1001/%04d/2018", i))
			}
			subjects[bad] = graduate("bad")
			res := v.Validate(payload.NewBatch(operations.GraduatesSubmit, subjects))
			return len(res.Violations) == 1 && res.Violations[0].Index == bad
		},
		gen.IntRange(1, 50), gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tax := Default()

	cases := map[int]Category{
		200: Success,
		201: BusinessCondition,
		202: Success,
		203: BusinessCondition,
		204: AuthenticationFailure,
		205: ValidationFailure,
		209: Success,
		212: Success,
		218: Success,
		222: Success,
		223: Success,
		230: Success,
		231: Success,
		233: Success,
	}
	for code, want := range cases {
		assert.Equal(t, want, tax.Classify(code), code)
	}

	t.Run("error ranges are business or validation", func(t *testing.T) {
		for _, code := range []int{206, 207, 208, 210, 211, 213, 214, 215, 216, 217, 219, 220, 221, 224, 227, 228, 229, 232, 234} {
			got := tax.Classify(code)
			assert.Contains(t, []Category{BusinessCondition, ValidationFailure}, got, code)
		}
	})

	t.Run("unmapped codes degrade to unclassified", func(t *testing.T) {
		for _, code := range []int{0, -1, 225, 226, 299, 500, 1 << 30} {
			assert.Equal(t, UnclassifiedRemoteError, tax.Classify(code), code)
		}
	})

	t.Run("classification is stable", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.Equal(t, AuthenticationFailure, tax.Classify(204))
		}
	})
}

func TestDescribe(t *testing.T) {
	tax := Default()
	d, ok := tax.Describe(203)
	assert.True(t, ok)
	assert.Equal(t, "Applicant already admitted", d)

	_, ok = tax.Describe(299)
	assert.False(t, ok)

	entries := tax.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, 200, entries[0].Code)
	assert.Equal(t, 234, entries[len(entries)-1].Code)
}

func TestNewTaxonomyRejectsBadTables(t *testing.T) {
	_, err := NewTaxonomy(Entry{200, Success, "a"}, Entry{200, Success, "b"})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewTaxonomy(Entry{599, TransientNetworkFailure, "gateway"})
	assert.ErrorContains(t, err, "cannot come from a remote response")

	custom, err := NewTaxonomy(Entry{299, Success, "custom"})
	require.NoError(t, err)
	assert.Equal(t, Success, custom.Classify(299))
	assert.Equal(t, UnclassifiedRemoteError, custom.Classify(200))
}

func TestIsFailure(t *testing.T) {
	assert.False(t, Success.IsFailure())
	assert.False(t, BusinessCondition.IsFailure())
	assert.False(t, UnclassifiedRemoteError.IsFailure())
	assert.True(t, ValidationFailure.IsFailure())
	assert.True(t, AuthenticationFailure.IsFailure())
	assert.True(t, TransientNetworkFailure.IsFailure())
}

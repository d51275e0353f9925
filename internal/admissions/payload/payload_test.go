package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tcubridge/internal/admissions/operations"
)

func TestFields(t *testing.T) {
	f := FieldsOf("f4indexno", "S1001/0012/2018", "Reason", "moved", "dangling")

	assert.Equal(t, []string{"f4indexno", "Reason"}, f.Names())
	assert.Equal(t, "moved", f.Value("Reason"))

	f = f.With("Reason", "changed mind").WithOptional("ProgrammeCode", "").WithOptional("Gender", "F")
	assert.Equal(t, []string{"f4indexno", "Reason", "Gender"}, f.Names())
	assert.Equal(t, "changed mind", f.Value("Reason"))

	_, ok := f.Get("ProgrammeCode")
	assert.False(t, ok)
}

func TestWithLeavesReceiverUntouched(t *testing.T) {
	base := FieldsOf("f4indexno", "S1001/0012/2018", "Reason", "a")

	replaced := base.With("Reason", "b")
	assert.Equal(t, "a", base.Value("Reason"))
	assert.Equal(t, "b", replaced.Value("Reason"))

	grown := make(Fields, 0, 4)
	grown = grown.With("f4indexno", "S1001/0012/2018")
	left, right := grown.With("Gender", "F"), grown.With("Gender", "M")
	assert.Equal(t, "F", left.Value("Gender"))
	assert.Equal(t, "M", right.Value("Gender"))
	assert.Len(t, grown, 1)
}

func TestBlocks(t *testing.T) {
	single := New(operations.ApplicantsCheckStatus, FieldsOf("f4indexno", "S1001/0012/2018"))
	assert.False(t, single.IsBatch())
	assert.Len(t, single.Blocks(), 1)

	batch := NewBatch(operations.GraduatesSubmit, []Fields{FieldsOf("a", "1"), FieldsOf("a", "2")})
	assert.True(t, batch.IsBatch())
	assert.Equal(t, "2", batch.Blocks()[1].Value("a"))

	empty := NewBatch(operations.GraduatesSubmit, nil)
	assert.True(t, empty.IsBatch())
	assert.Empty(t, empty.Blocks())
}

package formaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionGateOpen(t *testing.T) {
	sub := NewSubmission(Submitter{}, MapValues{
		"answered": "yes",
		"blank":    "",
		"zero":     0,
	})

	// No reference configured leaves the gate open.
	assert.True(t, sub.gateOpen(""))
	assert.True(t, sub.gateOpen("answered"))
	assert.False(t, sub.gateOpen("blank"))
	assert.False(t, sub.gateOpen("unmapped"))
	// Values the converter cannot coerce resolve empty.
	assert.False(t, sub.gateOpen("zero"))
}

func TestSubmissionExtractFields(t *testing.T) {
	sub := NewSubmission(Submitter{}, MapValues{
		"field_first": "Ada",
		"field_last":  "",
	})

	fields := sub.extractFields(map[string]string{
		"first_name": "field_first",
		"last_name":  "field_last",
		"nick_name":  "",
	})

	assert.Equal(t, map[string]string{"first_name": "Ada"}, fields)
}

func TestSubmissionValueCoercion(t *testing.T) {
	sub := NewSubmission(Submitter{}, MapValues{
		"count":   "7",
		"decimal": float64(12),
	})

	assert.Equal(t, 7, sub.IntValue("count"))
	assert.Equal(t, 12, sub.IntValue("decimal"))
	assert.Equal(t, "12", sub.StringValue("decimal"))
	assert.Zero(t, sub.IntValue(""))
	assert.Equal(t, "", sub.StringValue(""))
}

func TestNewSubmission_AssignsDistinctIDs(t *testing.T) {
	a := NewSubmission(Submitter{}, MapValues{})
	b := NewSubmission(Submitter{}, MapValues{})
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotNil(t, a.Results)
}

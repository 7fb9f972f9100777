package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntValue_CoercesAPIShapes(t *testing.T) {
	assert.Equal(t, 7, IntValue("7"))
	assert.Equal(t, 7, IntValue(float64(7)))
	assert.Equal(t, 7, IntValue(json.Number("7")))
	assert.Zero(t, IntValue("seven"))
	assert.Zero(t, IntValue(nil))
}

func TestStringValue_CoercesAPIShapes(t *testing.T) {
	assert.Equal(t, "hello", StringValue("hello"))
	assert.Equal(t, "7", StringValue(float64(7)))
	assert.Equal(t, "1", StringValue(true))
	assert.Equal(t, "0", StringValue(false))
	assert.Equal(t, "", StringValue(nil))
	assert.Equal(t, "", StringValue([]any{"a"}))
}

func TestBoolValue_TreatsStoreFlagsAsBooleans(t *testing.T) {
	assert.True(t, BoolValue("1"))
	assert.True(t, BoolValue("true"))
	assert.True(t, BoolValue(float64(1)))
	assert.False(t, BoolValue("0"))
	assert.False(t, BoolValue(""))
	assert.False(t, BoolValue(nil))
}

func TestStringList_ScalarBecomesSingleton(t *testing.T) {
	assert.Equal(t, []string{"Student"}, StringList("Student"))
	assert.Equal(t, []string{"Student", "Parent"}, StringList([]any{"Student", "Parent"}))
	assert.Equal(t, []string{"Student"}, StringList([]string{"Student"}))
	assert.Nil(t, StringList(nil))
	assert.Nil(t, StringList(""))
}

func TestContactField_NilSafe(t *testing.T) {
	var contact *Contact
	assert.Equal(t, "", contact.Field("first_name"))

	contact = &Contact{Fields: map[string]string{"first_name": "Ada"}}
	assert.Equal(t, "Ada", contact.Field("first_name"))
	assert.Equal(t, "", contact.Field("last_name"))
}

func TestCustomFieldKey(t *testing.T) {
	assert.Equal(t, "custom_12", CustomField{ID: 12}.Key())
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRelationshipTypeKey(t *testing.T) {
	typeID, dir, err := ParseRelationshipTypeKey("3_ab")
	assert.NoError(t, err)
	assert.Equal(t, 3, typeID)
	assert.Equal(t, DirectionAB, dir)

	typeID, dir, err = ParseRelationshipTypeKey("12_equal")
	assert.NoError(t, err)
	assert.Equal(t, 12, typeID)
	assert.Equal(t, DirectionEqual, dir)
}

func TestParseRelationshipTypeKey_Malformed(t *testing.T) {
	cases := []string{"", "3", "ab_3", "3_sideways", "x_ab"}
	for _, key := range cases {
		_, _, err := ParseRelationshipTypeKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestRelationshipDirectionInverse(t *testing.T) {
	assert.Equal(t, DirectionBA, DirectionAB.Inverse())
	assert.Equal(t, DirectionAB, DirectionBA.Inverse())
	assert.Equal(t, DirectionEqual, DirectionEqual.Inverse())
}

func TestRelationshipRelatedContactID(t *testing.T) {
	rel := &Relationship{ContactIDA: 10, ContactIDB: 20}
	assert.Equal(t, 20, rel.RelatedContactID(10))
	assert.Equal(t, 10, rel.RelatedContactID(20))
	assert.Zero(t, rel.RelatedContactID(30))
}

func TestRelationshipEndForDirection(t *testing.T) {
	rel := &Relationship{ContactIDA: 10, ContactIDB: 20}
	assert.Equal(t, 10, rel.EndForDirection(DirectionAB))
	assert.Equal(t, 20, rel.EndForDirection(DirectionBA))
}

func TestRelationshipTypeIsSymmetric(t *testing.T) {
	assert.True(t, RelationshipType{LabelAB: "Spouse of", LabelBA: "Spouse of"}.IsSymmetric())
	assert.False(t, RelationshipType{LabelAB: "Child of", LabelBA: "Parent of"}.IsSymmetric())
}

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RelationshipDirection indicates which way a Relationship Type reads.
// Symmetric types (e.g. "Spouse of") use DirectionEqual.
type RelationshipDirection string

const (
	DirectionAB    RelationshipDirection = "ab"
	DirectionBA    RelationshipDirection = "ba"
	DirectionEqual RelationshipDirection = "equal"
)

// Inverse returns the opposite direction. Equal is its own inverse.
func (d RelationshipDirection) Inverse() RelationshipDirection {
	switch d {
	case DirectionAB:
		return DirectionBA
	case DirectionBA:
		return DirectionAB
	}
	return DirectionEqual
}

// ParseRelationshipTypeKey splits a "<type_id>_<direction>" selector value
// (e.g. "3_ab") into its parts. The form UI encodes the type and reading
// direction in a single choice value.
func ParseRelationshipTypeKey(key string) (int, RelationshipDirection, error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("malformed relationship type key %q", key)
	}
	typeID, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("malformed relationship type key %q: %w", key, err)
	}
	dir := RelationshipDirection(parts[1])
	switch dir {
	case DirectionAB, DirectionBA, DirectionEqual:
		return typeID, dir, nil
	}
	return 0, "", fmt.Errorf("unknown relationship direction %q", parts[1])
}

// Relationship represents a CiviCRM Relationship record between two
// Contacts. Fields carries the public relationship fields (start date,
// description and so on) keyed by machine name.
type Relationship struct {
	ID                 int               `json:"id"`
	ContactIDA         int               `json:"contact_id_a"`
	ContactIDB         int               `json:"contact_id_b"`
	RelationshipTypeID int               `json:"relationship_type_id"`
	Fields             map[string]string `json:"fields,omitempty"`
}

// RelatedContactID returns the end of the relationship that is not the
// given Contact, or 0 when the Contact is on neither end.
func (r *Relationship) RelatedContactID(contactID int) int {
	if r.ContactIDA == contactID {
		return r.ContactIDB
	}
	if r.ContactIDB == contactID {
		return r.ContactIDA
	}
	return 0
}

// EndForDirection returns the Contact ID occupying the named end.
func (r *Relationship) EndForDirection(dir RelationshipDirection) int {
	if dir == DirectionAB {
		return r.ContactIDA
	}
	return r.ContactIDB
}

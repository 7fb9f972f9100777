package models

import "strconv"

// FieldDescriptor describes one public entity field as reported by the
// external store: its machine key and display label. Descriptors are
// immutable once fetched and are cached per request by the metadata layer.
type FieldDescriptor struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// OptionList maps choice values to labels for an option-bearing field.
type OptionList map[string]string

// CustomField describes a dynamically-defined field within a Custom Group.
type CustomField struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Key returns the API code for the custom field ("custom_<id>").
func (f CustomField) Key() string {
	return "custom_" + strconv.Itoa(f.ID)
}

// Custom group extension targets. CiviCRM encodes "what does this group's
// parent entity get filtered by" as a column ID on the group.
const (
	ExtendsColumnParticipantRole  = 1
	ExtendsColumnParticipantEvent = 2
	ExtendsColumnEventType        = 3
)

// CustomGroup is a named bundle of Custom Fields extending a parent
// entity, optionally scoped to specific sub-types, roles or events via
// the extends column. A group's fields are only relevant (and only
// persisted) when the entity instance matches the extension criteria.
type CustomGroup struct {
	ID                  int           `json:"id"`
	Title               string        `json:"title"`
	Extends             string        `json:"extends"`
	ExtendsColumnID     int           `json:"extends_entity_column_id,omitempty"`
	ExtendsColumnValues []string      `json:"extends_entity_column_value,omitempty"`
	Fields              []CustomField `json:"fields"`
}

// LocationType is a store enumeration used to key contact-method records.
type LocationType struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// ContactType describes a top-level Contact Type or a Sub-type (when
// ParentID is non-zero).
type ContactType struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	ParentID int    `json:"parent_id,omitempty"`
}

// RelationshipType describes a Relationship Type with both readings.
type RelationshipType struct {
	ID      int    `json:"id"`
	LabelAB string `json:"label_a_b"`
	LabelBA string `json:"label_b_a"`
}

// IsSymmetric reports whether both readings are identical, in which case
// the direction selector offers a single "equal" entry.
func (t RelationshipType) IsSymmetric() bool {
	return t.LabelAB == t.LabelBA
}

// MembershipType describes a Membership Type. Form Actions only offer
// free memberships; paid ones require a contribution flow.
type MembershipType struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	MinimumFee float64 `json:"minimum_fee"`
}

// DedupeRule is a named matching strategy owned by the external store.
type DedupeRule struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ContactType string `json:"contact_type"`
	Used        string `json:"used"` // Unsupervised, Supervised or General
}

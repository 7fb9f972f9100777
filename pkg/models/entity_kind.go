package models

// EntityKind identifies a CiviCRM entity or sub-entity handled by the
// form-action pipeline. Dispatch on these enumerants replaces the
// string-prefix conventions used by field naming at the form boundary.
type EntityKind string

const (
	EntityContact      EntityKind = "contact"
	EntityEmail        EntityKind = "email"
	EntityPhone        EntityKind = "phone"
	EntityIM           EntityKind = "im"
	EntityAddress      EntityKind = "address"
	EntityWebsite      EntityKind = "website"
	EntityRelationship EntityKind = "relationship"
	EntityNote         EntityKind = "note"
	EntityTag          EntityKind = "tag"
	EntityGroup        EntityKind = "group"
	EntityMembership   EntityKind = "membership"
	EntityParticipant  EntityKind = "participant"
	EntityEvent        EntityKind = "event"
)

// SubEntityKinds lists the kinds a Contact Action may cascade to, in the
// fixed order they are persisted after the primary Contact record.
var SubEntityKinds = []EntityKind{
	EntityEmail,
	EntityRelationship,
	EntityAddress,
	EntityWebsite,
	EntityPhone,
	EntityIM,
	EntityNote,
	EntityTag,
	EntityGroup,
	EntityMembership,
}

// IsValid returns true if the kind is one of the known enumerants.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityContact, EntityEmail, EntityPhone, EntityIM, EntityAddress,
		EntityWebsite, EntityRelationship, EntityNote, EntityTag, EntityGroup,
		EntityMembership, EntityParticipant, EntityEvent:
		return true
	}
	return false
}

// ActionKind identifies which Form Action class produced a result.
type ActionKind string

const (
	ActionKindContact     ActionKind = "contact"
	ActionKindParticipant ActionKind = "participant"
)

package models

// Contact represents a CiviCRM Contact record.
// Fields carries the public and custom field values keyed by their
// CiviCRM machine names (e.g. "first_name", "custom_12").
type Contact struct {
	ID             int               `json:"id"`
	ContactType    string            `json:"contact_type"`
	ContactSubType []string          `json:"contact_sub_type,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// Field returns a named field value, or "" when unset.
func (c *Contact) Field(name string) string {
	if c == nil || c.Fields == nil {
		return ""
	}
	return c.Fields[name]
}

// HasSubType returns true when the Contact carries the given sub-type.
func (c *Contact) HasSubType(subType string) bool {
	for _, s := range c.ContactSubType {
		if s == subType {
			return true
		}
	}
	return false
}

// ContactInput is the payload for a Contact create or update call.
type ContactInput struct {
	ID             int               `json:"id,omitempty"`
	ContactType    string            `json:"contact_type,omitempty"`
	ContactSubType []string          `json:"contact_sub_type,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// Email represents a CiviCRM Email record.
type Email struct {
	ID             int    `json:"id"`
	ContactID      int    `json:"contact_id"`
	LocationTypeID int    `json:"location_type_id"`
	Email          string `json:"email"`
	IsPrimary      bool   `json:"is_primary"`
}

// Phone represents a CiviCRM Phone record. The (LocationTypeID,
// PhoneTypeID) pair is the composite key the mapping UI edits by.
type Phone struct {
	ID             int    `json:"id"`
	ContactID      int    `json:"contact_id"`
	LocationTypeID int    `json:"location_type_id"`
	PhoneTypeID    int    `json:"phone_type_id"`
	Phone          string `json:"phone"`
}

// IM represents a CiviCRM Instant Messenger record.
type IM struct {
	ID             int    `json:"id"`
	ContactID      int    `json:"contact_id"`
	LocationTypeID int    `json:"location_type_id"`
	ProviderID     int    `json:"provider_id"`
	Name           string `json:"name"`
}

// Address represents a CiviCRM Address record. Beyond the location key,
// address fields are dynamic public fields.
type Address struct {
	ID             int               `json:"id"`
	ContactID      int               `json:"contact_id"`
	LocationTypeID int               `json:"location_type_id"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// Website represents a CiviCRM Website record, keyed by Website Type.
type Website struct {
	ID            int    `json:"id"`
	ContactID     int    `json:"contact_id"`
	WebsiteTypeID int    `json:"website_type_id"`
	URL           string `json:"url"`
}

// Note represents a CiviCRM Note attached to a Contact.
type Note struct {
	ID           int    `json:"id"`
	EntityTable  string `json:"entity_table"`
	EntityID     int    `json:"entity_id"`
	Subject      string `json:"subject,omitempty"`
	Note         string `json:"note"`
	ModifiedDate string `json:"modified_date,omitempty"`
}

// Membership represents a CiviCRM Membership record.
type Membership struct {
	ID               int               `json:"id"`
	ContactID        int               `json:"contact_id"`
	MembershipTypeID int               `json:"membership_type_id"`
	Fields           map[string]string `json:"fields,omitempty"`
}

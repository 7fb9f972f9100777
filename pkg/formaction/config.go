package formaction

// Action configuration is what the mapping author saved in the
// definition UI: which store fields each form field feeds, plus the
// per-row settings of the sub-entity repeaters. References ("Ref"
// suffix) name form fields; "ActionRef" names a sibling Action.

// ContactActionConfig configures one Contact Action.
type ContactActionConfig struct {
	Name              string `validate:"required"`
	ContactType       string `validate:"required"`
	ContactSubType    string
	DedupeRuleID      int
	SubmittingContact bool
	Autoload          bool
	// ConditionalRef gates the whole Action.
	ConditionalRef string

	// PublicFieldRefs maps store field names to form field references.
	PublicFieldRefs map[string]string
	// CustomFieldRefs maps "custom_<id>" keys to form field references.
	CustomFieldRefs map[string]string

	EmailRows        []EmailRowConfig
	RelationshipRows []RelationshipRowConfig
	AddressRows      []AddressRowConfig
	WebsiteRows      []WebsiteRowConfig
	PhoneRows        []PhoneRowConfig
	IMRows           []IMRowConfig
	NoteRows         []NoteRowConfig
	TagRows          []TagRowConfig
	GroupRows        []GroupRowConfig
	MembershipRows   []MembershipRowConfig
}

// EmailRowConfig maps one email input to a Location Type. The primary
// row's address also feeds dedupe matching during identity resolution.
type EmailRowConfig struct {
	LocationTypeID int `validate:"required"`
	EmailRef       string
	IsPrimary      bool
	ConditionalRef string
}

// RelationshipRowConfig maps one relationship to a sibling Contact
// Action. TypeKey is the combined "<type_id>_<direction>" selector value.
type RelationshipRowConfig struct {
	TypeKey        string `validate:"required"`
	ActionRef      string `validate:"required"`
	FieldRefs      map[string]string
	ConditionalRef string
}

// AddressRowConfig maps address inputs to a Location Type. IncludeEmpty
// sends unanswered fields as empty strings so an update clears them.
type AddressRowConfig struct {
	LocationTypeID int `validate:"required"`
	IncludeEmpty   bool
	FieldRefs      map[string]string
	ConditionalRef string
}

// WebsiteRowConfig maps one URL input to a Website Type.
type WebsiteRowConfig struct {
	WebsiteTypeID  int `validate:"required"`
	URLRef         string
	ConditionalRef string
}

// PhoneRowConfig maps one phone input to a (Location, Phone Type) pair.
type PhoneRowConfig struct {
	LocationTypeID int `validate:"required"`
	PhoneTypeID    int `validate:"required"`
	PhoneRef       string
	ConditionalRef string
}

// IMRowConfig maps one IM name input to a (Location, Provider) pair.
type IMRowConfig struct {
	LocationTypeID int `validate:"required"`
	ProviderID     int `validate:"required"`
	NameRef        string
	ConditionalRef string
}

// NoteRowConfig maps note inputs; rows without note text are skipped.
type NoteRowConfig struct {
	SubjectRef     string
	NoteRef        string
	ConditionalRef string
}

// TagRowConfig applies a set of tags when its gate is open.
type TagRowConfig struct {
	TagIDs         []int `validate:"required,min=1"`
	ConditionalRef string
}

// GroupRowConfig enrolls the contact in a group when its gate is open.
type GroupRowConfig struct {
	GroupID        int `validate:"required"`
	DoubleOptIn    bool
	ConditionalRef string
}

// MembershipRowConfig signs the contact up for a free membership type
// when its gate is open and no current membership of the type exists.
type MembershipRowConfig struct {
	MembershipTypeID int `validate:"required"`
	CampaignID       int
	FieldRefs        map[string]string
	ConditionalRef   string
}

// ParticipantActionConfig configures one Participant Action.
type ParticipantActionConfig struct {
	Name string `validate:"required"`
	// ConditionalRef gates the whole Action.
	ConditionalRef string

	// Contact reference, strongest first: a sibling Contact Action, a
	// fixed contact ID, then a mapped form field.
	ContactActionRef string
	ContactID        int
	ContactRef       string

	// Registered-by reference: a sibling Participant Action or a mapped
	// form field. There is no fixed-ID control.
	RegisteredByActionRef string
	RegisteredByRef       string

	// Event reference: a fixed event ID or a mapped form field.
	EventID  int
	EventRef string

	RoleID     string
	RoleRef    string
	StatusID   int
	StatusRef  string
	CampaignID int

	PublicFieldRefs map[string]string
	CustomFieldRefs map[string]string
}

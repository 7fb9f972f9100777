package models

// ActionResult is the output of one Form Action's make() phase: the
// persisted record(s) per sub-entity kind, or nil where nothing was saved.
// Results live in the submission-scoped result store and are the sole
// channel by which later Actions see earlier Actions' work.
type ActionResult struct {
	ActionName string     `json:"action_name"`
	Kind       ActionKind `json:"kind"`

	// Contact is nil when the Action never ran, and carries a zero ID
	// when the primary save failed or was gated off, so that downstream
	// Actions can detect the failure without an error channel.
	Contact *Contact `json:"contact,omitempty"`

	Emails        []Email        `json:"emails,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
	Addresses     []Address      `json:"addresses,omitempty"`
	Websites      []Website      `json:"websites,omitempty"`
	Phones        []Phone        `json:"phones,omitempty"`
	IMs           []IM           `json:"ims,omitempty"`
	Notes         []Note         `json:"notes,omitempty"`
	Tags          []int          `json:"tags,omitempty"`
	Groups        []int          `json:"groups,omitempty"`
	Memberships   []Membership   `json:"memberships,omitempty"`

	Participant *Participant `json:"participant,omitempty"`
}

// ContactID returns the persisted Contact's ID, or 0 when the Action
// failed, was skipped, or is not a Contact Action.
func (r *ActionResult) ContactID() int {
	if r == nil || r.Contact == nil {
		return 0
	}
	return r.Contact.ID
}

// ParticipantID returns the persisted Participant's ID, or 0.
func (r *ActionResult) ParticipantID() int {
	if r == nil || r.Participant == nil {
		return 0
	}
	return r.Participant.ID
}

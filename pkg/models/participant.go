package models

// Participant represents a CiviCRM Participant (event registration).
type Participant struct {
	ID             int               `json:"id"`
	ContactID      int               `json:"contact_id"`
	EventID        int               `json:"event_id"`
	StatusID       int               `json:"status_id,omitempty"`
	RoleID         string            `json:"participant_role_id,omitempty"`
	RegisteredByID int               `json:"registered_by_id,omitempty"`
	CampaignID     int               `json:"campaign_id,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// ParticipantInput is the payload for a Participant create call.
// Participants are only ever created by a Form Action, never updated.
type ParticipantInput struct {
	ContactID      int               `json:"contact_id"`
	EventID        int               `json:"event_id"`
	StatusID       int               `json:"status_id,omitempty"`
	RoleID         string            `json:"participant_role_id,omitempty"`
	RegisteredByID int               `json:"registered_by_id,omitempty"`
	CampaignID     int               `json:"campaign_id,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// Event represents the subset of a CiviCRM Event the pipeline needs.
type Event struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	EventTypeID           int    `json:"event_type_id"`
	AllowSameParticipants bool   `json:"allow_same_participant_emails"`
}

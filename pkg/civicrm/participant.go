package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// ParticipantService reads and writes event Participant records.
// Participants are create-only through this module: re-registration
// rules belong to the event configuration.
type ParticipantService struct {
	api    API
	logger ectologger.Logger
}

// NewParticipantService creates a new ParticipantService
func NewParticipantService(api API, logger ectologger.Logger) *ParticipantService {
	return &ParticipantService{api: api, logger: logger}
}

// GetByID returns a Participant record, or nil when it does not exist.
func (s *ParticipantService) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	values, err := s.api.Get(ctx, "Participant", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return participantFromMap(values[0]), nil
}

// IsRegistered returns true when the contact already holds a Participant
// record for the event.
func (s *ParticipantService) IsRegistered(ctx context.Context, contactID, eventID int) (bool, error) {
	values, err := s.api.Get(ctx, "Participant", map[string]any{
		"contact_id": contactID,
		"event_id":   eventID,
	})
	if err != nil {
		return false, err
	}
	return len(values) > 0, nil
}

// Create registers a contact for an event.
func (s *ParticipantService) Create(ctx context.Context, input models.ParticipantInput) (*models.Participant, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.ParticipantService.Create")
	defer span.End()

	params := map[string]any{
		"contact_id": input.ContactID,
		"event_id":   input.EventID,
	}
	if input.StatusID != 0 {
		params["status_id"] = input.StatusID
	}
	if input.RoleID != "" {
		params["role_id"] = input.RoleID
	}
	if input.RegisteredByID != 0 {
		params["registered_by_id"] = input.RegisteredByID
	}
	if input.CampaignID != 0 {
		params["campaign_id"] = input.CampaignID
	}
	for k, v := range input.Fields {
		params[k] = v
	}

	record, err := s.api.Create(ctx, "Participant", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id": input.ContactID,
			"event_id":   input.EventID,
		}).Error("failed to create Participant")
		return nil, err
	}

	saved := participantFromMap(record)
	if saved.ContactID == 0 {
		saved.ContactID = input.ContactID
	}
	if saved.EventID == 0 {
		saved.EventID = input.EventID
	}
	return saved, nil
}

func participantFromMap(m map[string]any) *models.Participant {
	participant := &models.Participant{
		ID:             models.IntValue(m["id"]),
		ContactID:      models.IntValue(m["contact_id"]),
		EventID:        models.IntValue(m["event_id"]),
		StatusID:       models.IntValue(m["status_id"]),
		RoleID:         models.StringValue(m["role_id"]),
		RegisteredByID: models.IntValue(m["registered_by_id"]),
		CampaignID:     models.IntValue(m["campaign_id"]),
		Fields:         map[string]string{},
	}
	for k, v := range m {
		switch k {
		case "id", "contact_id", "event_id", "status_id", "role_id", "registered_by_id", "campaign_id":
			continue
		}
		participant.Fields[k] = models.StringValue(v)
	}
	return participant
}

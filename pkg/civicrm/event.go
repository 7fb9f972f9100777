package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// EventService reads Event records. Events are owned by the store; this
// module only looks them up for participant registration.
type EventService struct {
	api    API
	logger ectologger.Logger
}

// NewEventService creates a new EventService
func NewEventService(api API, logger ectologger.Logger) *EventService {
	return &EventService{api: api, logger: logger}
}

// GetByID returns an Event record, or nil when it does not exist.
func (s *EventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	values, err := s.api.Get(ctx, "Event", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return eventFromMap(values[0]), nil
}

// GetActive returns active events, for the mapping UI's event selector.
func (s *EventService) GetActive(ctx context.Context) ([]models.Event, error) {
	values, err := s.api.Get(ctx, "Event", map[string]any{"is_active": 1})
	if err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(values))
	for _, v := range values {
		events = append(events, *eventFromMap(v))
	}
	return events, nil
}

func eventFromMap(m map[string]any) *models.Event {
	return &models.Event{
		ID:                    models.IntValue(m["id"]),
		Title:                 models.StringValue(m["title"]),
		EventTypeID:           models.IntValue(m["event_type_id"]),
		AllowSameParticipants: models.BoolValue(m["allow_same_participant_emails"]),
	}
}

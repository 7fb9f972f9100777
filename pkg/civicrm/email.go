package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// EmailService reads and writes Email records. Emails are keyed per
// contact by Location Type: a write targets the contact's existing record
// at that location when one exists.
type EmailService struct {
	api    API
	logger ectologger.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(api API, logger ectologger.Logger) *EmailService {
	return &EmailService{api: api, logger: logger}
}

// GetByID returns an Email record, or nil when it does not exist.
func (s *EmailService) GetByID(ctx context.Context, id int) (*models.Email, error) {
	values, err := s.api.Get(ctx, "Email", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return emailFromMap(values[0]), nil
}

// GetForContactLocation returns the contact's Email at the given Location
// Type, or nil when none exists.
func (s *EmailService) GetForContactLocation(ctx context.Context, contactID, locationTypeID int) (*models.Email, error) {
	values, err := s.api.Get(ctx, "Email", map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
	})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return emailFromMap(values[0]), nil
}

// RecordUpdate writes the contact's Email at the given Location Type,
// updating the existing record when one exists and creating otherwise.
func (s *EmailService) RecordUpdate(ctx context.Context, contactID, locationTypeID int, address string) (*models.Email, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.EmailService.RecordUpdate")
	defer span.End()

	existing, err := s.GetForContactLocation(ctx, contactID, locationTypeID)
	if err != nil {
		return nil, err
	}

	params := map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
		"email":            address,
	}
	if existing != nil {
		params["id"] = existing.ID
	}

	record, err := s.api.Create(ctx, "Email", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id":       contactID,
			"location_type_id": locationTypeID,
		}).Error("failed to save Email")
		return nil, err
	}

	saved := emailFromMap(record)
	if saved.ContactID == 0 {
		saved.ContactID = contactID
	}
	if saved.LocationTypeID == 0 {
		saved.LocationTypeID = locationTypeID
	}
	if saved.Email == "" {
		saved.Email = address
	}
	return saved, nil
}

func emailFromMap(m map[string]any) *models.Email {
	return &models.Email{
		ID:             models.IntValue(m["id"]),
		ContactID:      models.IntValue(m["contact_id"]),
		LocationTypeID: models.IntValue(m["location_type_id"]),
		Email:          models.StringValue(m["email"]),
		IsPrimary:      models.BoolValue(m["is_primary"]),
	}
}

package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// PhoneService reads and writes Phone records. Phones are keyed per
// contact by the (Location Type, Phone Type) pair, and a contact may hold
// several records for the same pair; ambiguity handling is the caller's.
type PhoneService struct {
	api    API
	logger ectologger.Logger
}

// NewPhoneService creates a new PhoneService
func NewPhoneService(api API, logger ectologger.Logger) *PhoneService {
	return &PhoneService{api: api, logger: logger}
}

// GetByID returns a Phone record, or nil when it does not exist.
func (s *PhoneService) GetByID(ctx context.Context, id int) (*models.Phone, error) {
	values, err := s.api.Get(ctx, "Phone", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return phoneFromMap(values[0]), nil
}

// GetByTypePair returns all of the contact's Phone records at the given
// (Location Type, Phone Type) pair.
func (s *PhoneService) GetByTypePair(ctx context.Context, contactID, locationTypeID, phoneTypeID int) ([]models.Phone, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.PhoneService.GetByTypePair")
	defer span.End()

	values, err := s.api.Get(ctx, "Phone", map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
		"phone_type_id":    phoneTypeID,
	})
	if err != nil {
		return nil, err
	}

	phones := make([]models.Phone, 0, len(values))
	for _, v := range values {
		phones = append(phones, *phoneFromMap(v))
	}
	return phones, nil
}

// Save creates or updates a Phone record. With id set the write updates
// that record.
func (s *PhoneService) Save(ctx context.Context, id, contactID, locationTypeID, phoneTypeID int, number string) (*models.Phone, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.PhoneService.Save")
	defer span.End()

	params := map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
		"phone_type_id":    phoneTypeID,
		"phone":            number,
	}
	if id != 0 {
		params["id"] = id
	}

	record, err := s.api.Create(ctx, "Phone", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id":       contactID,
			"location_type_id": locationTypeID,
			"phone_type_id":    phoneTypeID,
		}).Error("failed to save Phone")
		return nil, err
	}

	saved := phoneFromMap(record)
	if saved.ContactID == 0 {
		saved.ContactID = contactID
	}
	if saved.LocationTypeID == 0 {
		saved.LocationTypeID = locationTypeID
	}
	if saved.PhoneTypeID == 0 {
		saved.PhoneTypeID = phoneTypeID
	}
	if saved.Phone == "" {
		saved.Phone = number
	}
	return saved, nil
}

func phoneFromMap(m map[string]any) *models.Phone {
	return &models.Phone{
		ID:             models.IntValue(m["id"]),
		ContactID:      models.IntValue(m["contact_id"]),
		LocationTypeID: models.IntValue(m["location_type_id"]),
		PhoneTypeID:    models.IntValue(m["phone_type_id"]),
		Phone:          models.StringValue(m["phone"]),
	}
}

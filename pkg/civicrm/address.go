package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// AddressService reads and writes Address records, keyed per contact by
// Location Type. Address fields are dynamic: the caller decides which
// fields to send, including explicit empty strings to clear values on an
// existing record.
type AddressService struct {
	api    API
	logger ectologger.Logger
}

// NewAddressService creates a new AddressService
func NewAddressService(api API, logger ectologger.Logger) *AddressService {
	return &AddressService{api: api, logger: logger}
}

// GetByID returns an Address record, or nil when it does not exist.
func (s *AddressService) GetByID(ctx context.Context, id int) (*models.Address, error) {
	values, err := s.api.Get(ctx, "Address", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return addressFromMap(values[0]), nil
}

// GetForContactLocation returns the contact's Address at the given
// Location Type, or nil when none exists.
func (s *AddressService) GetForContactLocation(ctx context.Context, contactID, locationTypeID int) (*models.Address, error) {
	values, err := s.api.Get(ctx, "Address", map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
	})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return addressFromMap(values[0]), nil
}

// RecordUpdate writes the contact's Address at the given Location Type,
// updating the existing record when one exists and creating otherwise.
// Empty-string field values are sent as-is so an update can clear them.
func (s *AddressService) RecordUpdate(ctx context.Context, contactID, locationTypeID int, fields map[string]string) (*models.Address, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.AddressService.RecordUpdate")
	defer span.End()

	existing, err := s.GetForContactLocation(ctx, contactID, locationTypeID)
	if err != nil {
		return nil, err
	}

	params := map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
	}
	for k, v := range fields {
		params[k] = v
	}
	if existing != nil {
		params["id"] = existing.ID
	}

	record, err := s.api.Create(ctx, "Address", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id":       contactID,
			"location_type_id": locationTypeID,
		}).Error("failed to save Address")
		return nil, err
	}

	saved := addressFromMap(record)
	if saved.ContactID == 0 {
		saved.ContactID = contactID
	}
	if saved.LocationTypeID == 0 {
		saved.LocationTypeID = locationTypeID
	}
	return saved, nil
}

func addressFromMap(m map[string]any) *models.Address {
	address := &models.Address{
		ID:             models.IntValue(m["id"]),
		ContactID:      models.IntValue(m["contact_id"]),
		LocationTypeID: models.IntValue(m["location_type_id"]),
		Fields:         map[string]string{},
	}
	for k, v := range m {
		switch k {
		case "id", "contact_id", "location_type_id":
			continue
		}
		address.Fields[k] = models.StringValue(v)
	}
	return address
}

package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// IMService reads and writes Instant Messenger records, keyed per contact
// by the (Location Type, Provider) pair like phones.
type IMService struct {
	api    API
	logger ectologger.Logger
}

// NewIMService creates a new IMService
func NewIMService(api API, logger ectologger.Logger) *IMService {
	return &IMService{api: api, logger: logger}
}

// GetByID returns an IM record, or nil when it does not exist.
func (s *IMService) GetByID(ctx context.Context, id int) (*models.IM, error) {
	values, err := s.api.Get(ctx, "Im", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return imFromMap(values[0]), nil
}

// GetByTypePair returns all of the contact's IM records at the given
// (Location Type, Provider) pair.
func (s *IMService) GetByTypePair(ctx context.Context, contactID, locationTypeID, providerID int) ([]models.IM, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.IMService.GetByTypePair")
	defer span.End()

	values, err := s.api.Get(ctx, "Im", map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
		"provider_id":      providerID,
	})
	if err != nil {
		return nil, err
	}

	ims := make([]models.IM, 0, len(values))
	for _, v := range values {
		ims = append(ims, *imFromMap(v))
	}
	return ims, nil
}

// Save creates or updates an IM record. With id set the write updates
// that record.
func (s *IMService) Save(ctx context.Context, id, contactID, locationTypeID, providerID int, name string) (*models.IM, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.IMService.Save")
	defer span.End()

	params := map[string]any{
		"contact_id":       contactID,
		"location_type_id": locationTypeID,
		"provider_id":      providerID,
		"name":             name,
	}
	if id != 0 {
		params["id"] = id
	}

	record, err := s.api.Create(ctx, "Im", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id":       contactID,
			"location_type_id": locationTypeID,
			"provider_id":      providerID,
		}).Error("failed to save Im")
		return nil, err
	}

	saved := imFromMap(record)
	if saved.ContactID == 0 {
		saved.ContactID = contactID
	}
	if saved.LocationTypeID == 0 {
		saved.LocationTypeID = locationTypeID
	}
	if saved.ProviderID == 0 {
		saved.ProviderID = providerID
	}
	if saved.Name == "" {
		saved.Name = name
	}
	return saved, nil
}

func imFromMap(m map[string]any) *models.IM {
	return &models.IM{
		ID:             models.IntValue(m["id"]),
		ContactID:      models.IntValue(m["contact_id"]),
		LocationTypeID: models.IntValue(m["location_type_id"]),
		ProviderID:     models.IntValue(m["provider_id"]),
		Name:           models.StringValue(m["name"]),
	}
}

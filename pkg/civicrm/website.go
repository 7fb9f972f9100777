package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// WebsiteService reads and writes Website records, keyed per contact by
// Website Type.
type WebsiteService struct {
	api    API
	logger ectologger.Logger
}

// NewWebsiteService creates a new WebsiteService
func NewWebsiteService(api API, logger ectologger.Logger) *WebsiteService {
	return &WebsiteService{api: api, logger: logger}
}

// GetByID returns a Website record, or nil when it does not exist.
func (s *WebsiteService) GetByID(ctx context.Context, id int) (*models.Website, error) {
	values, err := s.api.Get(ctx, "Website", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return websiteFromMap(values[0]), nil
}

// GetForContactType returns the contact's Website of the given type, or
// nil when none exists.
func (s *WebsiteService) GetForContactType(ctx context.Context, contactID, websiteTypeID int) (*models.Website, error) {
	values, err := s.api.Get(ctx, "Website", map[string]any{
		"contact_id":      contactID,
		"website_type_id": websiteTypeID,
	})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return websiteFromMap(values[0]), nil
}

// RecordUpdate writes the contact's Website of the given type, updating
// the existing record when one exists and creating otherwise.
func (s *WebsiteService) RecordUpdate(ctx context.Context, contactID, websiteTypeID int, rawURL string) (*models.Website, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.WebsiteService.RecordUpdate")
	defer span.End()

	existing, err := s.GetForContactType(ctx, contactID, websiteTypeID)
	if err != nil {
		return nil, err
	}

	params := map[string]any{
		"contact_id":      contactID,
		"website_type_id": websiteTypeID,
		"url":             rawURL,
	}
	if existing != nil {
		params["id"] = existing.ID
	}

	record, err := s.api.Create(ctx, "Website", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id":      contactID,
			"website_type_id": websiteTypeID,
		}).Error("failed to save Website")
		return nil, err
	}

	saved := websiteFromMap(record)
	if saved.ContactID == 0 {
		saved.ContactID = contactID
	}
	if saved.WebsiteTypeID == 0 {
		saved.WebsiteTypeID = websiteTypeID
	}
	if saved.URL == "" {
		saved.URL = rawURL
	}
	return saved, nil
}

func websiteFromMap(m map[string]any) *models.Website {
	return &models.Website{
		ID:            models.IntValue(m["id"]),
		ContactID:     models.IntValue(m["contact_id"]),
		WebsiteTypeID: models.IntValue(m["website_type_id"]),
		URL:           models.StringValue(m["url"]),
	}
}

package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
)

// TagService manages tags on contacts. Tagging is additive and
// idempotent like group enrollment.
type TagService struct {
	api    API
	logger ectologger.Logger
}

// NewTagService creates a new TagService
func NewTagService(api API, logger ectologger.Logger) *TagService {
	return &TagService{api: api, logger: logger}
}

// ContactHasTag returns true when the tag is already applied to the
// contact.
func (s *TagService) ContactHasTag(ctx context.Context, contactID, tagID int) (bool, error) {
	values, err := s.api.Get(ctx, "EntityTag", map[string]any{
		"entity_table": "civicrm_contact",
		"entity_id":    contactID,
		"tag_id":       tagID,
	})
	if err != nil {
		return false, err
	}
	return len(values) > 0, nil
}

// AddToContact applies the tag to the contact when not already applied.
// Returns true when a tag record was written.
func (s *TagService) AddToContact(ctx context.Context, contactID, tagID int) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.TagService.AddToContact")
	defer span.End()

	has, err := s.ContactHasTag(ctx, contactID, tagID)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	_, err = s.api.Create(ctx, "EntityTag", map[string]any{
		"entity_table": "civicrm_contact",
		"entity_id":    contactID,
		"tag_id":       tagID,
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id": contactID,
			"tag_id":     tagID,
		}).Error("failed to tag contact")
		return false, err
	}
	return true, nil
}

// GetAll returns all tags usable on contacts.
func (s *TagService) GetAll(ctx context.Context) ([]map[string]any, error) {
	return s.api.Get(ctx, "Tag", map[string]any{"used_for": "civicrm_contact"})
}

package civicrm

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// ContactService reads and writes Contact records and runs the
// identity-resolution lookups (checksum, dedupe rules).
type ContactService struct {
	api    API
	logger ectologger.Logger
}

// NewContactService creates a new ContactService
func NewContactService(api API, logger ectologger.Logger) *ContactService {
	return &ContactService{api: api, logger: logger}
}

// GetByID returns the full Contact record, or nil when it does not exist.
func (s *ContactService) GetByID(ctx context.Context, id int) (*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.ContactService.GetByID")
	defer span.End()

	values, err := s.api.Get(ctx, "Contact", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return contactFromMap(values[0]), nil
}

// Save creates or updates a Contact. With input.ID set the write is an
// update, otherwise a create. Returns the written record's ID.
func (s *ContactService) Save(ctx context.Context, input models.ContactInput) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.ContactService.Save")
	defer span.End()

	params := map[string]any{}
	for k, v := range input.Fields {
		params[k] = v
	}
	if input.ID != 0 {
		params["id"] = input.ID
	}
	if input.ContactType != "" {
		params["contact_type"] = input.ContactType
	}
	if len(input.ContactSubType) > 0 {
		params["contact_sub_type"] = input.ContactSubType
	}

	record, err := s.api.Create(ctx, "Contact", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to save Contact")
		return 0, err
	}
	return models.IntValue(record["id"]), nil
}

// GetIDByChecksum resolves a contact checksum to a contact ID. A stale or
// unknown checksum returns 0 with no error.
func (s *ContactService) GetIDByChecksum(ctx context.Context, contactID int, checksum string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.ContactService.GetIDByChecksum")
	defer span.End()

	if checksum == "" || contactID == 0 {
		return 0, nil
	}

	envelope, err := s.api.Get(ctx, "Contact", map[string]any{
		"id":       contactID,
		"checksum": checksum,
	})
	if err != nil {
		return 0, err
	}
	if len(envelope) == 0 {
		return 0, nil
	}
	return models.IntValue(envelope[0]["id"]), nil
}

// GetByDedupeRule matches the candidate contact against a named dedupe
// rule and returns the first matching contact ID, or 0 when nothing
// matches.
func (s *ContactService) GetByDedupeRule(ctx context.Context, input models.ContactInput, ruleID int) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.ContactService.GetByDedupeRule")
	defer span.End()

	values, err := s.api.Get(ctx, "Contact", map[string]any{
		"action":         "duplicatecheck",
		"match":          dedupeParams(input),
		"contact_type":   input.ContactType,
		"dedupe_rule_id": ruleID,
	})
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return models.IntValue(values[0]["id"]), nil
}

// GetByDedupeUnsupervised matches against the store's built-in
// unsupervised rule for the contact type.
func (s *ContactService) GetByDedupeUnsupervised(ctx context.Context, input models.ContactInput) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.ContactService.GetByDedupeUnsupervised")
	defer span.End()

	values, err := s.api.Get(ctx, "Contact", map[string]any{
		"action":       "duplicatecheck",
		"match":        dedupeParams(input),
		"contact_type": input.ContactType,
		"rule_type":    "Unsupervised",
	})
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return models.IntValue(values[0]["id"]), nil
}

func dedupeParams(input models.ContactInput) map[string]any {
	params := map[string]any{"contact_type": input.ContactType}
	for k, v := range input.Fields {
		if v != "" {
			params[k] = v
		}
	}
	return params
}

func contactFromMap(m map[string]any) *models.Contact {
	contact := &models.Contact{
		ID:          models.IntValue(m["id"]),
		ContactType: models.StringValue(m["contact_type"]),
		Fields:      map[string]string{},
	}
	contact.ContactSubType = models.StringList(m["contact_sub_type"])

	for k, v := range m {
		switch k {
		case "id", "contact_type", "contact_sub_type":
			continue
		}
		// Nested payloads (api chaining) are not field values.
		if strings.HasPrefix(k, "api.") {
			continue
		}
		contact.Fields[k] = models.StringValue(v)
	}
	return contact
}

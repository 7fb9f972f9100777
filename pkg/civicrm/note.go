package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// NoteService creates Note records attached to contacts. Notes are
// append-only from this module's point of view: every submission that
// supplies note text creates a new record.
type NoteService struct {
	api    API
	logger ectologger.Logger
}

// NewNoteService creates a new NoteService
func NewNoteService(api API, logger ectologger.Logger) *NoteService {
	return &NoteService{api: api, logger: logger}
}

// GetByID returns a Note record, or nil when it does not exist.
func (s *NoteService) GetByID(ctx context.Context, id int) (*models.Note, error) {
	values, err := s.api.Get(ctx, "Note", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return noteFromMap(values[0]), nil
}

// CreateForContact attaches a new Note to the contact.
func (s *NoteService) CreateForContact(ctx context.Context, contactID int, subject, text string) (*models.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.NoteService.CreateForContact")
	defer span.End()

	params := map[string]any{
		"entity_table": "civicrm_contact",
		"entity_id":    contactID,
		"note":         text,
	}
	if subject != "" {
		params["subject"] = subject
	}

	record, err := s.api.Create(ctx, "Note", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id": contactID,
		}).Error("failed to create Note")
		return nil, err
	}

	saved := noteFromMap(record)
	if saved.EntityID == 0 {
		saved.EntityID = contactID
	}
	if saved.EntityTable == "" {
		saved.EntityTable = "civicrm_contact"
	}
	if saved.Note == "" {
		saved.Note = text
	}
	return saved, nil
}

func noteFromMap(m map[string]any) *models.Note {
	return &models.Note{
		ID:           models.IntValue(m["id"]),
		EntityTable:  models.StringValue(m["entity_table"]),
		EntityID:     models.IntValue(m["entity_id"]),
		Subject:      models.StringValue(m["subject"]),
		Note:         models.StringValue(m["note"]),
		ModifiedDate: models.StringValue(m["modified_date"]),
	}
}

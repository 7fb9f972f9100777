package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// RelationshipService reads and writes Relationship records between
// contacts. Relationship types are directional: the (type, direction)
// pair decides which end a contact occupies.
type RelationshipService struct {
	api    API
	logger ectologger.Logger
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(api API, logger ectologger.Logger) *RelationshipService {
	return &RelationshipService{api: api, logger: logger}
}

// GetByID returns a Relationship record, or nil when it does not exist.
func (s *RelationshipService) GetByID(ctx context.Context, id int) (*models.Relationship, error) {
	values, err := s.api.Get(ctx, "Relationship", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return relationshipFromMap(values[0]), nil
}

// GetDirectional returns all relationships of the given type where the
// contact occupies the stated end. For the equal direction the contact
// may occupy either end.
func (s *RelationshipService) GetDirectional(ctx context.Context, contactID, typeID int, direction models.RelationshipDirection) ([]models.Relationship, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.RelationshipService.GetDirectional")
	defer span.End()

	params := map[string]any{"relationship_type_id": typeID}
	switch direction {
	case models.DirectionAB:
		params["contact_id_a"] = contactID
	case models.DirectionBA:
		params["contact_id_b"] = contactID
	default:
		return s.getEitherEnd(ctx, contactID, typeID)
	}

	values, err := s.api.Get(ctx, "Relationship", params)
	if err != nil {
		return nil, err
	}
	return relationshipsFromMaps(values), nil
}

func (s *RelationshipService) getEitherEnd(ctx context.Context, contactID, typeID int) ([]models.Relationship, error) {
	asA, err := s.api.Get(ctx, "Relationship", map[string]any{
		"relationship_type_id": typeID,
		"contact_id_a":         contactID,
	})
	if err != nil {
		return nil, err
	}
	asB, err := s.api.Get(ctx, "Relationship", map[string]any{
		"relationship_type_id": typeID,
		"contact_id_b":         contactID,
	})
	if err != nil {
		return nil, err
	}

	seen := map[int]bool{}
	merged := make([]models.Relationship, 0, len(asA)+len(asB))
	for _, rel := range relationshipsFromMaps(append(asA, asB...)) {
		if seen[rel.ID] {
			continue
		}
		seen[rel.ID] = true
		merged = append(merged, rel)
	}
	return merged, nil
}

// Save creates or updates a Relationship. With input id set the write
// updates that record. Extra fields (dates, custom fields, activity
// flags) ride along in fields.
func (s *RelationshipService) Save(ctx context.Context, id, contactIDA, contactIDB, typeID int, fields map[string]string) (*models.Relationship, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.RelationshipService.Save")
	defer span.End()

	params := map[string]any{
		"contact_id_a":         contactIDA,
		"contact_id_b":         contactIDB,
		"relationship_type_id": typeID,
	}
	for k, v := range fields {
		params[k] = v
	}
	if id != 0 {
		params["id"] = id
	}

	record, err := s.api.Create(ctx, "Relationship", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id_a":         contactIDA,
			"contact_id_b":         contactIDB,
			"relationship_type_id": typeID,
		}).Error("failed to save Relationship")
		return nil, err
	}

	saved := relationshipFromMap(record)
	if saved.ContactIDA == 0 {
		saved.ContactIDA = contactIDA
	}
	if saved.ContactIDB == 0 {
		saved.ContactIDB = contactIDB
	}
	if saved.RelationshipTypeID == 0 {
		saved.RelationshipTypeID = typeID
	}
	return saved, nil
}

func relationshipsFromMaps(values []map[string]any) []models.Relationship {
	rels := make([]models.Relationship, 0, len(values))
	for _, v := range values {
		rels = append(rels, *relationshipFromMap(v))
	}
	return rels
}

func relationshipFromMap(m map[string]any) *models.Relationship {
	rel := &models.Relationship{
		ID:                 models.IntValue(m["id"]),
		ContactIDA:         models.IntValue(m["contact_id_a"]),
		ContactIDB:         models.IntValue(m["contact_id_b"]),
		RelationshipTypeID: models.IntValue(m["relationship_type_id"]),
		Fields:             map[string]string{},
	}
	for k, v := range m {
		switch k {
		case "id", "contact_id_a", "contact_id_b", "relationship_type_id":
			continue
		}
		rel.Fields[k] = models.StringValue(v)
	}
	return rel
}

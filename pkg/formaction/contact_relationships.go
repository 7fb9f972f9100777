package formaction

import (
	"context"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// relationshipRow is one extracted relationship repeater row. Rows are
// parsed during extraction because identity resolution needs to know
// which rows matched existing relationships before the contact is saved.
type relationshipRow struct {
	typeID           int
	direction        models.RelationshipDirection
	relatedContactID int
	// existing is the store record this row updates, nil to create.
	existing *models.Relationship
	fields   map[string]string
}

// extractRelationships resolves each configured relationship row against
// the store. A row is dropped when its gate is closed or its sibling
// action produced no contact.
//
// When several actions in one submission relate to the same contact with
// the same type and direction, each successive row is offset past the
// relationships its predecessors already claimed, so two "child of"
// actions update two distinct existing relationships instead of the same
// one twice.
func (a *ContactAction) extractRelationships(ctx context.Context, sub *Submission) []relationshipRow {
	var rows []relationshipRow
	for _, cfg := range a.config.RelationshipRows {
		if !sub.gateOpen(cfg.ConditionalRef) {
			continue
		}

		relatedID := sub.Results.ContactIDFor(cfg.ActionRef)
		if relatedID == 0 {
			continue
		}

		typeID, direction, err := models.ParseRelationshipTypeKey(cfg.TypeKey)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action": a.config.Name,
			}).Warn("skipping malformed relationship row")
			continue
		}

		row := relationshipRow{
			typeID:           typeID,
			direction:        direction,
			relatedContactID: relatedID,
			fields:           sub.extractFields(cfg.FieldRefs),
		}

		offset := a.relationshipOffset(sub, rows, row)

		// The related contact occupies the opposite end of the reading,
		// so its relationships are queried with the direction inverted.
		existing, err := a.services.Relationship.GetDirectional(ctx, relatedID, typeID, direction.Inverse())
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":               a.config.Name,
				"relationship_type_id": typeID,
			}).Warn("skipping relationship row: directional lookup failed")
			continue
		}
		if offset < len(existing) {
			row.existing = &existing[offset]
		}

		rows = append(rows, row)
	}
	return rows
}

// relationshipOffset counts relationships already claimed for the same
// (type, direction, related contact) triple, by sibling actions' results
// and by earlier rows of this action.
func (a *ContactAction) relationshipOffset(sub *Submission, extracted []relationshipRow, row relationshipRow) int {
	offset := 0
	relatedEnd := row.direction.Inverse()

	for _, sibling := range sub.Results.AllOfKind(models.ActionKindContact) {
		for i := range sibling.Relationships {
			rel := &sibling.Relationships[i]
			if rel.RelationshipTypeID != row.typeID {
				continue
			}
			if claimsRelatedEnd(rel, row.relatedContactID, relatedEnd) {
				offset++
			}
		}
	}
	for i := range extracted {
		r := &extracted[i]
		if r.typeID == row.typeID && r.direction == row.direction && r.relatedContactID == row.relatedContactID {
			offset++
		}
	}
	return offset
}

func claimsRelatedEnd(rel *models.Relationship, relatedID int, end models.RelationshipDirection) bool {
	if end == models.DirectionEqual {
		return rel.RelatedContactID(relatedID) != 0 || rel.ContactIDA == relatedID || rel.ContactIDB == relatedID
	}
	return rel.EndForDirection(end) == relatedID
}

// makeRelationships persists the extracted rows now that the contact ID
// is known. Matched rows update in place; the rest are created with the
// contact on the reading end and the related contact opposite.
func (a *ContactAction) makeRelationships(ctx context.Context, contactID int, rows []relationshipRow) []models.Relationship {
	var saved []models.Relationship
	for _, row := range rows {
		var (
			rel *models.Relationship
			err error
		)

		if row.existing != nil {
			rel, err = a.services.Relationship.Save(ctx,
				row.existing.ID, row.existing.ContactIDA, row.existing.ContactIDB,
				row.typeID, row.fields)
		} else {
			contactIDA, contactIDB := contactID, row.relatedContactID
			if row.direction == models.DirectionBA {
				contactIDA, contactIDB = row.relatedContactID, contactID
			}
			rel, err = a.services.Relationship.Save(ctx, 0, contactIDA, contactIDB, row.typeID, row.fields)
		}

		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":               a.config.Name,
				"relationship_type_id": row.typeID,
			}).Warn("relationship save failed")
			continue
		}
		saved = append(saved, *rel)
	}
	return saved
}

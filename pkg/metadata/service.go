// Package metadata looks up the external store's describable surface:
// public fields per entity, custom groups and their fields, and the
// enumerations mapping definitions are built from (location types, phone
// types, relationship types and so on). All lookups are cached with a
// TTL; mapping authors invalidate explicitly after changing the store.
package metadata

import (
	"context"
	"strconv"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/civicrm"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// Service is the cached metadata lookup layer.
type Service struct {
	api      civicrm.API
	cache    *Cache
	registry *Registry
	logger   ectologger.Logger
}

// NewService creates a new metadata Service
func NewService(api civicrm.API, cache *Cache, registry *Registry, logger ectologger.Logger) *Service {
	return &Service{api: api, cache: cache, registry: registry, logger: logger}
}

// Cache exposes the underlying cache for invalidation.
func (s *Service) Cache() *Cache {
	return s.cache
}

// PublicFields returns the writable public fields of an entity, with any
// extra descriptors contributed by registered field sources appended
// after the store's own.
func (s *Service) PublicFields(ctx context.Context, kind models.EntityKind) ([]models.FieldDescriptor, error) {
	ctx, span := tracing.StartSpan(ctx, "metadata.Service.PublicFields")
	defer span.End()

	value, err := s.cache.getOrLoad(ctx, "fields:"+string(kind), func(ctx context.Context) (any, error) {
		raw, err := s.api.GetFields(ctx, apiEntity(kind))
		if err != nil {
			return nil, err
		}

		fields := make([]models.FieldDescriptor, 0, len(raw))
		for _, f := range raw {
			name := models.StringValue(f["name"])
			if name == "" || name == "id" {
				continue
			}
			title := models.StringValue(f["title"])
			if title == "" {
				title = name
			}
			fields = append(fields, models.FieldDescriptor{Name: name, Title: title})
		}
		return fields, nil
	})
	if err != nil {
		return nil, err
	}

	fields := value.([]models.FieldDescriptor)
	if s.registry != nil {
		extra, err := s.registry.Fields(ctx, kind)
		if err != nil {
			return nil, err
		}
		fields = append(fields, extra...)
	}
	return fields, nil
}

// CustomGroups returns the custom groups extending the given entity,
// fields included.
func (s *Service) CustomGroups(ctx context.Context, extends string) ([]models.CustomGroup, error) {
	ctx, span := tracing.StartSpan(ctx, "metadata.Service.CustomGroups")
	defer span.End()

	value, err := s.cache.getOrLoad(ctx, "custom_groups:"+extends, func(ctx context.Context) (any, error) {
		raw, err := s.api.Get(ctx, "CustomGroup", map[string]any{
			"extends":   extends,
			"is_active": 1,
		})
		if err != nil {
			return nil, err
		}

		groups := make([]models.CustomGroup, 0, len(raw))
		for _, g := range raw {
			group := models.CustomGroup{
				ID:                  models.IntValue(g["id"]),
				Title:               models.StringValue(g["title"]),
				Extends:             models.StringValue(g["extends"]),
				ExtendsColumnID:     models.IntValue(g["extends_entity_column_id"]),
				ExtendsColumnValues: models.StringList(g["extends_entity_column_value"]),
			}

			fields, err := s.customFields(ctx, group.ID)
			if err != nil {
				return nil, err
			}
			group.Fields = fields
			groups = append(groups, group)
		}
		return groups, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.CustomGroup), nil
}

func (s *Service) customFields(ctx context.Context, groupID int) ([]models.CustomField, error) {
	raw, err := s.api.Get(ctx, "CustomField", map[string]any{
		"custom_group_id": groupID,
		"is_active":       1,
	})
	if err != nil {
		return nil, err
	}

	fields := make([]models.CustomField, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, models.CustomField{
			ID:    models.IntValue(f["id"]),
			Label: models.StringValue(f["label"]),
		})
	}
	return fields, nil
}

// LocationTypes returns the store's location types.
func (s *Service) LocationTypes(ctx context.Context) ([]models.LocationType, error) {
	value, err := s.cache.getOrLoad(ctx, "location_types", func(ctx context.Context) (any, error) {
		raw, err := s.api.Get(ctx, "LocationType", map[string]any{"is_active": 1})
		if err != nil {
			return nil, err
		}

		types := make([]models.LocationType, 0, len(raw))
		for _, t := range raw {
			types = append(types, models.LocationType{
				ID:        models.IntValue(t["id"]),
				Name:      models.StringValue(t["name"]),
				IsDefault: models.BoolValue(t["is_default"]),
			})
		}
		return types, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.LocationType), nil
}

// OptionValues returns value->label choices for a named option group
// (phone types, IM providers, website types, participant roles...).
func (s *Service) OptionValues(ctx context.Context, optionGroup string) (models.OptionList, error) {
	value, err := s.cache.getOrLoad(ctx, "options:"+optionGroup, func(ctx context.Context) (any, error) {
		raw, err := s.api.Get(ctx, "OptionValue", map[string]any{
			"option_group_id": optionGroup,
			"is_active":       1,
		})
		if err != nil {
			return nil, err
		}

		options := models.OptionList{}
		for _, o := range raw {
			options[models.StringValue(o["value"])] = models.StringValue(o["label"])
		}
		return options, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(models.OptionList), nil
}

// ContactTypes returns top-level contact types and their sub-types.
func (s *Service) ContactTypes(ctx context.Context) ([]models.ContactType, error) {
	value, err := s.cache.getOrLoad(ctx, "contact_types", func(ctx context.Context) (any, error) {
		raw, err := s.api.Get(ctx, "ContactType", map[string]any{"is_active": 1})
		if err != nil {
			return nil, err
		}

		types := make([]models.ContactType, 0, len(raw))
		for _, t := range raw {
			types = append(types, models.ContactType{
				ID:       models.IntValue(t["id"]),
				Name:     models.StringValue(t["name"]),
				Label:    models.StringValue(t["label"]),
				ParentID: models.IntValue(t["parent_id"]),
			})
		}
		return types, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.ContactType), nil
}

// SubTypesOf returns the sub-type names under a top-level contact type.
func (s *Service) SubTypesOf(ctx context.Context, parent string) ([]string, error) {
	types, err := s.ContactTypes(ctx)
	if err != nil {
		return nil, err
	}

	var parentID int
	for _, t := range types {
		if t.ParentID == 0 && t.Name == parent {
			parentID = t.ID
			break
		}
	}
	if parentID == 0 {
		return nil, nil
	}

	var subs []string
	for _, t := range types {
		if t.ParentID == parentID {
			subs = append(subs, t.Name)
		}
	}
	return subs, nil
}

// RelationshipTypes returns the store's relationship types.
func (s *Service) RelationshipTypes(ctx context.Context) ([]models.RelationshipType, error) {
	value, err := s.cache.getOrLoad(ctx, "relationship_types", func(ctx context.Context) (any, error) {
		raw, err := s.api.Get(ctx, "RelationshipType", map[string]any{"is_active": 1})
		if err != nil {
			return nil, err
		}

		types := make([]models.RelationshipType, 0, len(raw))
		for _, t := range raw {
			types = append(types, models.RelationshipType{
				ID:      models.IntValue(t["id"]),
				LabelAB: models.StringValue(t["label_a_b"]),
				LabelBA: models.StringValue(t["label_b_a"]),
			})
		}
		return types, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.RelationshipType), nil
}

// DedupeRules returns the dedupe rules usable for the given contact type.
func (s *Service) DedupeRules(ctx context.Context, contactType string) ([]models.DedupeRule, error) {
	value, err := s.cache.getOrLoad(ctx, "dedupe_rules:"+contactType, func(ctx context.Context) (any, error) {
		raw, err := s.api.Get(ctx, "RuleGroup", map[string]any{
			"contact_type": contactType,
		})
		if err != nil {
			return nil, err
		}

		rules := make([]models.DedupeRule, 0, len(raw))
		for _, r := range raw {
			rules = append(rules, models.DedupeRule{
				ID:          models.IntValue(r["id"]),
				Title:       models.StringValue(r["title"]),
				ContactType: models.StringValue(r["contact_type"]),
				Used:        models.StringValue(r["used"]),
			})
		}
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.DedupeRule), nil
}

// Campaigns returns active campaigns keyed by ID.
func (s *Service) Campaigns(ctx context.Context) (models.OptionList, error) {
	value, err := s.cache.getOrLoad(ctx, "campaigns", func(ctx context.Context) (any, error) {
		raw, err := s.api.Get(ctx, "Campaign", map[string]any{"is_active": 1})
		if err != nil {
			return nil, err
		}

		options := models.OptionList{}
		for _, c := range raw {
			options[strconv.Itoa(models.IntValue(c["id"]))] = models.StringValue(c["title"])
		}
		return options, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(models.OptionList), nil
}

// apiEntity maps an entity kind to the store's entity name.
func apiEntity(kind models.EntityKind) string {
	switch kind {
	case models.EntityIM:
		return "Im"
	case models.EntityGroup:
		return "GroupContact"
	case models.EntityTag:
		return "EntityTag"
	default:
		// Store entity names are the capitalized kind ("contact" ->
		// "Contact").
		k := string(kind)
		if k == "" {
			return k
		}
		return string(k[0]-'a'+'A') + k[1:]
	}
}

package metadata

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// fakeAPI serves canned responses and counts calls per entity.
type fakeAPI struct {
	values map[string][]map[string]any
	fields map[string][]map[string]any
	calls  map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		values: map[string][]map[string]any{},
		fields: map[string][]map[string]any{},
		calls:  map[string]int{},
	}
}

func (f *fakeAPI) Get(ctx context.Context, entity string, params map[string]any) ([]map[string]any, error) {
	f.calls[entity]++
	return f.values[entity], nil
}

func (f *fakeAPI) Create(ctx context.Context, entity string, params map[string]any) (map[string]any, error) {
	return nil, nil
}

func (f *fakeAPI) GetFields(ctx context.Context, entity string) ([]map[string]any, error) {
	f.calls["fields:"+entity]++
	return f.fields[entity], nil
}

func newTestService(api *fakeAPI) *Service {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewService(api, NewCache(DefaultCacheConfig()), NewRegistry(), logger)
}

func TestPublicFields_SkipsIDAndFallsBackToName(t *testing.T) {
	api := newFakeAPI()
	api.fields["Contact"] = []map[string]any{
		{"name": "id", "title": "Contact ID"},
		{"name": "first_name", "title": "First Name"},
		{"name": "nick_name"},
		{"title": "orphaned"},
	}
	service := newTestService(api)

	fields, err := service.PublicFields(context.Background(), models.EntityContact)
	assert.NoError(t, err)
	assert.Equal(t, []models.FieldDescriptor{
		{Name: "first_name", Title: "First Name"},
		{Name: "nick_name", Title: "nick_name"},
	}, fields)
}

func TestPublicFields_AppendsRegistryContributions(t *testing.T) {
	api := newFakeAPI()
	api.fields["Contact"] = []map[string]any{
		{"name": "first_name", "title": "First Name"},
	}
	service := newTestService(api)
	service.registry.Register(FieldSourceFunc(func(ctx context.Context, kind models.EntityKind) ([]models.FieldDescriptor, error) {
		if kind != models.EntityContact {
			return nil, nil
		}
		return []models.FieldDescriptor{{Name: "shoe_size", Title: "Shoe Size"}}, nil
	}))

	fields, err := service.PublicFields(context.Background(), models.EntityContact)
	assert.NoError(t, err)
	assert.Len(t, fields, 2)
	assert.Equal(t, "shoe_size", fields[1].Name)

	participant, err := service.PublicFields(context.Background(), models.EntityParticipant)
	assert.NoError(t, err)
	assert.Empty(t, participant)
}

func TestPublicFields_SecondLookupServedFromCache(t *testing.T) {
	api := newFakeAPI()
	api.fields["Contact"] = []map[string]any{
		{"name": "first_name", "title": "First Name"},
	}
	service := newTestService(api)

	_, _ = service.PublicFields(context.Background(), models.EntityContact)
	_, _ = service.PublicFields(context.Background(), models.EntityContact)

	assert.Equal(t, 1, api.calls["fields:Contact"])
}

func TestSubTypesOf_ReturnsChildrenOfNamedParent(t *testing.T) {
	api := newFakeAPI()
	api.values["ContactType"] = []map[string]any{
		{"id": "1", "name": "Individual"},
		{"id": "2", "name": "Organization"},
		{"id": "10", "name": "Student", "parent_id": "1"},
		{"id": "11", "name": "Parent", "parent_id": "1"},
		{"id": "20", "name": "Sponsor", "parent_id": "2"},
	}
	service := newTestService(api)

	subs, err := service.SubTypesOf(context.Background(), "Individual")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Student", "Parent"}, subs)

	none, err := service.SubTypesOf(context.Background(), "Household")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestOptionValues_KeyedByValue(t *testing.T) {
	api := newFakeAPI()
	api.values["OptionValue"] = []map[string]any{
		{"value": "1", "label": "Phone"},
		{"value": "2", "label": "Mobile"},
	}
	service := newTestService(api)

	options, err := service.OptionValues(context.Background(), "phone_type")
	assert.NoError(t, err)
	assert.Equal(t, models.OptionList{"1": "Phone", "2": "Mobile"}, options)
}

func TestCustomGroups_LoadsNestedFields(t *testing.T) {
	api := newFakeAPI()
	api.values["CustomGroup"] = []map[string]any{
		{
			"id": "7", "title": "Student Details", "extends": "Individual",
			"extends_entity_column_value": []any{"Student"},
		},
	}
	api.values["CustomField"] = []map[string]any{
		{"id": "71", "label": "Graduation Year"},
	}
	service := newTestService(api)

	groups, err := service.CustomGroups(context.Background(), "Individual")
	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, "Student Details", groups[0].Title)
	assert.Equal(t, []string{"Student"}, groups[0].ExtendsColumnValues)
	assert.Len(t, groups[0].Fields, 1)
	assert.Equal(t, 71, groups[0].Fields[0].ID)
}

func TestAPIEntityMapping(t *testing.T) {
	assert.Equal(t, "Contact", apiEntity(models.EntityContact))
	assert.Equal(t, "Im", apiEntity(models.EntityIM))
	assert.Equal(t, "GroupContact", apiEntity(models.EntityGroup))
	assert.Equal(t, "EntityTag", apiEntity(models.EntityTag))
	assert.Equal(t, "Participant", apiEntity(models.EntityParticipant))
}

package civicrm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// recordingAPI captures calls and replays canned responses.
type recordingAPI struct {
	getResponses []([]map[string]any)
	getParams    []map[string]any
	created      []map[string]any
	createResult map[string]any
}

func (f *recordingAPI) Get(ctx context.Context, entity string, params map[string]any) ([]map[string]any, error) {
	f.getParams = append(f.getParams, params)
	if len(f.getResponses) == 0 {
		return nil, nil
	}
	next := f.getResponses[0]
	f.getResponses = f.getResponses[1:]
	return next, nil
}

func (f *recordingAPI) Create(ctx context.Context, entity string, params map[string]any) (map[string]any, error) {
	f.created = append(f.created, params)
	if f.createResult != nil {
		return f.createResult, nil
	}
	result := map[string]any{"id": "99"}
	for k, v := range params {
		result[k] = v
	}
	return result, nil
}

func (f *recordingAPI) GetFields(ctx context.Context, entity string) ([]map[string]any, error) {
	return nil, nil
}

func TestContactGetIDByChecksum_EmptyPairSkipsLookup(t *testing.T) {
	api := &recordingAPI{}
	service := NewContactService(api, silentLogger())

	id, err := service.GetIDByChecksum(context.Background(), 0, "token")
	assert.NoError(t, err)
	assert.Zero(t, id)

	id, err = service.GetIDByChecksum(context.Background(), 7, "")
	assert.NoError(t, err)
	assert.Zero(t, id)

	assert.Empty(t, api.getParams)
}

func TestContactGetByID_MissingRecordIsNilNotError(t *testing.T) {
	api := &recordingAPI{}
	service := NewContactService(api, silentLogger())

	contact, err := service.GetByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, contact)
}

func TestContactSave_SendsTypeSubTypeAndFields(t *testing.T) {
	api := &recordingAPI{}
	service := NewContactService(api, silentLogger())

	id, err := service.Save(context.Background(), models.ContactInput{
		ID:             7,
		ContactType:    "Individual",
		ContactSubType: []string{"Student"},
		Fields:         map[string]string{"first_name": "Ada"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Len(t, api.created, 1)
	params := api.created[0]
	assert.Equal(t, 7, params["id"])
	assert.Equal(t, "Individual", params["contact_type"])
	assert.Equal(t, []string{"Student"}, params["contact_sub_type"])
	assert.Equal(t, "Ada", params["first_name"])
}

func TestContactDedupe_SendsNonEmptyFieldsAsMatch(t *testing.T) {
	api := &recordingAPI{getResponses: [][]map[string]any{
		{{"id": "7"}},
	}}
	service := NewContactService(api, silentLogger())

	id, err := service.GetByDedupeUnsupervised(context.Background(), models.ContactInput{
		ContactType: "Individual",
		Fields:      map[string]string{"first_name": "Ada", "last_name": ""},
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Len(t, api.getParams, 1)
	params := api.getParams[0]
	assert.Equal(t, "duplicatecheck", params["action"])
	assert.Equal(t, "Unsupervised", params["rule_type"])
	match := params["match"].(map[string]any)
	assert.Equal(t, "Ada", match["first_name"])
	_, hasEmpty := match["last_name"]
	assert.False(t, hasEmpty)
}

func TestContactDedupeRule_SendsRuleIDOutsideMatch(t *testing.T) {
	api := &recordingAPI{getResponses: [][]map[string]any{
		{{"id": "7"}},
	}}
	service := NewContactService(api, silentLogger())

	id, err := service.GetByDedupeRule(context.Background(), models.ContactInput{
		ContactType: "Individual",
		Fields:      map[string]string{"email": "ada@example.org"},
	}, 12)

	assert.NoError(t, err)
	assert.Equal(t, 7, id)
	params := api.getParams[0]
	assert.Equal(t, "duplicatecheck", params["action"])
	assert.Equal(t, 12, params["dedupe_rule_id"])
	match := params["match"].(map[string]any)
	assert.Equal(t, "ada@example.org", match["email"])
	assert.NotContains(t, match, "dedupe_rule_id")
}

func TestEmailRecordUpdate_ReusesExistingAtLocation(t *testing.T) {
	api := &recordingAPI{getResponses: [][]map[string]any{
		{{"id": "31", "contact_id": "42", "location_type_id": "1", "email": "old@example.org"}},
	}}
	service := NewEmailService(api, silentLogger())

	email, err := service.RecordUpdate(context.Background(), 42, 1, "new@example.org")

	assert.NoError(t, err)
	assert.Len(t, api.created, 1)
	assert.Equal(t, 31, api.created[0]["id"])
	assert.Equal(t, "new@example.org", email.Email)
	assert.Equal(t, 42, email.ContactID)
}

func TestEmailRecordUpdate_CreatesWhenLocationIsFree(t *testing.T) {
	api := &recordingAPI{}
	service := NewEmailService(api, silentLogger())

	email, err := service.RecordUpdate(context.Background(), 42, 1, "ada@example.org")

	assert.NoError(t, err)
	assert.Len(t, api.created, 1)
	_, hasID := api.created[0]["id"]
	assert.False(t, hasID)
	assert.Equal(t, 99, email.ID)
}

package formaction

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/civicrm"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/metadata"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// fakeStore is an in-memory stand-in for the external entity store. It
// filters get calls by comparing params against stored record values and
// assigns IDs on create, which is all the pipeline relies on.
type fakeStore struct {
	mu      sync.Mutex
	records map[string][]map[string]any
	nextID  int

	fields      map[string][]map[string]any
	checksums   map[int]string
	dedupeMatch int
	dedupeInput map[string]any
	failOn      map[string]bool
	calls       []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:   map[string][]map[string]any{},
		nextID:    1000,
		fields:    map[string][]map[string]any{},
		checksums: map[int]string{},
		failOn:    map[string]bool{},
	}
}

func (f *fakeStore) seed(entity string, record map[string]any) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := record["id"]; !ok {
		f.nextID++
		record["id"] = f.nextID
	}
	f.records[entity] = append(f.records[entity], record)
	return record
}

func (f *fakeStore) count(entity string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[entity])
}

// filter keys that are query modifiers rather than record fields
var controlParams = map[string]bool{
	"action":         true,
	"match":          true,
	"rule_type":      true,
	"return":         true,
	"active_only":    true,
	"api_action":     true,
	"checksum":       true,
	"dedupe_rule_id": true,
}

func (f *fakeStore) Get(ctx context.Context, entity string, params map[string]any) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, entity+".get")

	if f.failOn[entity+".get"] {
		return nil, fmt.Errorf("%s.get failed", entity)
	}

	if str(params["action"]) == "duplicatecheck" {
		if match, ok := params["match"].(map[string]any); ok {
			f.dedupeInput = match
		}
		if f.dedupeMatch != 0 {
			return []map[string]any{{"id": f.dedupeMatch}}, nil
		}
		return nil, nil
	}

	if entity == "Setting" {
		return f.records["Setting"], nil
	}

	if checksum, ok := params["checksum"]; ok {
		id := models.IntValue(params["id"])
		if f.checksums[id] == str(checksum) {
			return []map[string]any{{"id": id}}, nil
		}
		return nil, nil
	}

	var out []map[string]any
	for _, record := range f.records[entity] {
		if matches(record, params) {
			out = append(out, record)
		}
	}
	return out, nil
}

func matches(record, params map[string]any) bool {
	for key, want := range params {
		if controlParams[key] {
			continue
		}
		have, ok := record[key]
		if !ok {
			continue
		}
		if str(have) != str(want) {
			return false
		}
	}
	return true
}

// str coerces values the way the filter compares them; unlike the
// production converters it also sees native ints from seeded records.
func str(v any) string {
	if i, ok := v.(int); ok {
		return strconv.Itoa(i)
	}
	return models.StringValue(v)
}

func (f *fakeStore) Create(ctx context.Context, entity string, params map[string]any) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, entity+".create")

	if f.failOn[entity+".create"] {
		return nil, fmt.Errorf("%s.create failed", entity)
	}

	if id := models.IntValue(params["id"]); id != 0 {
		for _, record := range f.records[entity] {
			if models.IntValue(record["id"]) == id {
				for k, v := range params {
					record[k] = v
				}
				return record, nil
			}
		}
		return nil, fmt.Errorf("%s %d not found", entity, id)
	}

	f.nextID++
	record := map[string]any{"id": f.nextID}
	for k, v := range params {
		record[k] = v
	}
	f.records[entity] = append(f.records[entity], record)
	return record, nil
}

func (f *fakeStore) GetFields(ctx context.Context, entity string) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[entity], nil
}

var _ civicrm.API = (*fakeStore)(nil)

type harness struct {
	store    *fakeStore
	services *civicrm.Services
	meta     *metadata.Service
	logger   ectologger.Logger
}

func newHarness() *harness {
	store := newFakeStore()
	store.fields["Contact"] = []map[string]any{
		{"name": "first_name", "title": "First Name"},
		{"name": "last_name", "title": "Last Name"},
	}
	store.fields["Participant"] = []map[string]any{
		{"name": "source", "title": "Source"},
	}
	store.seed("LocationType", map[string]any{"id": 1, "name": "Home", "is_default": "1"})
	store.seed("LocationType", map[string]any{"id": 2, "name": "Work", "is_default": "0"})
	store.seed("ContactType", map[string]any{"id": 1, "name": "Individual", "label": "Individual"})
	store.seed("ContactType", map[string]any{"id": 10, "name": "Student", "label": "Student", "parent_id": 1})
	store.seed("ContactType", map[string]any{"id": 11, "name": "Parent", "label": "Parent", "parent_id": 1})
	store.seed("RelationshipType", map[string]any{"id": 3, "label_a_b": "Child of", "label_b_a": "Parent of"})

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	services := civicrm.NewServices(store, logger)
	meta := metadata.NewService(store, metadata.NewCache(metadata.DefaultCacheConfig()), metadata.NewRegistry(), logger)

	return &harness{
		store:    store,
		services: services,
		meta:     meta,
		logger:   logger,
	}
}

func (h *harness) contactAction(config ContactActionConfig) *ContactAction {
	action, err := NewContactAction(config, h.services, h.meta, h.logger)
	if err != nil {
		panic(err)
	}
	if err := action.Configure(context.Background()); err != nil {
		panic(err)
	}
	return action
}

func (h *harness) participantAction(config ParticipantActionConfig) *ParticipantAction {
	action, err := NewParticipantAction(config, h.services, h.meta, h.logger)
	if err != nil {
		panic(err)
	}
	if err := action.Configure(context.Background()); err != nil {
		panic(err)
	}
	return action
}

func (h *harness) seedContact(id int, contactType string, fields map[string]any) {
	record := map[string]any{"id": id, "contact_type": contactType}
	for k, v := range fields {
		record[k] = v
	}
	f := h.store
	f.mu.Lock()
	f.records["Contact"] = append(f.records["Contact"], record)
	f.mu.Unlock()
}

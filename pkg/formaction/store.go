package formaction

import (
	"sync"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// ResultStore holds the results produced by the Actions of a single
// submission, keyed by action name. Each submission gets its own store;
// nothing survives the submission. Later Actions read earlier Actions'
// results through it to resolve cross-action references.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]*models.ActionResult
	order   []string
}

// NewResultStore creates an empty per-submission store
func NewResultStore() *ResultStore {
	return &ResultStore{results: map[string]*models.ActionResult{}}
}

// SaveResult records an Action's result. A second save under the same
// name replaces the first.
func (s *ResultStore) SaveResult(result *models.ActionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.ActionName]; !exists {
		s.order = append(s.order, result.ActionName)
	}
	s.results[result.ActionName] = result
}

// GetResult returns the named Action's result, or nil when the Action
// has not run.
func (s *ResultStore) GetResult(actionName string) *models.ActionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[actionName]
}

// AllOfKind returns results of the given kind in the order the Actions
// ran.
func (s *ResultStore) AllOfKind(kind models.ActionKind) []*models.ActionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ActionResult
	for _, name := range s.order {
		if r := s.results[name]; r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// ContactIDFor resolves an action name to its persisted contact ID,
// returning 0 for unknown actions and failed saves alike.
func (s *ResultStore) ContactIDFor(actionName string) int {
	return s.GetResult(actionName).ContactID()
}

// ParticipantIDFor resolves an action name to its persisted participant
// ID, returning 0 for unknown actions and failed saves alike.
func (s *ResultStore) ParticipantIDFor(actionName string) int {
	return s.GetResult(actionName).ParticipantID()
}

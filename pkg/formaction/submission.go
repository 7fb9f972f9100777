// Package formaction implements the Form Action pipeline: extracting
// mapped values out of a form submission, resolving references between
// actions, and persisting the resulting entities to the external store.
//
// Actions run synchronously in form order. Each Action reads its mapped
// values through the submission's ValueMapper, persists what it can, and
// records an ActionResult in the submission's ResultStore. Failures of
// the primary entity are recorded as a zero-ID result rather than
// aborting the submission; failures of cascaded sub-entities are logged
// and skipped.
package formaction

import (
	"github.com/google/uuid"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// ValueMapper resolves a form field reference to the value the host
// engine collected for it. References are the field keys the schema
// published; the zero value for unmapped or unanswered references is nil.
type ValueMapper interface {
	Value(ref string) any
}

// MapValues is a ValueMapper over a flat map of field values.
type MapValues map[string]any

// Value implements ValueMapper.
func (m MapValues) Value(ref string) any {
	return m[ref]
}

// Submitter carries what is known about who is submitting the form.
type Submitter struct {
	// ContactID and Checksum arrive via the personalised link the store
	// mailed out: the pair must validate against the store.
	ContactID int
	Checksum  string
	// LoggedInContactID is the contact of the authenticated session, if
	// any. It overrides the checksum pair.
	LoggedInContactID int
}

// Submission is the per-request context every Action operates in.
type Submission struct {
	ID        uuid.UUID
	Submitter Submitter
	Mapper    ValueMapper
	Results   *ResultStore
}

// NewSubmission creates a submission context with a fresh result store
func NewSubmission(submitter Submitter, mapper ValueMapper) *Submission {
	return &Submission{
		ID:        uuid.New(),
		Submitter: submitter,
		Mapper:    mapper,
		Results:   NewResultStore(),
	}
}

// StringValue resolves a reference to a trimmed-to-string value.
func (s *Submission) StringValue(ref string) string {
	if ref == "" {
		return ""
	}
	return models.StringValue(s.Mapper.Value(ref))
}

// IntValue resolves a reference to an int value.
func (s *Submission) IntValue(ref string) int {
	if ref == "" {
		return 0
	}
	return models.IntValue(s.Mapper.Value(ref))
}

// gateOpen applies the conditional rule shared by every gated row and
// action: a configured reference whose submitted value is empty closes
// the gate; an unconfigured reference leaves it open.
func (s *Submission) gateOpen(conditionalRef string) bool {
	if conditionalRef == "" {
		return true
	}
	return s.StringValue(conditionalRef) != ""
}

// extractFields maps field references to their submitted values,
// dropping entries that resolved empty. The result is what a create or
// update call sends for the mapped public and custom fields.
func (s *Submission) extractFields(refs map[string]string) map[string]string {
	fields := map[string]string{}
	for name, ref := range refs {
		if ref == "" {
			continue
		}
		if value := s.StringValue(ref); value != "" {
			fields[name] = value
		}
	}
	return fields
}

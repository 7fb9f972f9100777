package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// SyncPublisher publishes sync events to the broker.
type SyncPublisher interface {
	PublishSyncEvent(ctx context.Context, event *SyncEvent) error
}

// Emitter turns action results into sync events. Emission is
// best-effort: a broker outage must never fail a submission that has
// already been persisted, so errors are logged and swallowed.
type Emitter struct {
	producer SyncPublisher
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer SyncPublisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitResults publishes one event per action result of a submission.
func (e *Emitter) EmitResults(ctx context.Context, submissionID string, results []*models.ActionResult) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitResults")
	defer span.End()

	for _, result := range results {
		event := &SyncEvent{
			SubmissionID: submissionID,
			ActionName:   result.ActionName,
		}

		switch result.Kind {
		case models.ActionKindParticipant:
			event.EventType = "participant.synced"
			event.EntityID = result.ParticipantID()
		default:
			event.EventType = "contact.synced"
			event.EntityID = result.ContactID()
		}
		event.Succeeded = event.EntityID != 0

		if data, err := json.Marshal(result); err == nil {
			event.Data = data
		}

		if err := e.producer.PublishSyncEvent(ctx, event); err != nil {
			e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"submission": submissionID,
				"action":     result.ActionName,
			}).Warn("sync event not published")
		}
	}
}

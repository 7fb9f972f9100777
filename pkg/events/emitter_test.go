package events

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

type capturingPublisher struct {
	events []*SyncEvent
	err    error
}

func (p *capturingPublisher) PublishSyncEvent(ctx context.Context, event *SyncEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func newTestEmitter(publisher *capturingPublisher) *Emitter {
	return NewEmitter(publisher, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func TestEmitResults_PublishesOneEventPerResult(t *testing.T) {
	publisher := &capturingPublisher{}
	emitter := newTestEmitter(publisher)

	emitter.EmitResults(context.Background(), "sub-1", []*models.ActionResult{
		{
			ActionName: "main",
			Kind:       models.ActionKindContact,
			Contact:    &models.Contact{ID: 42},
		},
		{
			ActionName:  "rsvp",
			Kind:        models.ActionKindParticipant,
			Participant: &models.Participant{ID: 7},
		},
	})

	assert.Len(t, publisher.events, 2)

	contact := publisher.events[0]
	assert.Equal(t, "contact.synced", contact.EventType)
	assert.Equal(t, "sub-1", contact.SubmissionID)
	assert.Equal(t, 42, contact.EntityID)
	assert.True(t, contact.Succeeded)
	assert.NotEmpty(t, contact.Data)

	participant := publisher.events[1]
	assert.Equal(t, "participant.synced", participant.EventType)
	assert.Equal(t, 7, participant.EntityID)
}

func TestEmitResults_ZeroIDResultIsFailureEvent(t *testing.T) {
	publisher := &capturingPublisher{}
	emitter := newTestEmitter(publisher)

	emitter.EmitResults(context.Background(), "sub-1", []*models.ActionResult{
		{
			ActionName: "main",
			Kind:       models.ActionKindContact,
			Contact:    &models.Contact{},
		},
	})

	assert.Len(t, publisher.events, 1)
	assert.False(t, publisher.events[0].Succeeded)
	assert.Zero(t, publisher.events[0].EntityID)
}

func TestEmitResults_PublishErrorsAreSwallowed(t *testing.T) {
	publisher := &capturingPublisher{err: errors.New("broker down")}
	emitter := newTestEmitter(publisher)

	assert.NotPanics(t, func() {
		emitter.EmitResults(context.Background(), "sub-1", []*models.ActionResult{
			{
				ActionName: "main",
				Kind:       models.ActionKindContact,
				Contact:    &models.Contact{ID: 42},
			},
		})
	})
	assert.Len(t, publisher.events, 1)
}

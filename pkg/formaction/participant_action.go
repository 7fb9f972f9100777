package formaction

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/civicrm"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/metadata"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// ParticipantAction registers a Contact for an Event. Participants are
// only ever created: if the same submission runs twice the store ends up
// with two registrations unless the event forbids it, which Validate
// checks up front.
type ParticipantAction struct {
	config   ParticipantActionConfig
	services *civicrm.Services
	meta     *metadata.Service
	logger   ectologger.Logger

	// Configure caches these for schema building.
	publicFields []models.FieldDescriptor
	roles        models.OptionList
	statuses     models.OptionList
	campaigns    models.OptionList
	customGroups []models.CustomGroup
	events       []models.Event
}

// NewParticipantAction validates the config and creates the action.
func NewParticipantAction(config ParticipantActionConfig, services *civicrm.Services, meta *metadata.Service, logger ectologger.Logger) (*ParticipantAction, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	return &ParticipantAction{
		config:   config,
		services: services,
		meta:     meta,
		logger:   logger,
	}, nil
}

// Name returns the action's configured name.
func (a *ParticipantAction) Name() string {
	return a.config.Name
}

// Configure performs the metadata lookups the schema and pipeline need
// and caches them as action state. Call once before Fields or Make.
func (a *ParticipantAction) Configure(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "formaction.ParticipantAction.Configure")
	defer span.End()

	var err error
	if a.publicFields, err = a.meta.PublicFields(ctx, models.EntityParticipant); err != nil {
		return err
	}
	if a.roles, err = a.meta.OptionValues(ctx, "participant_role"); err != nil {
		return err
	}
	if a.statuses, err = a.meta.OptionValues(ctx, "participant_status"); err != nil {
		return err
	}
	if a.campaigns, err = a.meta.Campaigns(ctx); err != nil {
		return err
	}
	if a.customGroups, err = a.meta.CustomGroups(ctx, "Participant"); err != nil {
		return err
	}
	if a.events, err = a.services.Event.GetActive(ctx); err != nil {
		return err
	}
	return nil
}

// resolveContactID applies the contact reference precedence: a sibling
// action's persisted contact, then a fixed ID, then a mapped field.
func (a *ParticipantAction) resolveContactID(sub *Submission) int {
	if a.config.ContactActionRef != "" {
		if id := sub.Results.ContactIDFor(a.config.ContactActionRef); id != 0 {
			return id
		}
	}
	if a.config.ContactID != 0 {
		return a.config.ContactID
	}
	return sub.IntValue(a.config.ContactRef)
}

// resolveRegisteredByID applies the participant reference precedence: a
// sibling participant action, then a mapped field. There is no fixed-ID
// form of this reference.
func (a *ParticipantAction) resolveRegisteredByID(sub *Submission) int {
	if a.config.RegisteredByActionRef != "" {
		if id := sub.Results.ParticipantIDFor(a.config.RegisteredByActionRef); id != 0 {
			return id
		}
	}
	return sub.IntValue(a.config.RegisteredByRef)
}

// resolveEventID applies the event reference precedence: a fixed event
// ID, then a mapped field.
func (a *ParticipantAction) resolveEventID(sub *Submission) int {
	if a.config.EventID != 0 {
		return a.config.EventID
	}
	return sub.IntValue(a.config.EventRef)
}

// Validate rejects the submission when the action would certainly fail
// or double-register: the event must resolve, and the contact must not
// already be registered unless the event allows repeat registrations.
// The returned error string is for the host engine to display.
func (a *ParticipantAction) Validate(ctx context.Context, sub *Submission) error {
	ctx, span := tracing.StartSpan(ctx, "formaction.ParticipantAction.Validate")
	defer span.End()

	if !sub.gateOpen(a.config.ConditionalRef) {
		return nil
	}

	eventID := a.resolveEventID(sub)
	if eventID == 0 {
		return fmt.Errorf("%s: no event selected", a.config.Name)
	}
	event, err := a.services.Event.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("%s: event %d not found", a.config.Name, eventID)
	}
	if event.AllowSameParticipants {
		return nil
	}

	contactID := a.resolveContactID(sub)
	if contactID == 0 {
		return nil
	}
	registered, err := a.services.Participant.IsRegistered(ctx, contactID, eventID)
	if err != nil {
		return err
	}
	if registered {
		return fmt.Errorf("%s: contact is already registered for %q", a.config.Name, event.Title)
	}
	return nil
}

// Make creates the participant and stores the result under the action
// name. A closed gate or unresolvable references record a zero-ID result.
func (a *ParticipantAction) Make(ctx context.Context, sub *Submission) *models.ActionResult {
	ctx, span := tracing.StartSpan(ctx, "formaction.ParticipantAction.Make")
	defer span.End()

	result := &models.ActionResult{
		ActionName: a.config.Name,
		Kind:       models.ActionKindParticipant,
	}

	if !sub.gateOpen(a.config.ConditionalRef) {
		result.Participant = &models.Participant{}
		sub.Results.SaveResult(result)
		return result
	}

	contactID := a.resolveContactID(sub)
	eventID := a.resolveEventID(sub)
	if contactID == 0 || eventID == 0 {
		a.logger.WithContext(ctx).WithFields(map[string]any{
			"action":     a.config.Name,
			"contact_id": contactID,
			"event_id":   eventID,
		}).Warn("participant references did not resolve")
		result.Participant = &models.Participant{}
		sub.Results.SaveResult(result)
		return result
	}

	input := models.ParticipantInput{
		ContactID:      contactID,
		EventID:        eventID,
		RegisteredByID: a.resolveRegisteredByID(sub),
		CampaignID:     a.config.CampaignID,
		Fields:         sub.extractFields(a.config.PublicFieldRefs),
	}
	for name, value := range sub.extractFields(a.config.CustomFieldRefs) {
		input.Fields[name] = value
	}

	input.RoleID = a.config.RoleID
	if ref := sub.StringValue(a.config.RoleRef); ref != "" {
		input.RoleID = ref
	}
	input.StatusID = a.config.StatusID
	if ref := sub.IntValue(a.config.StatusRef); ref != 0 {
		input.StatusID = ref
	}

	participant, err := a.services.Participant.Create(ctx, input)
	if err != nil {
		a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"action":   a.config.Name,
			"event_id": eventID,
		}).Error("participant create failed")
		result.Participant = &models.Participant{}
		sub.Results.SaveResult(result)
		return result
	}

	// Re-read so downstream references see the store's version.
	if full, err := a.services.Participant.GetByID(ctx, participant.ID); err == nil && full != nil {
		participant = full
	}
	result.Participant = participant
	sub.Results.SaveResult(result)
	return result
}

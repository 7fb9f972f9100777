package formaction

import (
	"strconv"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/schema"
)

func (a *ParticipantAction) key(suffix string) string {
	return "field_" + a.config.Name + "_" + suffix
}

func (a *ParticipantAction) name(suffix string) string {
	return a.config.Name + "_" + suffix
}

// TabActionFields returns the action's settings tab: event, role, status
// and campaign selectors, the references and the action gate.
func (a *ParticipantAction) TabActionFields() []schema.Field {
	eventChoices := models.OptionList{}
	for _, e := range a.events {
		eventChoices[strconv.Itoa(e.ID)] = e.Title
	}

	return []schema.Field{
		schema.Tab(a.key("tab_action"), "Action"),
		schema.Select(a.key("event_id"), a.name("event_id"), "Event", eventChoices),
		schema.Text(a.key("event_map"), a.name("event_map"), "Event Field"),
		schema.Select(a.key("role_id"), a.name("role_id"), "Participant Role", a.roles),
		schema.Select(a.key("status_id"), a.name("status_id"), "Participant Status", a.statuses),
		schema.Select(a.key("campaign_id"), a.name("campaign_id"), "Campaign", a.campaigns),
		schema.Text(a.key("contact_action"), a.name("contact_action"), "Contact Action"),
		schema.Text(a.key("registered_by_action"), a.name("registered_by_action"), "Registered By Action"),
		schema.Text(a.key("conditional"), a.name("conditional"), "Conditional On"),
	}
}

// TabMappingFields returns the mapping tab: one mapping control per
// public participant field plus one accordion per custom group. Groups
// restricted by role, event or event type are gated on the matching
// selector, one OR branch per allowed value.
func (a *ParticipantAction) TabMappingFields() []schema.Field {
	fields := []schema.Field{
		schema.Tab(a.key("tab_mapping"), "Mapping"),
	}
	for _, descriptor := range a.publicFields {
		fields = append(fields,
			schema.Text(a.key("map_"+descriptor.Name), a.name("map_"+descriptor.Name), descriptor.Title))
	}
	for _, group := range a.customGroups {
		fields = append(fields, a.customGroupAccordion(group)...)
	}
	return fields
}

// customGroupLogic derives the visibility rules of a restricted custom
// group. Event-type restrictions expand to the IDs of the events of
// those types, since the form only ever selects concrete events.
func (a *ParticipantAction) customGroupLogic(group models.CustomGroup) schema.ConditionalLogic {
	if len(group.ExtendsColumnValues) == 0 {
		return nil
	}

	switch group.ExtendsColumnID {
	case models.ExtendsColumnParticipantRole:
		return schema.AnyOf(a.key("role_id"), group.ExtendsColumnValues)
	case models.ExtendsColumnParticipantEvent:
		return schema.AnyOf(a.key("event_id"), group.ExtendsColumnValues)
	case models.ExtendsColumnEventType:
		allowed := map[string]bool{}
		for _, v := range group.ExtendsColumnValues {
			allowed[v] = true
		}
		var eventIDs []string
		for _, e := range a.events {
			if allowed[strconv.Itoa(e.EventTypeID)] {
				eventIDs = append(eventIDs, strconv.Itoa(e.ID))
			}
		}
		return schema.AnyOf(a.key("event_id"), eventIDs)
	}
	return nil
}

func (a *ParticipantAction) customGroupAccordion(group models.CustomGroup) []schema.Field {
	logic := a.customGroupLogic(group)

	groupKey := "custom_group_" + strconv.Itoa(group.ID)
	open := schema.AccordionOpen(a.key(groupKey), group.Title)
	open.ConditionalLogic = logic

	fields := []schema.Field{open}
	for _, custom := range group.Fields {
		mapField := schema.Text(a.key("map_"+custom.Key()), a.name("map_"+custom.Key()), custom.Label)
		mapField.ConditionalLogic = logic
		fields = append(fields, mapField)
	}
	fields = append(fields, schema.AccordionClose(a.key(groupKey+"_end")))
	return fields
}

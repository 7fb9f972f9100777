package formaction

import (
	"strconv"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/schema"
)

// Schema builders are pure functions of the state Configure cached.
// Every key and name is prefixed with the action name so several actions
// can coexist on one form without collisions.

func (a *ContactAction) key(suffix string) string {
	return "field_" + a.config.Name + "_" + suffix
}

func (a *ContactAction) name(suffix string) string {
	return a.config.Name + "_" + suffix
}

// TabActionFields returns the action's own settings tab: contact type,
// sub-type, dedupe rule, submitter flags and the action gate.
func (a *ContactAction) TabActionFields() []schema.Field {
	subTypeChoices := models.OptionList{}
	for _, sub := range a.contactSubTypes {
		subTypeChoices[sub] = sub
	}
	ruleChoices := models.OptionList{}
	for _, rule := range a.dedupeRules {
		ruleChoices[strconv.Itoa(rule.ID)] = rule.Title
	}

	return []schema.Field{
		schema.Tab(a.key("tab_action"), "Action"),
		schema.Select(a.key("sub_type"), a.name("sub_type"), "Contact Sub-type", subTypeChoices),
		schema.Select(a.key("dedupe_rule"), a.name("dedupe_rule"), "Dedupe Rule", ruleChoices),
		schema.TrueFalse(a.key("submitting_contact"), a.name("submitting_contact"), "Is the Submitter", true),
		schema.TrueFalse(a.key("autoload"), a.name("autoload"), "Pre-fill from existing data", false),
		schema.Text(a.key("conditional"), a.name("conditional"), "Conditional On"),
	}
}

// TabMappingFields returns the mapping tab: one mapping control per
// public field, the sub-entity repeaters, and one accordion per custom
// group. Custom groups restricted to sub-types are shown only when the
// sub-type selector matches one of the allowed values, expressed as one
// OR branch per value.
func (a *ContactAction) TabMappingFields() []schema.Field {
	fields := []schema.Field{
		schema.Tab(a.key("tab_mapping"), "Mapping"),
	}
	for _, descriptor := range a.publicFields {
		fields = append(fields,
			schema.Text(a.key("map_"+descriptor.Name), a.name("map_"+descriptor.Name), descriptor.Title))
	}

	fields = append(fields,
		a.emailRepeater(),
		a.addressRepeater(),
		a.websiteRepeater(),
		a.phoneRepeater(),
		a.imRepeater(),
		a.noteRepeater(),
		a.tagRepeater(),
		a.groupRepeater(),
	)
	if len(a.freeMemberships) > 0 {
		fields = append(fields, a.membershipRepeater())
	}

	for _, group := range a.customGroups {
		fields = append(fields, a.customGroupAccordion(group)...)
	}
	return fields
}

// TabRelationshipFields returns the relationship tab: a repeater keyed
// by the combined type+direction selector, referencing a sibling action.
func (a *ContactAction) TabRelationshipFields() []schema.Field {
	typeChoices := models.OptionList{}
	for _, t := range a.relationshipTypes {
		if t.IsSymmetric() {
			typeChoices[strconv.Itoa(t.ID)+"_equal"] = t.LabelAB
			continue
		}
		typeChoices[strconv.Itoa(t.ID)+"_ab"] = t.LabelAB
		typeChoices[strconv.Itoa(t.ID)+"_ba"] = t.LabelBA
	}

	return []schema.Field{
		schema.Tab(a.key("tab_relationships"), "Relationships"),
		schema.Repeater(a.key("relationships"), a.name("relationships"), "Relationships", []schema.Field{
			schema.Select(a.key("relationship_type"), "relationship_type", "Relationship", typeChoices),
			schema.Text(a.key("relationship_action"), "action_ref", "Related Contact Action"),
			schema.Text(a.key("relationship_conditional"), "conditional", "Conditional On"),
		}),
	}
}

func (a *ContactAction) locationChoices() models.OptionList {
	choices := models.OptionList{}
	for _, t := range a.locationTypes {
		choices[strconv.Itoa(t.ID)] = t.Name
	}
	return choices
}

func (a *ContactAction) emailRepeater() schema.Field {
	return schema.Repeater(a.key("emails"), a.name("emails"), "Emails", []schema.Field{
		schema.Select(a.key("email_location"), "location_type_id", "Location Type", a.locationChoices()),
		schema.Text(a.key("email_map"), "email", "Email Field"),
		schema.TrueFalse(a.key("email_is_primary"), "is_primary", "Primary Email", false),
		schema.Text(a.key("email_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) addressRepeater() schema.Field {
	return schema.Repeater(a.key("addresses"), a.name("addresses"), "Addresses", []schema.Field{
		schema.Select(a.key("address_location"), "location_type_id", "Location Type", a.locationChoices()),
		schema.TrueFalse(a.key("address_include_empty"), "include_empty", "Include Empty Fields", false),
		schema.Text(a.key("address_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) websiteRepeater() schema.Field {
	return schema.Repeater(a.key("websites"), a.name("websites"), "Websites", []schema.Field{
		schema.Select(a.key("website_type"), "website_type_id", "Website Type", a.websiteTypes),
		schema.Text(a.key("website_map"), "url", "URL Field"),
		schema.Text(a.key("website_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) phoneRepeater() schema.Field {
	return schema.Repeater(a.key("phones"), a.name("phones"), "Phones", []schema.Field{
		schema.Select(a.key("phone_location"), "location_type_id", "Location Type", a.locationChoices()),
		schema.Select(a.key("phone_type"), "phone_type_id", "Phone Type", a.phoneTypes),
		schema.Text(a.key("phone_map"), "phone", "Phone Field"),
		schema.Text(a.key("phone_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) imRepeater() schema.Field {
	return schema.Repeater(a.key("ims"), a.name("ims"), "Instant Messengers", []schema.Field{
		schema.Select(a.key("im_location"), "location_type_id", "Location Type", a.locationChoices()),
		schema.Select(a.key("im_provider"), "provider_id", "Provider", a.imProviders),
		schema.Text(a.key("im_map"), "name", "Screen Name Field"),
		schema.Text(a.key("im_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) noteRepeater() schema.Field {
	return schema.Repeater(a.key("notes"), a.name("notes"), "Notes", []schema.Field{
		schema.Text(a.key("note_subject_map"), "subject", "Subject Field"),
		schema.Text(a.key("note_map"), "note", "Note Field"),
		schema.Text(a.key("note_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) tagRepeater() schema.Field {
	return schema.Repeater(a.key("tags"), a.name("tags"), "Tags", []schema.Field{
		schema.Field{
			Key:      a.key("tag_ids"),
			Name:     "tag_ids",
			Label:    "Tags",
			Type:     schema.FieldTypeSelect,
			Multiple: true,
		},
		schema.Text(a.key("tag_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) groupRepeater() schema.Field {
	return schema.Repeater(a.key("groups"), a.name("groups"), "Groups", []schema.Field{
		schema.Text(a.key("group_id"), "group_id", "Group"),
		schema.TrueFalse(a.key("group_double_opt_in"), "double_opt_in", "Double Opt-In", false),
		schema.Text(a.key("group_conditional"), "conditional", "Conditional On"),
	})
}

func (a *ContactAction) membershipRepeater() schema.Field {
	typeChoices := models.OptionList{}
	for _, t := range a.freeMemberships {
		typeChoices[strconv.Itoa(t.ID)] = t.Name
	}
	return schema.Repeater(a.key("memberships"), a.name("memberships"), "Free Memberships", []schema.Field{
		schema.Select(a.key("membership_type"), "membership_type_id", "Membership Type", typeChoices),
		schema.Text(a.key("membership_conditional"), "conditional", "Conditional On"),
	})
}

// customGroupAccordion wraps one custom group's mapping controls in an
// accordion, gated on the sub-type selector when the group only extends
// specific sub-types.
func (a *ContactAction) customGroupAccordion(group models.CustomGroup) []schema.Field {
	var logic schema.ConditionalLogic
	if len(group.ExtendsColumnValues) > 0 {
		logic = schema.AnyOf(a.key("sub_type"), group.ExtendsColumnValues)
	}

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

// Package schema defines the declarative field tree a Form Action
// publishes to the host form engine's definition UI.
//
// # Overview
//
// A schema is a tree of Fields. Container types (group, repeater, tab,
// accordion) carry SubFields; leaf types (text, select, true_false)
// carry mapping controls. Every field has:
//   - Key: globally unique identifier, prefixed per action instance
//   - Name: the value key the host engine submits data under
//   - ConditionalLogic: visibility rules in disjunctive normal form
//
// # Conditional logic
//
// ConditionalLogic is a list of OR branches; each branch is a list of
// conditions that must all hold. There is no IN operator, so "match any
// of these values" expands to one OR branch per value.
package schema

import (
	"github.com/Gobusters/ectolinq"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// FieldType enumerates the host engine's field widgets used here.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeNumber    FieldType = "number"
	FieldTypeSelect    FieldType = "select"
	FieldTypeTrueFalse FieldType = "true_false"
	FieldTypeGroup     FieldType = "group"
	FieldTypeRepeater  FieldType = "repeater"
	FieldTypeTab       FieldType = "tab"
	FieldTypeAccordion FieldType = "accordion"
)

// Condition operators.
const (
	OperatorEqual    = "=="
	OperatorNotEqual = "!="
	OperatorEmpty    = "==empty"
	OperatorNotEmpty = "!=empty"
)

// Condition is a single visibility test against another field's value.
type Condition struct {
	Field    string `json:"field" validate:"required"`
	Operator string `json:"operator" validate:"required,oneof=== != ==empty !=empty"`
	Value    string `json:"value"`
}

// ConditionalLogic is visibility logic in disjunctive normal form: the
// outer slice ORs branches, each branch ANDs its conditions.
type ConditionalLogic [][]Condition

// Evaluate returns true when any branch's conditions all hold against
// the given values. Empty logic is always visible.
func (l ConditionalLogic) Evaluate(values map[string]string) bool {
	if len(l) == 0 {
		return true
	}
	for _, branch := range l {
		if branchHolds(branch, values) {
			return true
		}
	}
	return false
}

func branchHolds(branch []Condition, values map[string]string) bool {
	for _, cond := range branch {
		actual := values[cond.Field]
		switch cond.Operator {
		case OperatorEqual:
			if actual != cond.Value {
				return false
			}
		case OperatorNotEqual:
			if actual == cond.Value {
				return false
			}
		case OperatorEmpty:
			if actual != "" {
				return false
			}
		case OperatorNotEmpty:
			if actual == "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// AnyOf builds one OR branch per value, each requiring field == value.
// This is how "show when the selector matches any allowed value" is
// expressed without an IN operator.
func AnyOf(field string, values []string) ConditionalLogic {
	return ectolinq.Map(values, func(v string) []Condition {
		return []Condition{{Field: field, Operator: OperatorEqual, Value: v}}
	})
}

// Field is one node of the schema tree.
type Field struct {
	Key              string            `json:"key" validate:"required"`
	Label            string            `json:"label"`
	Name             string            `json:"name"`
	Type             FieldType         `json:"type" validate:"required"`
	Instructions     string            `json:"instructions,omitempty"`
	Required         bool              `json:"required,omitempty"`
	DefaultValue     any               `json:"default_value,omitempty"`
	Placeholder      string            `json:"placeholder,omitempty"`
	Choices          models.OptionList `json:"choices,omitempty"`
	Multiple         bool              `json:"multiple,omitempty"`
	AllowNull        bool              `json:"allow_null,omitempty"`
	ConditionalLogic ConditionalLogic  `json:"conditional_logic,omitempty"`
	SubFields        []Field           `json:"sub_fields,omitempty"`
}

// Find returns the first field in the tree with the given key.
func Find(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
		if child, ok := Find(f.SubFields, key); ok {
			return child, true
		}
	}
	return Field{}, false
}

// Text builds a text field.
func Text(key, name, label string) Field {
	return Field{Key: key, Name: name, Label: label, Type: FieldTypeText}
}

// Select builds a single-choice select field.
func Select(key, name, label string, choices models.OptionList) Field {
	return Field{
		Key:       key,
		Name:      name,
		Label:     label,
		Type:      FieldTypeSelect,
		Choices:   choices,
		AllowNull: true,
	}
}

// TrueFalse builds a boolean toggle.
func TrueFalse(key, name, label string, def bool) Field {
	return Field{Key: key, Name: name, Label: label, Type: FieldTypeTrueFalse, DefaultValue: def}
}

// Group builds a container whose sub-field values nest under its name.
func Group(key, name, label string, subFields []Field) Field {
	return Field{Key: key, Name: name, Label: label, Type: FieldTypeGroup, SubFields: subFields}
}

// Repeater builds a repeatable row container.
func Repeater(key, name, label string, subFields []Field) Field {
	return Field{Key: key, Name: name, Label: label, Type: FieldTypeRepeater, SubFields: subFields}
}

// Tab builds a tab separator.
func Tab(key, label string) Field {
	return Field{Key: key, Label: label, Type: FieldTypeTab}
}

// AccordionOpen and AccordionClose delimit a collapsible section; the
// host engine treats the close marker as the section end.
func AccordionOpen(key, label string) Field {
	return Field{Key: key, Label: label, Type: FieldTypeAccordion}
}

func AccordionClose(key string) Field {
	return Field{Key: key, Type: FieldTypeAccordion, DefaultValue: "endpoint"}
}

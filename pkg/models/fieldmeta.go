package models

import (
	"encoding/json"
	"time"
)

// FieldDefinition is one stored form-field definition: the opaque
// settings blob the definition UI saved for a field, keyed by form and
// field key. The pipeline reads these to reconstruct action configs; the
// blob's shape belongs to the host form engine.
type FieldDefinition struct {
	ID        string          `json:"id" db:"id"`
	FormID    string          `json:"form_id" db:"form_id"`
	FieldKey  string          `json:"field_key" db:"field_key"`
	Meta      json.RawMessage `json:"meta" db:"meta"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

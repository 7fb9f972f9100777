package fieldmeta

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/database"
	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// FieldMetaRepository defines the interface for field definition storage
type FieldMetaRepository interface {
	Upsert(ctx context.Context, formID, fieldKey string, meta []byte) (*models.FieldDefinition, error)
	GetByKey(ctx context.Context, formID, fieldKey string) (*models.FieldDefinition, error)
	ListByForm(ctx context.Context, formID string) ([]models.FieldDefinition, error)
	Delete(ctx context.Context, formID, fieldKey string) error
}

// Repository implements FieldMetaRepository over Postgres
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new field definition repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "field_definitions"

// Upsert writes a field's definition blob, replacing any existing blob
// for the same (form, field key).
func (r *Repository) Upsert(ctx context.Context, formID, fieldKey string, meta []byte) (*models.FieldDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "FieldMetaRepository.Upsert")
	defer span.End()

	existing, err := r.GetByKey(ctx, formID, fieldKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if existing != nil {
		sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
		sb.Update(tableName)
		sb.Set(
			sb.Assign("meta", meta),
			sb.Assign("updated_at", now),
		)
		sb.Where(
			sb.Equal("id", existing.ID),
			sb.IsNull("deleted_at"),
		)

		query, args := sb.Build()
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("failed to update field definition")
			return nil, fmt.Errorf("failed to update field definition: %w", err)
		}
		return r.GetByKey(ctx, formID, fieldKey)
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("id", "form_id", "field_key", "meta", "created_at", "updated_at")
	sb.Values(uuid.New().String(), formID, fieldKey, meta, now, now)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create field definition")
		return nil, fmt.Errorf("failed to create field definition: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"form_id":   formID,
		"field_key": fieldKey,
	}).Info("created field definition")

	return r.GetByKey(ctx, formID, fieldKey)
}

// GetByKey returns the definition stored for a (form, field key), or nil.
func (r *Repository) GetByKey(ctx context.Context, formID, fieldKey string) (*models.FieldDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "FieldMetaRepository.GetByKey")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "form_id", "field_key", "meta", "created_at", "updated_at", "deleted_at")
	sb.From(tableName)
	sb.Where(
		sb.Equal("form_id", formID),
		sb.Equal("field_key", fieldKey),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()

	var def models.FieldDefinition
	err := r.db.GetContext(ctx, &def, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get field definition")
		return nil, fmt.Errorf("failed to get field definition: %w", err)
	}

	return &def, nil
}

// ListByForm returns every live field definition of a form.
func (r *Repository) ListByForm(ctx context.Context, formID string) ([]models.FieldDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "FieldMetaRepository.ListByForm")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "form_id", "field_key", "meta", "created_at", "updated_at", "deleted_at")
	sb.From(tableName)
	sb.Where(
		sb.Equal("form_id", formID),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("field_key ASC")

	query, args := sb.Build()

	var defs []models.FieldDefinition
	if err := r.db.SelectContext(ctx, &defs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list field definitions")
		return nil, fmt.Errorf("failed to list field definitions: %w", err)
	}

	return defs, nil
}

// Delete soft deletes a field definition
func (r *Repository) Delete(ctx context.Context, formID, fieldKey string) error {
	ctx, span := tracing.StartSpan(ctx, "FieldMetaRepository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update(tableName)
	sb.Set(sb.Assign("deleted_at", time.Now()))
	sb.Where(
		sb.Equal("form_id", formID),
		sb.Equal("field_key", fieldKey),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete field definition")
		return fmt.Errorf("failed to delete field definition: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"form_id":       formID,
		"field_key":     fieldKey,
		"rows_affected": rowsAffected,
	}).Info("deleted field definition")

	return nil
}

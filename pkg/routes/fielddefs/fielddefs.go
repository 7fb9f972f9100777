// Package fielddefs exposes the stored form-field definitions to the
// host engine's definition UI.
package fielddefs

import (
	"encoding/json"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/repositories/fieldmeta"
	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
)

// Register registers field definition routes
func Register(g *echo.Group) {
	g.GET("/:form_id/fields", List)
	g.GET("/:form_id/fields/:key", Get)
	g.PUT("/:form_id/fields/:key", Upsert)
	g.DELETE("/:form_id/fields/:key", Delete)
}

// List returns every field definition of a form
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "fielddefs_handler.List")
	defer span.End()

	ctx, repo, err := ectoinject.GetContext[*fieldmeta.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	defs, err := repo.ListByForm(ctx, c.Param("form_id"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list field definitions")
	}
	return c.JSON(http.StatusOK, defs)
}

// Get returns one field definition
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "fielddefs_handler.Get")
	defer span.End()

	ctx, repo, err := ectoinject.GetContext[*fieldmeta.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	def, err := repo.GetByKey(ctx, c.Param("form_id"), c.Param("key"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get field definition")
	}
	if def == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "field definition not found")
	}
	return c.JSON(http.StatusOK, def)
}

// Upsert stores a field's definition blob
func Upsert(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "fielddefs_handler.Upsert")
	defer span.End()

	var meta json.RawMessage
	if err := c.Bind(&meta); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, repo, err := ectoinject.GetContext[*fieldmeta.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	def, err := repo.Upsert(ctx, c.Param("form_id"), c.Param("key"), meta)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to store field definition")
	}
	return c.JSON(http.StatusOK, def)
}

// Delete removes a field definition
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "fielddefs_handler.Delete")
	defer span.End()

	ctx, repo, err := ectoinject.GetContext[*fieldmeta.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	if err := repo.Delete(ctx, c.Param("form_id"), c.Param("key")); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete field definition")
	}
	return c.NoContent(http.StatusNoContent)
}

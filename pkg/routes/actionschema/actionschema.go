// Package actionschema serves the schema field trees the definition UI
// renders for each Form Action type.
package actionschema

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/civicrm"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/formaction"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/metadata"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/schema"
)

// Register registers schema routes
func Register(g *echo.Group) {
	g.POST("/contact", ContactSchema)
	g.POST("/participant", ParticipantSchema)
}

// SchemaResponse carries the field tree grouped by tab.
type SchemaResponse struct {
	Action        []schema.Field `json:"action"`
	Mapping       []schema.Field `json:"mapping"`
	Relationships []schema.Field `json:"relationships,omitempty"`
}

// ContactSchema builds the field tree for a Contact Action config
func ContactSchema(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "actionschema_handler.ContactSchema")
	defer span.End()

	var config formaction.ContactActionConfig
	if err := c.Bind(&config); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, services, err := ectoinject.GetContext[*civicrm.Services](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get entity services")
	}
	ctx, meta, err := ectoinject.GetContext[*metadata.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get metadata service")
	}
	ctx, logger, err := ectoinject.GetContext[ectologger.Logger](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get logger")
	}

	action, err := formaction.NewContactAction(config, services, meta, logger)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := action.Configure(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusBadGateway, "failed to load metadata")
	}

	return c.JSON(http.StatusOK, SchemaResponse{
		Action:        action.TabActionFields(),
		Mapping:       action.TabMappingFields(),
		Relationships: action.TabRelationshipFields(),
	})
}

// ParticipantSchema builds the field tree for a Participant Action config
func ParticipantSchema(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "actionschema_handler.ParticipantSchema")
	defer span.End()

	var config formaction.ParticipantActionConfig
	if err := c.Bind(&config); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, services, err := ectoinject.GetContext[*civicrm.Services](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get entity services")
	}
	ctx, meta, err := ectoinject.GetContext[*metadata.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get metadata service")
	}
	ctx, logger, err := ectoinject.GetContext[ectologger.Logger](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get logger")
	}

	action, err := formaction.NewParticipantAction(config, services, meta, logger)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := action.Configure(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusBadGateway, "failed to load metadata")
	}

	return c.JSON(http.StatusOK, SchemaResponse{
		Action:  action.TabActionFields(),
		Mapping: action.TabMappingFields(),
	})
}

// Package routes assembles the HTTP surface: field definition storage
// for the definition UI, action schemas, and submission intake.
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/routes/actionschema"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/routes/fielddefs"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/routes/submissions"
)

// Register registers all API route groups
func Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	fielddefs.Register(api.Group("/forms"))
	actionschema.Register(api.Group("/schema"))
	submissions.Register(api.Group("/submissions"))
}

// Package submissions accepts form submissions from the host engine and
// runs them through the Form Action pipeline.
package submissions

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/civicrm"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/events"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/formaction"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/metadata"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

var validate = validator.New()

// Register registers submission routes
func Register(g *echo.Group) {
	g.POST("", Submit)
}

// SubmitRequest is one form submission: the collected values, what is
// known about the submitter, and the form's action configs in form
// order.
type SubmitRequest struct {
	Values map[string]any `json:"values" validate:"required"`

	Submitter struct {
		ContactID         int    `json:"contact_id"`
		Checksum          string `json:"checksum"`
		LoggedInContactID int    `json:"logged_in_contact_id"`
	} `json:"submitter"`

	ContactActions     []formaction.ContactActionConfig     `json:"contact_actions"`
	ParticipantActions []formaction.ParticipantActionConfig `json:"participant_actions"`
}

// SubmitResponse reports per-action outcomes.
type SubmitResponse struct {
	SubmissionID string                 `json:"submission_id"`
	Results      []*models.ActionResult `json:"results"`
	Errors       []string               `json:"errors,omitempty"`
}

// Submit validates and runs a submission through the pipeline
func Submit(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "submissions_handler.Submit")
	defer span.End()

	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
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

	// Contact actions run before participant actions, matching the
	// order the host engine renders them in.
	var actions []formaction.Action
	for _, config := range req.ContactActions {
		action, err := formaction.NewContactAction(config, services, meta, logger)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		actions = append(actions, action)
	}
	for _, config := range req.ParticipantActions {
		action, err := formaction.NewParticipantAction(config, services, meta, logger)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		actions = append(actions, action)
	}

	pipeline := formaction.NewPipeline(actions, logger)
	if err := pipeline.Configure(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusBadGateway, "failed to load metadata")
	}

	sub := formaction.NewSubmission(formaction.Submitter{
		ContactID:         req.Submitter.ContactID,
		Checksum:          req.Submitter.Checksum,
		LoggedInContactID: req.Submitter.LoggedInContactID,
	}, formaction.MapValues(req.Values))

	if errs := pipeline.Validate(ctx, sub); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, e.Error())
		}
		return c.JSON(http.StatusUnprocessableEntity, SubmitResponse{
			SubmissionID: sub.ID.String(),
			Errors:       messages,
		})
	}

	results := pipeline.Run(ctx, sub)

	// Result events are best-effort; the submission is already saved.
	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil && emitter != nil {
		emitter.EmitResults(ctx, sub.ID.String(), results)
	}

	return c.JSON(http.StatusOK, SubmitResponse{
		SubmissionID: sub.ID.String(),
		Results:      results,
	})
}

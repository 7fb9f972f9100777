package formaction

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// Action is the lifecycle every Form Action implements. Actions are
// configured once, then validated and made per submission, in the order
// they appear on the form.
type Action interface {
	Name() string
	Configure(ctx context.Context) error
	Validate(ctx context.Context, sub *Submission) error
	Make(ctx context.Context, sub *Submission) *models.ActionResult
}

// Pipeline runs a form's Actions against submissions.
type Pipeline struct {
	actions []Action
	logger  ectologger.Logger
}

// NewPipeline creates a pipeline over the form's actions, in form order
func NewPipeline(actions []Action, logger ectologger.Logger) *Pipeline {
	return &Pipeline{actions: actions, logger: logger}
}

// Configure configures every action. Call once at startup and again
// after metadata invalidation.
func (p *Pipeline) Configure(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "formaction.Pipeline.Configure")
	defer span.End()

	for _, action := range p.actions {
		if err := action.Configure(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Validate runs every action's validation and collects the failures for
// the host engine to display. An empty slice means the submission may
// proceed.
func (p *Pipeline) Validate(ctx context.Context, sub *Submission) []error {
	ctx, span := tracing.StartSpan(ctx, "formaction.Pipeline.Validate")
	defer span.End()

	var errs []error
	for _, action := range p.actions {
		if err := action.Validate(ctx, sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Run makes every action in order. Actions never abort the run; each
// records its own failure in its result.
func (p *Pipeline) Run(ctx context.Context, sub *Submission) []*models.ActionResult {
	ctx, span := tracing.StartSpan(ctx, "formaction.Pipeline.Run")
	defer span.End()

	results := make([]*models.ActionResult, 0, len(p.actions))
	for _, action := range p.actions {
		result := action.Make(ctx, sub)
		results = append(results, result)

		p.logger.WithContext(ctx).WithFields(map[string]any{
			"submission": sub.ID.String(),
			"action":     action.Name(),
			"contact":    result.ContactID(),
		}).Debug("action completed")
	}
	return results
}

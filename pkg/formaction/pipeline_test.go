package formaction

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

type scriptedAction struct {
	name         string
	configureErr error
	validateErr  error
	made         int
}

func (a *scriptedAction) Name() string { return a.name }

func (a *scriptedAction) Configure(ctx context.Context) error { return a.configureErr }

func (a *scriptedAction) Validate(ctx context.Context, sub *Submission) error {
	return a.validateErr
}

func (a *scriptedAction) Make(ctx context.Context, sub *Submission) *models.ActionResult {
	a.made++
	result := &models.ActionResult{
		ActionName: a.name,
		Kind:       models.ActionKindContact,
		Contact:    &models.Contact{ID: a.made},
	}
	sub.Results.SaveResult(result)
	return result
}

func silentLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestPipelineConfigure_StopsAtFirstFailure(t *testing.T) {
	first := &scriptedAction{name: "first"}
	second := &scriptedAction{name: "second", configureErr: errors.New("metadata unavailable")}
	third := &scriptedAction{name: "third"}
	pipeline := NewPipeline([]Action{first, second, third}, silentLogger())

	err := pipeline.Configure(context.Background())
	assert.EqualError(t, err, "metadata unavailable")
}

func TestPipelineValidate_CollectsAllFailures(t *testing.T) {
	pipeline := NewPipeline([]Action{
		&scriptedAction{name: "a"},
		&scriptedAction{name: "b", validateErr: errors.New("b failed")},
		&scriptedAction{name: "c", validateErr: errors.New("c failed")},
	}, silentLogger())

	errs := pipeline.Validate(context.Background(), NewSubmission(Submitter{}, MapValues{}))
	assert.Len(t, errs, 2)
}

func TestPipelineRun_MakesEveryActionInOrder(t *testing.T) {
	first := &scriptedAction{name: "first"}
	second := &scriptedAction{name: "second"}
	pipeline := NewPipeline([]Action{first, second}, silentLogger())

	sub := NewSubmission(Submitter{}, MapValues{})
	results := pipeline.Run(context.Background(), sub)

	assert.Len(t, results, 2)
	assert.Equal(t, "first", results[0].ActionName)
	assert.Equal(t, "second", results[1].ActionName)
	assert.Equal(t, 1, first.made)
	assert.Equal(t, 1, second.made)
	assert.NotZero(t, sub.Results.ContactIDFor("second"))
}

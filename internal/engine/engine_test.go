package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCategorizer is a fixed-response chain stage for tests.
type stubCategorizer struct {
	result model.CategorizationResult
	err    error
	calls  int
}

func (s *stubCategorizer) Predict(_ context.Context, _ string) (model.CategorizationResult, error) {
	s.calls++
	if s.err != nil {
		return model.CategorizationResult{}, s.err
	}
	return s.result, nil
}

func (s *stubCategorizer) Categories() []model.Category {
	return model.Categories()
}

func ruleStage() Stage {
	return Stage{Name: "rule_based", Categorizer: rules.NewClassifier(nil)}
}

func TestService_FirstConfidentStageWins(t *testing.T) {
	ml := &stubCategorizer{result: model.CategorizationResult{
		Category: model.CategoryFood, Confidence: 0.95, Method: model.MethodMLPrimary,
	}}
	generative := &stubCategorizer{result: model.CategorizationResult{
		Category: model.CategoryTravel, Confidence: 0.9, Method: model.MethodGenerative,
	}}

	svc, err := NewService(slog.Default(),
		Stage{Name: "ml_primary", Categorizer: ml, Threshold: 0.6},
		Stage{Name: "generative", Categorizer: generative},
		ruleStage(),
	)
	require.NoError(t, err)

	result, err := svc.Categorize(context.Background(), "uber ride")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryFood, result.Category)
	assert.Equal(t, model.MethodMLPrimary, result.Method)
	assert.Equal(t, 0, generative.calls, "later stages must not run")
}

func TestService_LowConfidenceFallsThrough(t *testing.T) {
	// Exactly at the threshold is still low-confidence.
	ml := &stubCategorizer{result: model.CategorizationResult{
		Category: model.CategoryFood, Confidence: 0.6, Method: model.MethodMLPrimary,
	}}
	generative := &stubCategorizer{result: model.CategorizationResult{
		Category: model.CategoryTravel, Confidence: 0.7, Method: model.MethodGenerative,
	}}

	svc, err := NewService(slog.Default(),
		Stage{Name: "ml_primary", Categorizer: ml, Threshold: 0.6},
		Stage{Name: "generative", Categorizer: generative},
		ruleStage(),
	)
	require.NoError(t, err)

	result, err := svc.Categorize(context.Background(), "some expense")
	require.NoError(t, err)
	assert.Equal(t, model.MethodGenerative, result.Method)
	assert.Equal(t, 1, ml.calls)
}

func TestService_StageErrorFallsThrough(t *testing.T) {
	ml := &stubCategorizer{err: errors.New("artifact missing")}
	generative := &stubCategorizer{err: errors.New("timeout")}

	svc, err := NewService(slog.Default(),
		Stage{Name: "ml_primary", Categorizer: ml, Threshold: 0.6},
		Stage{Name: "generative", Categorizer: generative},
		ruleStage(),
	)
	require.NoError(t, err)

	result, err := svc.Categorize(context.Background(), "pizza dinner")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryFood, result.Category)
	assert.Equal(t, model.MethodRuleBased, result.Method)
}

func TestService_RuleStageIsTerminal(t *testing.T) {
	svc, err := NewService(slog.Default(), ruleStage())
	require.NoError(t, err)

	result, err := svc.Categorize(context.Background(), "xyz-no-match-zzz")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, result.Category)
	assert.Equal(t, model.MethodFallback, result.Method)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestService_InvalidStageResultFallsThrough(t *testing.T) {
	bad := &stubCategorizer{result: model.CategorizationResult{
		Category: "gambling", Confidence: 0.9, Method: model.MethodMLPrimary,
	}}

	svc, err := NewService(slog.Default(),
		Stage{Name: "ml_primary", Categorizer: bad, Threshold: 0.6},
		ruleStage(),
	)
	require.NoError(t, err)

	result, err := svc.Categorize(context.Background(), "netflix subscription")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryEntertainment, result.Category)
}

func TestService_SetCategorizer(t *testing.T) {
	svc, err := NewService(slog.Default(), ruleStage())
	require.NoError(t, err)

	custom := &stubCategorizer{result: model.CategorizationResult{
		Category: model.CategoryBills, Confidence: 1.0, Method: "custom",
	}}
	require.NoError(t, svc.SetCategorizer(custom))

	result, err := svc.Categorize(context.Background(), "pizza dinner")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryBills, result.Category)
	assert.Equal(t, []string{"custom"}, svc.Stages())

	assert.Error(t, svc.SetCategorizer(nil))
}

func TestService_Categories(t *testing.T) {
	svc, err := NewService(slog.Default(), ruleStage())
	require.NoError(t, err)

	cats := svc.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, model.CategoryFood, cats[0])
	assert.Equal(t, model.CategoryOther, cats[len(cats)-1])
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(slog.Default())
	assert.Error(t, err)

	_, err = NewService(slog.Default(), Stage{Name: "empty"})
	assert.Error(t, err)
}

package refiner

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/providers"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

func newTestRefiner(mock *providers.MockCaller, opts ...Option) *Refiner {
	gw := NewGateway(mock, "test-model", providers.TargetOllama, utils.NewNopLogger())
	return New(gw, opts...)
}

func TestSelectSeedsFromClassifier(t *testing.T) {
	r := newTestRefiner(&providers.MockCaller{})
	cfg := r.Select("Solve this equation: 3x^2 + 2x - 5 = 0")

	assert.Equal(t, "Mathematician", cfg.Role)
	assert.Equal(t, "math", cfg.TaskType)
	assert.Equal(t, "chain_of_thought", cfg.Technique)
	assert.Contains(t, cfg.Template, "{query}")
	assert.Equal(t, params.ForTask("math"), cfg.Parameters)
}

func TestRefineConvergesAfterMinIterations(t *testing.T) {
	response := `{"quality_score": 0.95, "improved_prompt": "Explain recursion with examples",
	"role": "Teacher", "technique": "few_shot", "task_type": "explanation",
	"template": "Explain this: {query}",
	"parameters": {"temperature": 0.6, "num_ctx": 2048, "num_predict": 1024},
	"reasoning": "clearer"}`
	mock := &providers.MockCaller{Responses: []string{response}}
	r := newTestRefiner(mock)

	cfg := r.Refine(context.Background(), "Explain recursion")

	assert.Equal(t, StateConverged, cfg.State)
	assert.InDelta(t, 0.95, cfg.FinalQuality, 1e-9)
	assert.GreaterOrEqual(t, cfg.IterationsUsed, DefaultMinIterations)
	assert.LessOrEqual(t, cfg.IterationsUsed, DefaultMaxIterations)

	assert.Equal(t, "Teacher", cfg.Role)
	assert.Equal(t, "explanation", cfg.TaskType)
	assert.Equal(t, "few_shot", cfg.Technique)
	assert.Equal(t, "Explain this: Explain recursion with examples", cfg.FinalPrompt)
	assert.Equal(t, params.Set{Temperature: 0.6, NumCtx: 2048, NumPredict: 1024}, cfg.Parameters)

	require.NotNil(t, cfg.Metadata)
	assert.Equal(t, "Explain recursion", cfg.Metadata.OriginalQuery)
	assert.True(t, cfg.Metadata.ValidationPerformed)
}

func TestRefineMinIterationsDelaysConvergence(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{
		`{"quality_score": 0.99, "improved_prompt": "better prompt with {query}", "template": "{query}"}`,
	}}
	r := newTestRefiner(mock)

	r.Refine(context.Background(), "Explain recursion")

	// Even a perfect first score must not stop the loop before the
	// minimum number of iterations.
	assert.GreaterOrEqual(t, mock.CallCount(), DefaultMinIterations)
}

func TestRefineAllCallsFailUsesFallback(t *testing.T) {
	mock := &providers.MockCaller{Err: assert.AnError}
	r := newTestRefiner(mock)

	query := "Explain how photosynthesis works"
	cfg := r.Refine(context.Background(), query)

	assert.Equal(t, StateExhausted, cfg.State)
	assert.Equal(t, DefaultMaxIterations, cfg.IterationsUsed)
	assert.Equal(t, DefaultMaxIterations, mock.CallCount())
	assert.Zero(t, cfg.FinalQuality)
	assert.Equal(t, "Mathematician", cfg.Role)
	assert.Equal(t, "math", cfg.TaskType)
	// The recursion guard strips the calculation wrapper, so the original
	// query survives untouched.
	assert.Equal(t, query, cfg.FinalPrompt)
}

func TestRefineUnparsableOutputDegradesToDefaults(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{"I am not JSON, sorry"}}
	r := newTestRefiner(mock)

	cfg := r.Refine(context.Background(), "hello there")

	assert.Equal(t, StateExhausted, cfg.State)
	assert.Equal(t, DefaultMaxIterations, cfg.IterationsUsed)
	assert.InDelta(t, 0.7, cfg.FinalQuality, 1e-9)
	assert.Equal(t, "Mathematician", cfg.Role)
	assert.NotContains(t, cfg.FinalPrompt, NudgeSuffix)
	assert.Contains(t, cfg.FinalPrompt, "hello there")
}

func TestRefineNudgesWhenNoImprovementOffered(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{
		`{"quality_score": 0.5, "improved_prompt": "", "template": "{query}"}`,
	}}
	r := newTestRefiner(mock)

	r.Refine(context.Background(), "plain question")

	require.Equal(t, DefaultMaxIterations, mock.CallCount())
	// Each pass without an improvement appends the nudge to the candidate
	// embedded in the next meta-prompt.
	last := mock.Prompts[len(mock.Prompts)-1]
	assert.Contains(t, last, strings.TrimSpace(NudgeSuffix))
}

func TestRefineWithTechniquePinsSeed(t *testing.T) {
	mock := &providers.MockCaller{Err: assert.AnError}
	r := newTestRefiner(mock)

	r.Refine(context.Background(), "Explain recursion", WithTechnique("tree_of_thought"))

	// The pinned technique shows up in the first meta-prompt instead of
	// the classifier's pick.
	require.NotEmpty(t, mock.Prompts)
	assert.Contains(t, mock.Prompts[0], "tree_of_thought")
}

func TestRefineWithParametersPassesOverrides(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{`{"quality_score": 0.2}`}}
	r := newTestRefiner(mock)

	// Overrides out of range are clamped, not trusted.
	r.Refine(context.Background(), "anything",
		WithParameters(params.Set{Temperature: 7, NumCtx: 2048, NumPredict: 1024}))

	assert.Equal(t, DefaultMaxIterations, mock.CallCount())
}

func TestRefineBoundsAreConfigurable(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{`{"quality_score": 0.95, "template": "{query}"}`}}
	r := newTestRefiner(mock,
		WithMinIterations(1),
		WithMaxIterations(2),
		WithThreshold(0.9),
	)

	cfg := r.Refine(context.Background(), "quick question")

	assert.Equal(t, StateConverged, cfg.State)
	assert.LessOrEqual(t, mock.CallCount(), 2)
}

func TestNewClampsDegenerateBounds(t *testing.T) {
	r := newTestRefiner(&providers.MockCaller{Responses: []string{`{"quality_score": 0.1}`}},
		WithMinIterations(10),
		WithMaxIterations(0),
	)

	cfg := r.Refine(context.Background(), "bounded")
	assert.Equal(t, 1, cfg.IterationsUsed)
}

func TestRefineNeverReturnsNil(t *testing.T) {
	r := newTestRefiner(&providers.MockCaller{})

	cfg := r.Refine(context.Background(), "")
	require.NotNil(t, cfg)
	assert.NotNil(t, cfg.Metadata)
}

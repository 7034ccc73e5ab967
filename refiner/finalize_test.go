package refiner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/templates"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

func TestFinalizeFillsMissingFields(t *testing.T) {
	cfg := Finalize(&Config{}, "a question", nil, utils.NewNopLogger())

	assert.Equal(t, "Assistant", cfg.Role)
	assert.Equal(t, "default", cfg.TaskType)
	assert.Equal(t, templates.Identity, cfg.Template)
	assert.Equal(t, "a question", cfg.FinalPrompt)
	assert.Equal(t, params.ClampFinal(params.ForTask("default")), cfg.Parameters)
}

func TestFinalizeNilConfig(t *testing.T) {
	cfg := Finalize(nil, "q", nil, nil)
	require.NotNil(t, cfg)
	assert.Equal(t, "q", cfg.FinalPrompt)
}

func TestFinalizeAppliesFinalBounds(t *testing.T) {
	cfg := Finalize(&Config{
		Template:   "Do: {query}",
		Parameters: params.Set{Temperature: 0.0, NumCtx: 512, NumPredict: 64},
	}, "q", nil, utils.NewNopLogger())

	assert.Equal(t, params.Set{Temperature: 0.1, NumCtx: 1024, NumPredict: 512}, cfg.Parameters)
}

func TestFinalizeStripsNudgeArtifacts(t *testing.T) {
	cfg := Finalize(&Config{
		Template:    "{query}",
		Parameters:  params.ForTask("default"),
		FinalPrompt: "explain this (Please refine this further) (Please refine this further)",
	}, "explain this", nil, utils.NewNopLogger())

	assert.Equal(t, "explain this", cfg.FinalPrompt)
}

func TestFinalizeResetsLeftoverPlaceholder(t *testing.T) {
	cfg := Finalize(&Config{
		Template:    "{query}",
		Parameters:  params.ForTask("default"),
		FinalPrompt: "Answer the following: {query}",
	}, "the real question", nil, utils.NewNopLogger())

	assert.Equal(t, "the real question", cfg.FinalPrompt)
}

func TestFinalizeResetsTemplateWithoutPlaceholder(t *testing.T) {
	cfg := Finalize(&Config{
		Template:    "static text with no slot",
		Parameters:  params.ForTask("default"),
		FinalPrompt: "fine prompt",
	}, "q", nil, utils.NewNopLogger())

	assert.Equal(t, templates.Identity, cfg.Template)
	assert.Equal(t, "fine prompt", cfg.FinalPrompt)
}

func TestFinalizeNormalizesWhitespace(t *testing.T) {
	cfg := Finalize(&Config{
		Template:    "{query}",
		Parameters:  params.ForTask("default"),
		FinalPrompt: "  too   many\n\n spaces \t here ",
	}, "q", nil, utils.NewNopLogger())

	assert.Equal(t, "too many spaces here", cfg.FinalPrompt)
}

func TestMathRecursionGuard(t *testing.T) {
	assert.True(t, MathRecursionGuard("math", "Calculate the following: solve for x"))
	assert.True(t, MathRecursionGuard("math", "please COMPUTE the sum"))
	assert.False(t, MathRecursionGuard("math", "what is the answer"))
	assert.False(t, MathRecursionGuard("coding", "compute the hash of this file"))
}

func TestFinalizeGuardReplacesPrompt(t *testing.T) {
	cfg := Finalize(&Config{
		Role:        "Mathematician",
		TaskType:    "math",
		Template:    "Calculate the following mathematical expression step-by-step: {query}",
		Parameters:  params.ForTask("math"),
		FinalPrompt: "Calculate the following mathematical expression step-by-step: Solve 3x^2 + 2x - 5 = 0",
	}, "Solve 3x^2 + 2x - 5 = 0", MathRecursionGuard, utils.NewNopLogger())

	assert.Equal(t, "Solve 3x^2 + 2x - 5 = 0", cfg.FinalPrompt)
}

func TestFinalizeCustomGuard(t *testing.T) {
	rejectAll := func(string, string) bool { return true }
	cfg := Finalize(&Config{
		Template:    "{query}",
		Parameters:  params.ForTask("default"),
		FinalPrompt: "wrapped prompt",
	}, "bare query", rejectAll, utils.NewNopLogger())

	assert.Equal(t, "bare query", cfg.FinalPrompt)
}

func TestFinalizeAttachesMetadataOnce(t *testing.T) {
	cfg := Finalize(&Config{
		Template:   "{query}",
		Parameters: params.ForTask("default"),
	}, "original", nil, utils.NewNopLogger())

	require.NotNil(t, cfg.Metadata)
	first := cfg.Metadata

	again := Finalize(cfg, "different query", nil, utils.NewNopLogger())
	assert.Same(t, first, again.Metadata)
	assert.Equal(t, "original", again.Metadata.OriginalQuery)
}

package research

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/providers"
	"github.com/cdevos2017/cot6930-200-a1/refiner"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

const analysisResponse = `{"quality_score": 0.92, "improved_prompt": "refined",
"role": "Mathematician", "technique": "chain_of_thought", "task_type": "math",
"template": "Work through this: {query}",
"parameters": {"temperature": 0.3, "num_ctx": 2048, "num_predict": 1024},
"reasoning": "tightened wording"}`

func newTestFramework(mock *providers.MockCaller, opts ...FrameworkOption) *Framework {
	gw := refiner.NewGateway(mock, "test-model", providers.TargetOllama, utils.NewNopLogger())
	core := refiner.New(gw, refiner.WithMinIterations(1), refiner.WithMaxIterations(2))
	return NewFramework(core, opts...)
}

func TestDefaultMatrixShape(t *testing.T) {
	f := newTestFramework(&providers.MockCaller{Responses: []string{analysisResponse}})

	assert.Len(t, f.TestCases(), 5)
	assert.Len(t, f.Techniques(), 5)
	assert.Len(t, f.ParameterSets(), 5)
}

func TestRunExperiment(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{analysisResponse}}
	f := newTestFramework(mock)

	tc := TestCase{Query: "Solve this equation: 3x^2 + 2x - 5 = 0", Category: "math",
		ExpectedRole: "Mathematician", ExpectedTechnique: "chain_of_thought"}
	result := f.RunExperiment(context.Background(), tc, "chain_of_thought",
		params.Set{Temperature: 0.2, NumCtx: 2048, NumPredict: 1024})

	assert.Equal(t, tc.Query, result.Query)
	assert.Equal(t, "chain_of_thought", result.Technique)
	assert.InDelta(t, 0.92, result.QualityScore, 1e-9)
	assert.Equal(t, "Mathematician", result.RoleUsed)
	assert.Positive(t, result.IterationsUsed)
	assert.GreaterOrEqual(t, result.TimeTaken, 0.0)
	assert.NotEmpty(t, result.FinalPrompt)
}

func TestRunFullEvaluationCoversMatrix(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{analysisResponse}}
	cases := []TestCase{
		{Query: "Explain recursion", Category: "explanation", ExpectedRole: "Teacher"},
		{Query: "Calculate 2+2", Category: "math", ExpectedRole: "Mathematician"},
	}
	f := newTestFramework(mock,
		WithTestCases(cases),
		WithTechniques([]string{"chain_of_thought", "socratic"}),
		WithParameterSets([]params.Set{{Temperature: 0.2, NumCtx: 2048, NumPredict: 1024}}),
	)

	results := f.RunFullEvaluation(context.Background())
	require.Len(t, results, 4)

	// Results arrive in matrix order: cases outermost, then techniques.
	assert.Equal(t, "Explain recursion", results[0].Query)
	assert.Equal(t, "chain_of_thought", results[0].Technique)
	assert.Equal(t, "socratic", results[1].Technique)
	assert.Equal(t, "Calculate 2+2", results[2].Query)
}

func TestRunFullEvaluationParallelWorkersKeepOrder(t *testing.T) {
	mock := &providers.MockCaller{Responses: []string{analysisResponse}}
	f := newTestFramework(mock,
		WithTestCases([]TestCase{{Query: "Explain recursion"}}),
		WithTechniques([]string{"chain_of_thought", "socratic", "role_playing"}),
		WithParameterSets([]params.Set{{Temperature: 0.2, NumCtx: 2048, NumPredict: 1024}}),
		WithWorkers(3),
	)

	results := f.RunFullEvaluation(context.Background())
	require.Len(t, results, 3)
	assert.Equal(t, "chain_of_thought", results[0].Technique)
	assert.Equal(t, "socratic", results[1].Technique)
	assert.Equal(t, "role_playing", results[2].Technique)
}

func TestRunFullEvaluationHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &providers.MockCaller{Responses: []string{analysisResponse}}
	f := newTestFramework(mock, WithRateLimit(1000))

	results := f.RunFullEvaluation(ctx)
	// A canceled context stops the matrix early; whatever did finish is
	// still returned.
	assert.LessOrEqual(t, len(results), 5*5*5)
}

func TestAnalyzeResults(t *testing.T) {
	f := newTestFramework(&providers.MockCaller{Responses: []string{analysisResponse}},
		WithTestCases([]TestCase{
			{Query: "q1", ExpectedRole: "Teacher"},
			{Query: "q2", ExpectedRole: "Mathematician"},
		}),
		WithTechniques([]string{"chain_of_thought", "socratic"}),
		WithParameterSets([]params.Set{
			{Temperature: 0.2, NumCtx: 2048, NumPredict: 1024},
			{Temperature: 0.5, NumCtx: 4096, NumPredict: 2048},
		}),
	)

	results := []ExperimentResult{
		{Query: "q1", Technique: "chain_of_thought", QualityScore: 0.9, IterationsUsed: 3,
			Parameters: params.Set{Temperature: 0.2, NumCtx: 2048}, RoleUsed: "Teacher", TimeTaken: 1.0},
		{Query: "q1", Technique: "chain_of_thought", QualityScore: 0.7, IterationsUsed: 5,
			Parameters: params.Set{Temperature: 0.2, NumCtx: 2048}, RoleUsed: "Assistant", TimeTaken: 2.0},
		{Query: "q2", Technique: "socratic", QualityScore: 0.8, IterationsUsed: 4,
			Parameters: params.Set{Temperature: 0.5, NumCtx: 4096}, RoleUsed: "Mathematician", TimeTaken: 3.0},
	}

	analysis := f.AnalyzeResults(results)

	cot := analysis.TechniquePerformance["chain_of_thought"]
	assert.InDelta(t, 0.8, cot.AvgQuality, 1e-9)
	assert.InDelta(t, 4.0, cot.AvgIterations, 1e-9)
	assert.Equal(t, 2, cot.Runs)

	soc := analysis.TechniquePerformance["socratic"]
	assert.InDelta(t, 0.8, soc.AvgQuality, 1e-9)
	assert.Equal(t, 1, soc.Runs)

	impact := analysis.ParameterImpact["temp_0.2_ctx_2048"]
	assert.InDelta(t, 0.8, impact.AvgQuality, 1e-9)
	assert.InDelta(t, 1.5, impact.AvgTime, 1e-9)

	// 2 of 3 runs picked the expected role.
	assert.InDelta(t, 2.0/3.0, analysis.RoleAccuracy, 1e-9)
}

func TestAnalyzeResultsEmpty(t *testing.T) {
	f := newTestFramework(&providers.MockCaller{Responses: []string{analysisResponse}})
	analysis := f.AnalyzeResults(nil)

	assert.Empty(t, analysis.TechniquePerformance)
	assert.Empty(t, analysis.ParameterImpact)
	assert.Zero(t, analysis.RoleAccuracy)
}

func TestGenerateReport(t *testing.T) {
	f := newTestFramework(&providers.MockCaller{Responses: []string{analysisResponse}},
		WithTestCases([]TestCase{{Query: "q", ExpectedRole: "Teacher"}}),
		WithTechniques([]string{"socratic"}),
		WithParameterSets([]params.Set{{Temperature: 0.2, NumCtx: 2048, NumPredict: 1024}}),
	)

	results := []ExperimentResult{
		{Query: "q", Technique: "socratic", QualityScore: 0.85, IterationsUsed: 3,
			Parameters: params.Set{Temperature: 0.2, NumCtx: 2048}, RoleUsed: "Teacher",
			FinalPrompt: "what is the question really asking"},
	}
	analysis := f.AnalyzeResults(results)
	report := f.GenerateReport(results, analysis)

	assert.Contains(t, report, "# Automated Prompt Engineering: Experimental Results")
	assert.Contains(t, report, "Technique Performance")
	assert.Contains(t, report, "socratic")
	assert.Contains(t, report, "Parameter Impact")
	assert.Contains(t, report, "temp_0.2_ctx_2048")
	assert.Contains(t, report, "Role Selection Accuracy")
	assert.Contains(t, report, "100.00%")
}

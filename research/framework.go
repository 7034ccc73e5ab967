package research

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/refiner"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

// Framework drives the full evaluation matrix: every test case crossed with
// every technique and every parameter set.
type Framework struct {
	refiner       *refiner.Refiner
	testCases     []TestCase
	techniques    []string
	parameterSets []params.Set
	logger        utils.Logger
	limiter       *rate.Limiter
	workers       int
}

// FrameworkOption configures a Framework.
type FrameworkOption func(*Framework)

func WithTestCases(cases []TestCase) FrameworkOption {
	return func(f *Framework) { f.testCases = cases }
}

func WithTechniques(techniques []string) FrameworkOption {
	return func(f *Framework) { f.techniques = techniques }
}

func WithParameterSets(sets []params.Set) FrameworkOption {
	return func(f *Framework) { f.parameterSets = sets }
}

func WithFrameworkLogger(logger utils.Logger) FrameworkOption {
	return func(f *Framework) { f.logger = logger }
}

// WithRateLimit caps refinement runs per second across all workers. Local
// model servers fall over under unbounded concurrent generation.
func WithRateLimit(perSecond float64) FrameworkOption {
	return func(f *Framework) { f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1) }
}

// WithWorkers sets the number of concurrent experiment runners. Default 1:
// a single local model serializes generations anyway.
func WithWorkers(n int) FrameworkOption {
	return func(f *Framework) {
		if n > 0 {
			f.workers = n
		}
	}
}

// NewFramework builds a Framework around an existing refiner.
func NewFramework(r *refiner.Refiner, opts ...FrameworkOption) *Framework {
	f := &Framework{
		refiner:       r,
		testCases:     DefaultTestCases(),
		techniques:    DefaultTechniques(),
		parameterSets: DefaultParameterSets(),
		logger:        utils.NewNopLogger(),
		workers:       1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TestCases returns the configured benchmark cases.
func (f *Framework) TestCases() []TestCase { return f.testCases }

// Techniques returns the configured technique variations.
func (f *Framework) Techniques() []string { return f.techniques }

// ParameterSets returns the configured parameter variations.
func (f *Framework) ParameterSets() []params.Set { return f.parameterSets }

// RunExperiment runs one cell of the matrix: a single refinement of the test
// case query with a pinned technique and parameter set.
func (f *Framework) RunExperiment(ctx context.Context, tc TestCase, technique string, set params.Set) ExperimentResult {
	start := time.Now()
	cfg := f.refiner.Refine(ctx, tc.Query,
		refiner.WithTechnique(technique),
		refiner.WithParameters(set),
	)
	elapsed := time.Since(start)

	return ExperimentResult{
		Query:          tc.Query,
		Technique:      technique,
		Parameters:     set,
		QualityScore:   cfg.FinalQuality,
		IterationsUsed: cfg.IterationsUsed,
		TimeTaken:      elapsed.Seconds(),
		FinalPrompt:    cfg.FinalPrompt,
		RoleUsed:       cfg.Role,
		Reasoning:      cfg.Reasoning,
	}
}

type experiment struct {
	index     int
	testCase  TestCase
	technique string
	set       params.Set
}

// RunFullEvaluation runs the complete matrix and returns the results in
// deterministic matrix order regardless of worker interleaving. It stops
// early when the context is canceled, returning whatever completed.
func (f *Framework) RunFullEvaluation(ctx context.Context) []ExperimentResult {
	var experiments []experiment
	for _, tc := range f.testCases {
		for _, technique := range f.techniques {
			for _, set := range f.parameterSets {
				experiments = append(experiments, experiment{
					index:     len(experiments),
					testCase:  tc,
					technique: technique,
					set:       set,
				})
			}
		}
	}

	results := make([]ExperimentResult, len(experiments))
	done := make([]bool, len(experiments))
	jobs := make(chan experiment)

	var wg sync.WaitGroup
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for exp := range jobs {
				if f.limiter != nil {
					if err := f.limiter.Wait(ctx); err != nil {
						return
					}
				}
				f.logger.Info("running experiment",
					"case", exp.testCase.Description,
					"technique", exp.technique,
					"temperature", exp.set.Temperature)
				results[exp.index] = f.RunExperiment(ctx, exp.testCase, exp.technique, exp.set)
				done[exp.index] = true
			}
		}()
	}

	for _, exp := range experiments {
		select {
		case jobs <- exp:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return compact(results, done)
		}
	}
	close(jobs)
	wg.Wait()

	return compact(results, done)
}

func compact(results []ExperimentResult, done []bool) []ExperimentResult {
	out := results[:0:0]
	for i, r := range results {
		if done[i] {
			out = append(out, r)
		}
	}
	return out
}

package refiner

import (
	"context"
	"fmt"

	"github.com/cdevos2017/cot6930-200-a1/classify"
	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/templates"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

// Default loop bounds.
const (
	DefaultMinIterations    = 3
	DefaultMaxIterations    = 5
	DefaultQualityThreshold = 0.9
)

// Refiner drives the refinement loop: it seeds a configuration from the
// classifier, repeatedly asks the model to score and rewrite the candidate,
// and finalizes whatever the loop converged on. A Refiner is safe for
// concurrent use; each run owns its own working state.
type Refiner struct {
	gateway       *Gateway
	store         templates.Store
	logger        utils.Logger
	guard         GuardFunc
	minIterations int
	maxIterations int
	threshold     float64
}

// Option configures a Refiner.
type Option func(*Refiner)

func WithTemplateStore(store templates.Store) Option {
	return func(r *Refiner) { r.store = store }
}

func WithLogger(logger utils.Logger) Option {
	return func(r *Refiner) { r.logger = logger }
}

func WithMinIterations(n int) Option {
	return func(r *Refiner) { r.minIterations = n }
}

func WithMaxIterations(n int) Option {
	return func(r *Refiner) { r.maxIterations = n }
}

func WithThreshold(threshold float64) Option {
	return func(r *Refiner) { r.threshold = threshold }
}

func WithGuard(guard GuardFunc) Option {
	return func(r *Refiner) { r.guard = guard }
}

// New creates a Refiner around the given gateway.
func New(gateway *Gateway, opts ...Option) *Refiner {
	r := &Refiner{
		gateway:       gateway,
		store:         templates.NewStaticStore(),
		logger:        utils.NewNopLogger(),
		guard:         MathRecursionGuard,
		minIterations: DefaultMinIterations,
		maxIterations: DefaultMaxIterations,
		threshold:     DefaultQualityThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxIterations < 1 {
		r.maxIterations = 1
	}
	if r.minIterations > r.maxIterations {
		r.minIterations = r.maxIterations
	}
	return r
}

// RunOption adjusts a single refinement run.
type RunOption func(*runSettings)

type runSettings struct {
	technique string
	overrides map[string]any
}

// WithTechnique seeds the run with a fixed technique instead of the
// classifier's pick.
func WithTechnique(technique string) RunOption {
	return func(s *runSettings) { s.technique = technique }
}

// WithParameters overrides the generation parameters used for the
// meta-analysis calls of this run.
func WithParameters(set params.Set) RunOption {
	return func(s *runSettings) { s.overrides = set.Map() }
}

// Select seeds an initial configuration for a query using the rule-based
// classifier and the template tables. It makes no model calls.
func (r *Refiner) Select(query string) *Config {
	res := classify.Classify(query)
	return &Config{
		Role:       res.Role,
		TaskType:   res.TaskType,
		Technique:  res.Technique,
		Template:   templates.Compose(r.store, res.Role, res.Technique, r.logger),
		Parameters: params.ForTask(res.TaskType),
	}
}

// Refine runs the full refinement loop for a query and returns a finalized
// configuration. It never fails: transport errors and malformed model output
// degrade the result instead of aborting, and if every analysis call fails
// the hard-coded fallback configuration wraps the original query.
func (r *Refiner) Refine(ctx context.Context, query string, opts ...RunOption) *Config {
	var settings runSettings
	for _, opt := range opts {
		opt(&settings)
	}

	seed := r.Select(query)
	if settings.technique != "" {
		seed.Technique = settings.technique
		seed.Template = templates.Compose(r.store, seed.Role, seed.Technique, r.logger)
	}

	currentRole := seed.Role
	currentTask := seed.TaskType
	currentTechnique := seed.Technique

	current := query
	currentQuality := 0.0
	bestQuality := 0.0
	var best *Analysis
	iteration := 0
	state := StateRunning

	for iteration < r.maxIterations {
		forceContinue := iteration < r.minIterations

		metaPrompt := buildMetaPrompt(current, currentRole, currentTechnique, currentTask)

		var analysis Analysis
		raw, err := r.gateway.Analyze(ctx, metaPrompt, settings.overrides)
		if err != nil {
			// Recoverable: count it as a zero-quality, no-improvement pass.
			r.logger.Warn("analysis call failed", "iteration", iteration+1, "error", err)
		} else {
			analysis = ParseAnalysis(raw)
		}

		currentQuality = analysis.QualityScore
		r.logger.Info("refinement iteration",
			"iteration", iteration+1,
			"quality", currentQuality,
			"used_defaults", analysis.UsedDefaults,
			"reasoning", analysis.Reasoning)

		if currentQuality > bestQuality {
			candidate := analysis
			best = &candidate
			bestQuality = currentQuality

			// The model changed its mind about role or technique:
			// re-derive the working configuration from the new signal.
			if analysis.Role != currentRole || analysis.Technique != currentTechnique {
				currentRole, currentTask, currentTechnique = r.reselect(current, analysis)
			}
		}

		if analysis.ImprovedPrompt != "" && analysis.ImprovedPrompt != current {
			current = analysis.ImprovedPrompt
		} else {
			// No improvement offered, or the model echoed the candidate.
			if !forceContinue && currentQuality >= r.threshold {
				state = StateConverged
				break
			}
			current += NudgeSuffix
		}

		iteration++

		if !forceContinue && currentQuality >= r.threshold {
			state = StateConverged
			break
		}
	}
	if state == StateRunning {
		state = StateExhausted
	}

	var cfg *Config
	if best == nil {
		// Every analysis call failed to produce anything usable.
		cfg = r.fallbackConfig(query)
		r.logger.Warn("no valid analysis result, using fallback configuration", "iterations", iteration)
	} else {
		taskType := best.TaskType
		if taskType == "" {
			taskType = currentTask
		}
		set, warnings := params.Merge(params.ForTask(taskType), best.Parameters)
		for _, w := range warnings {
			r.logger.Warn("suggested parameter rejected", "warning", w)
		}
		cfg = &Config{
			Role:        best.Role,
			TaskType:    taskType,
			Technique:   best.Technique,
			Template:    best.Template,
			Parameters:  set,
			FinalPrompt: templates.Fill(best.Template, current),
			Reasoning:   best.Reasoning,
		}
	}

	cfg.IterationsUsed = iteration
	cfg.FinalQuality = currentQuality
	cfg.State = state

	return Finalize(cfg, query, r.guard, r.logger)
}

// reselect re-derives role, task type, and technique after the model
// suggested a different configuration, preferring the model's non-empty
// fields and filling the rest from the classifier.
func (r *Refiner) reselect(query string, analysis Analysis) (role, taskType, technique string) {
	role = analysis.Role
	if role == "" {
		role = classify.DetectRole(query)
	}
	technique = analysis.Technique
	if technique == "" {
		technique = classify.DetectTechnique(query)
	}
	taskType = analysis.TaskType
	if taskType == "" {
		taskType = classify.DetectTaskType(query)
	}
	return role, taskType, technique
}

// fallbackConfig is the last resort when no iteration produced a usable
// result: the default mathematician configuration wrapping the original
// query.
func (r *Refiner) fallbackConfig(query string) *Config {
	d := DefaultAnalysis()
	set, _ := params.Coerce(d.Parameters, params.ForTask("math"))
	return &Config{
		Role:        d.Role,
		TaskType:    "math",
		Template:    d.Template,
		Parameters:  set,
		FinalPrompt: templates.Fill(d.Template, query),
		Reasoning:   d.Reasoning,
	}
}

func buildMetaPrompt(candidate, role, technique, taskType string) string {
	if technique == "" {
		technique = "none"
	}
	return fmt.Sprintf(`Evaluate this candidate prompt: %q
Current configuration:
- Role: %s
- Technique: %s
- Task Type: %s

1. Rate the current prompt quality from 0.0 to 1.0
2. Provide an improved version even if quality is high
3. Determine if the current role and technique are optimal for this task

Return your analysis in JSON format:
{
    "quality_score": <score between 0 and 1>,
    "improved_prompt": "<refined prompt>",
    "role": "<appropriate expert role>",
    "technique": "<suggested prompt technique>",
    "task_type": "<specific task category>",
    "template": "<prompt template with {query} placeholder>",
    "parameters": {"temperature": <value>, "num_ctx": <value>, "num_predict": <value>},
    "reasoning": "<explanation of changes made>"
}`, candidate, role, technique, taskType)
}

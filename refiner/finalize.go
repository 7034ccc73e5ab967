package refiner

import (
	"strings"
	"time"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/templates"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

// GuardFunc decides whether a finalized prompt must be discarded in favor of
// the bare original query.
type GuardFunc func(taskType, prompt string) bool

// arithmetic-action verbs that signal a math prompt wrapping another math
// instruction ("solve this: solve this: ...").
var mathRecursionTerms = []string{"calculate", "solve", "compute", "evaluate"}

// MathRecursionGuard is the default guard: a heuristic, known-imprecise
// safeguard against self-referential math prompts. It is a replaceable
// predicate, not a contract.
func MathRecursionGuard(taskType, prompt string) bool {
	if taskType != "math" {
		return false
	}
	lower := strings.ToLower(prompt)
	for _, term := range mathRecursionTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Finalize freezes a configuration for delivery: it fills in missing fields,
// re-clamps the parameters with the final-delivery bounds, strips refinement
// artifacts, and guards against self-referential prompts. It is a pure
// transform and never fails; at worst the final prompt degrades to the
// original query.
func Finalize(cfg *Config, originalQuery string, guard GuardFunc, logger utils.Logger) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	// Field completeness.
	if cfg.Role == "" {
		cfg.Role = "Assistant"
	}
	if cfg.TaskType == "" {
		cfg.TaskType = "default"
	}
	if !strings.Contains(cfg.Template, "{query}") {
		if cfg.Template != "" {
			logger.Warn("template lost its query placeholder, resetting to identity", "template", cfg.Template)
		}
		cfg.Template = templates.Identity
	}
	if (cfg.Parameters == params.Set{}) {
		cfg.Parameters = params.ForTask("default")
	}

	// Final-delivery parameter bounds, stricter than the general ones.
	cfg.Parameters = params.ClampFinal(cfg.Parameters)

	// Prompt cleanup: drop refinement artifacts and collapse redundant
	// whitespace. A prompt that still carries the literal placeholder was
	// never composed properly; fall back to the original query.
	final := cfg.FinalPrompt
	if final == "" {
		final = originalQuery
	}
	final = strings.ReplaceAll(final, strings.TrimSpace(NudgeSuffix), "")
	if strings.Contains(final, "{query}") {
		logger.Warn("final prompt still contains the query placeholder, using original query")
		final = originalQuery
	}
	final = normalizeWhitespace(final)

	if guard != nil && guard(cfg.TaskType, final) {
		logger.Debug("recursion guard triggered, using original query", "task_type", cfg.TaskType)
		final = normalizeWhitespace(originalQuery)
	}
	cfg.FinalPrompt = final

	if cfg.Metadata == nil {
		cfg.Metadata = &Metadata{
			OriginalQuery:       originalQuery,
			ValidationPerformed: true,
			Timestamp:           time.Now(),
		}
	}

	return cfg
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

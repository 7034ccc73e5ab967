package refiner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/providers"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

var validate = validator.New()

// Default generation parameters for meta-analysis calls: low temperature,
// moderate context, moderate output budget.
var metaDefaults = params.Set{Temperature: 0.2, NumCtx: 2048, NumPredict: 512}

// analysisWire mirrors the JSON object the model is asked to return. It only
// exists to derive the schema embedded in the formatting instructions; the
// actual decoding is deliberately looser (see ParseAnalysis).
type analysisWire struct {
	QualityScore   float64        `json:"quality_score"`
	ImprovedPrompt string         `json:"improved_prompt"`
	Role           string         `json:"role"`
	Technique      string         `json:"technique"`
	TaskType       string         `json:"task_type"`
	Template       string         `json:"template"`
	Parameters     map[string]any `json:"parameters"`
	Reasoning      string         `json:"reasoning"`
}

var (
	schemaOnce sync.Once
	schemaJSON string
)

func analysisSchema() string {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{DoNotReference: true}
		schema := reflector.Reflect(&analysisWire{})
		if data, err := json.Marshal(schema); err == nil {
			schemaJSON = string(data)
		}
	})
	return schemaJSON
}

// Gateway formats meta-prompts, sends them through the model-call
// collaborator, and parses the structured result out of whatever text comes
// back.
type Gateway struct {
	caller providers.Caller
	model  string
	target providers.Target
	logger utils.Logger
}

func NewGateway(caller providers.Caller, model string, target providers.Target, logger utils.Logger) *Gateway {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Gateway{
		caller: caller,
		model:  model,
		target: target,
		logger: logger,
	}
}

// Analyze prepends the strict JSON formatting instructions to the caller's
// analysis request and sends it to the model. The overrides, if any, take
// precedence over the meta-analysis parameter defaults.
func (g *Gateway) Analyze(ctx context.Context, metaPrompt string, overrides map[string]any) (string, error) {
	set, warnings := params.Merge(metaDefaults, overrides)
	for _, w := range warnings {
		g.logger.Warn("analysis parameter override rejected", "warning", w)
	}

	var sb strings.Builder
	sb.WriteString("You will analyze a user query and provide a JSON response. ")
	sb.WriteString("Your response must ONLY contain valid JSON with no commentary before or after. ")
	sb.WriteString("The JSON must be on a single line with no line breaks within values. ")
	sb.WriteString("All strings must use double quotes. ")
	if schema := analysisSchema(); schema != "" {
		sb.WriteString("The JSON must conform to this schema:\n")
		sb.WriteString(schema)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(metaPrompt)

	elapsed, response, err := g.caller.Send(ctx, sb.String(), g.model, g.target, set)
	if err != nil {
		return "", err
	}
	g.logger.Debug("analysis call complete", "elapsed", elapsed, "response_len", len(response))
	return response, nil
}

// DefaultAnalysis is the built-in result used whenever the model's output
// cannot be parsed. The upstream output format is not guaranteed, so the
// parser degrades to this instead of aborting the refinement loop.
func DefaultAnalysis() Analysis {
	return Analysis{
		QualityScore: 0.7,
		Role:         "Mathematician",
		Template:     "Calculate the following mathematical expression step-by-step: {query}",
		Parameters: map[string]any{
			"temperature": 0.2,
			"num_ctx":     2048,
			"num_predict": 1024,
		},
		Reasoning:    "Default configuration for mathematical calculation",
		UsedDefaults: true,
	}
}

// ParseAnalysis extracts the first top-level brace-delimited JSON object from
// raw (tolerating embedded newlines) and decodes it. Empty input, missing
// objects, decode failures, and out-of-range values all return
// DefaultAnalysis; this function never fails.
func ParseAnalysis(raw string) Analysis {
	if strings.TrimSpace(raw) == "" {
		return DefaultAnalysis()
	}

	flat := strings.ReplaceAll(raw, "\n", " ")
	start := strings.Index(flat, "{")
	end := strings.LastIndex(flat, "}")
	if start == -1 || end == -1 || end <= start {
		return DefaultAnalysis()
	}

	decoder := json.NewDecoder(strings.NewReader(flat[start : end+1]))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return DefaultAnalysis()
	}

	analysis := Analysis{
		QualityScore:   floatField(fields, "quality_score"),
		ImprovedPrompt: stringField(fields, "improved_prompt"),
		Role:           stringField(fields, "role"),
		Technique:      stringField(fields, "technique"),
		TaskType:       stringField(fields, "task_type"),
		Template:       stringField(fields, "template"),
		Parameters:     mapField(fields, "parameters"),
		Reasoning:      stringField(fields, "reasoning"),
	}

	if err := validate.Struct(analysis); err != nil {
		return DefaultAnalysis()
	}
	return analysis
}

func stringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

func floatField(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

func mapField(fields map[string]any, key string) map[string]any {
	if m, ok := fields[key].(map[string]any); ok {
		return m
	}
	return nil
}

// Package prompteng is an educational prompt engineering lab: it classifies a
// query into a role/technique/task configuration, then iteratively asks the
// model itself to grade and improve the wrapped prompt until a quality
// threshold is met or the iteration budget runs out.
package prompteng

import (
	"context"

	"github.com/cdevos2017/cot6930-200-a1/config"
	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/providers"
	"github.com/cdevos2017/cot6930-200-a1/refiner"
	"github.com/cdevos2017/cot6930-200-a1/templates"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

// Re-exported core types so most callers only import this package.
type (
	Config    = refiner.Config
	Analysis  = refiner.Analysis
	ParamSet  = params.Set
	RunOption = refiner.RunOption
	Logger    = utils.Logger
)

// Engine is the caller-facing API of the refinement engine. Refine and
// SelectConfiguration always return a usable configuration; degraded quality,
// not errors, is the failure surface.
type Engine interface {
	// Refine runs the full refinement loop for a query.
	Refine(ctx context.Context, query string, opts ...RunOption) *Config

	// SelectConfiguration seeds an initial configuration using only the
	// rule-based classifier. No model calls are made.
	SelectConfiguration(query string) *Config

	// ValidateParameters coerces and clamps a raw parameter mapping into
	// the safe general bounds.
	ValidateParameters(raw map[string]any) ParamSet
}

type engine struct {
	core   *refiner.Refiner
	logger utils.Logger
}

// New builds an Engine from the default configuration plus the given options.
func New(opts ...config.ConfigOption) (Engine, error) {
	cfg := config.NewConfig()
	config.ApplyOptions(cfg, opts...)
	return NewFromConfig(cfg)
}

// NewFromConfig builds an Engine from an explicit configuration, e.g. one
// produced by config.LoadConfig.
func NewFromConfig(cfg *config.Config) (Engine, error) {
	logger := utils.NewLogger(cfg.LogLevel)

	target, err := providers.ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	client := providers.NewClient(cfg.GenerateURL, logger,
		providers.WithTimeout(cfg.Timeout),
		providers.WithAPIKey(cfg.APIKey),
	)

	store := templates.Store(templates.NewStaticStore())
	if cfg.TemplateFile != "" {
		fileStore, err := templates.LoadStore(cfg.TemplateFile)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	gateway := refiner.NewGateway(client, cfg.Model, target, logger)
	core := refiner.New(gateway,
		refiner.WithTemplateStore(store),
		refiner.WithLogger(logger),
		refiner.WithMinIterations(cfg.MinIterations),
		refiner.WithMaxIterations(cfg.MaxIterations),
		refiner.WithThreshold(cfg.QualityThreshold),
	)

	return &engine{core: core, logger: logger}, nil
}

// NewWithCaller builds an Engine around an injected model-call collaborator.
// Used by the research harness and by tests.
func NewWithCaller(caller providers.Caller, cfg *config.Config) (Engine, error) {
	logger := utils.NewLogger(cfg.LogLevel)

	target, err := providers.ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	gateway := refiner.NewGateway(caller, cfg.Model, target, logger)
	core := refiner.New(gateway,
		refiner.WithLogger(logger),
		refiner.WithMinIterations(cfg.MinIterations),
		refiner.WithMaxIterations(cfg.MaxIterations),
		refiner.WithThreshold(cfg.QualityThreshold),
	)

	return &engine{core: core, logger: logger}, nil
}

func (e *engine) Refine(ctx context.Context, query string, opts ...RunOption) *Config {
	return e.core.Refine(ctx, query, opts...)
}

func (e *engine) SelectConfiguration(query string) *Config {
	return e.core.Select(query)
}

func (e *engine) ValidateParameters(raw map[string]any) ParamSet {
	set, warnings := params.Coerce(raw, params.ForTask("default"))
	for _, w := range warnings {
		e.logger.Warn("parameter validation", "warning", w)
	}
	return set
}

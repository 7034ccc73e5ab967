// Command prompteng is the command-line interface for the prompt engineering
// lab: refine a query, inspect the classifier's pick, run a chained
// requirements technique, or execute the full research evaluation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	prompteng "github.com/cdevos2017/cot6930-200-a1"
	"github.com/cdevos2017/cot6930-200-a1/config"
	"github.com/cdevos2017/cot6930-200-a1/providers"
	"github.com/cdevos2017/cot6930-200-a1/refiner"
	"github.com/cdevos2017/cot6930-200-a1/research"
	"github.com/cdevos2017/cot6930-200-a1/techniques"
	"github.com/cdevos2017/cot6930-200-a1/templates"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

type rootFlags struct {
	endpoint  string
	apiKey    string
	model     string
	target    string
	logLevel  string
	threshold float64
	minIters  int
	maxIters  int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "prompteng",
		Short:         "Iterative prompt refinement and configuration selection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.endpoint, "endpoint", "", "model server generate endpoint (default from URL_GENERATE)")
	pf.StringVar(&flags.apiKey, "api-key", "", "bearer token for the model server")
	pf.StringVar(&flags.model, "model", "", "model name")
	pf.StringVar(&flags.target, "target", "", "server flavor: ollama or open-webui")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: OFF, ERROR, WARN, INFO, DEBUG")
	pf.Float64Var(&flags.threshold, "threshold", 0, "quality score that stops the loop")
	pf.IntVar(&flags.minIters, "min-iterations", 0, "iterations to run before convergence may stop the loop")
	pf.IntVar(&flags.maxIters, "max-iterations", 0, "hard iteration cap")

	root.AddCommand(newRefineCmd(flags))
	root.AddCommand(newClassifyCmd(flags))
	root.AddCommand(newChainCmd(flags))
	root.AddCommand(newResearchCmd(flags))

	return root
}

// buildConfig loads the environment configuration and layers the command-line
// flags on top.
func buildConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	var opts []config.ConfigOption
	if flags.endpoint != "" {
		opts = append(opts, config.SetGenerateURL(flags.endpoint))
	}
	if flags.apiKey != "" {
		opts = append(opts, config.SetAPIKey(flags.apiKey))
	}
	if flags.model != "" {
		opts = append(opts, config.SetModel(flags.model))
	}
	if flags.target != "" {
		opts = append(opts, config.SetTarget(flags.target))
	}
	if flags.threshold > 0 {
		opts = append(opts, config.SetQualityThreshold(flags.threshold))
	}
	if flags.minIters > 0 {
		opts = append(opts, config.SetMinIterations(flags.minIters))
	}
	if flags.maxIters > 0 {
		opts = append(opts, config.SetMaxIterations(flags.maxIters))
	}
	if flags.logLevel != "" {
		var level utils.LogLevel
		if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
			return nil, err
		}
		opts = append(opts, config.SetLogLevel(level))
	}
	config.ApplyOptions(cfg, opts...)

	return cfg, nil
}

func queryFromArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func newRefineCmd(flags *rootFlags) *cobra.Command {
	var technique string

	cmd := &cobra.Command{
		Use:   "refine <query>",
		Short: "Run the iterative refinement loop for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}
			engine, err := prompteng.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			var runOpts []prompteng.RunOption
			if technique != "" {
				runOpts = append(runOpts, refiner.WithTechnique(technique))
			}

			result := engine.Refine(cmd.Context(), queryFromArgs(args), runOpts...)
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&technique, "technique", "", "pin a prompting technique instead of the classifier's pick")
	return cmd
}

func newClassifyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query>",
		Short: "Show the configuration the classifier would pick, without model calls",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}
			engine, err := prompteng.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			return printJSON(engine.SelectConfiguration(queryFromArgs(args)))
		},
	}
}

func newChainCmd(flags *rootFlags) *cobra.Command {
	var technique string
	var showSteps bool

	cmd := &cobra.Command{
		Use:   "chain <query>",
		Short: "Run a multi-step requirements analysis technique",
		Long: "Runs every step of a level-2 technique against the model, feeding each\n" +
			"response into the next step. Available techniques: " +
			strings.Join(techniques.L2Names(), ", ") + ".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}
			target, err := providers.ParseTarget(cfg.Target)
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.LogLevel)
			client := providers.NewClient(cfg.GenerateURL, logger,
				providers.WithTimeout(cfg.Timeout),
				providers.WithAPIKey(cfg.APIKey),
			)

			result, err := techniques.RunChain(cmd.Context(), client, technique,
				queryFromArgs(args), cfg.Model, target, nil)
			if err != nil {
				return err
			}
			if showSteps {
				return printJSON(result)
			}
			fmt.Println(result.Final())
			return nil
		},
	}
	cmd.Flags().StringVar(&technique, "technique", "refinement_chain", "level-2 technique to run")
	cmd.Flags().BoolVar(&showSteps, "show-steps", false, "print every intermediate prompt and response as JSON")
	return cmd
}

func newResearchCmd(flags *rootFlags) *cobra.Command {
	var dbPath string
	var workers int
	var ratePerSecond float64

	cmd := &cobra.Command{
		Use:   "research",
		Short: "Run the full technique/parameter evaluation matrix and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(flags)
			if err != nil {
				return err
			}
			target, err := providers.ParseTarget(cfg.Target)
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.LogLevel)
			client := providers.NewClient(cfg.GenerateURL, logger,
				providers.WithTimeout(cfg.Timeout),
				providers.WithAPIKey(cfg.APIKey),
			)
			gateway := refiner.NewGateway(client, cfg.Model, target, logger)
			core := refiner.New(gateway,
				refiner.WithTemplateStore(templates.NewStaticStore()),
				refiner.WithLogger(logger),
				refiner.WithMinIterations(cfg.MinIterations),
				refiner.WithMaxIterations(cfg.MaxIterations),
				refiner.WithThreshold(cfg.QualityThreshold),
			)

			fwOpts := []research.FrameworkOption{
				research.WithFrameworkLogger(logger),
				research.WithWorkers(workers),
			}
			if ratePerSecond > 0 {
				fwOpts = append(fwOpts, research.WithRateLimit(ratePerSecond))
			}
			framework := research.NewFramework(core, fwOpts...)

			results := framework.RunFullEvaluation(cmd.Context())
			analysis := framework.AnalyzeResults(results)

			if dbPath != "" {
				if err := persistResults(cmd.Context(), dbPath, results); err != nil {
					return err
				}
			}

			fmt.Println(framework.GenerateReport(results, analysis))
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to persist results into")
	cmd.Flags().IntVar(&workers, "workers", 1, "concurrent experiment runners")
	cmd.Flags().Float64Var(&ratePerSecond, "rate", 0, "max refinement runs per second (0 = unlimited)")
	return cmd
}

func persistResults(ctx context.Context, dbPath string, results []research.ExperimentResult) error {
	store, err := research.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveAll(ctx, results); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %d results under run %s\n", len(results), store.RunID())
	return nil
}

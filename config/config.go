// Package config provides environment-driven configuration for the prompt
// engineering engine.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/cdevos2017/cot6930-200-a1/utils"
)

// Config carries everything needed to reach the model server and tune a
// refinement run. Environment variable names match the lab's config files.
type Config struct {
	GenerateURL      string         `env:"URL_GENERATE" envDefault:"http://localhost:11434/api/generate"`
	APIKey           string         `env:"API_KEY"`
	Model            string         `env:"MODEL" envDefault:"llama3.2:latest"`
	Target           string         `env:"TARGET" envDefault:"ollama"`
	Timeout          time.Duration  `env:"TIMEOUT" envDefault:"30s"`
	MinIterations    int            `env:"MIN_ITERATIONS" envDefault:"3"`
	MaxIterations    int            `env:"MAX_ITERATIONS" envDefault:"5"`
	QualityThreshold float64        `env:"QUALITY_THRESHOLD" envDefault:"0.9"`
	TemplateFile     string         `env:"TEMPLATE_FILE"`
	LogLevel         utils.LogLevel `env:"LOG_LEVEL" envDefault:"WARN"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// NewConfig returns a Config with the built-in defaults.
func NewConfig() *Config {
	return &Config{
		GenerateURL:      "http://localhost:11434/api/generate",
		Model:            "llama3.2:latest",
		Target:           "ollama",
		Timeout:          30 * time.Second,
		MinIterations:    3,
		MaxIterations:    5,
		QualityThreshold: 0.9,
		LogLevel:         utils.LogLevelWarn,
	}
}

// ConfigOption mutates a Config.
type ConfigOption func(*Config)

func SetGenerateURL(url string) ConfigOption {
	return func(c *Config) { c.GenerateURL = url }
}

func SetAPIKey(key string) ConfigOption {
	return func(c *Config) { c.APIKey = key }
}

func SetModel(model string) ConfigOption {
	return func(c *Config) { c.Model = model }
}

func SetTarget(target string) ConfigOption {
	return func(c *Config) { c.Target = target }
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) { c.Timeout = timeout }
}

func SetMinIterations(n int) ConfigOption {
	return func(c *Config) {
		if n < 0 {
			n = 0
		}
		c.MinIterations = n
	}
}

func SetMaxIterations(n int) ConfigOption {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.MaxIterations = n
	}
}

func SetQualityThreshold(threshold float64) ConfigOption {
	return func(c *Config) { c.QualityThreshold = threshold }
}

func SetTemplateFile(path string) ConfigOption {
	return func(c *Config) { c.TemplateFile = path }
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) { c.LogLevel = level }
}

// ApplyOptions applies the options in order.
func ApplyOptions(cfg *Config, options ...ConfigOption) {
	for _, option := range options {
		option(cfg)
	}
}

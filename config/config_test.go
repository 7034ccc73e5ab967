package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdevos2017/cot6930-200-a1/utils"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/api/generate", cfg.GenerateURL)
	assert.Equal(t, "llama3.2:latest", cfg.Model)
	assert.Equal(t, "ollama", cfg.Target)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MinIterations)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.InDelta(t, 0.9, cfg.QualityThreshold, 1e-9)
	assert.Equal(t, utils.LogLevelWarn, cfg.LogLevel)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("URL_GENERATE", "http://models.internal:3000/api/generate")
	t.Setenv("API_KEY", "secret")
	t.Setenv("MODEL", "mistral:7b")
	t.Setenv("TARGET", "open-webui")
	t.Setenv("TIMEOUT", "90s")
	t.Setenv("MIN_ITERATIONS", "2")
	t.Setenv("MAX_ITERATIONS", "8")
	t.Setenv("QUALITY_THRESHOLD", "0.8")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://models.internal:3000/api/generate", cfg.GenerateURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "mistral:7b", cfg.Model)
	assert.Equal(t, "open-webui", cfg.Target)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MinIterations)
	assert.Equal(t, 8, cfg.MaxIterations)
	assert.InDelta(t, 0.8, cfg.QualityThreshold, 1e-9)
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
}

func TestLoadConfigRejectsBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "LOUD")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	cfg := NewConfig()
	ApplyOptions(cfg,
		SetGenerateURL("http://other:1234/api/generate"),
		SetAPIKey("k"),
		SetModel("phi3"),
		SetTarget("open-webui"),
		SetTimeout(time.Minute),
		SetMinIterations(1),
		SetMaxIterations(10),
		SetQualityThreshold(0.75),
		SetTemplateFile("/tmp/templates.yaml"),
		SetLogLevel(utils.LogLevelInfo),
	)

	assert.Equal(t, "http://other:1234/api/generate", cfg.GenerateURL)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "phi3", cfg.Model)
	assert.Equal(t, "open-webui", cfg.Target)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, 1, cfg.MinIterations)
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.InDelta(t, 0.75, cfg.QualityThreshold, 1e-9)
	assert.Equal(t, "/tmp/templates.yaml", cfg.TemplateFile)
	assert.Equal(t, utils.LogLevelInfo, cfg.LogLevel)
}

func TestIterationOptionsRejectNonsense(t *testing.T) {
	cfg := NewConfig()
	ApplyOptions(cfg, SetMinIterations(-3), SetMaxIterations(0))

	assert.Equal(t, 0, cfg.MinIterations)
	assert.Equal(t, 1, cfg.MaxIterations)
}

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
input:
  returns_file: data/returns.csv
allocation:
  fee_rate: 0.003
  rebalance_period: 20
  annual_return_target: 8.0
  iterations: 25
  seed: 42
  workers: 3
bounds:
  lower: 0.05
  upper: 0.6
output:
  path: results
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data/returns.csv", cfg.Input.ReturnsFile)
	assert.Equal(t, 0.003, cfg.Allocation.FeeRate)
	assert.Equal(t, 20, cfg.Allocation.RebalancePeriod)
	assert.Equal(t, 25, cfg.Allocation.Iterations)
	assert.Equal(t, int64(42), cfg.Allocation.Seed)
	assert.Equal(t, 3, cfg.Allocation.Workers)
	assert.Equal(t, 0.05, cfg.LowerBound())
	assert.Equal(t, 0.6, cfg.UpperBound())
	assert.Equal(t, "results", cfg.GetOutputPath())
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
input:
  returns_file: data/returns.csv
allocation:
  annual_return_target: 10.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Allocation.RebalancePeriod)
	assert.Equal(t, 10, cfg.Allocation.Iterations)
	assert.Greater(t, cfg.Allocation.Workers, 0)
	assert.Equal(t, 0.0, cfg.LowerBound())
	assert.Equal(t, 1.0, cfg.UpperBound())
	assert.Equal(t, "output", cfg.GetOutputPath())
}

func TestHurdleConversion(t *testing.T) {
	cfg := &Config{}
	cfg.Allocation.AnnualReturnTarget = 10

	// (1.10)^(1/365) - 1
	expected := math.Pow(1.10, 1.0/365) - 1
	assert.InDelta(t, expected, cfg.Hurdle(), 1e-15)

	// 目标为0时单期目标也为0
	cfg.Allocation.AnnualReturnTarget = 0
	assert.Equal(t, 0.0, cfg.Hurdle())
}

func TestToSimulationParams(t *testing.T) {
	cfg := &Config{}
	cfg.Allocation.FeeRate = 0.003
	cfg.Allocation.RebalancePeriod = 30
	cfg.Allocation.AnnualReturnTarget = 10

	params := cfg.ToSimulationParams()
	require.NoError(t, params.Validate())
	assert.Equal(t, 0.003, params.FeeRate)
	assert.Equal(t, 30, params.RebalancePeriod)
	assert.InDelta(t, math.Pow(1.10, 1.0/365)-1, params.Hurdle, 1e-15)
}

func TestValidateFailures(t *testing.T) {
	lower, upper := 0.8, 0.2

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing_returns_file", func(c *Config) { c.Input.ReturnsFile = "" }},
		{"negative_fee", func(c *Config) { c.Allocation.FeeRate = -0.01 }},
		{"fee_at_one", func(c *Config) { c.Allocation.FeeRate = 1 }},
		{"zero_period", func(c *Config) { c.Allocation.RebalancePeriod = -1 }},
		{"zero_iterations", func(c *Config) { c.Allocation.Iterations = -1 }},
		{"inverted_bounds", func(c *Config) { c.Bounds.Lower, c.Bounds.Upper = &lower, &upper }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Input.ReturnsFile = "returns.csv"
			cfg.Allocation.RebalancePeriod = 30
			cfg.Allocation.Iterations = 10
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "input: [not: valid"))
	require.Error(t, err)
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/ridewise/ridewise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestForecastHourlyCommand(t *testing.T) {
	out, err := run(t, "forecast", "hourly")
	require.NoError(t, err)
	assert.Contains(t, out, "08:00")
	assert.Contains(t, out, "Peak:    08:00 (395 rentals)")
	assert.Contains(t, out, "Commuter rush")
}

func TestForecastDailyCommand(t *testing.T) {
	out, err := run(t, "forecast", "daily", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Day 7")
	assert.Contains(t, out, "Total:   17,080")

	_, err = run(t, "forecast", "daily", "--days", "9")
	assert.Error(t, err)
	dailyFlags.Days = 7
}

func TestConfigDefaultCommand(t *testing.T) {
	out, err := run(t, "config", "default")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "0.0.0.0:5000", cfg.Listen)
	require.NotNil(t, cfg.Fleet)
	assert.Equal(t, config.Default().Fleet.TickInterval, cfg.Fleet.TickInterval)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8500, cfg.ServerPort)
	assert.Equal(t, "", cfg.PrivateKey)
	assert.Equal(t, "configuration", cfg.ConfigurationPath)
	assert.Equal(t, "simulations", cfg.SimulationsPath)
	assert.Equal(t, "manifests", cfg.ManifestsPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvServerPort, "9000")
	t.Setenv(EnvPrivateKey, "secret")
	t.Setenv(EnvLogLevel, "info")

	cfg := Load()

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "secret", cfg.PrivateKey)
	assert.Equal(t, "info", cfg.LogLevel)
}

// Package config loads the demo server configuration from environment
// variables with sensible defaults for a local deployment.
package config

import (
	"github.com/spf13/viper"
)

// Environment variable names recognized by the demo server.
const (
	EnvServerPort        = "SERVER_PORT"
	EnvPrivateKey        = "PRIVATE_KEY"
	EnvConfigurationPath = "CONFIGURATION_FILE_PATH"
	EnvSimulationsPath   = "SIMULATIONS_FOLDER"
	EnvManifestsPath     = "MANIFEST_FOLDER"
	EnvLogLevel          = "SIMULATION_LOG_LEVEL"
	EnvLogFile           = "SIMULATION_LOG_FILE"
)

// Config holds the runtime settings for the demo server and its helpers.
type Config struct {
	ServerPort        int
	PrivateKey        string
	ConfigurationPath string
	SimulationsPath   string
	ManifestsPath     string
	LogLevel          string
	LogFile           string
}

// Load reads the configuration from the environment. Every value has a
// default, so Load never fails; an unset private key disables the API.
func Load() *Config {
	v := viper.New()
	v.SetDefault(EnvServerPort, 8500)
	v.SetDefault(EnvPrivateKey, "")
	v.SetDefault(EnvConfigurationPath, "configuration")
	v.SetDefault(EnvSimulationsPath, "simulations")
	v.SetDefault(EnvManifestsPath, "manifests")
	v.SetDefault(EnvLogLevel, "debug")
	v.SetDefault(EnvLogFile, "logfile.log")
	v.AutomaticEnv()

	return &Config{
		ServerPort:        v.GetInt(EnvServerPort),
		PrivateKey:        v.GetString(EnvPrivateKey),
		ConfigurationPath: v.GetString(EnvConfigurationPath),
		SimulationsPath:   v.GetString(EnvSimulationsPath),
		ManifestsPath:     v.GetString(EnvManifestsPath),
		LogLevel:          v.GetString(EnvLogLevel),
		LogFile:           v.GetString(EnvLogFile),
	}
}

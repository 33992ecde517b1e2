// Package runner starts the Docker containers needed for a simulation run,
// following the container conventions of the SimCES platform.
package runner

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evcommunities/demo/config"
	"github.com/evcommunities/demo/logger"
)

// Platform manager container settings.
const (
	PlatformManagerName  = "platform-manager"
	PlatformManagerImage = "ghcr.io/simcesplatform/platform-manager:latest"

	configurationFileVariable = "SIMULATION_CONFIGURATION_FILE"
)

// PlatformManagerNetworks lists the Docker networks the platform manager is
// connected to.
var PlatformManagerNetworks = []string{
	"simces_platform_network",
	"simces_rabbitmq_network",
}

var environmentFiles = []string{
	"common.env",
	"mongodb.env",
	"rabbitmq.env",
}

// ContainerConfiguration holds the parameters needed to start one container.
// Only the parameters the simulation platform containers use are included.
type ContainerConfiguration struct {
	Name        string
	Image       string
	Environment []string // KEY=VALUE entries
	Networks    []string
	Volumes     []string // <volume_name>:<target_path>[:ro]
}

// NewContainerConfiguration builds a configuration with the environment map
// rendered to sorted KEY=VALUE entries.
func NewContainerConfiguration(
	name string, image string, environment map[string]string,
	networks []string, volumes []string,
) ContainerConfiguration {
	entries := make([]string, 0, len(environment))
	for key, value := range environment {
		entries = append(entries, key+"="+value)
	}
	sort.Strings(entries)
	return ContainerConfiguration{
		Name:        name,
		Image:       image,
		Environment: entries,
		Networks:    networks,
		Volumes:     volumes,
	}
}

// ReadEnvironmentFiles merges the KEY=VALUE entries of the given files under
// folder. Missing files are logged and skipped; later files win on key
// collisions.
func ReadEnvironmentFiles(folder string, files ...string) map[string]string {
	variables := map[string]string{}
	for _, name := range files {
		file, err := os.Open(filepath.Join(folder, name))
		if err != nil {
			logger.Error("Could not read environment file '%s': %v", name, err)
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, value, found := strings.Cut(line, "=")
			if !found {
				continue
			}
			variables[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		if err := scanner.Err(); err != nil {
			logger.Error("Could not read environment file '%s': %v", name, err)
		}
		_ = file.Close()
	}
	return variables
}

// PlatformManagerConfiguration builds the container configuration for a new
// platform manager launching the given simulation configuration file.
func PlatformManagerConfiguration(cfg *config.Config, configurationFilename string) (ContainerConfiguration, error) {
	environment := ReadEnvironmentFiles(cfg.ConfigurationPath, environmentFiles...)
	environment[configurationFileVariable] = "/simulations/" + configurationFilename

	workdir, err := os.Getwd()
	if err != nil {
		return ContainerConfiguration{}, err
	}
	volumes := []string{
		filepath.Join(workdir, cfg.ConfigurationPath) + ":/configuration",
		filepath.Join(workdir, cfg.ManifestsPath) + ":/manifests:ro",
		filepath.Join(workdir, cfg.SimulationsPath) + ":/simulations",
		"simces_simulation_logs:/logs",
		"simces_simulation_resources:/resources",
		"/var/run/docker.sock:/var/run/docker.sock:ro",
	}

	return NewContainerConfiguration(
		PlatformManagerName,
		PlatformManagerImage,
		environment,
		PlatformManagerNetworks,
		volumes,
	), nil
}

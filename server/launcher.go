package server

import (
	"context"

	"github.com/evcommunities/demo/config"
	"github.com/evcommunities/demo/logger"
	"github.com/evcommunities/demo/runner"
	"github.com/evcommunities/demo/simulation"
)

// Launcher starts a simulation from validated parameters and returns the
// simulation id reported by the platform.
type Launcher interface {
	Launch(ctx context.Context, parameters *simulation.Parameters) (string, error)
}

// ContainerLauncher starts simulations by writing the configuration file and
// launching a platform manager container.
type ContainerLauncher struct {
	cfg *config.Config
}

// NewContainerLauncher returns a launcher using the given settings.
func NewContainerLauncher(cfg *config.Config) *ContainerLauncher {
	return &ContainerLauncher{cfg: cfg}
}

// Launch writes the simulation configuration and starts a platform manager
// container that picks it up. It blocks until the container reports the new
// simulation id.
func (l *ContainerLauncher) Launch(ctx context.Context, parameters *simulation.Parameters) (string, error) {
	filename, err := simulation.WriteConfigurationFile(parameters, l.cfg.SimulationsPath)
	if err != nil {
		return "", err
	}
	logger.Debug("Created new simulation configuration to file '%s/%s'", l.cfg.SimulationsPath, filename)

	containerConfiguration, err := runner.PlatformManagerConfiguration(l.cfg, filename)
	if err != nil {
		return "", err
	}

	starter, err := runner.NewStarter()
	if err != nil {
		return "", err
	}
	defer starter.Close()

	return starter.StartSimulation(ctx, containerConfiguration)
}

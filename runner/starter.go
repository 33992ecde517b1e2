package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/evcommunities/demo/logger"
)

// Simulation containers are named Sim<NN>_<component name> so that the
// containers of concurrent runs can be told apart.
var simulationPrefix = regexp.MustCompile(`^Sim([0-9]{2})_`)

const startedMarker = "started successfully"

// engineAPI is the slice of the Docker Engine client the starter uses.
type engineAPI interface {
	ContainerList(ctx context.Context, options types.ContainerListOptions) ([]types.Container, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform,
		containerName string) (container.CreateResponse, error)
	NetworkConnect(ctx context.Context, networkID string, containerID string, config *network.EndpointSettings) error
	ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error
	ContainerLogs(ctx context.Context, containerID string, options types.ContainerLogsOptions) (io.ReadCloser, error)
	Close() error
}

// Starter launches simulation containers through the Docker Engine. A single
// starter serializes launches so that two simulations never claim the same
// simulation index.
type Starter struct {
	mutex sync.Mutex
	api   engineAPI
}

// NewStarter connects to the Docker Engine using the environment settings.
func NewStarter() (*Starter, error) {
	api, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Starter{api: api}, nil
}

// NewStarterWithAPI wraps an existing engine client.
func NewStarterWithAPI(api engineAPI) *Starter {
	return &Starter{api: api}
}

// Close releases the Docker Engine connection.
func (s *Starter) Close() error {
	return s.api.Close()
}

// nextSimulationIndex returns the smallest index not claimed by any existing
// container, running or stopped.
func (s *Starter) nextSimulationIndex(ctx context.Context) (int, error) {
	containers, err := s.api.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return 0, err
	}
	used := map[int]bool{}
	for _, item := range containers {
		for _, name := range item.Names {
			match := simulationPrefix.FindStringSubmatch(strings.TrimPrefix(name, "/"))
			if match == nil {
				continue
			}
			index, err := strconv.Atoi(match[1])
			if err == nil {
				used[index] = true
			}
		}
	}
	index := 1
	for used[index] {
		index++
	}
	return index, nil
}

// StartContainer creates and starts one container from the configuration and
// returns the container id and the full container name. The container joins
// the first configured network at creation and the rest before it starts.
func (s *Starter) StartContainer(ctx context.Context, configuration ContainerConfiguration) (string, string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	index, err := s.nextSimulationIndex(ctx)
	if err != nil {
		return "", "", err
	}
	name := fmt.Sprintf("Sim%02d_%s", index, configuration.Name)

	endpoints := map[string]*network.EndpointSettings{}
	if len(configuration.Networks) > 0 {
		endpoints[configuration.Networks[0]] = &network.EndpointSettings{}
	}

	created, err := s.api.ContainerCreate(
		ctx,
		&container.Config{
			Image: configuration.Image,
			Env:   configuration.Environment,
		},
		&container.HostConfig{
			Binds:      configuration.Volumes,
			AutoRemove: true,
		},
		&network.NetworkingConfig{EndpointsConfig: endpoints},
		nil,
		name,
	)
	if err != nil {
		return "", "", err
	}
	remaining := configuration.Networks
	if len(remaining) > 0 {
		remaining = remaining[1:]
	}
	for _, item := range remaining {
		if err := s.api.NetworkConnect(ctx, item, created.ID, nil); err != nil {
			return "", "", err
		}
	}
	if err := s.api.ContainerStart(ctx, created.ID, types.ContainerStartOptions{}); err != nil {
		return "", "", err
	}

	logger.Info("Started container '%s' from image '%s'", name, configuration.Image)
	return created.ID, name, nil
}

// StartSimulation starts a platform manager container and waits until its log
// output reports the simulation identifier. The identifier is returned.
func (s *Starter) StartSimulation(ctx context.Context, configuration ContainerConfiguration) (string, error) {
	containerID, name, err := s.StartContainer(ctx, configuration)
	if err != nil {
		return "", err
	}

	simulationID, err := s.followSimulationStart(ctx, containerID)
	if err != nil {
		return "", err
	}
	logger.Info("Simulation '%s' started by container '%s'", simulationID, name)
	return simulationID, nil
}

// followSimulationStart follows the container log until a line announces a
// successful start and returns the simulation id from the end of that line.
func (s *Starter) followSimulationStart(ctx context.Context, containerID string) (string, error) {
	logs, err := s.api.ContainerLogs(ctx, containerID, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return "", err
	}
	defer logs.Close()

	// The engine multiplexes stdout and stderr into one stream.
	reader, writer := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(writer, writer, logs)
		writer.CloseWithError(err)
	}()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, startedMarker) {
			continue
		}
		separator := strings.LastIndex(line, ": ")
		if separator < 0 {
			continue
		}
		return strings.TrimSpace(line[separator+2:]), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("container stopped before the simulation was started")
}

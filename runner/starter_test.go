package runner

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	containers []types.Container

	createdName     string
	createdConfig   *container.Config
	createdHost     *container.HostConfig
	createdNetworks *network.NetworkingConfig
	connected       []string
	started         []string
	logs            []byte
}

func (f *fakeEngine) ContainerList(context.Context, types.ContainerListOptions) ([]types.Container, error) {
	return f.containers, nil
}

func (f *fakeEngine) ContainerCreate(_ context.Context, config *container.Config,
	hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig,
	_ *ocispec.Platform, containerName string) (container.CreateResponse, error) {
	f.createdName = containerName
	f.createdConfig = config
	f.createdHost = hostConfig
	f.createdNetworks = networkingConfig
	return container.CreateResponse{ID: "test-container-id"}, nil
}

func (f *fakeEngine) NetworkConnect(_ context.Context, networkID string, _ string, _ *network.EndpointSettings) error {
	f.connected = append(f.connected, networkID)
	return nil
}

func (f *fakeEngine) ContainerStart(_ context.Context, containerID string, _ types.ContainerStartOptions) error {
	f.started = append(f.started, containerID)
	return nil
}

func (f *fakeEngine) ContainerLogs(context.Context, string, types.ContainerLogsOptions) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.logs)), nil
}

func (f *fakeEngine) Close() error { return nil }

// multiplexedLogs renders log lines the way the engine does when a container
// runs without a TTY.
func multiplexedLogs(t *testing.T, lines ...string) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer := stdcopy.NewStdWriter(&buffer, stdcopy.Stdout)
	for _, line := range lines {
		_, err := writer.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	return buffer.Bytes()
}

func testConfiguration() ContainerConfiguration {
	return ContainerConfiguration{
		Name:        PlatformManagerName,
		Image:       PlatformManagerImage,
		Environment: []string{"SIMULATION_LOG_LEVEL=30"},
		Networks:    []string{"simces_platform_network", "simces_rabbitmq_network"},
		Volumes:     []string{"simces_simulation_logs:/logs"},
	}
}

func TestStartContainer(t *testing.T) {
	engine := &fakeEngine{}
	starter := NewStarterWithAPI(engine)

	id, name, err := starter.StartContainer(context.Background(), testConfiguration())
	require.NoError(t, err)

	assert.Equal(t, "test-container-id", id)
	assert.Equal(t, "Sim01_platform-manager", name)
	assert.Equal(t, name, engine.createdName)
	assert.Equal(t, PlatformManagerImage, engine.createdConfig.Image)
	assert.Equal(t, []string{"SIMULATION_LOG_LEVEL=30"}, engine.createdConfig.Env)
	assert.True(t, engine.createdHost.AutoRemove)
	assert.Equal(t, []string{"simces_simulation_logs:/logs"}, engine.createdHost.Binds)

	// The first network joins at creation, the rest are connected afterwards.
	assert.Contains(t, engine.createdNetworks.EndpointsConfig, "simces_platform_network")
	assert.Equal(t, []string{"simces_rabbitmq_network"}, engine.connected)
	assert.Equal(t, []string{"test-container-id"}, engine.started)
}

func TestStartContainerClaimsFreeIndex(t *testing.T) {
	engine := &fakeEngine{
		containers: []types.Container{
			{Names: []string{"/Sim01_platform-manager"}},
			{Names: []string{"/Sim03_platform-manager"}},
			{Names: []string{"/unrelated"}},
		},
	}
	starter := NewStarterWithAPI(engine)

	_, name, err := starter.StartContainer(context.Background(), testConfiguration())
	require.NoError(t, err)
	assert.Equal(t, "Sim02_platform-manager", name)
}

func TestStartSimulation(t *testing.T) {
	engine := &fakeEngine{
		logs: multiplexedLogs(t,
			"2023-01-23T18:00:00.000Z --- INFO --- Starting the simulation",
			"2023-01-23T18:00:05.000Z --- INFO --- Simulation started successfully: 2023-01-23T18:00:05.000Z 1e5b6c",
		),
	}
	starter := NewStarterWithAPI(engine)

	simulationID, err := starter.StartSimulation(context.Background(), testConfiguration())
	require.NoError(t, err)
	assert.Equal(t, "2023-01-23T18:00:05.000Z 1e5b6c", simulationID)
}

func TestStartSimulationNeverStarts(t *testing.T) {
	engine := &fakeEngine{
		logs: multiplexedLogs(t,
			"2023-01-23T18:00:00.000Z --- ERROR --- Could not connect to the message bus",
		),
	}
	starter := NewStarterWithAPI(engine)

	_, err := starter.StartSimulation(context.Background(), testConfiguration())
	require.Error(t, err)
}

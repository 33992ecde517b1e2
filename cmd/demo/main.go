// The demo command runs the EVCommunities demo: it serves the REST API for
// starting simulations and provides helpers for fetching component manifests
// and pulling the platform images.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/docker/docker/client"
	"github.com/spf13/cobra"

	"github.com/evcommunities/demo/config"
	"github.com/evcommunities/demo/fetch"
	"github.com/evcommunities/demo/logger"
	"github.com/evcommunities/demo/runner"
	"github.com/evcommunities/demo/server"
)

const componentsFile = "components.yml"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Fatal("%v", err)
	}
}

func newRootCommand() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "demo",
		Short:         "EVCommunities demo application",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cfg = config.Load()
			logger.Setup(cfg.LogLevel, cfg.LogFile)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Fetch manifests, pull images and start the demo API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := fetchManifests(cmd.Context(), cfg); err != nil {
				logger.Warn("No repository configurations found in the configuration file: %v", err)
			}
			if err := pullImages(cmd.Context(), cfg); err != nil {
				logger.Warn("Could not pull the platform images: %v", err)
			}
			return serve(cmd.Context(), cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Fetch the component manifests from the configured repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return fetchManifests(cmd.Context(), cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Pull the Docker images used by the simulation platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return pullImages(cmd.Context(), cfg)
		},
	})

	return root
}

func fetchManifests(ctx context.Context, cfg *config.Config) error {
	return fetch.FetchManifests(ctx, filepath.Join(cfg.ConfigurationPath, componentsFile), cfg.ManifestsPath)
}

func pullImages(ctx context.Context, cfg *config.Config) error {
	api, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer api.Close()
	return runner.PullImages(ctx, api, cfg.ConfigurationPath)
}

func serve(ctx context.Context, cfg *config.Config) error {
	demoServer := server.New(cfg, server.NewContainerLauncher(cfg))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the demo server")
		if err := demoServer.Shutdown(context.Background()); err != nil {
			logger.Error("Could not shut down the server: %v", err)
		}
	}()

	if err := demoServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

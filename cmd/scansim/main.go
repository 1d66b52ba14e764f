package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scantech/scansim/pkg/api"
	"github.com/scantech/scansim/pkg/config"
	"github.com/scantech/scansim/pkg/jobs"
	"github.com/scantech/scansim/pkg/logging"
	"github.com/scantech/scansim/pkg/registry"
	"github.com/scantech/scansim/pkg/shutdown"
	"github.com/scantech/scansim/pkg/simrand"
)

const workerShutdownTimeout = 30 * time.Second

var configFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "scansim: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scansim",
		Short: "Simulated scanner fleet and scan job engine",
		Long: `scansim simulates scanner devices and the lifecycle of scan jobs against
them, so client tooling can exercise scanner-integration workflows without
physical hardware.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file")
	cmd.AddCommand(
		newServeCmd(),
		newScannersCmd(),
	)
	return cmd
}

func loadConfig() (*config.Config, error) {
	env := config.LoadFromEnv()

	path := configFile
	if path == "" {
		path = env.ConfigFile
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	env.Apply(cfg)
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine and its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := logging.NewLogger(cfg.LogLevel)
			logger.WithFields(logrus.Fields{
				"log_level": cfg.LogLevel,
				"port":      cfg.Server.Port,
				"platform":  registry.CurrentSystem(),
			}).Info("Scanner simulator starting")

			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	rng := simrand.New(cfg.Simulation.Seed)

	reg := registry.New(cfg, rng, logger)
	if cfg.Simulation.SeedCatalog() {
		if err := reg.Seed(); err != nil {
			return fmt.Errorf("failed to seed scanner catalog: %w", err)
		}
	}

	manager := jobs.NewManager(cfg, reg, rng, logger)
	server := api.NewServer(cfg, reg, manager, logger)

	shutdownTimeout, _ := cfg.ParseDuration(cfg.Server.ShutdownTimeout)
	shutdownManager := shutdown.NewManager(shutdownTimeout, logger)
	shutdownManager.RegisterHandler("http-server", server.Shutdown)
	shutdownManager.RegisterHandler("job-manager", func(ctx context.Context) error {
		return manager.Stop(workerShutdownTimeout)
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return server.Start()
	})

	// Background flakiness loop: periodically perturb scanner statuses.
	group.Go(func() error {
		ticker := time.NewTicker(cfg.Simulation.EventPeriod())
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				reg.SimulateEvents()
			}
		}
	})

	server.SetReady(true)

	<-groupCtx.Done()
	logger.Info("Initiating graceful shutdown")

	shutdownErr := shutdownManager.Shutdown()
	cancel()

	if err := group.Wait(); err != nil {
		return err
	}
	return shutdownErr
}

// newScannersCmd lists the seed catalog without starting the server,
// which is handy when writing client configuration.
func newScannersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scanners",
		Short: "Print the simulated scanner catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger := logging.NewLogger("error")
			reg := registry.New(cfg, simrand.New(cfg.Simulation.Seed), logger)
			if err := reg.Seed(); err != nil {
				return err
			}

			for _, s := range reg.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-16s %-8s %5d DPI  duplex=%t adf=%t\n",
					s.Name, s.ScannerType, s.SystemType,
					s.Capabilities.MaxResolution, s.Capabilities.HasDuplex, s.Capabilities.HasADF)
			}
			return nil
		},
	}
}

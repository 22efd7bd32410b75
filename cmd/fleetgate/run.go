package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fleetgate-hq/fleetgate/pkg/calllog"
	"fleetgate-hq/fleetgate/pkg/cli"
	"fleetgate-hq/fleetgate/pkg/config"
	"fleetgate-hq/fleetgate/pkg/gateway"
	"fleetgate-hq/fleetgate/pkg/server"
	"fleetgate-hq/fleetgate/pkg/telemetry/logging"
	"fleetgate-hq/fleetgate/pkg/telemetry/metrics"
	"fleetgate-hq/fleetgate/pkg/upstream"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The server listens on the configured address and proxies requests to the
configured upstream API families. The configuration file is watched and
reloaded on change.

Examples:
  # Start with default config
  fleetgate run

  # Start with custom config
  fleetgate run --config /etc/fleetgate/config.yaml

  # Override listen address
  fleetgate run --listen 0.0.0.0:8080

  # Validate config without starting the server
  fleetgate run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.Current()

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	config.Set(cfg)

	logging.Setup(cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Watch the config file so credential rotations take effect without a
	// restart. A missing file is fine; the watcher just has nothing to do.
	if watcher, err := config.NewWatcher(cfgFile); err != nil {
		slog.Warn("config watcher unavailable", "error", err)
	} else {
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				slog.Warn("config watcher exited", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	observers := []upstream.CallObserver{upstream.SlogObserver(nil)}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		observers = append(observers, collector.Observer())
	}

	if cfg.CallLog.Enabled {
		store, err := calllog.NewSQLiteStore(cfg.CallLog.Path)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to open call log: %w", err))
		}
		defer store.Close()

		recorder := calllog.NewRecorder(store, cfg.CallLog.Buffer)
		defer recorder.Stop()
		observers = append(observers, recorder.Observer())

		pruner := calllog.NewPruner(store, cfg.CallLog.RetentionDays)
		scheduler := calllog.NewScheduler(pruner, cfg.CallLog.PruneSchedule)
		if err := scheduler.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
		}

		fmt.Println("✓ Call log initialized")
	}

	gw := gateway.New(upstream.MultiObserver(observers...))
	srv := server.NewServer(cfg, gw, collector)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

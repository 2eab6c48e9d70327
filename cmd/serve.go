package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"makdo/internal/admin"
	"makdo/internal/agent"
	"makdo/internal/apikey"
	"makdo/internal/config"
	"makdo/internal/coordinator"
	"makdo/internal/diag"
	"makdo/internal/driver"
	"makdo/internal/session"
	"makdo/internal/slack"
	"makdo/pkg/logging"
)

// serveConfigPath is the makdo.yaml location.
var serveConfigPath string

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveCmd starts the health-check loop and the admin API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the makdo health-check loop and admin API",
	Long: `Starts the makdo coordinator loop and the out-of-band admin API.

The loop issues a cluster session when needed, injects the session token
into the analyzer and fixer sub-agents, runs the health check through the
diagnostic service and reports findings to Slack. The admin API accepts
out-of-band session management (create/list/delete) keyed by admin API
keys.

Configuration is read once at startup from the file given by --config
(default: config/makdo.yaml). The check interval can be overridden with
MAKDO_CHECK_INTERVAL for test harnesses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/makdo.yaml", "Path to the makdo configuration file")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}

func runServe(parent context.Context) error {
	level := logging.LevelInfo
	if serveDebug || os.Getenv("MAKDO_DEBUG") != "" {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	cfg, err := config.LoadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logging.Info("Serve", "Starting MAKDO - Multi-Agent Kubernetes DevOps System")

	registry := session.NewRegistry()
	issuer := session.NewIssuer(registry)

	keys := apikey.NewManager()
	if cfg.Admin.KeysFile != "" {
		keys, err = apikey.LoadManager(cfg.Admin.KeysFile)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// Admin API.
	adminSrv := admin.NewServer(registry, issuer, keys)
	group.Go(func() error {
		return adminSrv.ListenAndServe(groupCtx, cfg.Admin.Listen)
	})

	// Hourly sweep keeps expired entries from accumulating. Not needed for
	// correctness; Get/List already filter expired sessions.
	group.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				registry.Sweep()
			}
		}
	})

	// Health-check loop, only when a cluster is configured.
	if len(cfg.Clusters) == 0 {
		logging.Warn("Serve", "No clusters configured - makdo will serve the admin API but won't monitor anything")
	} else {
		cluster := cfg.Clusters[0]
		logging.Info("Serve", "Target cluster: %s", cluster.Name)
		logging.Info("Serve", "Diagnostic service URL: %s", cfg.Diagnostic.BaseURL)

		diagClient := diag.NewClient(cfg.Diagnostic.BaseURL, diag.TransportType(cfg.Diagnostic.Transport))
		if err := diagClient.Connect(ctx); err != nil {
			logging.Warn("Serve", "Diagnostic service unreachable, cycles will run degraded: %v", err)
		}
		defer diagClient.Close()

		pool := agent.NewPool("analyzer", "fixer")
		d := driver.New(
			driver.Config{
				Cluster:       cluster,
				SessionTTL:    time.Duration(cfg.Monitoring.SessionTTLHours * float64(time.Hour)),
				CheckInterval: time.Duration(cfg.Monitoring.CheckIntervalSeconds) * time.Second,
				Channel:       cfg.Slack.Channel,
				Targets:       pool.Names(),
				StateFile:     cfg.StateFile,
			},
			registry,
			issuer,
			agent.NewInjector(pool),
			coordinator.WithLogging(coordinator.NewDiagCoordinator(diagClient)),
			slack.NewClient(cfg.Slack.BotToken),
			driver.SourceFor(cluster),
		)
		group.Go(func() error {
			return d.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve failed: %w", err)
	}
	logging.Info("Serve", "MAKDO shut down")
	return nil
}

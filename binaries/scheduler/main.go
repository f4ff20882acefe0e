// Command klever-scheduler consumes job and task status messages from the
// broker and runs verification jobs and tasks on this host.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ldv-klever/klever-sub005/common/endpoints"
	schederrors "github.com/ldv-klever/klever-sub005/common/errors"
	"github.com/ldv-klever/klever-sub005/common/log/hooks"
	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/runner"
	"github.com/ldv-klever/klever-sub005/runner/runners"
	"github.com/ldv-klever/klever-sub005/scheduler/config"
	"github.com/ldv-klever/klever-sub005/scheduler/coordination"
	"github.com/ldv-klever/klever-sub005/scheduler/ingest"
	"github.com/ldv-klever/klever-sub005/scheduler/server"
)

const uptimeInterval = 15 * time.Second

type options struct {
	config     string
	logLevel   string
	httpAddr   string
	production bool
}

func main() {
	log.AddHook(hooks.NewContextHook())
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	cancel()
	os.Exit(exitCode(err))
}

func newRootCommand() *cobra.Command {
	opts := &options{config: "local.memory", logLevel: "info"}
	cmd := &cobra.Command{
		Use:           "klever-scheduler",
		Short:         "Run Klever verification jobs and tasks on this host",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return schederrors.NewError(err, schederrors.ConfigExitCode)
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&opts.config, "config", opts.config, "Scheduler config: a preset (default, local.local, local.memory), JSON text or a file path")
	cmd.Flags().StringVar(&opts.logLevel, "log_level", opts.logLevel, "Log everything at this level and above (error|warn|info|debug)")
	cmd.Flags().StringVar(&opts.httpAddr, "http_addr", "", "Bind address for the admin http server, overrides Admin.HTTPAddr")
	cmd.Flags().BoolVar(&opts.production, "production", false, "Reinitialize after fatal errors instead of exiting, overrides Scheduler.Production")
	return cmd
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("http_addr") {
		cfg.Admin.HTTPAddr = opts.httpAddr
	}
	if cmd.Flags().Changed("production") {
		cfg.Scheduler.Production = opts.production
	}
	log.Infof("Scheduler config: %s", cfg)
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	stat, stopLatch := endpoints.MakeStatsReceiver("klever", cfg.Admin.StatsLatch)
	defer stopLatch()
	go stats.ReportUptime(ctx, stat.Scope("scheduler"), uptimeInterval)

	svc := server.NewService(
		cfg.SchedulerConfiguration(),
		func() (runner.Runner, error) { return runners.New(cfg.Runner, stat) },
		func() (coordination.Client, error) {
			return coordination.NewHTTPClient(cfg.CoordinationConfig(), stat), nil
		},
		ingest.NewAMQPSourceFactory(cfg.BrokerConfig()),
		stat,
	)

	if cfg.Admin.HTTPAddr != "" {
		admin := endpoints.NewTwitterServer(cfg.Admin.HTTPAddr, stat, svc.State)
		go func() {
			if err := admin.Serve(ctx); err != nil {
				log.Errorf("Admin http server stopped: %v", err)
			}
		}()
	}
	return svc.Run(ctx)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *schederrors.ExitCodeError
	if !errors.As(err, &exitErr) {
		log.Error(err)
		return int(schederrors.FatalExitCode)
	}
	if exitErr.GetExitCode() == schederrors.InterruptedExitCode {
		log.Infof("Scheduler stopped: %v", err)
	} else {
		log.Errorf("Scheduler failed: %v", err)
	}
	return int(exitErr.GetExitCode())
}

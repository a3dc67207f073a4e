package main

import (
	"context"
	"encoding/base64"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"timetable/internal/capture"
	"timetable/internal/config"
	appLog "timetable/internal/log"
	"timetable/internal/web"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		listen string
		debug  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and API with live status updates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			// CLI --listen overrides config file listen if provided.
			if listen != "" {
				cfg.Listen = listen
			}
			if debug {
				appLog.SetLevel(appLog.LevelDebug)
			}
			return runServe(commandContext(cmd), cfg)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.Info("timetable starting", "version", version)
	appLog.Info("effective config",
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"week_start", cfg.WeekStart,
		"tick_interval", cfg.TickInterval,
		"refresh", cfg.RefreshCron,
		"schedule_file", cfg.ScheduleFile,
		"ics_count", len(cfg.ICS),
		"preview", cfg.Preview.Enabled,
	)

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	if err := a.board.Open(); err != nil {
		return err
	}
	defer a.board.Close()

	refresher := cron.New(
		cron.WithLocation(a.loc),
		cron.WithLogger(appLog.CronLogger("refresh")),
		cron.WithChain(
			cron.Recover(appLog.CronLogger("refresh")),
			cron.SkipIfStillRunning(appLog.CronLogger("refresh")),
		),
	)
	if _, err := refresher.AddFunc(cfg.RefreshCron, func() { a.refresh(ctx) }); err != nil {
		return err
	}
	refresher.Start()
	defer func() { <-refresher.Stop().Done() }()

	if cfg.Preview.Enabled {
		// First preview once the listener is up; later ones ride the refresh job.
		go func() {
			select {
			case <-time.After(time.Second):
				a.capturePreview(ctx)
			case <-ctx.Done():
			}
		}()
	}

	err = web.NewServer(cfg, a.board).Run(ctx)
	appLog.Info("timetable exiting")
	return err
}

// refresh is the periodic job: re-import sources, then re-capture the
// preview when enabled.
func (a *app) refresh(ctx context.Context) {
	if err := a.reload(ctx); err != nil {
		appLog.Error("schedule refresh failed", err)
	}
	if a.cfg.Preview.Enabled {
		a.capturePreview(ctx)
	}
}

func (a *app) capturePreview(ctx context.Context) {
	opts := capture.Options{
		URL:        localURL(a.cfg.Listen) + "/timetable",
		OutputPath: a.cfg.Preview.Path,
		Width:      a.cfg.Preview.Width,
		Height:     a.cfg.Preview.Height,
	}
	if ba := a.cfg.BasicAuth; ba != nil && ba.Username != "" {
		token := base64.StdEncoding.EncodeToString([]byte(ba.Username + ":" + ba.Password))
		opts.Headers = map[string]string{"Authorization": "Basic " + token}
	}
	if err := capture.CapturePNG(ctx, opts); err != nil {
		appLog.Error("preview capture failed", err, "out", opts.OutputPath)
	}
}

// localURL turns a listen address into a URL reachable from this host.
func localURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

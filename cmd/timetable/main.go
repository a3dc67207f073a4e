package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timetable/internal/board"
	"timetable/internal/clock"
	"timetable/internal/config"
	appLog "timetable/internal/log"
	"timetable/internal/model"
	"timetable/internal/schedule"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "timetable",
		Short:         "Weekly class timetable with live session status",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newShowCmd(&configPath))
	root.AddCommand(newDaysCmd(&configPath))
	root.AddCommand(newSnapshotCmd(&configPath))
	return root
}

// app is everything a subcommand needs after startup.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	loader *schedule.Loader
	board  *board.Board
}

type appOptions struct {
	// now overrides the wall clock (show --at).
	now func() time.Time
	// day overrides cfg.DefaultDay.
	day string
}

// loadConfig reads the config file and applies its log level.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// newApp loads the schedule sources and builds a closed board.
func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	tickerOpts := []clock.Option{
		clock.WithInterval(cfg.Tick()),
		clock.WithLocation(loc),
	}
	if opts.now != nil {
		tickerOpts = append(tickerOpts, clock.WithNowFunc(opts.now))
	}
	tk := clock.New(tickerOpts...)

	feeds := make([]schedule.Feed, 0, len(cfg.ICS))
	for _, src := range cfg.ICS {
		feeds = append(feeds, schedule.Feed{ID: src.SourceID(), URL: src.URL})
	}
	loader := schedule.NewLoader(schedule.Sources{
		File:      cfg.ScheduleFile,
		Feeds:     feeds,
		WeekStart: cfg.WeekStart,
	}, schedule.NewFetcher(cfg.CacheDir))

	sched, err := loader.Load(ctx, tk.Now())
	if err != nil {
		if len(sched.Days) == 0 {
			return nil, fmt.Errorf("load schedule: %w", err)
		}
		appLog.Warn("schedule loaded with errors", "error", err.Error())
	}

	day := opts.day
	if day == "" {
		day = defaultDay(cfg.DefaultDay, sched, tk.Now())
	}

	appLog.Info("schedule loaded",
		"days", schedule.Summary(sched),
		"selected", day,
		"timezone", loc.String(),
	)

	return &app{
		cfg:    cfg,
		loc:    loc,
		loader: loader,
		board:  board.New(schedule.NewSelector(sched, day), tk),
	}, nil
}

// defaultDay resolves the configured start day. "today" picks the current
// weekday when the schedule has it; otherwise the first day is used.
func defaultDay(configured string, s model.Schedule, now time.Time) string {
	switch configured {
	case "":
		return ""
	case "today":
		if today := model.WeekdayName(now); s.HasDay(today) {
			return today
		}
		return ""
	default:
		return configured
	}
}

// reload re-imports every source and swaps the board's schedule.
func (a *app) reload(ctx context.Context) error {
	sched, err := a.loader.Load(ctx, a.board.Now())
	if err != nil && len(sched.Days) == 0 {
		return err
	}
	a.board.Replace(sched)
	appLog.Info("schedule reloaded", "days", schedule.Summary(sched))
	return err
}

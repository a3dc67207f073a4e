package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"timetable/internal/board"
	"timetable/internal/capture"
	appLog "timetable/internal/log"
	"timetable/internal/tui"
	"timetable/internal/window"
)

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal timetable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			// Log lines would tear the alternate screen.
			appLog.SetOutput(io.Discard)

			a, err := newApp(commandContext(cmd), cfg, appOptions{})
			if err != nil {
				return err
			}
			if err := a.board.Open(); err != nil {
				return err
			}
			defer a.board.Close()
			return tui.Run(a.board)
		},
	}
}

func newShowCmd(configPath *string) *cobra.Command {
	var (
		day string
		at  string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print one day's sessions with their status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			opts := appOptions{day: day}
			if at != "" {
				loc, err := cfg.Location()
				if err != nil {
					return err
				}
				now, err := atToday(at, time.Now().In(loc))
				if err != nil {
					return err
				}
				opts.now = func() time.Time { return now }
			}

			a, err := newApp(commandContext(cmd), cfg, opts)
			if err != nil {
				return err
			}
			defer a.board.Close()
			return printSnapshot(cmd.OutOrStdout(), a.board.Snapshot())
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Day to show (default: config default_day)")
	cmd.Flags().StringVar(&at, "at", "", "Evaluate at HH:MM today instead of now")
	return cmd
}

// atToday places an HH:MM time of day on ref's date.
func atToday(text string, ref time.Time) (time.Time, error) {
	tod, err := window.ParseTimeOfDay(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	y, m, d := ref.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, 0, 0, ref.Location()), nil
}

func printSnapshot(w io.Writer, snap board.Snapshot) error {
	fmt.Fprintf(w, "%s  (%s)\n\n", snap.Day, snap.Now.Format("Monday 15:04"))
	if len(snap.Entries) == 0 {
		_, err := fmt.Fprintf(w, "No sessions on %s.\n", snap.Day)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSESSION\tCODE\tINSTRUCTOR\tLOCATION\tSTATUS")
	for _, e := range snap.Entries {
		s := e.Session
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Window, s.Name, dash(s.CodeOrEmpty()), dash(s.InstructorOrEmpty()), s.Location, e.Status.Label())
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newDaysCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "List the days in the timetable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			a, err := newApp(commandContext(cmd), cfg, appOptions{})
			if err != nil {
				return err
			}
			defer a.board.Close()

			out := cmd.OutOrStdout()
			for _, d := range a.board.Days() {
				fmt.Fprintf(out, "%s\t%d\n", d, len(a.board.DayEntries(d)))
			}
			return nil
		},
	}
}

func newSnapshotCmd(configPath *string) *cobra.Command {
	var opts capture.Options
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a running /timetable page to PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if opts.URL == "" {
				opts.URL = localURL(cfg.Listen) + "/timetable"
			}
			if opts.OutputPath == "" {
				opts.OutputPath = cfg.Preview.Path
			}
			if opts.Width == 0 {
				opts.Width = cfg.Preview.Width
			}
			if opts.Height == 0 {
				opts.Height = cfg.Preview.Height
			}
			return capture.CapturePNG(commandContext(cmd), opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "Page to capture (default: this server's /timetable)")
	cmd.Flags().StringVar(&opts.OutputPath, "out", "", "Output PNG path (default: preview.path)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Viewport width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Viewport height in pixels")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", capture.DefaultTimeout, "Capture timeout")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appLog "timetable/internal/log"
	"timetable/internal/model"
)

// Sources lists where the weekly timetable comes from.
type Sources struct {
	// File is an optional YAML schedule file.
	File string
	// Feeds are ICS calendars projected onto the current week.
	Feeds []Feed
	// WeekStart is "monday" or "sunday".
	WeekStart string
}

// Loader builds a Schedule from Sources.
type Loader struct {
	sources Sources
	fetcher *Fetcher
}

// NewLoader creates a Loader; fetcher may be nil when there are no feeds.
func NewLoader(sources Sources, fetcher *Fetcher) *Loader {
	if fetcher == nil {
		fetcher = NewFetcher("")
	}
	return &Loader{sources: sources, fetcher: fetcher}
}

// Load reads the file (if any) and every feed for the week containing now.
//
// A broken schedule file is fatal. A failing feed is logged and skipped so
// one bad calendar does not blank the whole timetable; the joined feed
// errors are returned alongside the partial schedule.
func (l *Loader) Load(ctx context.Context, now time.Time) (model.Schedule, error) {
	parts := make([]model.Schedule, 0, 1+len(l.sources.Feeds))

	if l.sources.File != "" {
		s, err := LoadFile(l.sources.File)
		if err != nil {
			return model.Schedule{}, err
		}
		if len(l.sources.Feeds) == 0 {
			// File order is the presentation order.
			return s, nil
		}
		parts = append(parts, s)
	}

	weekStart := WeekStartOf(now, l.sources.WeekStart)
	var feedErrs []error
	for _, feed := range l.sources.Feeds {
		body, fromCache, err := l.fetcher.Fetch(ctx, feed)
		if err != nil {
			appLog.Error("schedule feed fetch failed", err, "feed", feed.ID, "url", redactURL(feed.URL))
			feedErrs = append(feedErrs, err)
			continue
		}
		s, err := ImportICS(feed.ID, body, weekStart)
		if err != nil {
			appLog.Error("schedule feed import failed", err, "feed", feed.ID)
			feedErrs = append(feedErrs, err)
			continue
		}
		appLog.Debug("schedule feed imported", "feed", feed.ID, "from_cache", fromCache, "sessions", s.Len())
		parts = append(parts, s)
	}

	merged := Merge(l.sources.WeekStart, parts...)
	return merged, errors.Join(feedErrs...)
}

// Summary is a short one-line description of a schedule for logs.
func Summary(s model.Schedule) string {
	var b strings.Builder
	for i, d := range s.Days {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s(%d)", d, len(s.Sessions[d]))
	}
	return b.String()
}

// Package status classifies a session as not started, in progress or ended
// relative to a reference instant.
package status

import (
	"encoding/json"
	"fmt"
	"time"

	"timetable/internal/window"
)

// Kind is the tag of a Status.
type Kind int

const (
	NotStarted Kind = iota
	InProgress
	Ended
)

func (k Kind) String() string {
	switch k {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the kind as its snake_case name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Status is the derived state of a session at one instant.
//
// Minutes is the number of minutes until the start for NotStarted, the
// number of minutes remaining for InProgress, and always 0 for Ended.
type Status struct {
	Kind    Kind
	Minutes int
}

// Label is the text shown next to a session.
func (s Status) Label() string {
	switch s.Kind {
	case NotStarted:
		return fmt.Sprintf("Starts in %d min", s.Minutes)
	case InProgress:
		return fmt.Sprintf("%d min remaining", s.Minutes)
	default:
		return "Ended"
	}
}

func (s Status) String() string {
	return s.Label()
}

// Evaluate classifies w against now.
//
// The window's start and end are resolved on now's calendar date in now's
// location. Both ends of the window are inclusive, so now == start and
// now == end are both InProgress. Minute counts round up: a session that
// starts in one second reports one minute.
func Evaluate(w window.TimeWindow, now time.Time) Status {
	start, end := Resolve(w, now)

	switch {
	case now.Before(start):
		return Status{Kind: NotStarted, Minutes: ceilMinutes(start.Sub(now))}
	case now.After(end):
		return Status{Kind: Ended}
	default:
		return Status{Kind: InProgress, Minutes: ceilMinutes(end.Sub(now))}
	}
}

// Resolve returns the start and end instants of w on the date of ref.
// Windows crossing midnight are not representable, so no day rollover is
// applied.
func Resolve(w window.TimeWindow, ref time.Time) (start, end time.Time) {
	y, m, d := ref.Date()
	loc := ref.Location()
	start = time.Date(y, m, d, w.Start.Hour, w.Start.Minute, 0, 0, loc)
	end = time.Date(y, m, d, w.End.Hour, w.End.Minute, 0, 0, loc)
	return start, end
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}

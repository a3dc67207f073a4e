// Package window parses and formats the "HH:MM-HH:MM" time windows that
// describe when a session takes place within a single day.
package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTimeWindow is matched (via errors.Is) by every parse failure.
var ErrMalformedTimeWindow = errors.New("malformed time window")

// MalformedError describes why a time window string was rejected.
type MalformedError struct {
	Input  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("window: malformed time window %q: %s", e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedTimeWindow) work for *MalformedError.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedTimeWindow
}

// TimeOfDay is an hour/minute pair with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeWindow is a [Start, End] range within one calendar day.
// Start is always strictly before End; overnight windows do not exist.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// String formats the window in canonical zero-padded "HH:MM-HH:MM" form.
// Parse(w.String()) == w for every valid window.
func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Minutes returns the length of the window in minutes.
func (w TimeWindow) Minutes() int {
	return w.End.Minutes() - w.Start.Minutes()
}

// Parse parses text of the form "HH:MM-HH:MM".
//
// Hours may be written with one digit ("9:15-10:05"). Whitespace around
// each side of the separator is ignored. Failures are *MalformedError:
//   - missing "-" separator (or more than one)
//   - a side that is not two colon-joined integers
//   - hour outside 0-23 or minute outside 0-59
//   - a start that is not strictly before the end
func Parse(text string) (TimeWindow, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return TimeWindow{}, &MalformedError{Input: text, Reason: `expected exactly one "-" separator`}
	}

	start, err := parseTimeOfDay(text, parts[0])
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := parseTimeOfDay(text, parts[1])
	if err != nil {
		return TimeWindow{}, err
	}

	if !start.Before(end) {
		return TimeWindow{}, &MalformedError{Input: text, Reason: "start must be before end"}
	}

	return TimeWindow{Start: start, End: end}, nil
}

// MustParse is like Parse but panics on error. Intended for literals in
// tests and static tables.
func MustParse(text string) TimeWindow {
	w, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return w
}

// ParseTimeOfDay parses a single "HH:MM" value.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	return parseTimeOfDay(text, text)
}

func parseTimeOfDay(input, seg string) (TimeOfDay, error) {
	seg = strings.TrimSpace(seg)

	hh, mm, ok := strings.Cut(seg, ":")
	if !ok || strings.Contains(mm, ":") {
		return TimeOfDay{}, &MalformedError{Input: input, Reason: fmt.Sprintf("segment %q is not HH:MM", seg)}
	}

	hour, ok := parseDigits(hh)
	if !ok {
		return TimeOfDay{}, &MalformedError{Input: input, Reason: fmt.Sprintf("hour %q is not a number", hh)}
	}
	minute, ok := parseDigits(mm)
	if !ok {
		return TimeOfDay{}, &MalformedError{Input: input, Reason: fmt.Sprintf("minute %q is not a number", mm)}
	}

	if hour > 23 {
		return TimeOfDay{}, &MalformedError{Input: input, Reason: fmt.Sprintf("hour %d out of range 0-23", hour)}
	}
	if minute > 59 {
		return TimeOfDay{}, &MalformedError{Input: input, Reason: fmt.Sprintf("minute %d out of range 0-59", minute)}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// parseDigits accepts one or two ASCII digits. strconv.Atoi alone would
// also let signs through.
func parseDigits(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

package model

import (
	"time"

	"timetable/internal/window"
)

// Session is one scheduled class on a given day. It has no identity beyond
// its position in the day's list.
type Session struct {
	Window window.TimeWindow

	Name     string
	Location string

	// Optional fields; nil means the source did not provide one.
	Code       *string
	Instructor *string
}

// CodeOrEmpty returns the course code or "" when absent.
func (s Session) CodeOrEmpty() string {
	if s.Code == nil {
		return ""
	}
	return *s.Code
}

// InstructorOrEmpty returns the instructor or "" when absent.
func (s Session) InstructorOrEmpty() string {
	if s.Instructor == nil {
		return ""
	}
	return *s.Instructor
}

// Optional returns a pointer to v, or nil for the empty string.
func Optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Schedule maps day names to their sessions.
//
// Days keeps the presentation order of the days. Sessions for a day are in
// presentation order and are never re-sorted here.
type Schedule struct {
	Days     []string
	Sessions map[string][]Session
}

// NewSchedule returns an empty schedule.
func NewSchedule() Schedule {
	return Schedule{Sessions: make(map[string][]Session)}
}

// Select returns the sessions for day unchanged. An unknown day or a day
// without sessions yields an empty slice.
func (s Schedule) Select(day string) []Session {
	return s.Sessions[day]
}

// HasDay reports whether day is one of the schedule's days.
func (s Schedule) HasDay(day string) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Append adds sessions to day, registering the day if it is new.
func (s *Schedule) Append(day string, sessions ...Session) {
	if s.Sessions == nil {
		s.Sessions = make(map[string][]Session)
	}
	if !s.HasDay(day) {
		s.Days = append(s.Days, day)
	}
	s.Sessions[day] = append(s.Sessions[day], sessions...)
}

// Len is the total number of sessions across all days.
func (s Schedule) Len() int {
	n := 0
	for _, list := range s.Sessions {
		n += len(list)
	}
	return n
}

// WeekdayName returns the day name used as a schedule key for t.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

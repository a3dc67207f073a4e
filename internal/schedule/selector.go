// Package schedule loads the weekly timetable from its sources and tracks
// which day is being viewed.
package schedule

import (
	"sync"

	"timetable/internal/model"
)

// Selector tracks the currently selected day over a Schedule. Both the
// schedule and the selected day are replaced as whole values.
type Selector struct {
	mu       sync.RWMutex
	schedule model.Schedule
	day      string
}

// NewSelector selects day, or the schedule's first day when day is empty.
func NewSelector(s model.Schedule, day string) *Selector {
	if day == "" && len(s.Days) > 0 {
		day = s.Days[0]
	}
	return &Selector{schedule: s, day: day}
}

// Select makes day current and returns its sessions.
func (s *Selector) Select(day string) []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day = day
	return s.schedule.Select(day)
}

// Selected returns the current day.
func (s *Selector) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day
}

// Sessions returns the sessions of the current day.
func (s *Selector) Sessions() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.Select(s.day)
}

// Lookup returns the sessions of day without changing the selection.
func (s *Selector) Lookup(day string) []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.Select(day)
}

// Days returns the schedule's days in presentation order.
func (s *Selector) Days() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.schedule.Days))
	copy(out, s.schedule.Days)
	return out
}

// Next moves the selection by delta days, wrapping around. A selection
// that is not one of the schedule's days moves to the first day.
func (s *Selector) Next(delta int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := s.schedule.Days
	if len(days) == 0 {
		return s.day
	}
	idx := -1
	for i, d := range days {
		if d == s.day {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.day = days[0]
		return s.day
	}
	n := len(days)
	s.day = days[((idx+delta)%n+n)%n]
	return s.day
}

// Replace swaps in a new schedule, keeping the selected day.
func (s *Selector) Replace(sched model.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = sched
}

// Schedule returns the current schedule value.
func (s *Selector) Schedule() model.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule
}

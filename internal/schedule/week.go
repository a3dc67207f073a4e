package schedule

import (
	"sort"
	"strings"
	"time"

	"timetable/internal/model"
)

// WeekDays returns the seven weekday names starting at weekStart
// ("monday" or "sunday").
func WeekDays(weekStart string) []string {
	first := time.Monday
	if strings.EqualFold(weekStart, "sunday") {
		first = time.Sunday
	}
	out := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, time.Weekday((int(first)+i)%7).String())
	}
	return out
}

// WeekStartOf returns midnight of the first day of t's week in t's location.
func WeekStartOf(t time.Time, weekStart string) time.Time {
	first := time.Monday
	if strings.EqualFold(weekStart, "sunday") {
		first = time.Sunday
	}
	offset := (int(t.Weekday()) - int(first) + 7) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// Merge appends the sessions of the given schedules in order and then
// orders the days by weekday. Days that are not weekday names keep their
// relative order after the weekdays.
func Merge(weekStart string, schedules ...model.Schedule) model.Schedule {
	out := model.NewSchedule()
	for _, s := range schedules {
		for _, day := range s.Days {
			out.Append(day, s.Sessions[day]...)
		}
	}

	rank := make(map[string]int, 7)
	for i, d := range WeekDays(weekStart) {
		rank[d] = i
	}
	sort.SliceStable(out.Days, func(i, j int) bool {
		ri, iok := rank[out.Days[i]]
		rj, jok := rank[out.Days[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}

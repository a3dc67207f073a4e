package schedule

import (
	"strings"
	"testing"
	"time"

	"timetable/internal/model"
	"timetable/internal/window"
)

func TestWeekDays(t *testing.T) {
	if got := strings.Join(WeekDays("monday"), ","); got != "Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday" {
		t.Errorf("WeekDays(monday) = %s", got)
	}
	if got := WeekDays("Sunday")[0]; got != "Sunday" {
		t.Errorf("WeekDays(Sunday)[0] = %s", got)
	}
}

func TestWeekStartOf(t *testing.T) {
	// Thursday 2025-03-06 14:30.
	thu := time.Date(2025, time.March, 6, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		weekStart string
		want      time.Time
	}{
		{"monday", time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := WeekStartOf(thu, tt.weekStart); !got.Equal(tt.want) {
			t.Errorf("WeekStartOf(%s) = %s, want %s", tt.weekStart, got, tt.want)
		}
	}

	mon := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	if got := WeekStartOf(mon, "monday"); !got.Equal(mon) {
		t.Errorf("WeekStartOf(Monday midnight) = %s", got)
	}
}

func TestMerge(t *testing.T) {
	a := model.NewSchedule()
	a.Append("Wednesday", model.Session{Window: window.MustParse("09:00-10:00"), Name: "A1"})
	a.Append("Lab week", model.Session{Window: window.MustParse("09:00-10:00"), Name: "A2"})

	b := model.NewSchedule()
	b.Append("Monday", model.Session{Window: window.MustParse("08:00-09:00"), Name: "B1"})
	b.Append("Wednesday", model.Session{Window: window.MustParse("07:00-08:00"), Name: "B2"})

	m := Merge("monday", a, b)
	if got := strings.Join(m.Days, ","); got != "Monday,Wednesday,Lab week" {
		t.Errorf("Days = %s", got)
	}
	wed := m.Select("Wednesday")
	if len(wed) != 2 || wed[0].Name != "A1" || wed[1].Name != "B2" {
		t.Errorf("Wednesday = %+v, want A1 then B2", wed)
	}
}

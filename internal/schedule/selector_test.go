package schedule

import (
	"testing"

	"timetable/internal/model"
	"timetable/internal/window"
)

func testSchedule() model.Schedule {
	s := model.NewSchedule()
	s.Append("Monday",
		model.Session{Window: window.MustParse("09:15-10:05"), Name: "Intel Unnati", Location: "Lab A"},
		model.Session{Window: window.MustParse("10:05-10:55"), Name: "Design and Analysis of Algorithm", Location: "B417"},
	)
	s.Append("Tuesday")
	s.Append("Wednesday",
		model.Session{Window: window.MustParse("11:45-12:35"), Name: "Project", Location: "B417"},
	)
	return s
}

func TestNewSelectorDefaultsToFirstDay(t *testing.T) {
	sel := NewSelector(testSchedule(), "")
	if got := sel.Selected(); got != "Monday" {
		t.Errorf("Selected() = %q, want Monday", got)
	}
	if got := len(sel.Sessions()); got != 2 {
		t.Errorf("len(Sessions()) = %d, want 2", got)
	}
}

func TestSelect(t *testing.T) {
	sel := NewSelector(testSchedule(), "Monday")

	got := sel.Select("Wednesday")
	if len(got) != 1 || got[0].Name != "Project" {
		t.Fatalf("Select(Wednesday) = %+v", got)
	}
	if sel.Selected() != "Wednesday" {
		t.Errorf("Selected() = %q, want Wednesday", sel.Selected())
	}

	if got := sel.Select("Tuesday"); len(got) != 0 {
		t.Errorf("Select(Tuesday) = %+v, want empty", got)
	}
	if got := sel.Select("Holiday"); len(got) != 0 {
		t.Errorf("Select(Holiday) = %+v, want empty", got)
	}
}

func TestLookupKeepsSelection(t *testing.T) {
	sel := NewSelector(testSchedule(), "Monday")
	if got := sel.Lookup("Wednesday"); len(got) != 1 {
		t.Fatalf("Lookup(Wednesday) len = %d", len(got))
	}
	if sel.Selected() != "Monday" {
		t.Errorf("Lookup changed selection to %q", sel.Selected())
	}
}

func TestNextWraps(t *testing.T) {
	sel := NewSelector(testSchedule(), "Monday")

	steps := []struct {
		delta int
		want  string
	}{
		{1, "Tuesday"},
		{1, "Wednesday"},
		{1, "Monday"},
		{-1, "Wednesday"},
		{-4, "Tuesday"},
	}
	for _, s := range steps {
		if got := sel.Next(s.delta); got != s.want {
			t.Fatalf("Next(%d) = %q, want %q", s.delta, got, s.want)
		}
	}

	sel.Select("Sunday")
	if got := sel.Next(1); got != "Monday" {
		t.Errorf("Next from unknown day = %q, want Monday", got)
	}
}

func TestReplaceKeepsDay(t *testing.T) {
	sel := NewSelector(testSchedule(), "Wednesday")

	next := model.NewSchedule()
	next.Append("Wednesday",
		model.Session{Window: window.MustParse("08:00-09:00"), Name: "Seminar"},
		model.Session{Window: window.MustParse("09:00-10:00"), Name: "Lab"},
	)
	sel.Replace(next)

	if sel.Selected() != "Wednesday" {
		t.Errorf("Selected() = %q after Replace", sel.Selected())
	}
	if got := sel.Sessions(); len(got) != 2 || got[0].Name != "Seminar" {
		t.Errorf("Sessions() after Replace = %+v", got)
	}
	if days := sel.Days(); len(days) != 1 {
		t.Errorf("Days() = %v", days)
	}
}

func TestDaysReturnsCopy(t *testing.T) {
	sel := NewSelector(testSchedule(), "")
	days := sel.Days()
	days[0] = "Mutated"
	if sel.Days()[0] != "Monday" {
		t.Error("Days() exposed internal slice")
	}
}

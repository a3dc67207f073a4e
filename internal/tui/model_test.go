package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timetable/internal/board"
	"timetable/internal/clock"
	"timetable/internal/model"
	"timetable/internal/schedule"
	"timetable/internal/status"
	"timetable/internal/window"
)

// 2025-03-04 is a Tuesday.
var testNow = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

func testModel(t *testing.T) (Model, *board.Board) {
	t.Helper()
	s := model.NewSchedule()
	s.Append("Monday",
		model.Session{
			Window:     window.MustParse("09:15-10:05"),
			Name:       "Intel Unnati",
			Code:       model.Optional("21CS51"),
			Instructor: model.Optional("Dr. Rao"),
			Location:   "Lab 2",
		},
	)
	s.Append("Tuesday",
		model.Session{Window: window.MustParse("08:00-09:00"), Name: "Maths", Location: "A-101"},
	)
	s.Append("Wednesday")

	tk := clock.New(clock.WithNowFunc(func() time.Time { return testNow }))
	b := board.New(schedule.NewSelector(s, "Monday"), tk)
	t.Cleanup(b.Close)
	return New(b), b
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDayNavigation(t *testing.T) {
	m, _ := testModel(t)

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"right", tea.KeyMsg{Type: tea.KeyRight}, "Tuesday"},
		{"l", runes("l"), "Wednesday"},
		{"wrap forward", tea.KeyMsg{Type: tea.KeyRight}, "Monday"},
		{"wrap backward", tea.KeyMsg{Type: tea.KeyLeft}, "Wednesday"},
		{"h", runes("h"), "Tuesday"},
	}
	for _, tt := range tests {
		m, _ = press(t, m, tt.msg)
		if got := m.Snapshot().Day; got != tt.want {
			t.Errorf("%s: day = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTodayKey(t *testing.T) {
	m, _ := testModel(t)

	m, _ = press(t, m, runes("t"))
	snap := m.Snapshot()
	if snap.Day != "Tuesday" {
		t.Fatalf("day after t = %q, want Tuesday", snap.Day)
	}
	if len(snap.Entries) != 1 || snap.Entries[0].Status.Kind != status.Ended {
		t.Errorf("Tuesday entries = %+v", snap.Entries)
	}
}

func TestTodayKeyWithoutTimetable(t *testing.T) {
	s := model.NewSchedule()
	s.Append("Monday")
	tk := clock.New(clock.WithNowFunc(func() time.Time { return testNow }))
	b := board.New(schedule.NewSelector(s, ""), tk)
	t.Cleanup(b.Close)

	m, _ := press(t, New(b), runes("t"))
	if m.Snapshot().Day != "Monday" {
		t.Errorf("selection changed to %q", m.Snapshot().Day)
	}
	if !strings.Contains(m.View(), "No timetable for Tuesday") {
		t.Errorf("notice missing:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m, _ := testModel(t)
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := press(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: no command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not quit", msg)
		}
	}
}

func TestSnapshotMsgRearms(t *testing.T) {
	m, _ := testModel(t)
	snap := board.Snapshot{Now: testNow, Day: "Wednesday", Days: []string{"Wednesday"}}

	next, cmd := m.Update(snapshotMsg(snap))
	if next.(Model).Snapshot().Day != "Wednesday" {
		t.Errorf("snapshot not applied")
	}
	if cmd == nil {
		t.Error("update wait not re-armed")
	}
}

func TestInitReceivesBoardUpdates(t *testing.T) {
	m, b := testModel(t)
	cmd := m.Init()

	b.SelectDay("Wednesday")

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		snap, ok := msg.(snapshotMsg)
		if !ok || snap.Day != "Wednesday" {
			t.Errorf("Init cmd delivered %#v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}

func TestView(t *testing.T) {
	m, _ := testModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{
		"My Timetable",
		"Monday",
		"09:15-10:05",
		"35 min remaining",
		"Intel Unnati",
		"21CS51",
		"Instructor: Dr. Rao",
		"Classroom: Lab 2",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, runes("l"))
	m, _ = press(t, m, runes("l"))
	if !strings.Contains(m.View(), "No sessions on Wednesday.") {
		t.Errorf("empty day view:\n%s", m.View())
	}
}

func TestStatusStyleColours(t *testing.T) {
	tests := []struct {
		kind status.Kind
		want lipgloss.Color
	}{
		{status.NotStarted, ColorYellow},
		{status.InProgress, ColorGreen},
		{status.Ended, ColorRed},
	}
	for _, tt := range tests {
		got, ok := StatusStyle(tt.kind).GetForeground().(lipgloss.Color)
		if !ok || got != tt.want {
			t.Errorf("%s: foreground = %v, want %s", tt.kind, got, tt.want)
		}
	}
}

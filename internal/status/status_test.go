package status

import (
	"encoding/json"
	"testing"
	"time"

	"timetable/internal/window"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, time.March, 3, hour, min, sec, 0, time.Local)
}

func TestEvaluateScenarios(t *testing.T) {
	w := window.MustParse("09:15-10:05")

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"fifteen minutes before", at(9, 0, 0), Status{Kind: NotStarted, Minutes: 15}},
		{"exactly at start", at(9, 15, 0), Status{Kind: InProgress, Minutes: 50}},
		{"exactly at end", at(10, 5, 0), Status{Kind: InProgress, Minutes: 0}},
		{"one minute after end", at(10, 6, 0), Status{Kind: Ended}},
		{"one second before start", at(9, 14, 59), Status{Kind: NotStarted, Minutes: 1}},
		{"one second before end", at(10, 4, 59), Status{Kind: InProgress, Minutes: 1}},
		{"one second after end", at(10, 5, 1), Status{Kind: Ended}},
		{"mid session with seconds", at(9, 30, 30), Status{Kind: InProgress, Minutes: 35}},
		{"start of day", at(0, 0, 0), Status{Kind: NotStarted, Minutes: 9*60 + 15}},
		{"end of day", at(23, 59, 59), Status{Kind: Ended}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(w, tt.now)
			if got != tt.want {
				t.Errorf("Evaluate(%s, %s) = %+v, want %+v", w, tt.now.Format("15:04:05"), got, tt.want)
			}
		})
	}
}

func TestEvaluateProperties(t *testing.T) {
	windows := []string{"00:00-00:01", "09:15-10:05", "12:00-23:59", "08:30-08:31"}

	for _, ws := range windows {
		w := window.MustParse(ws)
		day := at(0, 0, 0)
		for sec := 0; sec < 24*60*60; sec += 37 {
			now := day.Add(time.Duration(sec) * time.Second)
			start, end := Resolve(w, now)
			got := Evaluate(w, now)

			switch {
			case now.Before(start):
				if got.Kind != NotStarted || got.Minutes < 1 {
					t.Fatalf("%s at %s: got %+v, want NotStarted with minutes >= 1", ws, now.Format("15:04:05"), got)
				}
				if want := int((start.Sub(now) + time.Minute - 1) / time.Minute); got.Minutes != want {
					t.Fatalf("%s at %s: minutes = %d, want %d", ws, now.Format("15:04:05"), got.Minutes, want)
				}
			case now.After(end):
				if got.Kind != Ended || got.Minutes != 0 {
					t.Fatalf("%s at %s: got %+v, want Ended", ws, now.Format("15:04:05"), got)
				}
			default:
				if got.Kind != InProgress || got.Minutes < 0 {
					t.Fatalf("%s at %s: got %+v, want InProgress", ws, now.Format("15:04:05"), got)
				}
			}
		}
	}
}

func TestEvaluateUsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	w := window.MustParse("09:15-10:05")

	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, loc)
	got := Evaluate(w, now)
	if got.Kind != NotStarted || got.Minutes != 15 {
		t.Errorf("Evaluate in %s = %+v, want NotStarted 15", loc, got)
	}

	// The same instant seen from UTC is 00:00, so the window is still ahead.
	got = Evaluate(w, now.UTC())
	if got.Kind != NotStarted || got.Minutes != 9*60+15 {
		t.Errorf("Evaluate in UTC = %+v, want NotStarted %d", got, 9*60+15)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Status{Kind: NotStarted, Minutes: 15}, "Starts in 15 min"},
		{Status{Kind: InProgress, Minutes: 50}, "50 min remaining"},
		{Status{Kind: InProgress, Minutes: 0}, "0 min remaining"},
		{Status{Kind: Ended}, "Ended"},
	}
	for _, tt := range tests {
		if got := tt.s.Label(); got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		State Kind `json:"state"`
	}{InProgress})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"state":"in_progress"}` {
		t.Errorf("json = %s", b)
	}
}

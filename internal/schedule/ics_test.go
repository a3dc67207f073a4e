package schedule

import (
	"strings"
	"testing"
	"time"

	"timetable/internal/window"
)

func icsLines(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

var sampleICS = icsLines(
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//timetable//test//EN",

	// Weekly Mon/Wed; Wednesday of this week is excluded.
	"BEGIN:VEVENT",
	"UID:algo@test",
	"DTSTAMP:20250301T000000Z",
	"DTSTART:20250303T091500Z",
	"DTEND:20250303T100500Z",
	"RRULE:FREQ=WEEKLY;BYDAY=MO,WE",
	"EXDATE:20250305T091500Z",
	"SUMMARY:Design and Analysis of Algorithm",
	"LOCATION:B417",
	"CATEGORIES:BDA302-4N,CORE",
	"ORGANIZER;CN=Dr. Shilpa:mailto:shilpa@example.edu",
	"END:VEVENT",

	"BEGIN:VEVENT",
	"UID:project@test",
	"DTSTAMP:20250301T000000Z",
	"DTSTART:20250304T130000Z",
	"DTEND:20250304T140000Z",
	"SUMMARY:Project",
	"LOCATION:B417",
	"END:VEVENT",

	"BEGIN:VEVENT",
	"UID:holiday@test",
	"DTSTAMP:20250301T000000Z",
	"DTSTART;VALUE=DATE:20250306",
	"DTEND;VALUE=DATE:20250307",
	"SUMMARY:Holiday",
	"END:VEVENT",

	"BEGIN:VEVENT",
	"UID:overnight@test",
	"DTSTAMP:20250301T000000Z",
	"DTSTART:20250307T230000Z",
	"DTEND:20250308T010000Z",
	"SUMMARY:Hackathon",
	"END:VEVENT",

	"BEGIN:VEVENT",
	"UID:nextweek@test",
	"DTSTAMP:20250301T000000Z",
	"DTSTART:20250310T090000Z",
	"DTEND:20250310T100000Z",
	"SUMMARY:Next week",
	"END:VEVENT",

	"BEGIN:VEVENT",
	"UID:cancelled@test",
	"DTSTAMP:20250301T000000Z",
	"DTSTART:20250304T080000Z",
	"DTEND:20250304T090000Z",
	"STATUS:CANCELLED",
	"SUMMARY:Cancelled",
	"END:VEVENT",

	// Weekly lab whose instance on 2025-03-03 moved from 11:00 to 14:00.
	"BEGIN:VEVENT",
	"UID:lab@test",
	"DTSTAMP:20250301T000000Z",
	"DTSTART:20250224T110000Z",
	"DTEND:20250224T120000Z",
	"RRULE:FREQ=WEEKLY;COUNT=4",
	"SUMMARY:Lab",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:lab@test",
	"DTSTAMP:20250301T000000Z",
	"RECURRENCE-ID:20250303T110000Z",
	"DTSTART:20250303T140000Z",
	"DTEND:20250303T150000Z",
	"SUMMARY:Lab (moved)",
	"END:VEVENT",

	"END:VCALENDAR",
)

func TestImportICS(t *testing.T) {
	weekStart := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	s, err := ImportICS("test", sampleICS, weekStart)
	if err != nil {
		t.Fatalf("ImportICS: %v", err)
	}

	if got := strings.Join(s.Days, ","); got != "Monday,Tuesday" {
		t.Fatalf("Days = %s, want Monday,Tuesday", got)
	}

	mon := s.Select("Monday")
	if len(mon) != 2 {
		t.Fatalf("Monday = %+v, want 2 sessions", mon)
	}
	algo := mon[0]
	if algo.Name != "Design and Analysis of Algorithm" || algo.Window != window.MustParse("09:15-10:05") {
		t.Errorf("Monday[0] = %+v", algo)
	}
	if algo.CodeOrEmpty() != "BDA302-4N" {
		t.Errorf("code = %q, want first category", algo.CodeOrEmpty())
	}
	if algo.InstructorOrEmpty() != "Dr. Shilpa" {
		t.Errorf("instructor = %q, want organizer CN", algo.InstructorOrEmpty())
	}
	if algo.Location != "B417" {
		t.Errorf("location = %q", algo.Location)
	}

	lab := mon[1]
	if lab.Name != "Lab (moved)" || lab.Window != window.MustParse("14:00-15:00") {
		t.Errorf("Monday[1] = %+v, want moved lab instance", lab)
	}

	tue := s.Select("Tuesday")
	if len(tue) != 1 || tue[0].Name != "Project" {
		t.Errorf("Tuesday = %+v, want only Project", tue)
	}
	if tue[0].Code != nil || tue[0].Instructor != nil {
		t.Errorf("Project optional fields should be nil: %+v", tue[0])
	}

	for _, day := range []string{"Wednesday", "Thursday", "Friday", "Saturday"} {
		if got := s.Select(day); len(got) != 0 {
			t.Errorf("%s = %+v, want empty", day, got)
		}
	}
}

func TestImportICSEmpty(t *testing.T) {
	if _, err := ImportICS("empty", nil, time.Now()); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestParseICSTime(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"20250303T091500Z", time.Date(2025, 3, 3, 9, 15, 0, 0, time.UTC)},
		{"20250303T091500", time.Date(2025, 3, 3, 9, 15, 0, 0, loc)},
		{"20250303", time.Date(2025, 3, 3, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		got, err := parseICSTime(tt.in, loc)
		if err != nil {
			t.Fatalf("parseICSTime(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseICSTime(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := parseICSTime("  ", loc); err == nil {
		t.Error("expected error for blank value")
	}
}

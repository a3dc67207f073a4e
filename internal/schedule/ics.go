package schedule

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "timetable/internal/log"
	"timetable/internal/model"
	"timetable/internal/window"
)

// icsEvent is the subset of a VEVENT needed to place sessions on a week.
type icsEvent struct {
	UID string

	Summary    string
	Location   string
	Code       string
	Instructor string

	Start  time.Time
	End    time.Time
	AllDay bool

	RawRRule   string
	ExDates    []time.Time
	Recurrence *time.Time // RECURRENCE-ID, set on overridden instances
}

// occurrence is one concrete placement of an event inside the week.
type occurrence struct {
	start   time.Time
	end     time.Time
	session model.Session
}

// ImportICS projects the events of an ICS payload onto the week that
// begins at weekStart (inclusive) and lasts seven days.
//
// Recurring events are expanded only within that week. All-day events and
// events that do not start and end on the same local date are skipped.
// Sessions are named after their weekday and sorted chronologically within
// each day; days appear in the order they first occur in the week.
func ImportICS(sourceID string, body []byte, weekStart time.Time) (model.Schedule, error) {
	if len(body) == 0 {
		return model.Schedule{}, errors.New("schedule: empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return model.Schedule{}, fmt.Errorf("schedule: parse ICS %s: %w", sourceID, err)
	}

	loc := weekStart.Location()
	weekEnd := weekStart.AddDate(0, 0, 7)

	var base []icsEvent
	overrides := make(map[string][]icsEvent)
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve, loc)
		if perr != nil {
			// Skip this event, keep the rest of the feed.
			appLog.Warn("ics event skipped", "source", sourceID, "reason", perr.Error())
			continue
		}
		if ev.Recurrence != nil {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
		}
		base = append(base, ev)
	}

	var occs []occurrence
	skipped := 0
	for _, ev := range base {
		if ev.AllDay {
			skipped++
			continue
		}
		for _, start := range expandWithinWeek(ev, overrides[ev.UID], weekStart, weekEnd) {
			end := start.Add(ev.End.Sub(ev.Start))
			occ, ok := toOccurrence(ev, start.In(loc), end.In(loc))
			if !ok {
				skipped++
				appLog.Debug("ics occurrence skipped", "source", sourceID, "uid", ev.UID, "start", start)
				continue
			}
			occs = append(occs, occ)
		}
	}

	sort.SliceStable(occs, func(i, j int) bool { return occs[i].start.Before(occs[j].start) })

	s := model.NewSchedule()
	for _, o := range occs {
		s.Append(model.WeekdayName(o.start), o.session)
	}

	appLog.Info("ics import completed",
		"source", sourceID,
		"events", len(base),
		"sessions", s.Len(),
		"skipped", skipped,
		"week_start", weekStart,
	)
	return s, nil
}

// expandWithinWeek returns the start instants of ev inside [from, to).
func expandWithinWeek(ev icsEvent, overrides []icsEvent, from, to time.Time) []time.Time {
	if ev.RawRRule == "" || ev.Recurrence != nil {
		if !ev.Start.Before(from) && ev.Start.Before(to) {
			return []time.Time{ev.Start}
		}
		return nil
	}

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("ics: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}
	// An overridden instance is emitted by the override event itself.
	for _, ov := range overrides {
		set.ExDate(ov.Recurrence.In(ev.Start.Location()))
	}

	var out []time.Time
	for _, t := range set.Between(from.In(ev.Start.Location()), to.In(ev.Start.Location()), true) {
		if t.Before(to) {
			out = append(out, t)
		}
	}
	return out
}

func toOccurrence(ev icsEvent, start, end time.Time) (occurrence, bool) {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		return occurrence{}, false
	}
	w := window.TimeWindow{
		Start: window.TimeOfDay{Hour: start.Hour(), Minute: start.Minute()},
		End:   window.TimeOfDay{Hour: end.Hour(), Minute: end.Minute()},
	}
	if !w.Start.Before(w.End) {
		return occurrence{}, false
	}
	return occurrence{
		start: start,
		end:   end,
		session: model.Session{
			Window:     w,
			Name:       ev.Summary,
			Location:   ev.Location,
			Code:       model.Optional(ev.Code),
			Instructor: model.Optional(ev.Instructor),
		},
	}, true
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (icsEvent, error) {
	var out icsEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
		return out, fmt.Errorf("event %s is cancelled", out.UID)
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}
	if p := ve.GetProperty("CATEGORIES"); p != nil {
		first, _, _ := strings.Cut(p.Value, ",")
		out.Code = strings.TrimSpace(first)
	}
	if p := ve.GetProperty(ical.ComponentPropertyOrganizer); p != nil {
		if cn, ok := p.ICalParameters[string(ical.ParameterCn)]; ok && len(cn) > 0 {
			out.Instructor = cn[0]
		} else {
			out.Instructor = strings.TrimPrefix(strings.TrimPrefix(p.Value, "mailto:"), "MAILTO:")
		}
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("event %s: DTSTART: %w", out.UID, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, fmt.Errorf("event %s: DTEND: %w", out.UID, err)
	}
	out.Start = start
	out.End = end

	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
		if !strings.Contains(p.Value, "T") {
			out.AllDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, tzidOf(p.ICalParameters, loc)); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, err := parseICSTime(p.Value, tzidOf(p.ICalParameters, loc)); err == nil {
			out.Recurrence = &t
		}
	}

	return out, nil
}

// tzidOf resolves a TZID parameter, falling back to def.
func tzidOf(params map[string][]string, def *time.Location) *time.Location {
	if tzs, ok := params["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	return def
}

// parseICSTime parses the DATE / DATE-TIME forms used by EXDATE and
// RECURRENCE-ID.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

// Package board is the component that displays a schedule: it owns the
// day selection and the clock ticker and re-evaluates every visible
// session whenever either changes.
package board

import (
	"sync"
	"time"

	"timetable/internal/clock"
	appLog "timetable/internal/log"
	"timetable/internal/model"
	"timetable/internal/schedule"
	"timetable/internal/status"
)

// Entry is a session together with its status at Snapshot.Now.
type Entry struct {
	Session model.Session
	Status  status.Status
}

// Snapshot is everything a view needs to draw one frame.
type Snapshot struct {
	Now     time.Time
	Day     string
	Days    []string
	Entries []Entry
}

// Board wires a Selector to a Ticker.
//
// Open starts the ticker; Close stops it and is safe to call repeatedly,
// so callers can simply defer it right after a successful Open.
type Board struct {
	sel    *schedule.Selector
	ticker *clock.Ticker

	mu          sync.Mutex
	open        bool
	closed      bool
	unsubscribe func()
	updates     chan Snapshot
}

// New returns a closed Board. The Board takes ownership of ticker.
func New(sel *schedule.Selector, ticker *clock.Ticker) *Board {
	return &Board{
		sel:     sel,
		ticker:  ticker,
		updates: make(chan Snapshot, 1),
	}
}

// Open starts periodic re-evaluation.
func (b *Board) Open() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		return nil
	}
	if b.closed {
		return clock.ErrStopped
	}

	b.unsubscribe = b.ticker.Subscribe(func(now time.Time) {
		b.publish(b.snapshotAt(now))
	})
	if err := b.ticker.Start(); err != nil {
		b.unsubscribe()
		b.unsubscribe = nil
		return err
	}
	b.open = true
	appLog.Info("board opened", "day", b.sel.Selected(), "interval", b.ticker.Interval())
	return nil
}

// Close stops the ticker. No update is published after Close returns.
func (b *Board) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	wasOpen := b.open
	b.open = false
	unsub := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	b.ticker.Stop()
	if wasOpen {
		appLog.Info("board closed")
	}
}

// Refresh re-samples the clock now instead of waiting for the next tick.
func (b *Board) Refresh() {
	b.ticker.Refresh()
}

// Now is the ticker's current instant.
func (b *Board) Now() time.Time {
	return b.ticker.Now()
}

// Days returns the schedule's days in order.
func (b *Board) Days() []string {
	return b.sel.Days()
}

// Day is the selected day.
func (b *Board) Day() string {
	return b.sel.Selected()
}

// Snapshot evaluates the selected day at the current instant.
func (b *Board) Snapshot() Snapshot {
	return b.snapshotAt(b.ticker.Now())
}

// Entries evaluates the selected day at the current instant.
func (b *Board) Entries() []Entry {
	return b.Snapshot().Entries
}

// SelectDay changes the selected day and publishes the new snapshot.
func (b *Board) SelectDay(day string) Snapshot {
	b.sel.Select(day)
	snap := b.Snapshot()
	b.publish(snap)
	return snap
}

// Step moves the selection by delta days (wrapping) and publishes.
func (b *Board) Step(delta int) Snapshot {
	b.sel.Next(delta)
	snap := b.Snapshot()
	b.publish(snap)
	return snap
}

// DayEntries evaluates day at the current instant without changing the
// selection.
func (b *Board) DayEntries(day string) []Entry {
	return Evaluate(b.sel.Lookup(day), b.ticker.Now())
}

// Replace swaps the schedule (e.g. after re-importing feeds) and publishes.
func (b *Board) Replace(s model.Schedule) {
	b.sel.Replace(s)
	b.publish(b.Snapshot())
}

// Updates delivers a Snapshot after every tick and selection change.
// Only the latest snapshot is kept; a slow reader never blocks the ticker.
func (b *Board) Updates() <-chan Snapshot {
	return b.updates
}

func (b *Board) snapshotAt(now time.Time) Snapshot {
	day := b.sel.Selected()
	return Snapshot{
		Now:     now,
		Day:     day,
		Days:    b.sel.Days(),
		Entries: Evaluate(b.sel.Lookup(day), now),
	}
}

func (b *Board) publish(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	// Drop a stale pending snapshot, then send the fresh one.
	select {
	case <-b.updates:
	default:
	}
	select {
	case b.updates <- s:
	default:
	}
}

// Evaluate computes the status of every session at now, keeping order.
func Evaluate(sessions []model.Session, now time.Time) []Entry {
	out := make([]Entry, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, Entry{Session: s, Status: status.Evaluate(s.Window, now)})
	}
	return out
}

// Interval is how often the board re-evaluates.
func (b *Board) Interval() time.Duration { return b.ticker.Interval() }

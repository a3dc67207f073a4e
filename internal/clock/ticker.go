// Package clock holds the "current instant" that drives status
// re-evaluation, re-sampled on a fixed interval.
package clock

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "timetable/internal/log"
)

// DefaultInterval is how often the wall clock is re-sampled.
const DefaultInterval = time.Minute

// ErrStopped is returned by Start on a ticker that has been stopped.
var ErrStopped = errors.New("clock: ticker already stopped")

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// Ticker owns the current instant and a recurring job that refreshes it.
//
// A Ticker is created idle, runs after Start and is finished after Stop.
// Stop is idempotent and, once it returns, no subscriber is called again
// by this Ticker.
type Ticker struct {
	mu       sync.Mutex
	now      time.Time
	nowFunc  func() time.Time
	interval time.Duration
	loc      *time.Location

	state state
	cron  *cron.Cron

	// inflight counts ticks that are calling subscribers, whether cron or
	// Refresh started them.
	inflight sync.WaitGroup

	nextID int
	subs   map[int]func(time.Time)
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithInterval overrides DefaultInterval. cron schedules have one-second
// resolution, so d is truncated to whole seconds with a floor of one
// second, the same way cron.Every does.
func WithInterval(d time.Duration) Option {
	return func(t *Ticker) {
		if d > 0 {
			t.interval = wholeSeconds(d)
		}
	}
}

func wholeSeconds(d time.Duration) time.Duration {
	if d < time.Second {
		return time.Second
	}
	return d.Truncate(time.Second)
}

// WithNowFunc replaces time.Now as the wall clock source.
func WithNowFunc(fn func() time.Time) Option {
	return func(t *Ticker) {
		if fn != nil {
			t.nowFunc = fn
		}
	}
}

// WithLocation converts every sampled instant into loc, which decides
// which calendar date "today" is for evaluation.
func WithLocation(loc *time.Location) Option {
	return func(t *Ticker) {
		t.loc = loc
	}
}

// New creates an idle Ticker whose current instant is the creation time.
func New(opts ...Option) *Ticker {
	t := &Ticker{
		nowFunc:  time.Now,
		interval: DefaultInterval,
		subs:     make(map[int]func(time.Time)),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.now = t.sample()
	return t
}

// Interval returns the re-sample period.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Now returns the most recently sampled instant.
func (t *Ticker) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

// Running reports whether the recurring job is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateRunning
}

// Subscribe registers fn to receive every new instant. The returned
// function removes the subscription and is safe to call more than once.
func (t *Ticker) Subscribe(fn func(time.Time)) (cancel func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// Start begins re-sampling every interval. Calling Start on a running
// ticker is a no-op; calling it after Stop returns ErrStopped.
func (t *Ticker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateRunning:
		return nil
	case stateStopped:
		return ErrStopped
	}

	logger := appLog.CronLogger("clock")
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(cron.Every(t.interval), cron.FuncJob(t.tick))
	c.Start()

	t.cron = c
	t.state = stateRunning
	appLog.Info("clock ticker started", "interval", t.interval)
	return nil
}

// Stop cancels the recurring job and waits for every tick in flight,
// including one started by Refresh, to finish.
// It is safe to call any number of times, including on a ticker that was
// never started. Stop must not be called from inside a subscriber.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.state == stateStopped {
		t.mu.Unlock()
		return
	}
	wasRunning := t.state == stateRunning
	t.state = stateStopped
	c := t.cron
	t.cron = nil
	t.subs = make(map[int]func(time.Time))
	t.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	t.inflight.Wait()
	if wasRunning {
		appLog.Info("clock ticker stopped")
	}
}

// Refresh re-samples the clock immediately and publishes the new instant,
// as if the interval had elapsed. It does nothing unless the ticker is
// running.
func (t *Ticker) Refresh() {
	t.tick()
}

// tick re-samples the clock and publishes the new instant.
func (t *Ticker) tick() {
	t.mu.Lock()
	if t.state != stateRunning {
		t.mu.Unlock()
		return
	}
	now := t.sample()
	t.now = now
	subs := make([]func(time.Time), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.inflight.Add(1)
	t.mu.Unlock()
	defer t.inflight.Done()

	appLog.Debug("clock tick", "now", now, "subscribers", len(subs))
	for _, fn := range subs {
		fn(now)
	}
}

func (t *Ticker) sample() time.Time {
	now := t.nowFunc()
	if t.loc != nil {
		now = now.In(t.loc)
	}
	return now
}

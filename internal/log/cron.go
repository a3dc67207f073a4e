package log

import "github.com/robfig/cron/v3"

// cronLogger routes robfig/cron's internal logging through this package.
// cron logs every schedule/wake at Info, which is noise at our INFO level,
// so those lines go to DEBUG.
type cronLogger struct {
	component string
}

// CronLogger returns a cron.Logger tagged with the given component name.
func CronLogger(component string) cron.Logger {
	return cronLogger{component: component}
}

func (l cronLogger) Info(msg string, kv ...any) {
	Debug("cron: "+msg, append([]any{"component", l.component}, kv...)...)
}

func (l cronLogger) Error(err error, msg string, kv ...any) {
	Error("cron: "+msg, err, append([]any{"component", l.component}, kv...)...)
}

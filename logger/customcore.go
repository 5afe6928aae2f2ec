package logger

import (
	"go.uber.org/zap/zapcore"
)

// customCore moves the 'application' and 'version' fields to the end of every entry.
type customCore struct {
	zapcore.Core
}

// With adds structured context to the Core.
func (c *customCore) With(fields []zapcore.Field) zapcore.Core {
	return &customCore{c.Core.With(fields)}
}

// Write reorders the fields and hands the entry to the wrapped core.
func (c *customCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var trailing, leading []zapcore.Field
	for _, field := range fields {
		if field.Key == "application" || field.Key == "version" {
			trailing = append(trailing, field)
		} else {
			leading = append(leading, field)
		}
	}
	return c.Core.Write(entry, append(leading, trailing...))
}

// Check determines whether the supplied Entry should be logged.
func (c *customCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, c)
	}
	return checkedEntry
}

// Sync flushes buffered logs (if any).
func (c *customCore) Sync() error {
	return c.Core.Sync()
}

package authpkg

import (
	"fmt"

	"github.com/PurpleSec/logx"
)

// Log is the append-only debug log of one package. A nil *Log discards.
type Log struct {
	log    logx.Log
	prefix string
}

// NewLog wraps an existing logx.Log, tagging every line with name
func NewLog(name string, l logx.Log) *Log {
	return &Log{log: l, prefix: "[authpkg/" + name + "] "}
}

// OpenLog opens path for appending at the given level, falling back to
// the console when path is empty. With echo set, file output is also
// written to the console.
func OpenLog(name, path string, level logx.Level, echo bool) (*Log, error) {
	if path == "" {
		return NewLog(name, logx.Console(level)), nil
	}
	f, err := logx.File(path, level, logx.Append)
	if err != nil {
		return nil, fmt.Errorf("open log %q: %w", path, err)
	}
	if echo {
		return NewLog(name, logx.Multiple(f, logx.Console(level))), nil
	}
	return NewLog(name, f), nil
}

// Debug logs at debug level
func (l *Log) Debug(format string, v ...interface{}) {
	if l != nil {
		l.log.Debug(l.prefix+format, v...)
	}
}

// Info logs at info level
func (l *Log) Info(format string, v ...interface{}) {
	if l != nil {
		l.log.Info(l.prefix+format, v...)
	}
}

// Warning logs at warning level
func (l *Log) Warning(format string, v ...interface{}) {
	if l != nil {
		l.log.Warning(l.prefix+format, v...)
	}
}

// Error logs at error level
func (l *Log) Error(format string, v ...interface{}) {
	if l != nil {
		l.log.Error(l.prefix+format, v...)
	}
}

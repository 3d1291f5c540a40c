// Package log provides the named, leveled loggers used by the renderer
// subsystems. Each subsystem requests its own logger via New; verbosity and
// output destination are controlled globally.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Verbosity levels accepted by SetLevel, ordered from most to least chatty.
type Level logging.Level

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module} [%{level:.4s}]%{color:reset} %{message}`,
)

var backend logging.LeveledBackend

// Logger is the leveled logging surface handed out to subsystems.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Notice(args ...interface{})
	Noticef(format string, args ...interface{})

	Warning(args ...interface{})
	Warningf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns the logger registered under name. Calls with the same name
// share the same underlying logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects the output of every logger to w.
func SetSink(w io.Writer) {
	formatted := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(logging.NOTICE, "")
	logging.SetBackend(backend)
}

// SetLevel adjusts the verbosity threshold of every logger.
func SetLevel(level Level) {
	threshold := logging.NOTICE
	switch level {
	case Debug:
		threshold = logging.DEBUG
	case Info:
		threshold = logging.INFO
	case Warning:
		threshold = logging.WARNING
	case Error:
		threshold = logging.ERROR
	}

	backend.SetLevel(threshold, "")
}

func init() {
	SetSink(os.Stderr)
}

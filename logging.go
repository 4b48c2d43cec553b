package battletok

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes levelled, timestamped lines through charmbracelet/log.
type DefaultLogger struct {
	out *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(os.Stderr, prefix, debug)
}

// NewWriterLogger is NewDefaultLogger with an explicit destination.
func NewWriterLogger(w io.Writer, prefix string, debug bool) *DefaultLogger {
	l := &DefaultLogger{
		out: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          prefix,
		}),
	}
	l.SetDebug(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.out.GetLevel() <= log.DebugLevel
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.out.SetLevel(log.DebugLevel)
		return
	}
	l.out.SetLevel(log.InfoLevel)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.out.Debugf(format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.out.Infof(format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.out.Warnf(format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.out.Errorf(format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

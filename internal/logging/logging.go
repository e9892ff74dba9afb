// ABOUTME: Structured logger construction on charmbracelet/log.
// ABOUTME: Also adapts the logger to badger's Logger interface for the local backend.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New builds a stderr logger at the named level ("debug", "info", "warn", "error").
func New(level string) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		Prefix:          "dailylog",
		ReportTimestamp: true,
	}), nil
}

// Discard returns a logger that writes nowhere.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Badger adapts a logger to badger.Logger. Badger's info chatter is logged at debug.
type Badger struct {
	L *log.Logger
}

func (b Badger) Errorf(format string, args ...interface{}) {
	b.L.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (b Badger) Warningf(format string, args ...interface{}) {
	b.L.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (b Badger) Infof(format string, args ...interface{}) {
	b.L.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (b Badger) Debugf(format string, args ...interface{}) {
	b.L.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

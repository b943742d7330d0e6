/*
Package logging wraps zap behind named child loggers.

PURPOSE:
  One place to configure logging for the whole engine. Packages grab a
  named logger at init time and never touch zap configuration
  themselves. The default root logger is a no-op so the library stays
  silent when embedded; binaries install a real configuration at
  startup.

USAGE:
  var log = logging.GetLogger("record")
  log.Warnw("numeric field overflow", "field", name, "width", width)

SEE ALSO:
  - cmd/server/main.go: Installs the development configuration
*/
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop().Sugar()
)

// GetLogger returns a named child of the root logger. The child keeps
// tracking the root: reconfiguring the root after GetLogger still
// affects loggers handed out earlier.
func GetLogger(name string) *Logger {
	return &Logger{name: name}
}

// Initialize replaces the root logger. Pass nil to restore the no-op
// default.
func Initialize(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		root = zap.NewNop().Sugar()
		return
	}
	root = l.Sugar()
}

// InitializeDevelopment installs a human-readable console logger.
func InitializeDevelopment() error {
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	Initialize(l)
	return nil
}

// Logger is a named view over the root zap logger.
type Logger struct {
	name string
}

func (l *Logger) sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(l.name)
}

func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar().Debugw(msg, keysAndValues...)
}

func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar().Infow(msg, keysAndValues...)
}

func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar().Warnw(msg, keysAndValues...)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar().Errorw(msg, keysAndValues...)
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sync()
}

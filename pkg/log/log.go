// Package log provides structured logging for plantcare on top of zerolog.
//
// Two styles are supported. Estimators and services hold a named Logger and
// log with alternating key/value pairs:
//
//	logger := log.GetLoggerWithName("svm").With(log.ComponentKey, "svm")
//	logger.Info("Training started", log.SamplesKey, 17, log.FeaturesKey, 10)
//
// Call sites that want the full zerolog API use GetLogger directly:
//
//	log.GetLogger().Warn().Err(err).Str("phase", "prediction").Msg("model not trained")
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the key/value logging interface used by plantcare components.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	// With returns a child Logger that always carries the given pairs.
	With(keysAndValues ...interface{}) Logger
}

var (
	mu     sync.RWMutex
	global = newDefault(os.Stderr, zerolog.InfoLevel)
)

func newDefault(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetupLogger configures the global logger level. Unknown levels fall back to info.
// Output goes to stderr as a human readable console stream.
func SetupLogger(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	mu.Lock()
	global = newDefault(out, lvl)
	mu.Unlock()
}

// SetOutput replaces the global logger with a JSON logger writing to w.
// Mostly useful in tests.
func SetOutput(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	global = newDefault(w, lvl)
	mu.Unlock()
}

// GetLogger returns the global zerolog logger.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

// GetLoggerWithName returns a key/value Logger tagged with name.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zeroLogger{zl: global.With().Str(LoggerNameKey, name).Logger()}
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	l := GetLogger()
	l.Error().Err(err).Msg(msg)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Debug(), msg, keysAndValues)
}

func (l *zeroLogger) Info(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Info(), msg, keysAndValues)
}

func (l *zeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Warn(), msg, keysAndValues)
}

func (l *zeroLogger) Error(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Error(), msg, keysAndValues)
}

func (l *zeroLogger) With(keysAndValues ...interface{}) Logger {
	return &zeroLogger{zl: l.zl.With().Fields(pairs(keysAndValues)).Logger()}
}

func emit(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	if e == nil {
		return
	}
	e.Fields(pairs(keysAndValues)).Msg(msg)
}

// pairs drops a trailing key without a value so zerolog never sees an odd slice.
func pairs(keysAndValues []interface{}) []interface{} {
	if len(keysAndValues)%2 != 0 {
		return keysAndValues[:len(keysAndValues)-1]
	}
	return keysAndValues
}

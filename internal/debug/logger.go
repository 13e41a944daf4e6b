package debug

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger writes debug output to a file so it never competes with the TUI for
// the terminal. A disabled or nil Logger discards everything.
type Logger struct {
	enabled bool
	sugar   *zap.SugaredLogger
}

func NewLogger(enabled bool, path string) (*Logger, error) {
	if !enabled {
		return NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build debug logger: %w", err)
	}

	l := &Logger{enabled: true, sugar: zapLogger.Sugar()}
	l.Println("=== DEBUG MODE ENABLED ===")
	return l, nil
}

func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (d *Logger) IsEnabled() bool {
	return d != nil && d.enabled
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d.IsEnabled() {
		d.sugar.Debugf(format, args...)
	}
}

func (d *Logger) Println(args ...interface{}) {
	if d.IsEnabled() {
		d.sugar.Debug(fmt.Sprint(args...))
	}
}

// Debugw logs a message with structured key/value pairs.
func (d *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	if d.IsEnabled() {
		d.sugar.Debugw(msg, keysAndValues...)
	}
}

func (d *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	if d.IsEnabled() {
		d.sugar.Warnw(msg, keysAndValues...)
	}
}

func (d *Logger) Sync() {
	if d != nil && d.sugar != nil {
		_ = d.sugar.Sync()
	}
}

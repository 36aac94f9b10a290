package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is a thin chained wrapper over slog. Each With* call returns a copy
// so loggers can be stored on structs and scoped per function.
type Logger struct {
	slog *slog.Logger
}

func New(pkg string) Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return Logger{slog: slog.New(handler).With("package", pkg)}
}

func (l Logger) Function(name string) Logger {
	return Logger{slog: l.slog.With("function", name)}
}

func (l Logger) File(name string) Logger {
	return Logger{slog: l.slog.With("file", name)}
}

func (l Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Err logs the error with context and returns it wrapped for the caller.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.slog.Error(msg, append(args, "error", err)...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs an error without returning one, for paths that absorb the failure.
func (l Logger) Er(msg string, err error, args ...any) {
	l.slog.Error(msg, append(args, "error", err)...)
}

// Error logs and returns a new error built from msg.
func (l Logger) Error(msg string, args ...any) error {
	l.slog.Error(msg, args...)
	return fmt.Errorf("%s", msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.slog.Error(msg)
	return fmt.Errorf("%s", msg)
}

func (l Logger) ErMsg(msg string) {
	l.slog.Error(msg)
}

package logger

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Initialize installs the default logger. Warnings only unless verbose (info)
// or debug (debug level with source locations) is requested.
func Initialize(w io.Writer, debug, verbose bool) {
	level := slog.LevelWarn

	if debug {
		level = slog.LevelDebug
	} else if verbose {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}

	slog.SetDefault(slog.New(NewPrettyHandler(w, opts)))
}

type holder interface {
	Hold()
	Release() error
}

// HoldOutput keeps log records off the terminal while a live region (spinner,
// streamed transcript) owns it. The returned func writes the queued records;
// calling it more than once is a no-op. Loggers whose handler cannot hold
// write through as usual.
func HoldOutput(ctx context.Context) func() {
	h, ok := FromContext(ctx).Handler().(holder)
	if !ok {
		return func() {}
	}
	h.Hold()
	var once sync.Once
	return func() {
		once.Do(func() { _ = h.Release() })
	}
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).Error(msg, args...)
}

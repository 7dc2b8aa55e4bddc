package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level represents the minimum log level
type Level slog.Level

// Available log levels
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// Options configures a StructuredLogger.
type Options struct {
	Level Level

	// Writer receives the log output. Defaults to os.Stdout.
	Writer io.Writer

	// NoColor disables ANSI colors. When Writer is a terminal file descriptor
	// colors are enabled unless this is set.
	NoColor bool

	// OmitCaller drops the "caller" attribute from each record.
	OmitCaller bool
}

// StructuredLogger implements the Logger interface using slog
type StructuredLogger struct {
	logger     *slog.Logger
	omitCaller bool
}

// New returns a new StructuredLogger writing to stdout.
func New(level Level) *StructuredLogger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions returns a new StructuredLogger configured by opts.
func NewWithOptions(opts Options) *StructuredLogger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	noColor := opts.NoColor
	if f, ok := w.(*os.File); ok {
		noColor = noColor || !isatty.IsTerminal(f.Fd())
	} else {
		noColor = true
	}
	tintHandler := tint.NewHandler(w, &tint.Options{
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
		Level:      slog.Level(opts.Level),
	})
	return &StructuredLogger{
		logger:     slog.New(tintHandler),
		omitCaller: opts.OmitCaller,
	}
}

func (l *StructuredLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, l.withCaller(args...)...)
}

func (l *StructuredLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.withCaller(args...)...)
}

func (l *StructuredLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, l.withCaller(args...)...)
}

func (l *StructuredLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, l.withCaller(args...)...)
}

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...), omitCaller: l.omitCaller}
}

func (l *StructuredLogger) withCaller(args ...any) []any {
	if l.omitCaller {
		return args
	}
	const callerSkip = 2 // Skip withCaller and the logging method
	if _, file, line, ok := runtime.Caller(callerSkip); ok {
		caller := formatCaller(file, line)
		return append([]any{"caller", caller}, args...)
	}
	return args
}

func formatCaller(file string, line int) string {
	// Take the last two path components for readability
	parts := strings.Split(file, "/")
	switch len(parts) {
	case 0:
		return "unknown"
	case 1:
		return fmt.Sprintf("%s:%d", parts[0], line)
	default:
		return fmt.Sprintf("%s/%s:%d",
			parts[len(parts)-2],
			parts[len(parts)-1],
			line)
	}
}

package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pam-ai/pamgate/internal/util"
	"github.com/pam-ai/pamgate/theme"
)

type Config struct {
	Level      string
	LogDir     string
	Theme      string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	FileOutput bool
}

const (
	DefaultLogOutputName  = "pamgate.log"
	DefaultDetailedCookie = "detailed"

	LogLevelDebug    = "debug"
	LogLevelInfo     = "info"
	LogLevelWarn     = "warn"
	LogLevelWarning  = "warning"
	LogLevelError    = "error"
	LogLevelCritical = "critical"

	// LevelCritical sits above error, used when the gate or router degrades
	// to a fail-open path
	LevelCritical = slog.Level(12)
)

// New builds the process logger. The terminal always gets output, the
// rotated JSON file only when FileOutput is set.
func New(cfg *Config) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Level)

	terminal := terminalHandler(os.Stdout, level, theme.GetTheme(cfg.Theme))
	if !cfg.FileOutput {
		return slog.New(terminal), func() {}, nil
	}

	file, closer, err := fileHandler(cfg, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file handler: %w", err)
	}

	return slog.New(&teeHandler{terminal: terminal, file: file}), func() { _ = closer.Close() }, nil
}

func terminalHandler(w io.Writer, level slog.Level, appTheme *theme.Theme) slog.Handler {
	if !util.ShouldUseColors() {
		return jsonHandler(w, level)
	}

	plogger := pterm.DefaultLogger.
		WithLevel(convertToPTermLevel(level)).
		WithWriter(w).
		WithFormatter(pterm.LogFormatterColorful).
		WithKeyStyles(map[string]pterm.Style{
			"level": *appTheme.Info,
			"msg":   *appTheme.Info,
			"time":  *appTheme.Muted,
		})
	return pterm.NewSlogHandler(plogger)
}

func fileHandler(cfg *Config, level slog.Level) (slog.Handler, io.Closer, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, DefaultLogOutputName),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		LocalTime:  true,
		Compress:   true,
	}
	return jsonHandler(rotator, level), rotator, nil
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})
}

// replaceAttr keeps JSON records flat and free of terminal escapes
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok && level >= LevelCritical {
			a.Value = slog.StringValue("CRITICAL")
		}
		return a
	case slog.TimeKey:
		return slog.String("timestamp", a.Value.Time().Format(time.RFC3339Nano))
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if str := a.Value.String(); strings.ContainsRune(str, '\x1b') {
			a.Value = slog.StringValue(stripAnsiCodes(str))
		}
	case slog.KindDuration:
		a.Value = slog.StringValue(a.Value.Duration().String())
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			a.Value = slog.StringValue(err.Error())
		} else {
			a.Value = slog.StringValue(fmt.Sprintf("%v", a.Value.Any()))
		}
	}
	return a
}

// teeHandler writes every record to the file, detailed records (message
// previews, validator errors) skip the terminal
type teeHandler struct {
	terminal slog.Handler
	file     slog.Handler
}

func isDetailed(ctx context.Context) bool {
	detailed, _ := ctx.Value(DefaultDetailedCookie).(bool)
	return detailed
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.file.Enabled(ctx, level) || h.terminal.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	if !isDetailed(ctx) && h.terminal.Enabled(ctx, record.Level) {
		errs = append(errs, h.terminal.Handle(ctx, record.Clone()))
	}
	if h.file.Enabled(ctx, record.Level) {
		errs = append(errs, h.file.Handle(ctx, record))
	}
	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{terminal: h.terminal.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{terminal: h.terminal.WithGroup(name), file: h.file.WithGroup(name)}
}

var levels = map[string]slog.Level{
	LogLevelDebug:    slog.LevelDebug,
	LogLevelInfo:     slog.LevelInfo,
	LogLevelWarn:     slog.LevelWarn,
	LogLevelWarning:  slog.LevelWarn,
	LogLevelError:    slog.LevelError,
	LogLevelCritical: LevelCritical,
}

// parseLevel falls back to info for anything it does not know
func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

func convertToPTermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level >= LevelCritical:
		return pterm.LogLevelFatal
	case level >= slog.LevelError:
		return pterm.LogLevelError
	case level >= slog.LevelWarn:
		return pterm.LogLevelWarn
	case level >= slog.LevelInfo:
		return pterm.LogLevelInfo
	default:
		return pterm.LogLevelTrace
	}
}

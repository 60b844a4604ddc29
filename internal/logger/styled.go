package logger

import (
	"log/slog"

	"github.com/pam-ai/pamgate/internal/util"
	"github.com/pam-ai/pamgate/theme"
)

// StyledLogger is what every component logs through. The pretty variant
// colours model names and verdicts for the terminal, the plain variant is
// used for JSON output and tests.
type StyledLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Critical(msg string, args ...any)

	InfoWithCount(msg string, count int, args ...any)
	InfoWithModel(msg string, model string, args ...any)
	WarnWithModel(msg string, model string, args ...any)
	InfoHealthStatus(msg string, model string, healthy bool, args ...any)
	InfoVerdict(msg string, malicious bool, args ...any)
	InfoConfigChange(oldName, newName string)

	WarnWithContext(msg string, subject string, ctx LogContext)

	GetUnderlying() *slog.Logger
	With(args ...any) StyledLogger
	WithRequestID(requestID string) StyledLogger
}

// LogContext separates user-facing from detailed logging context
type LogContext struct {
	UserArgs     []any
	DetailedArgs []any
}

// NewStyledLogger picks the pretty logger on a colour terminal
func NewStyledLogger(logger *slog.Logger, appTheme *theme.Theme) StyledLogger {
	if appTheme != nil && util.ShouldUseColors() {
		return NewPrettyStyledLogger(logger, appTheme)
	}
	return NewPlainStyledLogger(logger)
}

func NewWithTheme(cfg *Config) (*slog.Logger, StyledLogger, func(), error) {
	logger, cleanup, err := New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	appTheme := theme.GetTheme(cfg.Theme)
	styledLogger := NewStyledLogger(logger, appTheme)

	return logger, styledLogger, cleanup, nil
}

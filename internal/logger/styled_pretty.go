package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pam-ai/pamgate/theme"
)

// PrettyStyledLogger implements StyledLogger with pterm formatting
type PrettyStyledLogger struct {
	logger *slog.Logger
	Theme  *theme.Theme
}

func NewPrettyStyledLogger(logger *slog.Logger, theme *theme.Theme) *PrettyStyledLogger {
	return &PrettyStyledLogger{
		logger: logger,
		Theme:  theme,
	}
}

func (sl *PrettyStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PrettyStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PrettyStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PrettyStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PrettyStyledLogger) Critical(msg string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", sl.Theme.Critical.Sprint(" CRITICAL "), msg)
	sl.logger.Log(context.Background(), LevelCritical, styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Counts.Sprint("(", count, ")"))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithModel(msg string, model string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Model.Sprint(model))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) WarnWithModel(msg string, model string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Model.Sprint(model))
	sl.logger.Warn(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoHealthStatus(msg string, model string, healthy bool, args ...any) {
	status := sl.Theme.Unhealthy.Sprint("Unhealthy")
	if healthy {
		status = sl.Theme.Healthy.Sprint("Healthy")
	}
	styledMsg := fmt.Sprintf("%s %s is %s", msg, sl.Theme.Model.Sprint(model), status)
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoVerdict(msg string, malicious bool, args ...any) {
	verdict := sl.Theme.Safe.Sprint("SAFE")
	if malicious {
		verdict = sl.Theme.Malicious.Sprint("MALICIOUS")
	}
	sl.logger.Info(fmt.Sprintf("[ %s ] %s", verdict, msg), args...)
}

func (sl *PrettyStyledLogger) InfoConfigChange(oldName, newName string) {
	styledMsg := fmt.Sprintf("Model configuration changed from %s to: %s",
		sl.Theme.Model.Sprint(oldName),
		sl.Theme.Model.Sprint(newName))
	sl.logger.Info(styledMsg)
}

func (sl *PrettyStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PrettyStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}

func (sl *PrettyStyledLogger) With(args ...any) StyledLogger {
	return &PrettyStyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}

func (sl *PrettyStyledLogger) WarnWithContext(msg string, subject string, ctx LogContext) {
	sl.logWithContext(slog.LevelWarn, msg, subject, ctx)
}

func (sl *PrettyStyledLogger) logWithContext(level slog.Level, msg string, subject string, ctx LogContext) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Highlight.Sprint(subject))
	sl.logger.Log(context.Background(), level, styledMsg, ctx.UserArgs...)

	logDetailed(sl.logger, level, msg, subject, ctx)
}

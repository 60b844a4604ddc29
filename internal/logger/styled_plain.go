package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// PlainStyledLogger implements StyledLogger without formatting
type PlainStyledLogger struct {
	logger *slog.Logger
}

func NewPlainStyledLogger(logger *slog.Logger) *PlainStyledLogger {
	return &PlainStyledLogger{
		logger: logger,
	}
}

func (sl *PlainStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PlainStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PlainStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PlainStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PlainStyledLogger) Critical(msg string, args ...any) {
	sl.logger.Log(context.Background(), LevelCritical, msg, args...)
}

func (sl *PlainStyledLogger) InfoWithCount(msg string, count int, args ...any) {
	styledMsg := fmt.Sprintf("%s (%d)", msg, count)
	sl.logger.Info(styledMsg, args...)
}

func (sl *PlainStyledLogger) InfoWithModel(msg string, model string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, model)
	sl.logger.Info(styledMsg, args...)
}

func (sl *PlainStyledLogger) WarnWithModel(msg string, model string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, model)
	sl.logger.Warn(styledMsg, args...)
}

func (sl *PlainStyledLogger) InfoHealthStatus(msg string, model string, healthy bool, args ...any) {
	statusText := "Unhealthy"
	if healthy {
		statusText = "Healthy"
	}
	styledMsg := fmt.Sprintf("%s %s is %s", msg, model, statusText)
	sl.logger.Info(styledMsg, args...)
}

func (sl *PlainStyledLogger) InfoVerdict(msg string, malicious bool, args ...any) {
	verdict := "SAFE"
	if malicious {
		verdict = "MALICIOUS"
	}
	sl.logger.Info(fmt.Sprintf("%s [%s]", msg, verdict), args...)
}

func (sl *PlainStyledLogger) InfoConfigChange(oldName, newName string) {
	styledMsg := fmt.Sprintf("Model configuration changed from %s to: %s", oldName, newName)
	sl.logger.Info(styledMsg)
}

func (sl *PlainStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PlainStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}

func (sl *PlainStyledLogger) With(args ...any) StyledLogger {
	return &PlainStyledLogger{
		logger: sl.logger.With(args...),
	}
}

func (sl *PlainStyledLogger) WarnWithContext(msg string, subject string, ctx LogContext) {
	sl.logWithContext(slog.LevelWarn, msg, subject, ctx)
}

func (sl *PlainStyledLogger) logWithContext(level slog.Level, msg string, subject string, ctx LogContext) {
	// CLI: clean messaging
	styledMsg := fmt.Sprintf("%s %s", msg, subject)
	sl.logger.Log(context.Background(), level, styledMsg, ctx.UserArgs...)

	logDetailed(sl.logger, level, msg, subject, ctx)
}

// logDetailed writes the full context to the file handler only
func logDetailed(logger *slog.Logger, level slog.Level, msg string, subject string, ctx LogContext) {
	if len(ctx.DetailedArgs) == 0 {
		return
	}

	allArgs := make([]any, 0, len(ctx.UserArgs)+len(ctx.DetailedArgs)+2)
	allArgs = append(allArgs, "subject", subject)
	allArgs = append(allArgs, ctx.UserArgs...)
	allArgs = append(allArgs, ctx.DetailedArgs...)

	detailedCtx := context.WithValue(context.Background(), DefaultDetailedCookie, true)
	logger.Log(detailedCtx, level, msg, allArgs...)
}

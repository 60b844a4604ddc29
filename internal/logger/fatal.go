package logger

import "os"

func FatalWithLogger(logger StyledLogger, msg string, args ...any) {
	logger.Critical(msg, args...)
	os.Exit(1)
}

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry that carries the service name on every line
type Logger struct {
	*logrus.Entry
}

// NewLogger creates a JSON logger writing to stdout
func NewLogger(serviceName, level string) *Logger {
	return NewLoggerWithOutput(serviceName, level, os.Stdout)
}

// NewLoggerWithOutput creates a JSON logger writing to out
func NewLoggerWithOutput(serviceName, level string, out io.Writer) *Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)
	log.SetLevel(parseLevel(level))

	return &Logger{Entry: log.WithField("service", serviceName)}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithRequestID adds request ID to logger
func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.WithField("request_id", requestID)
}

// WithUserID adds user ID to logger
func (l *Logger) WithUserID(userID uint64) *logrus.Entry {
	return l.WithField("user_id", userID)
}

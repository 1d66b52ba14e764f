package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates and configures a new structured logger
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()

	logger.SetOutput(os.Stdout)

	// Use JSON formatter for structured logging
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	logger.SetLevel(parseLogLevel(level))

	return logger
}

// parseLogLevel converts string log level to logrus.Level
func parseLogLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithJob returns a logger entry carrying the job id field
func WithJob(logger *logrus.Logger, jobID string) *logrus.Entry {
	return logger.WithField("job_id", jobID)
}

// WithScanner returns a logger entry carrying the scanner id field
func WithScanner(logger *logrus.Logger, scannerID string) *logrus.Entry {
	return logger.WithField("scanner_id", scannerID)
}

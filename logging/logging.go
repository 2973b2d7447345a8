// Package logging configures the structured logger used across the tool.
// Local runs get a colored text console; everything else gets JSON so the
// scheduler's log shipper can parse it.
package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Entry
}

// New builds a logger from the ENVIRONMENT and LOG_LEVEL variables.
func New() *Logger {
	base := logrus.New()

	env := os.Getenv("ENVIRONMENT")
	if env == "" || env == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}

	base.SetOutput(os.Stdout)
	base.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))

	return &Logger{Entry: logrus.NewEntry(base)}
}

// SetLevel overrides the level after construction (config beats env).
func (l *Logger) SetLevel(level string) {
	l.Logger.SetLevel(parseLevel(level))
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithRun tags every entry with the aggregation run id.
func (l *Logger) WithRun(runID string) *logrus.Entry {
	return l.WithField("run_id", runID)
}

// WithError standardizes error logging.
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}

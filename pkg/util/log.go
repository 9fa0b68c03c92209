package util

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Logs go to stderr so they never mix
// with command output.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(textFormatter())
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// SetLogLevel sets the logging level
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// SetJSONFormat switches to one JSON object per log line.
func SetJSONFormat() {
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
}

// SetLogFormat selects "text" or "json" output.
func SetLogFormat(format string) error {
	switch format {
	case "", "text":
		Logger.SetFormatter(textFormatter())
	case "json":
		SetJSONFormat()
	default:
		return fmt.Errorf("unknown log format %q (valid: text, json)", format)
	}
	return nil
}

// WithField returns a logger with a field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithResource returns a logger scoped to a backend resource (address, link, route).
func WithResource(resource string) *logrus.Entry {
	return Logger.WithField("resource", resource)
}

// WithOperation returns a logger for one create or delete against resource.
func WithOperation(operation, resource string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		"operation": operation,
		"resource":  resource,
	})
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

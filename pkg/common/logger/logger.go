package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before Init so that library code and tests never hit a nil logger.
var Log = logrus.New()

func Init(level string) {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	Log.SetLevel(parseLevel(level))
}

func parseLevel(level string) logrus.Level {
	if level == "" {
		return logrus.InfoLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Log.WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}

// WithMapping tags entries with the mapping id. Record contents are never logged.
func WithMapping(id string) *logrus.Entry {
	return Log.WithField("mapping_id", id)
}

// Package logging configures the shared structured logger. All analysis
// components log through logrus with field-based context; malformed-input
// conditions are logged at Debug and never surfaced as errors.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger from the configured level and environment.
// Production environments log JSON for ingestion; everything else logs
// human-readable text with timestamps.
func NewLogger(level, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

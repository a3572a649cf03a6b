package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a structured JSON logger at the requested level
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	parsedLevel, parseError := logrus.ParseLevel(level)
	if parseError != nil {
		parsedLevel = logrus.InfoLevel
	}
	log.SetLevel(parsedLevel)

	return log
}

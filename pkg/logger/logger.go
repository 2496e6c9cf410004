package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the service-wide structured logger. Level comes from
// LOG_LEVEL; anything unparsable falls back to info.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger and returns it.
func Setup(level, format string) *log.Logger {
	logger := log.StandardLogger()
	logger.SetOutput(os.Stdout)

	switch format {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.WithError(err).Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

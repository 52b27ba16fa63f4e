package logger

import (
	"strings"

	"github.com/egyoss/insights-backend/config"
	"github.com/sirupsen/logrus"
)

var levels = map[string]logrus.Level{
	"panic": logrus.PanicLevel,
	"error": logrus.ErrorLevel,
	"warn":  logrus.WarnLevel,
	"info":  logrus.InfoLevel,
	"debug": logrus.DebugLevel,
}

// Setup configures the process wide logrus logger from the LOGS section
// of the configuration
func Setup(cfg config.Config) {
	if cfg.Logs.OutputLogsAsJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logrus.SetLevel(ParseLevel(cfg.Logs.Level))
}

// ParseLevel maps a configuration string to a logrus level, case
// insensitive. Unknown values fall back to error so a typo never turns
// logging off completely.
func ParseLevel(logLevel string) logrus.Level {
	if level, found := levels[strings.ToLower(logLevel)]; found {
		return level
	}

	return logrus.ErrorLevel
}

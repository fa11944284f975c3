package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger.
var Log = logrus.New()

// InitLogger configures the shared logger from LOG_LEVEL.
func InitLogger() {
	Log.SetOutput(os.Stdout)
	level := "info"
	if AppConfig != nil {
		level = AppConfig.App.LogLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
	if AppConfig != nil && AppConfig.App.IsProduction() {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
}

package cmd

import (
	"os"

	"rewardbot/config"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets the global logrus level and formatter. Production
// logs are JSON for ingestion; everything else gets the text formatter.
func ConfigureLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// fieldsHook stamps every entry with the process identity so lines from
// several instances can be told apart once aggregated.
type fieldsHook struct {
	fields logrus.Fields
}

func (h *fieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, set := entry.Data[k]; !set {
			entry.Data[k] = v
		}
	}
	return nil
}

// InitLogger configures the shared logger from LOG_LEVEL and LOG_FORMAT.
func InitLogger(appName string) {
	Logger.SetOutput(os.Stdout)

	levelName := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		Logger.Warnf("Invalid LOG_LEVEL %q, using info", levelName)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	fields := logrus.Fields{"app": appName}
	if env := os.Getenv("ENV"); env != "" {
		fields["env"] = env
	}
	Logger.AddHook(&fieldsHook{fields: fields})
}

package logging

import (
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const (
	prefix = "minichain"
)

var (
	logger *logrus.Entry
)

type Fields = logrus.Fields

func SetLevel(l logrus.Level) {
	logger.Logger.SetLevel(l)
}

func init() {
	if logger == nil {
		l := logrus.New()
		l.Formatter = &prefixed.TextFormatter{FullTimestamp: true}
		logger = l.WithField("prefix", prefix)
	}
}

// SetFile mirrors every log level into the file at path
func SetFile(path string) {
	if path == "" {
		return
	}

	logger.Logger.Hooks.Add(lfshook.NewHook(path, &logrus.JSONFormatter{}))
}

func WithError(e error) *logrus.Entry {
	return logger.WithError(e)
}

func Entry() *logrus.Entry {
	return logger
}

// Component returns a logger tagged with the component name
func Component(name string) *logrus.Entry {
	return logger.WithField("component", name)
}

func Error(args ...interface{}) {
	logger.Error(args...)
}

// Package logger wraps logrus with the logging conventions shared by the demo
// components: a configurable level, an optional log file, and printf-style
// leveled helpers.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000",
	})
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(os.Stdout)
}

// Setup reconfigures the logger from the loaded configuration. An empty level
// keeps the current one; an empty filename keeps stdout-only output.
func Setup(level string, filename string) {
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			log.Warnf("Unknown log level '%s', keeping '%s'", level, log.GetLevel())
		} else {
			log.SetLevel(parsed)
		}
	}
	if filename != "" {
		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			log.Errorf("Could not open log file '%s': %v", filename, err)
			return
		}
		log.SetOutput(io.MultiWriter(os.Stdout, file))
	}
}

func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

func Info(format string, args ...any) {
	log.Infof(format, args...)
}

func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

func Error(format string, args ...any) {
	log.Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	log.Fatalf(format, args...)
}

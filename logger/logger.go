// Package logger configures the process-wide logrus logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init sets the logrus format, output, and level. level is one of debug,
// info, warn, error (anything else falls back to info). If file is
// non-empty the log is appended there, otherwise it goes to stderr.
func Init(level, file string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	out := os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err,
				"path":  file,
			}).Error("logger: Failed to open log file, using stderr")
		} else {
			out = f
		}
	}
	logrus.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

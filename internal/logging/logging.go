// Package logging owns the shared application logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance. Setup replaces its configuration at
// boot; until then it logs at info level to stdout.
var Log = logrus.New()

// Setup configures the shared logger from the configured level. An
// unparseable level falls back to info.
func Setup(level string) {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	Log.SetLevel(lv)
}

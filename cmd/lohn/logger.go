package main

import (
	"github.com/sirupsen/logrus"
)

// cliLogger implements calculation.Logger on top of logrus
type cliLogger struct {
	entry *logrus.Entry
}

func newCLILogger(debug bool) cliLogger {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	return cliLogger{entry: logrus.WithField("module", "lohn")}
}

func (l cliLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l cliLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l cliLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l cliLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

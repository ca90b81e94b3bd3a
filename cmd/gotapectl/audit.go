package main

import (
	"io"
	"log/syslog"
	"os"

	"github.com/sirupsen/logrus"
	lSyslog "github.com/sirupsen/logrus/hooks/syslog"
)

// newAuditLogger returns the logger used for operations that change
// drive state. Records go to syslog so they land next to the rest of
// the host audit trail. When syslog is unreachable, typically inside
// a container, records fall back to stderr.
func newAuditLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(io.Discard)
	hook, err := lSyslog.NewSyslogHook("", "", syslog.LOG_NOTICE|syslog.LOG_AUTH, programName)
	if err != nil {
		l.SetOutput(os.Stderr)
		return l
	}
	l.AddHook(hook)
	return l
}

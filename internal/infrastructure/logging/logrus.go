// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup applies level and format ("json" or "text") to the standard logger
// and returns it. An unknown level falls back to info.
func Setup(level, format string, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stdout
	}
	l := logrus.StandardLogger()
	l.SetOutput(out)
	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// LogError logs err with the calling module and function attached.
func LogError(logger logrus.FieldLogger, moduleName, funcName string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}

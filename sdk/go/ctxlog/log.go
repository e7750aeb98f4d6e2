// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package ctxlog passes request- and command-scoped loggers through
// contexts.
package ctxlog

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type contextKeyLogger struct{}

var rootLogger = logrus.New()

const rfc3339NanoFixed = "2006-01-02T15:04:05.000000000Z07:00"

// Context returns a child of ctx that carries logger.
func Context(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, contextKeyLogger{}, logger)
}

// FromContext returns the logger attached to ctx by Context, or a
// logger with no fields if there is none.
func FromContext(ctx context.Context) logrus.FieldLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKeyLogger{}).(logrus.FieldLogger); ok {
			return logger
		}
	}
	return rootLogger.WithFields(nil)
}

// New returns a logger writing to out in the given format ("text" or
// "json", default json) at the given level (default info). Callers
// should validate format and level first: unknown values are fatal.
func New(out io.Writer, format, level string) *logrus.Logger {
	logger := logrus.New()
	logger.Out = out
	setFormat(logger, format)
	setLevel(logger, level)
	return logger
}

// TestLogger returns a text logger that writes to a check.v1 test
// log. The level is debug if MLPLANE_DEBUG is set (and not "0"),
// otherwise info.
func TestLogger(c interface{ Log(...interface{}) }) *logrus.Logger {
	level := "info"
	if d := os.Getenv("MLPLANE_DEBUG"); d != "" && d != "0" {
		level = "debug"
	}
	return New(testLogWriter(c.Log), "text", level)
}

func setLevel(logger *logrus.Logger, level string) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("LogLevel", level).Fatal("unknown log level")
	}
	logger.Level = lvl
}

func setFormat(logger *logrus.Logger, format string) {
	switch format {
	case "text":
		logger.Formatter = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: rfc3339NanoFixed,
		}
	case "json", "":
		logger.Formatter = &logrus.JSONFormatter{
			TimestampFormat: rfc3339NanoFixed,
		}
	default:
		logrus.WithField("LogFormat", format).Fatal("unknown log format")
	}
}

// testLogWriter sends each log entry, minus its trailing newline, to
// a test's Log func.
type testLogWriter func(...interface{})

func (w testLogWriter) Write(buf []byte) (int, error) {
	w(string(buf[:len(buf)-1]))
	return len(buf), nil
}

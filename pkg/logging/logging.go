// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"io"
	"log/slog"
	"os"
)

// InitLogging installs the default logger on stderr. logLevel is a slog level
// name; every -v flag lowers the threshold by one step down to debug.
func InitLogging(logLevel string, verbosity int) error {
	return initLogging(os.Stderr, logLevel, verbosity)
}

func initLogging(w io.Writer, logLevel string, verbosity int) error {
	l, err := Level(logLevel, verbosity)
	if err != nil {
		return err
	}

	slogHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(slogHandler))
	return nil
}

// Level combines a configured level with a -v count. The more verbose of the
// two wins.
func Level(logLevel string, verbosity int) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(logLevel)); err != nil {
		return l, err
	}

	var fromFlags slog.Level
	switch {
	case verbosity <= 0:
		return l, nil
	case verbosity == 1:
		fromFlags = slog.LevelWarn
	case verbosity == 2:
		fromFlags = slog.LevelInfo
	default:
		fromFlags = slog.LevelDebug
	}
	return min(l, fromFlags), nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog.Logger for the vault client.
//
// Logger embeds zerolog.Logger, so the zerolog event methods are available
// directly on *Logger. Components receive a *Logger at construction and
// derive tagged children from it with Named and ForOperation.
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

func init() {
	zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"
}

func build(role string, w io.Writer) *Logger {
	return &Logger{zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()}
}

// NewLogger returns a debug-level JSON logger writing to w, tagged with role.
func NewLogger(role string, w io.Writer) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return build(role, w)
}

// NewClientLogger builds the logger of the command line client. Entries go to
// path when it is set, otherwise to stderr so that stdout stays reserved for
// command output. level is parsed with zerolog.ParseLevel; an empty level
// means info.
//
// The returned closer releases the log file and is never nil.
func NewClientLogger(role, path, level string) (*Logger, io.Closer, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing log level %q: %w", level, err)
		}
		lvl = parsed
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if path != "" {
		logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening log file: %w", err)
		}
		out, closer = logFile, logFile
	}

	zerolog.SetGlobalLevel(lvl)
	return build(role, out), closer, nil
}

// Nop returns a *Logger that discards everything.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// Named returns a child logger tagged with a component field.
func (l *Logger) Named(component string) *Logger {
	return &Logger{l.With().Str("component", component).Logger()}
}

// ForOperation returns a child logger tagged with an operation's name and id.
func (l *Logger) ForOperation(name, id string) *Logger {
	return &Logger{l.With().Str("op", name).Str("op_id", id).Logger()}
}

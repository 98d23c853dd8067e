// SPDX-License-Identifier: MPL-2.0

// Package logging provides the shared robolab logger.
//
// All subsystems log through the same charmbracelet/log logger so output
// formatting, levels, and the verbose toggle stay consistent across the CLI.
// Subsystems that want their own prefix (e.g. "pack", "provision") derive a
// sub-logger via WithPrefix.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.Mutex
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "robolab",
		ReportTimestamp: false,
	})
)

// Default returns the shared logger.
func Default() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetVerbose toggles debug-level output on the shared logger.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects the shared logger, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// WithPrefix returns a sub-logger labeled with a subsystem prefix.
func WithPrefix(prefix string) *log.Logger {
	return Default().WithPrefix(prefix)
}

// Debug logs a message at debug level with optional key-value pairs.
func Debug(msg any, keyvals ...any) { Default().Debug(msg, keyvals...) }

// Info logs a message at info level with optional key-value pairs.
func Info(msg any, keyvals ...any) { Default().Info(msg, keyvals...) }

// Warn logs a message at warn level with optional key-value pairs.
func Warn(msg any, keyvals ...any) { Default().Warn(msg, keyvals...) }

// Error logs a message at error level with optional key-value pairs.
func Error(msg any, keyvals ...any) { Default().Error(msg, keyvals...) }

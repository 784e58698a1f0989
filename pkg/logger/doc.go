// Package logger provides the structured logging interface used across pixabaydl.
//
// It wraps zerolog behind a small Logger interface with support for:
// - Multiple log levels (Debug, Info, Warn, Error)
// - Structured fields via WithField / WithFields / WithError
// - Colored console output on stderr, optionally mirrored to a log file
// - A global logger for packages that are not handed one explicitly
//
// Basic Usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("image_id", 1234).Info("Resolving image url")
//
// Components take a Logger in their constructors and fall back to
// logger.GetLogger() when given nil. Tests use NewTestLogger to capture
// messages or NewNopLogger to discard them.
package logger

package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs HTTP request information on l
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration":    duration,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		l.DebugWithFields("HTTP request completed", fields)
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	default:
		l.WarnWithFields("HTTP request client error", fields)
	}
}

// LogResolve logs the outcome of resolving one image id
func LogResolve(l Logger, imageID int, url string, err error) {
	entry := l.WithField("image_id", imageID)
	if err != nil {
		entry.WithError(err).Warn("Unable to resolve image url")
		return
	}
	entry.WithField("url", url).Debug("Image url resolved")
}

// LogDownload logs download operations
func LogDownload(l Logger, imageID int, url string, size int64, err error) {
	entry := l.WithFields(map[string]interface{}{
		"image_id": imageID,
		"url":      url,
	})

	if err != nil {
		entry.WithError(err).Warn("Unable to download image")
		return
	}
	entry.WithField("size", size).Debug("Image downloaded")
}

// LogPhase logs the completion of a pipeline phase with its elapsed time
func LogPhase(l Logger, phase string, elapsed time.Duration, counts map[string]interface{}) {
	fields := map[string]interface{}{
		"phase":   phase,
		"elapsed": elapsed,
	}
	for k, v := range counts {
		fields[k] = v
	}
	l.InfoWithFields("Phase completed", fields)
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}

func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

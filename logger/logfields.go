// logfields.go
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogRequestEnd logs the completion of an HTTP request, including the HTTP method, URL, status code, and duration.
func (d *defaultLogger) LogRequestEnd(event string, method string, url string, statusCode int, duration time.Duration, fields ...zapcore.Field) {
	if d.logLevel > LogLevelInfo {
		return
	}
	base := []zap.Field{
		zap.String("event", event),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Duration("duration", duration),
	}
	d.logger.Info("HTTP request completed", append(base, fields...)...)
}

// LogError logs an error that occurred while talking to the server, including the raw server response.
func (d *defaultLogger) LogError(event string, method string, url string, statusCode int, serverStatusMessage string, err error, rawResponse string) {
	if d.logLevel > LogLevelError {
		return
	}
	errorMessage := ""
	if err != nil {
		errorMessage = err.Error()
	}
	d.logger.Error("Error during HTTP request",
		zap.String("event", event),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.String("status_message", serverStatusMessage),
		zap.String("error_message", errorMessage),
		zap.String("raw_response", rawResponse),
	)
}

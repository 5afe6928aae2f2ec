// loggerconfig.go
package logger

import (
	"fmt"

	"github.com/deploymenttheory/go-jamfpi/version"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogOutputJSON          = "json"
	LogOutputHumanReadable = "human-readable"
)

// BuildLogger creates and returns a new zap backed Logger.
// JSON is the default encoding; LogOutputHumanReadable switches to the console encoder with
// coloured levels. The 'application' and 'version' fields are always written last.
func BuildLogger(logLevel LogLevel, logOutputFormat string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(convertToZapLevel(logLevel)),
		Development:       false,
		Encoding:          "json",
		DisableCaller:     true,
		DisableStacktrace: true,
		Sampling:          nil,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields: map[string]interface{}{
			"application": version.GetAppName(),
			"version":     version.GetVersion(),
		},
	}

	if logOutputFormat == LogOutputHumanReadable {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return &defaultLogger{
		logger:   zap.New(&customCore{logger.Core()}),
		logLevel: logLevel,
	}
}

// NewNopLogger returns a Logger that discards every entry.
func NewNopLogger() Logger {
	return &defaultLogger{
		logger:   zap.NewNop(),
		logLevel: LogLevelNone,
	}
}

// NewLoggerFromZap wraps an existing zap logger, for callers that already own one.
func NewLoggerFromZap(zl *zap.Logger, logLevel LogLevel) Logger {
	return &defaultLogger{
		logger:   zl,
		logLevel: logLevel,
	}
}

// convertToZapLevel converts the custom LogLevel to a zapcore.Level
func convertToZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zap.DebugLevel
	case LogLevelInfo:
		return zap.InfoLevel
	case LogLevelWarn:
		return zap.WarnLevel
	case LogLevelError:
		return zap.ErrorLevel
	case LogLevelDPanic:
		return zap.DPanicLevel
	case LogLevelPanic:
		return zap.PanicLevel
	case LogLevelFatal:
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

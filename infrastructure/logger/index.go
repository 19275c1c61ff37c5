package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

type LoggerOptions struct {
	Key  string
	Data interface{}
}

// Used to initialise the process-wide zap logger. Must run before any other
// service starts so their start-up logs are not dropped.
func InitializeLogger() {
	var err error
	if os.Getenv("ENV") == "prod" {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
}

// This logs info level messages.
func Info(msg string, payload ...LoggerOptions) {
	zapFields := []zapcore.Field{}
	for _, data := range payload {
		zapFields = append(zapFields, zap.Any(data.Key, data.Data))
	}
	Logger.Info(msg, zapFields...)
}

// This logs error messages.
// describe the incident in msg and pass the error through logger options
// with key error
func Error(msg string, payload ...LoggerOptions) {
	zapFields := []zapcore.Field{}
	for _, data := range payload {
		zapFields = append(zapFields, zap.Any(data.Key, data.Data))
	}
	Logger.Error(msg, zapFields...)
}

// This logs warning messages.
func Warning(msg string, payload ...LoggerOptions) {
	zapFields := []zapcore.Field{}
	for _, data := range payload {
		zapFields = append(zapFields, zap.Any(data.Key, data.Data))
	}
	Logger.Warn(msg, zapFields...)
}

// Package logger configures the process-wide zap logger. The plugin
// protocol owns stdout (protoc reads the response there), so log output
// goes to stderr, or to LOG_FILE when set. LOG_LEVEL picks the level,
// defaulting to info.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noom/swift-protobuf/internal/help"
)

type fileSink struct {
	fd *os.File
}

func (c fileSink) Write(p []byte) (n int, err error) {
	return c.fd.Write(p)
}

func (c fileSink) Sync() error {
	return c.fd.Sync()
}

var logLevel = help.StringOrDefault(os.Getenv("LOG_LEVEL"), "info")

func getLogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func getFd() *os.File {
	logPath := os.Getenv("LOG_FILE")
	if logPath != "" {
		if _, err := os.Stat(logPath); os.IsNotExist(err) {
			f, err := os.Create(logPath)
			if err != nil {
				panic(err)
			}
			return f
		}
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err)
		}
		// flush file
		if err := f.Truncate(0); err != nil {
			panic(err)
		}
		if _, err := f.Seek(0, 0); err != nil {
			panic(err)
		}
		return f
	}
	return os.Stderr
}

var Logger = zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(
	zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}), &fileSink{fd: getFd()}, getLogLevel())).Named("protoc-gen-swift")

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

package logutils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerSettings selects where and how verbosely the service logs.
type LoggerSettings struct {
	Enabled         bool
	Level           string
	File            string
	MaxSize         int
	MaxBackups      int
	CompressRotated bool
}

// ZapLogger builds the service logger. Without a file it writes console lines
// to stderr; with one it writes JSON lines through the rotation module.
func ZapLogger(settings LoggerSettings) *zap.Logger {
	if !settings.Enabled {
		return zap.NewNop()
	}

	level := zapcore.InfoLevel
	if settings.Level != "" {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(settings.Level)); err == nil {
			level = parsed
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var core zapcore.Core
	if settings.File != "" {
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), rotatedSyncer(settings), level)
	} else {
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	}
	return zap.New(core, zap.AddCaller())
}

// rotatedSyncer writes through lumberjack so the log file rolls over by
// size instead of growing without bound.
func rotatedSyncer(settings LoggerSettings) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   settings.File,
		MaxSize:    settings.MaxSize, // megabytes
		MaxBackups: settings.MaxBackups,
		Compress:   settings.CompressRotated,
	})
}

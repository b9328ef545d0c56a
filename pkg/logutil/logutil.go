// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logutil provides the process-global zap logger.
package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the global logger.
type LogConfig struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	Level string `toml:"level"`
	// Format selects the encoder: console or json.
	Format string `toml:"format"`
	// Filename, when set, routes output to a rotated file instead of
	// stderr.
	Filename string `toml:"filename"`
	// MaxSize is the maximum size of a log file in MB before rotation.
	MaxSize int `toml:"max-size"`
	// MaxDays is the number of days to retain rotated files.
	MaxDays int `toml:"max-days"`
	// MaxBackups is the number of rotated files to retain.
	MaxBackups int `toml:"max-backups"`
}

func (cfg *LogConfig) adjust() {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "console"
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 512
	}
}

var globalLogger atomic.Value // *zap.Logger

// SetupGlobalLogger replaces the global logger according to cfg.
func SetupGlobalLogger(cfg LogConfig) {
	globalLogger.Store(newLogger(cfg))
}

// GetGlobalLogger returns the global logger, installing a default console
// logger on first use.
func GetGlobalLogger() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l.(*zap.Logger)
	}
	SetupGlobalLogger(LogConfig{})
	return globalLogger.Load().(*zap.Logger)
}

func newLogger(cfg LogConfig) *zap.Logger {
	cfg.adjust()

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	if cfg.Filename != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxDays,
			MaxBackups: cfg.MaxBackups,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetGlobalLogger().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	GetGlobalLogger().Fatal(msg, fields...)
}

func Debugf(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Debugf(msg, args...)
}

func Infof(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Infof(msg, args...)
}

func Warnf(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Warnf(msg, args...)
}

func Errorf(msg string, args ...interface{}) {
	GetGlobalLogger().Sugar().Errorf(msg, args...)
}

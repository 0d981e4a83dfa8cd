// Package logger 提供按配置构建的 zerolog 日志器。
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSize    = 100 // MB
	defaultMaxBackups = 5
	defaultMaxAge     = 30 // days
)

// Config 日志配置
type Config struct {
	Level string
	// File 为空时以控制台格式输出到 Console，否则以 JSON 写入轮转文件
	File    string
	Console io.Writer
}

// New 创建日志器，返回的 cleanup 用于关闭日志文件
func New(cfg Config) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    defaultMaxSize,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAge,
			Compress:   true,
		}
		logger := zerolog.New(rotator).Level(level).With().Timestamp().Logger()
		return logger, rotator.Close, nil
	}

	out := cfg.Console
	if out == nil {
		out = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	logger := zerolog.New(console).Level(level).With().Timestamp().Logger()
	return logger, func() error { return nil }, nil
}

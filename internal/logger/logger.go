/*
 * MIT License
 *
 * Copyright (c) 2025 linux.do
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package logger provides the process-wide structured logger.
// Records go to the console and, when a file is configured, to a rotated
// JSON log. Context-aware helpers attach records to the active span.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志初始化选项
type Options struct {
	Level      string
	File       string // 为空时只输出到控制台
	MaxSize    int    // MB
	MaxBackups int
	MaxAge     int       // days
	Console    io.Writer // 默认 os.Stderr
}

var (
	mu      sync.RWMutex
	current = otelzap.New(zap.NewNop())
	closers []io.Closer
)

// Init 初始化全局日志
func Init(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalLevelEncoder))
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), level),
	}

	var fileWriter *lumberjack.Logger
	if opts.File != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   true,
		}
		jsonEncoder := zapcore.NewJSONEncoder(encoderConfig(zapcore.LowercaseLevelEncoder))
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(fileWriter), level))
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	l := otelzap.New(zl, otelzap.WithMinLevel(level), otelzap.WithTraceIDField(true))

	mu.Lock()
	prev := closers
	current = l
	closers = nil
	if fileWriter != nil {
		closers = append(closers, fileWriter)
	}
	mu.Unlock()

	for _, c := range prev {
		_ = c.Close()
	}
	return nil
}

// ParseLevel 解析日志级别，空字符串视为 info
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logger: invalid log level %q", level)
	}
}

func encoderConfig(levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = levelEncoder
	return cfg
}

func get() *otelzap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// L 返回底层 zap 日志，用于结构化字段
func L() *zap.Logger {
	return get().Logger
}

// Ctx 返回绑定上下文的日志，记录会关联到当前 span
func Ctx(ctx context.Context) otelzap.LoggerWithCtx {
	return get().Ctx(ctx)
}

// Sync 刷新缓冲并关闭日志文件
func Sync() error {
	err := L().Sync()

	mu.Lock()
	cs := closers
	closers = nil
	mu.Unlock()

	for _, c := range cs {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return ignoreSyncError(err)
}

// ignoreSyncError drops the EINVAL/ENOTTY returned when syncing a terminal.
func ignoreSyncError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl") {
		return nil
	}
	return err
}

func DebugF(ctx context.Context, format string, args ...interface{}) {
	get().Sugar().DebugfContext(ctx, format, args...)
}

func InfoF(ctx context.Context, format string, args ...interface{}) {
	get().Sugar().InfofContext(ctx, format, args...)
}

func WarnF(ctx context.Context, format string, args ...interface{}) {
	get().Sugar().WarnfContext(ctx, format, args...)
}

func ErrorF(ctx context.Context, format string, args ...interface{}) {
	get().Sugar().ErrorfContext(ctx, format, args...)
}

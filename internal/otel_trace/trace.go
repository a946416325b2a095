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

package otel_trace

import (
	"context"
	"sync"

	"github.com/xingzuo/appgroup/internal/config"
	"github.com/xingzuo/appgroup/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/xingzuo/appgroup"

var (
	mu            sync.RWMutex
	Tracer        trace.Tracer = noop.NewTracerProvider().Tracer("noop")
	shutdownFuncs []func(context.Context) error
	enabled       bool
)

// Init initializes the OpenTelemetry tracing based on configuration.
// Init 根据配置初始化 OpenTelemetry 追踪。
// A failing exporter setup falls back to the noop tracer instead of aborting.
// 导出器初始化失败时回退为空操作追踪器，而不是终止程序。
func Init(ctx context.Context, cfg config.TelemetryConfig) {
	mu.Lock()
	defer mu.Unlock()

	if !cfg.Enabled {
		logger.DebugF(ctx, "[Trace] OpenTelemetry tracing is disabled / OpenTelemetry 追踪已禁用")
		Tracer = noop.NewTracerProvider().Tracer("noop")
		enabled = false
		return
	}

	logger.InfoF(ctx, "[Trace] Initializing OpenTelemetry tracing, endpoint=%s / 正在初始化 OpenTelemetry 追踪", cfg.Endpoint)

	// 初始化 Propagator
	otel.SetTextMapPropagator(newPropagator())

	// 初始化 Trace Provider
	tracerProvider, err := newTracerProvider(ctx, cfg)
	if err != nil {
		logger.WarnF(ctx, "[Trace] Failed to init trace provider, using noop tracer: %v / 初始化追踪提供者失败，使用空操作追踪器", err)
		Tracer = noop.NewTracerProvider().Tracer("noop")
		enabled = false
		return
	}

	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	// 初始化 Tracer
	Tracer = tracerProvider.Tracer(instrumentationName)
	enabled = true
	logger.InfoF(ctx, "[Trace] OpenTelemetry tracing initialized / OpenTelemetry 追踪已初始化")
}

// IsEnabled returns whether tracing is enabled.
// IsEnabled 返回追踪是否已启用。
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Shutdown flushes and stops every registered provider.
// Shutdown 刷新并关闭所有已注册的提供者。
func Shutdown(ctx context.Context) {
	mu.Lock()
	fns := shutdownFuncs
	shutdownFuncs = nil
	enabled = false
	Tracer = noop.NewTracerProvider().Tracer("noop")
	mu.Unlock()

	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			logger.WarnF(ctx, "[Trace] shutdown failed: %v", err)
		}
	}
}

func Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	mu.RLock()
	t := Tracer
	mu.RUnlock()
	return t.Start(ctx, name, opts...)
}

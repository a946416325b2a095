/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package router 提供 HTTP 路由配置
// Package router provides HTTP routing configuration
package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appdescriptor "github.com/xingzuo/appgroup/internal/apps/descriptor"
	"github.com/xingzuo/appgroup/internal/apps/snapshot"
	"github.com/xingzuo/appgroup/internal/config"
	"github.com/xingzuo/appgroup/internal/descriptor"
	"github.com/xingzuo/appgroup/internal/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// New builds the gin engine that publishes set. snapshots may be nil when
// the snapshot store is disabled; the /snapshots routes are then omitted.
// New 构建发布 set 的 gin 引擎。快照存储未启用时 snapshots 可为 nil，此时不注册 /snapshots 路由。
func New(cfg *config.Config, set *descriptor.Set, snapshots *snapshot.Service) *gin.Engine {
	// 运行模式
	// Set run mode
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// 补充中间件
	// Add middleware
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = config.DefaultServiceName
	}
	r.Use(otelgin.Middleware(serviceName), loggerMiddleware())

	apiGroup := r.Group(cfg.Server.APIPrefix)
	{
		// API V1
		apiV1Router := apiGroup.Group("/v1")
		{
			descriptorHandler := appdescriptor.NewHandler(set)

			// Health
			apiV1Router.GET("/health", descriptorHandler.Health)

			// Descriptor 描述集
			apiV1Router.GET("/apps", descriptorHandler.ListApps)
			apiV1Router.GET("/apps/:name", descriptorHandler.GetApp)
			apiV1Router.GET("/plan", descriptorHandler.GetPlan)
			apiV1Router.GET("/document", descriptorHandler.GetDocument)

			// Snapshot 快照历史
			if snapshots != nil {
				snapshotHandler := snapshot.NewHandler(snapshots)

				snapshotRouter := apiV1Router.Group("/snapshots")
				{
					snapshotRouter.GET("", snapshotHandler.ListSnapshots)
					snapshotRouter.GET("/:id", snapshotHandler.GetSnapshot)
					snapshotRouter.GET("/:id/diff", snapshotHandler.DiffSnapshot)
				}
			}
		}
	}

	return r
}

// Serve runs handler on cfg.Addr until ctx is cancelled, then shuts the
// server down within cfg.ShutdownTimeout.
// Serve 在 cfg.Addr 上运行 handler，直到 ctx 被取消，然后在 cfg.ShutdownTimeout 内关闭服务。
func Serve(ctx context.Context, cfg config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoF(ctx, "[API] HTTP 服务器启动于 %s / HTTP server starting on %s", cfg.Addr, cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("[API] serve api failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdown
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	logger.InfoF(shutdownCtx, "[API] 正在关闭 HTTP 服务器 / Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("[API] shutdown failed: %w", err)
	}
	return <-errCh
}

// loggerMiddleware logs one line per request with its trace id.
// loggerMiddleware 为每个请求记录一行带 trace id 的日志。
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		log := logger.Ctx(c.Request.Context())
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("[API] request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("[API] request", fields...)
		default:
			log.Info("[API] request", fields...)
		}
	}
}

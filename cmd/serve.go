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

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xingzuo/appgroup/internal/apps/snapshot"
	"github.com/xingzuo/appgroup/internal/logger"
	"github.com/xingzuo/appgroup/internal/router"
)

// newServeCmd publishes the descriptor over HTTP until interrupted
// newServeCmd 通过 HTTP 发布描述集，直到收到中断信号
func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the descriptor over HTTP / 通过 HTTP 提供描述集",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			set, err := a.loadSet(cmd, args)
			if err != nil {
				return err
			}

			// Setup signal handling for graceful shutdown
			// 设置信号处理以实现优雅关闭
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var store *snapshot.Service
			if a.cfg.Database.Enabled {
				var closeStore func()
				store, closeStore, err = openStore(ctx, a.cfg)
				if err != nil {
					return err
				}
				defer closeStore()

				if _, _, err := store.Record(ctx, set); err != nil {
					logger.WarnF(ctx, "[Snapshot] failed to record %s: %v", set.Source(), err)
				}
			}

			if a.cfg.Redis.Enabled {
				publisher, err := openPublisher(ctx, a.cfg)
				if err != nil {
					return err
				}
				defer publisher.Close()

				if _, err := publisher.Publish(ctx, set); err != nil {
					logger.WarnF(ctx, "[Publish] failed to publish %s: %v", set.Source(), err)
				}
			}

			return router.Serve(ctx, a.cfg.Server, router.New(a.cfg, set, store))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	return cmd
}

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
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xingzuo/appgroup/internal/apps/snapshot"
	"github.com/xingzuo/appgroup/internal/config"
	"github.com/xingzuo/appgroup/internal/db"
	"github.com/xingzuo/appgroup/internal/db/migrator"
	"github.com/xingzuo/appgroup/internal/logger"
	"github.com/xingzuo/appgroup/internal/publish"
)

// openStore opens the snapshot database and migrates it
// openStore 打开快照数据库并执行迁移
func openStore(ctx context.Context, cfg *config.Config) (*snapshot.Service, func(), error) {
	gdb, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Migrate(ctx, gdb); err != nil {
		_ = db.Close(gdb)
		return nil, nil, err
	}
	closeStore := func() {
		if err := db.Close(gdb); err != nil {
			logger.WarnF(ctx, "[Database] close failed: %v", err)
		}
	}
	return snapshot.NewService(snapshot.NewRepository(gdb)), closeStore, nil
}

// openPublisher connects to redis
// openPublisher 连接 Redis
func openPublisher(ctx context.Context, cfg *config.Config) (*publish.Publisher, error) {
	store, err := publish.NewRedisStore(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	return publish.NewPublisher(store, cfg.Redis.Prefix), nil
}

// newHistoryCmd lists the recorded snapshots of a descriptor
// newHistoryCmd 列出描述文件已记录的快照
func newHistoryCmd(a *app) *cobra.Command {
	var source string
	var limit int
	var diff bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded snapshots / 列出已记录的快照",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("source") {
				source = a.cfg.Descriptor.File
			}
			source = snapshot.SourceKey(source)

			store, closeStore, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			snapshots, total, err := store.Repository().List(ctx, &snapshot.Filter{Source: source, Page: 1, PageSize: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			header := "ID\tCREATED\tPROCESSES\tCHECKSUM"
			if diff {
				header += "\tCHANGES"
			}
			fmt.Fprintln(w, header)
			for _, snap := range snapshots {
				line := fmt.Sprintf("%s\t%s\t%d\t%s", snap.SnapshotID, snap.CreatedAt.Format("2006-01-02 15:04:05"), snap.Count, shortChecksum(snap.Checksum))
				if diff {
					line += "\t" + describeChanges(ctx, store, snap)
				}
				fmt.Fprintln(w, line)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d of %d snapshots for %s\n", len(snapshots), total, source)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "descriptor source (default: descriptor.file, \"-\" for stdin)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of snapshots")
	cmd.Flags().BoolVar(&diff, "diff", false, "show what changed since the previous snapshot")
	return cmd
}

func describeChanges(ctx context.Context, store *snapshot.Service, snap *snapshot.Snapshot) string {
	_, changes, err := store.DiffPrevious(ctx, snap.SnapshotID)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoPrevious) {
			return "initial"
		}
		return "error: " + err.Error()
	}

	var parts []string
	if len(changes.Added) > 0 {
		parts = append(parts, "+"+strings.Join(changes.Added, ",+"))
	}
	if len(changes.Removed) > 0 {
		parts = append(parts, "-"+strings.Join(changes.Removed, ",-"))
	}
	if len(changes.Changed) > 0 {
		parts = append(parts, "~"+strings.Join(changes.Changed, ",~"))
	}
	if changes.Reordered {
		parts = append(parts, "reordered")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

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

package migrator

import (
	"context"
	"fmt"

	"github.com/xingzuo/appgroup/internal/apps/snapshot"
	"github.com/xingzuo/appgroup/internal/logger"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables used by the snapshot store.
// Migrate 创建或更新快照存储使用的数据表。
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if gdb == nil {
		return fmt.Errorf("[Database] 数据库连接未初始化")
	}

	if err := gdb.WithContext(ctx).AutoMigrate(
		&snapshot.Snapshot{}, // 描述集快照表 / Descriptor snapshot table
	); err != nil {
		return fmt.Errorf("[Database] auto migrate failed: %w", err)
	}

	logger.DebugF(ctx, "[Database] auto migrate success")
	return nil
}

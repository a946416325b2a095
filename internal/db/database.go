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

package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/xingzuo/appgroup/internal/config"
	"github.com/xingzuo/appgroup/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// DatabaseType 数据库类型常量
const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypeMySQL    = "mysql"
	DatabaseTypePostgres = "postgres"
)

// Open 根据配置打开数据库连接
// 支持 SQLite、MySQL、PostgreSQL 三种数据库类型，默认使用 SQLite
func Open(ctx context.Context, dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var dialector gorm.Dialector

	// 根据配置的数据库类型选择驱动
	dbType := dbConfig.Type
	if dbType == "" {
		dbType = DatabaseTypeSQLite
	}

	switch dbType {
	case DatabaseTypeSQLite:
		dialector, err = initSQLiteDialector(ctx, dbConfig.SQLitePath)
	case DatabaseTypeMySQL:
		dialector, err = initMySQLDialector(ctx, dbConfig)
	case DatabaseTypePostgres:
		dialector, err = initPostgresDialector(ctx, dbConfig)
	default:
		return nil, fmt.Errorf("[Database] 不支持的数据库类型: %s，支持的类型: sqlite, mysql, postgres", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("[Database] 初始化 %s 驱动失败: %w", dbType, err)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   getGormLogger(dbConfig.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("[Database] 连接 %s 数据库失败: %w", dbType, err)
	}

	// 注入 OpenTelemetry 追踪
	if err := gdb.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		logger.WarnF(ctx, "[Database] 初始化追踪插件失败: %v", err)
	}

	// 配置连接池（仅对 MySQL 和 PostgreSQL 有效）
	if dbType != DatabaseTypeSQLite {
		if err := configureConnectionPool(gdb, dbConfig); err != nil {
			return nil, fmt.Errorf("[Database] 配置连接池失败: %w", err)
		}
	}

	logger.InfoF(ctx, "[Database] 成功连接到 %s 数据库", dbType)
	return gdb, nil
}

// initSQLiteDialector 初始化 SQLite 驱动
func initSQLiteDialector(ctx context.Context, sqlitePath string) (gorm.Dialector, error) {
	if sqlitePath == "" {
		sqlitePath = config.DefaultSQLitePath
	}

	// 内存数据库无需创建目录
	if !isMemoryDSN(sqlitePath) {
		dir := filepath.Dir(sqlitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("创建 SQLite 目录失败: %w", err)
		}
	}

	logger.DebugF(ctx, "[Database] 使用 SQLite 数据库: %s", sqlitePath)
	return sqlite.Open(sqlitePath), nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:") || strings.Contains(dsn, "mode=memory")
}

// initPostgresDialector 初始化 PostgreSQL 驱动
func initPostgresDialector(ctx context.Context, dbConfig config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.Username,
		dbConfig.Password,
		dbConfig.Database,
	)
	logger.DebugF(ctx, "[Database] 连接 PostgreSQL 数据库: %s:%d/%s", dbConfig.Host, dbConfig.Port, dbConfig.Database)
	return postgres.Open(dsn), nil
}

// configureConnectionPool 配置数据库连接池
func configureConnectionPool(gdb *gorm.DB, dbConfig config.DatabaseConfig) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("获取底层数据库连接失败: %w", err)
	}

	if dbConfig.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	}
	if dbConfig.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConn)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
	}
	return nil
}

// getGormLogger 根据配置获取 GORM 日志记录器
func getGormLogger(level string) gormlogger.Interface {
	var logLevel gormlogger.LogLevel
	switch level {
	case "silent":
		logLevel = gormlogger.Silent
	case "error":
		logLevel = gormlogger.Error
	case "warn":
		logLevel = gormlogger.Warn
	case "info":
		logLevel = gormlogger.Info
	default:
		logLevel = gormlogger.Warn
	}
	return gormlogger.Default.LogMode(logLevel)
}

// Close 关闭数据库连接
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("获取底层数据库连接失败: %w", err)
	}
	return sqlDB.Close()
}

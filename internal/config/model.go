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

package config

import "time"

// Config is the appgroup tool configuration
// Config 表示 appgroup 工具配置
type Config struct {
	// Descriptor controls how the launch descriptor document is read
	// Descriptor 控制如何读取启动描述文档
	Descriptor DescriptorConfig `mapstructure:"descriptor" yaml:"descriptor"`

	// Log configuration / 日志配置
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Database configuration for the snapshot store / 快照存储的数据库配置
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Server configuration for the descriptor HTTP API / 描述集 HTTP API 的服务配置
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Telemetry configuration / 链路追踪配置
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Redis configuration for publishing the set to supervisors / 向进程管理器发布描述集的 Redis 配置
	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// DescriptorConfig contains descriptor loading settings
// DescriptorConfig 包含描述文档加载设置
type DescriptorConfig struct {
	// File is the descriptor document path used when no argument is given
	// File 是未指定参数时使用的描述文档路径
	File string `mapstructure:"file" yaml:"file"`

	// Strict rejects unknown keys in the document
	// Strict 为 true 时拒绝文档中的未知键
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// LogConfig contains logging settings
// LogConfig 包含日志设置
type LogConfig struct {
	// Level is the log level (debug, info, warn, error)
	// Level 是日志级别（debug, info, warn, error）
	Level string `mapstructure:"level" yaml:"level"`

	// File is the log file path, empty logs to stderr only
	// File 是日志文件路径，为空时仅输出到 stderr
	File string `mapstructure:"file" yaml:"file"`

	// MaxSize is the maximum size of log file in MB before rotation
	// MaxSize 是日志文件轮转前的最大大小（MB）
	MaxSize int `mapstructure:"max_size" yaml:"max_size"`

	// MaxBackups is the maximum number of old log files to retain
	// MaxBackups 是保留的旧日志文件的最大数量
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`

	// MaxAge is the maximum number of days to retain old log files
	// MaxAge 是保留旧日志文件的最大天数
	MaxAge int `mapstructure:"max_age" yaml:"max_age"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled"`
	Type            string `mapstructure:"type" yaml:"type"`               // sqlite, mysql, postgres
	SQLitePath      string `mapstructure:"sqlite_path" yaml:"sqlite_path"` // SQLite 文件路径
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password"`
	Database        string `mapstructure:"database" yaml:"database"`
	MaxIdleConn     int    `mapstructure:"max_idle_conn" yaml:"max_idle_conn"`
	MaxOpenConn     int    `mapstructure:"max_open_conn" yaml:"max_open_conn"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // seconds
	LogLevel        string `mapstructure:"log_level" yaml:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	Mode            string        `mapstructure:"mode" yaml:"mode"` // debug, release, test
	APIPrefix       string        `mapstructure:"api_prefix" yaml:"api_prefix"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// TelemetryConfig contains OpenTelemetry exporter settings
// TelemetryConfig 包含 OpenTelemetry 导出设置
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string  `mapstructure:"service_name" yaml:"service_name"`
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"` // OTLP gRPC host:port
	Insecure    bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

// RedisConfig contains Redis connection settings
// RedisConfig 包含 Redis 连接设置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	PoolSize int    `mapstructure:"pool_size" yaml:"pool_size"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"` // key 前缀 / key prefix
}

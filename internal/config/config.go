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

// Package config provides configuration management for the appgroup tool.
// config 包提供 appgroup 工具的配置管理功能。
//
// Configuration loading priority (highest to lowest):
// 配置加载优先级（从高到低）：
// 1. Command line arguments / 命令行参数
// 2. Environment variables (APPGROUP_*) / 环境变量（APPGROUP_*）
// 3. Configuration file / 配置文件
// 4. Default values / 默认值
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default configuration values
// 默认配置值
const (
	EnvPrefix             = "APPGROUP"
	EnvConfigPath         = "APPGROUP_CONFIG"
	DefaultConfigPath     = "appgroup.yaml"
	DefaultDescriptorFile = "apps.yaml"
	DefaultLogLevel       = "info"
	DefaultLogMaxSize     = 100 // MB
	DefaultLogMaxBackups  = 3
	DefaultLogMaxAge      = 7 // days
	DefaultDatabaseType   = "sqlite"
	DefaultSQLitePath     = "./data/appgroup.db"
	DefaultServerAddr     = ":8090"
	DefaultServerMode     = "release"
	DefaultAPIPrefix      = "/api"
	DefaultShutdown       = 10 * time.Second
	DefaultServiceName    = "appgroup"
	DefaultOTLPEndpoint   = "localhost:4317"
	DefaultRedisPort      = 6379
	DefaultRedisPrefix    = "appgroup:"
)

// Load loads configuration from file and environment variables
// Load 从文件和环境变量加载配置
func Load(configPath string) (*Config, error) {
	return LoadWithPriority(configPath, nil)
}

// LoadWithPriority loads configuration with explicit priority handling
// LoadWithPriority 使用显式优先级处理加载配置
// Priority: cmdArgs > envVars > configFile > defaults
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
func LoadWithPriority(configPath string, cmdArgs map[string]interface{}) (*Config, error) {
	v := viper.New()

	// Set default values / 设置默认值
	setDefaults(v)

	// Set config file path / 设置配置文件路径
	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
	}
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Enable environment variable override / 启用环境变量覆盖
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file / 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// A missing file falls back to defaults / 文件不存在时使用默认值
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			if _, statErr := os.Stat(v.ConfigFileUsed()); statErr == nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Apply command line arguments (highest priority)
	// 应用命令行参数（最高优先级）
	for key, value := range cmdArgs {
		v.Set(key, value)
	}

	// Unmarshal config / 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromYAML loads configuration from YAML bytes
// LoadFromYAML 从 YAML 字节加载配置
func LoadFromYAML(yamlData []byte) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults first / 首先设置默认值
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewReader(yamlData)); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// Descriptor defaults / 描述文档默认值
	v.SetDefault("descriptor.file", DefaultDescriptorFile)
	v.SetDefault("descriptor.strict", false)

	// Log defaults / 日志默认值
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age", DefaultLogMaxAge)

	// Database defaults / 数据库默认值
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.type", DefaultDatabaseType)
	v.SetDefault("database.sqlite_path", DefaultSQLitePath)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "")
	v.SetDefault("database.max_idle_conn", 0)
	v.SetDefault("database.max_open_conn", 0)
	v.SetDefault("database.conn_max_lifetime", 0)
	v.SetDefault("database.log_level", "warn")

	// Server defaults / 服务默认值
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.api_prefix", DefaultAPIPrefix)
	v.SetDefault("server.shutdown_timeout", DefaultShutdown)

	// Telemetry defaults / 追踪默认值
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", DefaultServiceName)
	v.SetDefault("telemetry.endpoint", DefaultOTLPEndpoint)
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sample_ratio", 1.0)

	// Redis defaults / Redis 默认值
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", DefaultRedisPort)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.prefix", DefaultRedisPrefix)
}

// Validate validates the configuration
// Validate 验证配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Descriptor.File) == "" {
		return errors.New("descriptor.file is required")
	}

	// Validate log level / 验证日志级别
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	// Validate database / 验证数据库配置
	if c.Database.Enabled {
		switch c.Database.Type {
		case "sqlite", "":
			if c.Database.SQLitePath == "" {
				return errors.New("database.sqlite_path is required for sqlite")
			}
		case "mysql", "postgres":
			if c.Database.Host == "" {
				return fmt.Errorf("database.host is required for %s", c.Database.Type)
			}
		default:
			return fmt.Errorf("invalid database type: %s (must be sqlite, mysql, or postgres)", c.Database.Type)
		}
	}

	// Validate server / 验证服务配置
	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("invalid server mode: %s (must be debug, release, or test)", c.Server.Mode)
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}

	// Validate telemetry / 验证追踪配置
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return errors.New("telemetry.endpoint is required when telemetry is enabled")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be between 0 and 1, got %v", c.Telemetry.SampleRatio)
	}

	// Validate redis / 验证 Redis 配置
	if c.Redis.Enabled {
		if c.Redis.Host == "" {
			return errors.New("redis.host is required when redis is enabled")
		}
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			return fmt.Errorf("invalid redis port: %d", c.Redis.Port)
		}
		if c.Redis.DB < 0 {
			return errors.New("redis.db must not be negative")
		}
	}

	return nil
}

// String returns a string representation of the config (for debugging)
// String 返回配置的字符串表示（用于调试）
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Descriptor.File: %s, Descriptor.Strict: %t, Log.Level: %s, Database.Enabled: %t, Database.Type: %s, Server.Addr: %s, Telemetry.Enabled: %t}",
		c.Descriptor.File,
		c.Descriptor.Strict,
		c.Log.Level,
		c.Database.Enabled,
		c.Database.Type,
		c.Server.Addr,
		c.Telemetry.Enabled,
	)
}

// ToYAML serializes the configuration to YAML format
// ToYAML 将配置序列化为 YAML 格式
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Equal compares two configs for equality
// Equal 比较两个配置是否相等
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return *c == *other
}

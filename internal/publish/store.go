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

// Package publish 将已校验的描述集发布到共享存储，供外部进程管理器读取
// Package publish pushes a validated descriptor set to a shared store for external supervisors
package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/xingzuo/appgroup/internal/config"
)

// 错误定义
var (
	ErrKeyNotFound = errors.New("publish: key not found")
)

// Store 发布存储接口
// 定义了发布所需的基本操作：读取、写入、广播
type Store interface {
	// Get 获取指定 key 的值
	// 如果 key 不存在，返回 ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// SetAndPublish 写入全部 key，然后在 channel 上广播 message
	SetAndPublish(ctx context.Context, values map[string]string, channel, message string) error

	// Close 释放连接
	Close() error
}

// RedisStore Redis 发布存储实现
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 根据配置创建 Redis 存储，并确认服务可达
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: 5 * time.Second,
	})

	// 注入 OpenTelemetry 追踪
	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[Redis] 初始化追踪失败: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[Redis] 连接 %s 失败: %w", client.Options().Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Get 从 Redis 中获取指定 key 的值
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return result, nil
}

// SetAndPublish 在一个事务中写入并广播
func (r *RedisStore) SetAndPublish(ctx context.Context, values map[string]string, channel, message string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range values {
			pipe.Set(ctx, key, value, 0)
		}
		pipe.Publish(ctx, channel, message)
		return nil
	})
	return err
}

// Close 关闭 Redis 连接
func (r *RedisStore) Close() error {
	return r.client.Close()
}

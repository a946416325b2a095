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

package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xingzuo/appgroup/internal/config"
	"github.com/xingzuo/appgroup/internal/descriptor"
)

// memoryStore 内存存储，记录广播的消息
type memoryStore struct {
	data     sync.Map
	mu       sync.Mutex
	messages map[string][]string
	failSet  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{messages: map[string][]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.data.Load(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return value.(string), nil
}

func (m *memoryStore) SetAndPublish(_ context.Context, values map[string]string, channel, message string) error {
	if m.failSet != nil {
		return m.failSet
	}
	for key, value := range values {
		m.data.Store(key, value)
	}
	m.mu.Lock()
	m.messages[channel] = append(m.messages[channel], message)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) published(channel string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages[channel]...)
}

func sampleSet(interpreter string) *descriptor.Set {
	return descriptor.New(".",
		descriptor.ProcessSpec{Name: "timer", Entrypoint: "timer.py", WorkingDir: "./", Interpreter: "python"},
		descriptor.ProcessSpec{Name: "cors_server", Entrypoint: "cors_server.py", WorkingDir: "./tiles", Interpreter: interpreter},
	)
}

// TestPublisher_Publish tests the stored payload and the change notification
// TestPublisher_Publish 测试写入的内容和变化通知
func TestPublisher_Publish(t *testing.T) {
	store := newMemoryStore()
	p := NewPublisher(store, "appgroup:")
	fixed := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }
	ctx := context.Background()
	set := sampleSet("python")

	changed, err := p.Publish(ctx, set)
	require.NoError(t, err)
	assert.True(t, changed)

	raw, err := store.Get(ctx, "appgroup:document")
	require.NoError(t, err)
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, set.Fingerprint(), payload.Checksum)
	assert.Equal(t, fixed, payload.PublishedAt)
	require.Len(t, payload.Apps, 2)
	assert.Equal(t, "cors_server", payload.Apps[1].Name)

	sum, err := store.Get(ctx, p.ChecksumKey())
	require.NoError(t, err)
	assert.Equal(t, set.Fingerprint(), sum)
	assert.Equal(t, []string{set.Fingerprint()}, store.published("appgroup:changed"))

	// Unchanged set is skipped / 未变化的描述集会被跳过
	changed, err = p.Publish(ctx, set)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, store.published(p.Channel()), 1)
}

func TestPublisher_WriteError(t *testing.T) {
	store := newMemoryStore()
	store.failSet = errors.New("connection reset")
	p := NewPublisher(store, "x:")

	changed, err := p.Publish(context.Background(), sampleSet("python"))
	assert.False(t, changed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x:document")
}

// TestProperty_PublishOnlyOnChange 测试只有变化时才会广播
// 对于任意发布序列，广播次数等于相邻校验和不同的次数
func TestProperty_PublishOnlyOnChange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("broadcasts match checksum changes", prop.ForAll(
		func(interpreters []string) bool {
			store := newMemoryStore()
			p := NewPublisher(store, "appgroup:")
			ctx := context.Background()

			want := 0
			last := ""
			for _, interpreter := range interpreters {
				set := sampleSet(interpreter)
				changed, err := p.Publish(ctx, set)
				if err != nil {
					return false
				}
				differs := set.Fingerprint() != last
				if changed != differs {
					return false
				}
				if differs {
					want++
					last = set.Fingerprint()
				}
			}
			return len(store.published(p.Channel())) == want
		},
		gen.SliceOf(gen.OneConstOf("python", "python3", "none", "")),
	))

	properties.TestingRun(t)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	// Reserve a port, then close it so nothing listens there
	// 先占用端口再关闭，确保无人监听
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = NewRedisStore(ctx, config.RedisConfig{Host: "127.0.0.1", Port: port, PoolSize: 1})
	assert.Error(t, err)
}

// TestRedisStore_Integration runs against a real server when APPGROUP_TEST_REDIS_ADDR is set
// TestRedisStore_Integration 在设置 APPGROUP_TEST_REDIS_ADDR 时连接真实 Redis 运行
func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("APPGROUP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("APPGROUP_TEST_REDIS_ADDR not set")
	}
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	ctx := context.Background()
	store, err := NewRedisStore(ctx, config.RedisConfig{Host: host, Port: port, PoolSize: 2})
	require.NoError(t, err)
	defer store.Close()

	prefix := fmt.Sprintf("appgroup-test:%d:", time.Now().UnixNano())
	p := NewPublisher(store, prefix)
	defer store.client.Del(ctx, p.DocumentKey(), p.ChecksumKey())

	_, err = store.Get(ctx, p.ChecksumKey())
	assert.ErrorIs(t, err, ErrKeyNotFound)

	sub := store.client.Subscribe(ctx, p.Channel())
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	set := sampleSet("python")
	changed, err := p.Publish(ctx, set)
	require.NoError(t, err)
	assert.True(t, changed)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, set.Fingerprint(), msg.Payload)

	changed, err = p.Publish(ctx, set)
	require.NoError(t, err)
	assert.False(t, changed)
}

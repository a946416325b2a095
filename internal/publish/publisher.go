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
	"time"

	"github.com/xingzuo/appgroup/internal/descriptor"
	"github.com/xingzuo/appgroup/internal/logger"
	"github.com/xingzuo/appgroup/internal/otel_trace"
	"go.opentelemetry.io/otel/attribute"
)

// Key suffixes under the configured prefix
// 配置前缀下的 key 后缀
const (
	keyDocument = "document"
	keyChecksum = "checksum"
	keyChanged  = "changed"
)

// Payload is the JSON value stored under <prefix>document.
// Payload 是存储在 <prefix>document 下的 JSON 值。
type Payload struct {
	Source      string                   `json:"source"`
	Format      descriptor.Format        `json:"format"`
	Checksum    string                   `json:"checksum"`
	PublishedAt time.Time                `json:"published_at"`
	Apps        []descriptor.ProcessSpec `json:"apps"`
}

// Publisher writes the set and announces changes on <prefix>changed.
// Publisher 写入描述集，并在 <prefix>changed 上通知变化。
type Publisher struct {
	store  Store
	prefix string
	now    func() time.Time
}

// NewPublisher creates a Publisher over store.
// NewPublisher 基于 store 创建 Publisher。
func NewPublisher(store Store, prefix string) *Publisher {
	return &Publisher{store: store, prefix: prefix, now: time.Now}
}

// DocumentKey returns the key holding the published payload.
func (p *Publisher) DocumentKey() string { return p.prefix + keyDocument }

// ChecksumKey returns the key holding the checksum of the published set.
func (p *Publisher) ChecksumKey() string { return p.prefix + keyChecksum }

// Channel returns the channel that receives the new checksum on every change.
func (p *Publisher) Channel() string { return p.prefix + keyChanged }

// Publish stores set unless the same checksum is already published.
// It reports whether anything was written.
// Publish 写入 set，若已发布相同校验和则跳过；返回是否有写入。
func (p *Publisher) Publish(ctx context.Context, set *descriptor.Set) (bool, error) {
	ctx, span := otel_trace.Start(ctx, "publish.Publish")
	defer span.End()

	checksum := set.Fingerprint()
	span.SetAttributes(attribute.String("publish.checksum", checksum))

	current, err := p.store.Get(ctx, p.ChecksumKey())
	switch {
	case err == nil && current == checksum:
		logger.DebugF(ctx, "[Publish] %s already published", checksum)
		return false, nil
	case err != nil && !errors.Is(err, ErrKeyNotFound):
		return false, fmt.Errorf("publish: read %s: %w", p.ChecksumKey(), err)
	}

	payload := Payload{
		Source:      set.Source(),
		Format:      set.Format(),
		Checksum:    checksum,
		PublishedAt: p.now().UTC(),
		Apps:        make([]descriptor.ProcessSpec, 0, set.Len()),
	}
	for spec := range set.Specs() {
		payload.Apps = append(payload.Apps, spec)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("publish: encode payload: %w", err)
	}

	if err := p.store.SetAndPublish(ctx, map[string]string{
		p.DocumentKey(): string(data),
		p.ChecksumKey(): checksum,
	}, p.Channel(), checksum); err != nil {
		return false, fmt.Errorf("publish: write %s: %w", p.DocumentKey(), err)
	}

	logger.InfoF(ctx, "[Publish] published %d processes to %s", set.Len(), p.DocumentKey())
	return true, nil
}

// Close releases the underlying store.
// Close 释放底层存储。
func (p *Publisher) Close() error {
	return p.store.Close()
}

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

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/xingzuo/appgroup/internal/descriptor"
	"github.com/xingzuo/appgroup/internal/logger"
	"github.com/xingzuo/appgroup/internal/otel_trace"
	"go.opentelemetry.io/otel/attribute"
)

// StdinSource is the source recorded for documents read from standard input.
// StdinSource 是从标准输入读取的文档所记录的来源。
const StdinSource = "-"

// SourceKey returns the form under which snapshots of source are stored:
// StdinSource for an empty source, otherwise the cleaned absolute path, so
// ./apps.yaml and apps.yaml share one history.
// SourceKey 返回快照保存时使用的来源键：空来源为 StdinSource，否则为清理后的绝对路径。
func SourceKey(source string) string {
	if source == "" || source == StdinSource {
		return StdinSource
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return filepath.Clean(source)
	}
	return abs
}

// Service records and compares snapshots.
// Service 负责记录与比较快照。
type Service struct {
	repo *Repository
}

// NewService creates a new Service instance.
// NewService 创建一个新的 Service 实例。
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Repository returns the underlying repository.
func (s *Service) Repository() *Repository {
	return s.repo
}

// Record stores set as a new snapshot unless the latest snapshot of the same
// source has the same checksum. created reports whether a row was written.
// Record 将 set 保存为新快照；若同一来源的最新快照校验和相同则不写入，created 表示是否新建。
func (s *Service) Record(ctx context.Context, set *descriptor.Set) (snap *Snapshot, created bool, err error) {
	ctx, span := otel_trace.Start(ctx, "snapshot.Record")
	defer span.End()

	source := SourceKey(set.Source())

	doc, err := descriptor.Encode(set, descriptor.FormatJSON)
	if err != nil {
		return nil, false, fmt.Errorf("snapshot: encode set: %w", err)
	}
	checksum := set.Fingerprint()
	span.SetAttributes(attribute.String("snapshot.source", source), attribute.String("snapshot.checksum", checksum))

	latest, err := s.repo.Latest(ctx, source)
	switch {
	case err == nil && latest.Checksum == checksum:
		logger.DebugF(ctx, "[Snapshot] %s unchanged since %s", source, latest.SnapshotID)
		return latest, false, nil
	case err != nil && !errors.Is(err, ErrSnapshotNotFound):
		return nil, false, err
	}

	snap = &Snapshot{
		Source:   source,
		Format:   string(set.Format()),
		Checksum: checksum,
		Count:    set.Len(),
		Names:    NameList(set.Names()),
		Document: string(doc),
	}
	if err := s.repo.Create(ctx, snap); err != nil {
		return nil, false, err
	}
	logger.InfoF(ctx, "[Snapshot] recorded %s for %s (%d processes)", snap.SnapshotID, source, snap.Count)
	return snap, true, nil
}

// Info loads a snapshot together with its entries.
// Info 加载快照及其条目。
func (s *Service) Info(ctx context.Context, snapshotID string) (*Info, error) {
	snap, err := s.repo.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	set, err := snap.Set()
	if err != nil {
		return nil, fmt.Errorf("snapshot: stored document of %s is unreadable: %w", snapshotID, err)
	}
	apps := make([]descriptor.ProcessSpec, 0, set.Len())
	for spec := range set.Specs() {
		apps = append(apps, spec)
	}
	return &Info{Snapshot: snap, Apps: apps}, nil
}

// Diff compares two snapshots by ID.
// Diff 按 ID 比较两个快照。
func (s *Service) Diff(ctx context.Context, fromID, toID string) (descriptor.Changes, error) {
	from, err := s.repo.GetByID(ctx, fromID)
	if err != nil {
		return descriptor.Changes{}, err
	}
	to, err := s.repo.GetByID(ctx, toID)
	if err != nil {
		return descriptor.Changes{}, err
	}
	return diffSnapshots(from, to)
}

// DiffPrevious compares a snapshot with the one recorded before it for the
// same source. It returns ErrNoPrevious for the first snapshot of a source.
// DiffPrevious 将快照与同一来源的上一个快照比较，首个快照返回 ErrNoPrevious。
func (s *Service) DiffPrevious(ctx context.Context, snapshotID string) (*Snapshot, descriptor.Changes, error) {
	to, err := s.repo.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, descriptor.Changes{}, err
	}
	from, err := s.repo.Previous(ctx, to)
	if err != nil {
		return nil, descriptor.Changes{}, err
	}
	changes, err := diffSnapshots(from, to)
	return from, changes, err
}

func diffSnapshots(from, to *Snapshot) (descriptor.Changes, error) {
	fromSet, err := from.Set()
	if err != nil {
		return descriptor.Changes{}, fmt.Errorf("snapshot: stored document of %s is unreadable: %w", from.SnapshotID, err)
	}
	toSet, err := to.Set()
	if err != nil {
		return descriptor.Changes{}, fmt.Errorf("snapshot: stored document of %s is unreadable: %w", to.SnapshotID, err)
	}
	return descriptor.Diff(fromSet, toSet), nil
}

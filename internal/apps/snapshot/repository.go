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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides data access operations for Snapshot entities.
// Repository 提供 Snapshot 实体的数据访问操作。
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository instance.
// NewRepository 创建一个新的 Repository 实例。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new snapshot, assigning a SnapshotID when it is empty.
// Create 保存新快照，SnapshotID 为空时自动分配。
func (r *Repository) Create(ctx context.Context, s *Snapshot) error {
	if s.Source == "" {
		return ErrSourceEmpty
	}
	if s.Checksum == "" {
		return ErrChecksumEmpty
	}
	if s.SnapshotID == "" {
		s.SnapshotID = uuid.NewString()
	} else if _, err := uuid.Parse(s.SnapshotID); err != nil {
		return ErrInvalidSnapshotID
	}
	if s.Names == nil {
		s.Names = NameList{}
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// GetByID retrieves a snapshot by its SnapshotID.
// GetByID 通过 SnapshotID 获取快照。
// Returns ErrSnapshotNotFound if the snapshot does not exist.
// 如果快照不存在，则返回 ErrSnapshotNotFound。
func (r *Repository) GetByID(ctx context.Context, snapshotID string) (*Snapshot, error) {
	if _, err := uuid.Parse(snapshotID); err != nil {
		return nil, ErrInvalidSnapshotID
	}
	var s Snapshot
	if err := r.db.WithContext(ctx).Where("snapshot_id = ?", snapshotID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Latest returns the most recent snapshot recorded for source.
// Latest 返回 source 最近一次记录的快照。
func (r *Repository) Latest(ctx context.Context, source string) (*Snapshot, error) {
	var s Snapshot
	if err := r.db.WithContext(ctx).Where("source = ?", source).Order("id DESC").First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Previous returns the snapshot recorded for the same source right before s.
// Previous 返回同一来源中紧邻 s 之前记录的快照。
func (r *Repository) Previous(ctx context.Context, s *Snapshot) (*Snapshot, error) {
	var prev Snapshot
	err := r.db.WithContext(ctx).
		Where("source = ? AND id < ?", s.Source, s.ID).
		Order("id DESC").
		First(&prev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPrevious
		}
		return nil, err
	}
	return &prev, nil
}

// List retrieves snapshots based on filter criteria with pagination, newest first.
// List 根据过滤条件和分页获取快照列表，最新的在前。
// Returns the list of snapshots and total count.
// 返回快照列表和总数。
func (r *Repository) List(ctx context.Context, filter *Filter) ([]*Snapshot, int64, error) {
	query := r.db.WithContext(ctx).Model(&Snapshot{})

	// Apply filters - 应用过滤条件
	if filter != nil && filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}

	// Get total count - 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination - 应用分页
	if filter != nil && filter.PageSize > 0 {
		offset := 0
		if filter.Page > 0 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var snapshots []*Snapshot
	if err := query.Order("id DESC").Find(&snapshots).Error; err != nil {
		return nil, 0, err
	}
	return snapshots, total, nil
}

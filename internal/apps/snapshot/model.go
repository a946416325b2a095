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

// Package snapshot records every validated descriptor load so operators can
// list revisions of a group and see what changed between them.
// snapshot 包记录每次校验通过的描述集加载，便于运维查看应用组的历史版本及其差异。
package snapshot

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/xingzuo/appgroup/internal/descriptor"
)

// NameList represents the ordered process names of a snapshot, stored as JSON.
// NameList 表示快照中有序的进程名称列表，以 JSON 存储。
type NameList []string

// Value implements the driver.Valuer interface for database storage.
// Value 实现 driver.Valuer 接口用于数据库存储。
func (n NameList) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
// Scan 实现 sql.Scanner 接口用于数据库读取。
func (n *NameList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*n = NameList{}
		return nil
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return errors.New("snapshot: failed to scan NameList - expected []byte or string")
	}
}

// Snapshot is one recorded revision of a descriptor document.
// Snapshot 表示描述文档的一个已记录版本。
type Snapshot struct {
	ID         uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	SnapshotID string    `json:"id" gorm:"size:36;uniqueIndex;not null"`
	Source     string    `json:"source" gorm:"size:512;not null;index"`
	Format     string    `json:"format" gorm:"size:10"`
	Checksum   string    `json:"checksum" gorm:"size:64;not null;index"`
	Count      int       `json:"count"`
	Names      NameList  `json:"names" gorm:"type:text"`
	Document   string    `json:"-" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for the Snapshot model.
// TableName 指定 Snapshot 模型的表名。
func (Snapshot) TableName() string {
	return "descriptor_snapshots"
}

// Set reloads the descriptor set stored in the snapshot.
// Set 重新加载快照中保存的描述集。
func (s *Snapshot) Set() (*descriptor.Set, error) {
	return descriptor.Parse([]byte(s.Document), descriptor.Options{Format: descriptor.FormatJSON, Strict: true})
}

// Filter represents filter criteria for listing snapshots.
// Filter 表示快照列表的过滤条件。
type Filter struct {
	Source   string
	Page     int
	PageSize int
}

// Info is the API view of a snapshot including its entries.
// Info 是包含条目的快照 API 视图。
type Info struct {
	*Snapshot
	Apps []descriptor.ProcessSpec `json:"apps"`
}

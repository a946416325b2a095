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

import "errors"

// Error definitions for snapshot operations.
// 快照操作的错误定义。
var (
	// ErrSnapshotNotFound indicates the requested snapshot does not exist.
	// ErrSnapshotNotFound 表示请求的快照不存在。
	ErrSnapshotNotFound = errors.New("snapshot: snapshot not found")
	// ErrInvalidSnapshotID indicates the snapshot ID is not a UUID.
	// ErrInvalidSnapshotID 表示快照 ID 不是合法的 UUID。
	ErrInvalidSnapshotID = errors.New("snapshot: invalid snapshot ID")
	// ErrSourceEmpty indicates the snapshot source is empty.
	// ErrSourceEmpty 表示快照来源为空。
	ErrSourceEmpty = errors.New("snapshot: source cannot be empty")
	// ErrChecksumEmpty indicates the snapshot checksum is empty.
	// ErrChecksumEmpty 表示快照校验和为空。
	ErrChecksumEmpty = errors.New("snapshot: checksum cannot be empty")
	// ErrNoPrevious indicates there is no earlier snapshot to compare with.
	// ErrNoPrevious 表示没有可比较的更早快照。
	ErrNoPrevious = errors.New("snapshot: no previous snapshot for source")
)

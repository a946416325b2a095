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

package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for descriptor operations.
// 描述集操作的哨兵错误。
var (
	// ErrUnknownFormat indicates the document format is not supported.
	// ErrUnknownFormat 表示不支持的文档格式。
	ErrUnknownFormat = errors.New("descriptor: unknown document format")

	// ErrEmptyDocument indicates the document contains no structured value.
	// ErrEmptyDocument 表示文档中没有任何结构化内容。
	ErrEmptyDocument = errors.New("descriptor: document is empty")
)

// ConfigurationError reports a document that is malformed or misses a required field.
// ConfigurationError 表示文档格式错误或缺少必填字段。
type ConfigurationError struct {
	// Source is the document path, empty for in-memory documents
	// Source 是文档路径，内存文档为空
	Source string

	// Index is the zero-based entry position, -1 for document-level errors
	// Index 是从 0 开始的条目位置，文档级错误为 -1
	Index int

	// Name is the entry name when it was already known
	// Name 是条目名称（如果已解析到）
	Name string

	// Field is the offending document key
	// Field 是出错的文档键
	Field string

	Line   int
	Column int

	// Reason is a short human-readable explanation
	// Reason 是简短的可读说明
	Reason string

	// Err is the underlying cause, if any
	// Err 是底层原因（如有）
	Err error
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("descriptor: ")
	if e.Source != "" {
		sb.WriteString(e.Source)
		sb.WriteString(": ")
	}
	if e.Index >= 0 {
		fmt.Fprintf(&sb, "entry %d", e.Index)
		if e.Name != "" {
			fmt.Fprintf(&sb, " (%q)", e.Name)
		}
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d:%d: ", e.Line, e.Column)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, "field %q ", e.Field)
	}
	sb.WriteString(e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DuplicateNameError reports entries that share the same name.
// DuplicateNameError 表示多个条目使用了相同的名称。
type DuplicateNameError struct {
	// Name is the shared name
	// Name 是重复的名称
	Name string

	// Indexes are the positions of every entry using Name, ascending
	// Indexes 是所有使用该名称的条目位置（升序）
	Indexes []int

	// Lines are the document lines of those entries, 0 when unknown
	// Lines 是这些条目所在的文档行号，未知时为 0
	Lines []int
}

// Entries returns the conflicting entry names, one per offending entry.
// Entries 返回冲突的条目名称，每个冲突条目一个。
func (e *DuplicateNameError) Entries() []string {
	names := make([]string, len(e.Indexes))
	for i := range names {
		names[i] = e.Name
	}
	return names
}

func (e *DuplicateNameError) Error() string {
	parts := make([]string, len(e.Indexes))
	for i, idx := range e.Indexes {
		if i < len(e.Lines) && e.Lines[i] > 0 {
			parts[i] = fmt.Sprintf("#%d %q (line %d)", idx, e.Name, e.Lines[i])
		} else {
			parts[i] = fmt.Sprintf("#%d %q", idx, e.Name)
		}
	}
	return fmt.Sprintf("descriptor: duplicate name %q used by entries %s", e.Name, strings.Join(parts, ", "))
}

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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"iter"
	"path/filepath"
)

// Position locates an entry inside its source document.
// Position 表示条目在源文档中的位置。
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IgnoredKey is an unknown document key skipped while loading in non-strict mode.
// IgnoredKey 是非严格模式下加载时被忽略的未知文档键。
type IgnoredKey struct {
	// Index is the entry position, -1 for top-level keys
	// Index 是条目位置，顶层键为 -1
	Index int    `json:"index"`
	Key   string `json:"key"`
	Line  int    `json:"line"`
}

// Set is the immutable, ordered launch descriptor set.
// Set 是不可变的有序启动描述集。
type Set struct {
	specs     []ProcessSpec
	positions []Position
	ignored   []IgnoredKey
	source    string
	baseDir   string
	format    Format
}

// New builds a set from in-memory specs. The specs are copied.
// Relative working directories resolve against baseDir.
// New 使用内存中的描述构建描述集（会复制描述）。相对工作目录基于 baseDir 解析。
func New(baseDir string, specs ...ProcessSpec) *Set {
	s := &Set{
		specs:     make([]ProcessSpec, len(specs)),
		positions: make([]Position, len(specs)),
		baseDir:   baseDir,
		format:    FormatYAML,
	}
	for i, spec := range specs {
		s.specs[i] = spec.clone()
	}
	return s
}

// Len returns the number of entries.
// Len 返回条目数量。
func (s *Set) Len() int {
	return len(s.specs)
}

// At returns a copy of the i-th entry in declaration order.
// At 返回声明顺序中第 i 个条目的副本。
func (s *Set) At(i int) ProcessSpec {
	return s.specs[i].clone()
}

// Position returns where the i-th entry was declared, zero for in-memory sets.
// Position 返回第 i 个条目的声明位置，内存描述集为零值。
func (s *Set) Position(i int) Position {
	return s.positions[i]
}

// All yields index and spec pairs in declaration order. Every call starts over.
// All 按声明顺序产出（索引，描述）对，每次调用都会从头开始。
func (s *Set) All() iter.Seq2[int, ProcessSpec] {
	return func(yield func(int, ProcessSpec) bool) {
		for i := range s.specs {
			if !yield(i, s.specs[i].clone()) {
				return
			}
		}
	}
}

// Specs yields the specs in declaration order. Every call starts over.
// Specs 按声明顺序产出描述，每次调用都会从头开始。
func (s *Set) Specs() iter.Seq[ProcessSpec] {
	return func(yield func(ProcessSpec) bool) {
		for _, spec := range s.All() {
			if !yield(spec) {
				return
			}
		}
	}
}

// Names returns the entry names in declaration order.
// Names 按声明顺序返回条目名称。
func (s *Set) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Lookup returns the first entry with the given name.
// Lookup 返回第一个具有指定名称的条目。
func (s *Set) Lookup(name string) (ProcessSpec, bool) {
	for _, spec := range s.specs {
		if spec.Name == name {
			return spec.clone(), true
		}
	}
	return ProcessSpec{}, false
}

// Source returns the path the set was loaded from.
// Source 返回描述集的加载路径。
func (s *Set) Source() string {
	return s.source
}

// BaseDir returns the directory relative working directories resolve against.
// BaseDir 返回相对工作目录的解析基准目录。
func (s *Set) BaseDir() string {
	return s.baseDir
}

// Format returns the format of the source document.
// Format 返回源文档格式。
func (s *Set) Format() Format {
	return s.format
}

// Ignored returns the unknown keys skipped while loading.
// Ignored 返回加载时忽略的未知键。
func (s *Set) Ignored() []IgnoredKey {
	return append([]IgnoredKey(nil), s.ignored...)
}

// ResolveDir returns the working directory of spec joined onto the base directory.
// ResolveDir 返回拼接到基准目录后的工作目录。
func (s *Set) ResolveDir(spec ProcessSpec) string {
	if filepath.IsAbs(spec.WorkingDir) {
		return filepath.Clean(spec.WorkingDir)
	}
	return filepath.Join(s.baseDir, spec.WorkingDir)
}

// Validate checks that names are unique across the set.
// It returns a *DuplicateNameError, or several joined with errors.Join when
// more than one name collides. The filesystem is not consulted.
// Validate 检查名称在描述集中唯一。
// 返回 *DuplicateNameError；若有多个名称冲突，则使用 errors.Join 合并。不访问文件系统。
func (s *Set) Validate() error {
	seen := make(map[string]*DuplicateNameError, len(s.specs))
	var dups []*DuplicateNameError
	for i, spec := range s.specs {
		d, ok := seen[spec.Name]
		if !ok {
			seen[spec.Name] = &DuplicateNameError{
				Name:    spec.Name,
				Indexes: []int{i},
				Lines:   []int{s.positions[i].Line},
			}
			continue
		}
		if len(d.Indexes) == 1 {
			dups = append(dups, d)
		}
		d.Indexes = append(d.Indexes, i)
		d.Lines = append(d.Lines, s.positions[i].Line)
	}

	switch len(dups) {
	case 0:
		return nil
	case 1:
		return dups[0]
	}
	errs := make([]error, len(dups))
	for i, d := range dups {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Fingerprint returns the SHA-256 of the canonical JSON encoding of the set.
// Fingerprint 返回描述集规范 JSON 编码的 SHA-256 值。
func (s *Set) Fingerprint() string {
	data, err := Encode(s, FormatJSON)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

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
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the serialization of a descriptor document.
// Format 是描述文档的序列化格式。
type Format string

const (
	// FormatAuto detects the format from the file extension, then the content
	// FormatAuto 先根据扩展名、再根据内容检测格式
	FormatAuto Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat converts a user supplied name into a Format.
// ParseFormat 将用户提供的名称转换为 Format。
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q (must be yaml or json)", ErrUnknownFormat, name)
	}
}

// DetectFormat guesses the document format from its path and content.
// DetectFormat 根据路径和内容推断文档格式。
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Options controls how a document is loaded.
// Options 控制文档的加载方式。
type Options struct {
	// Strict rejects unknown keys instead of recording them as ignored
	// Strict 为 true 时拒绝未知键，而不是记录为已忽略
	Strict bool

	// Format overrides detection when not FormatAuto
	// Format 不为 FormatAuto 时覆盖自动检测
	Format Format
}

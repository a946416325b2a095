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
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type document struct {
	Apps []ProcessSpec `json:"apps" yaml:"apps"`
}

// Encode serializes the set back into a descriptor document.
// Parsing the output yields specs equal to the ones in s.
// Encode 将描述集序列化回描述文档，重新解析输出会得到与 s 相同的描述。
func Encode(s *Set, format Format) ([]byte, error) {
	doc := document{Apps: make([]ProcessSpec, 0, s.Len())}
	for spec := range s.Specs() {
		if len(spec.Args) == 0 {
			spec.Args = nil
		}
		doc.Apps = append(doc.Apps, spec)
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("descriptor: failed to encode JSON: %w", err)
		}
	case FormatYAML, FormatAuto:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("descriptor: failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("descriptor: failed to encode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return buf.Bytes(), nil
}

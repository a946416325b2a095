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
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document keys
// 文档键
const (
	keyApps        = "apps"
	keyName        = "name"
	keyScript      = "script"
	keyCwd         = "cwd"
	keyInterpreter = "interpreter"
	keyArgs        = "args"
)

// LoadFile reads and parses the document at path. Relative working
// directories of the returned set resolve against the document's directory.
// LoadFile 读取并解析 path 处的文档。返回描述集中的相对工作目录基于文档所在目录解析。
func LoadFile(path string, opts Options) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Index: -1, Reason: "cannot read document", Err: err}
	}
	if opts.Format == FormatAuto {
		opts.Format = DetectFormat(path, data)
	}

	set, err := parse(path, data, opts)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	set.source = path
	set.baseDir = filepath.Dir(abs)
	return set, nil
}

// Load parses a document read from r. Relative working directories resolve
// against the current directory.
// Load 解析从 r 读取的文档。相对工作目录基于当前目录解析。
func Load(r io.Reader, opts Options) (*Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigurationError{Index: -1, Reason: "cannot read document", Err: err}
	}
	return Parse(data, opts)
}

// Parse parses an in-memory document.
// Parse 解析内存中的文档。
func Parse(data []byte, opts Options) (*Set, error) {
	return parse("", data, opts)
}

type parser struct {
	source string
	strict bool
	set    *Set
}

func parse(source string, data []byte, opts Options) (*Set, error) {
	format := opts.Format
	if format == FormatAuto {
		format = DetectFormat(source, data)
	}

	p := &parser{
		source: source,
		strict: opts.Strict,
		set:    &Set{source: source, baseDir: ".", format: format},
	}

	var root *yaml.Node
	switch format {
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, p.docError(nil, "document is malformed", err)
		}
		if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
			root = resolve(doc.Content[0])
		}
	case FormatJSON:
		r := newJSONReader(bytes.TrimPrefix(data, utf8BOM))
		var err error
		if root, err = r.document(); err != nil {
			e := p.docError(nil, "document is malformed", err)
			e.Line, e.Column = r.locate(err)
			return nil, e
		}
	default:
		return nil, p.docError(nil, fmt.Sprintf("format %q", format), ErrUnknownFormat)
	}
	if root == nil {
		return nil, p.docError(nil, "document has no structured value", ErrEmptyDocument)
	}

	if err := p.document(root); err != nil {
		return nil, err
	}
	return p.set, nil
}

func (p *parser) document(root *yaml.Node) error {
	if root.Kind != yaml.MappingNode {
		return p.docError(root, fmt.Sprintf("top level must be a mapping with key %q", keyApps), nil)
	}

	pairs, err := p.fields(-1, "", root)
	if err != nil {
		return err
	}
	var apps *yaml.Node
	for _, pair := range pairs {
		if pair.key.Value == keyApps {
			apps = pair.value
			continue
		}
		if err := p.unknown(-1, "", pair.key); err != nil {
			return err
		}
	}

	if apps == nil {
		return &ConfigurationError{Source: p.source, Index: -1, Field: keyApps, Line: root.Line, Column: root.Column, Reason: "is required"}
	}
	if apps.Kind != yaml.SequenceNode {
		return &ConfigurationError{Source: p.source, Index: -1, Field: keyApps, Line: apps.Line, Column: apps.Column, Reason: "must be a sequence"}
	}

	p.set.specs = make([]ProcessSpec, 0, len(apps.Content))
	p.set.positions = make([]Position, 0, len(apps.Content))
	for i, item := range apps.Content {
		item = resolve(item)
		spec, err := p.entry(i, item)
		if err != nil {
			return err
		}
		p.set.specs = append(p.set.specs, spec)
		p.set.positions = append(p.set.positions, Position{Line: item.Line, Column: item.Column})
	}
	return nil
}

func (p *parser) entry(index int, n *yaml.Node) (ProcessSpec, error) {
	var spec ProcessSpec
	if n.Kind != yaml.MappingNode {
		return spec, p.entryError(index, "", "", n, "must be a mapping")
	}

	pairs, err := p.fields(index, "", n)
	if err != nil {
		return spec, err
	}
	for _, pair := range pairs {
		key, value := pair.key, pair.value
		switch key.Value {
		case keyName:
			spec.Name, err = p.str(index, spec.Name, key.Value, value)
		case keyScript:
			spec.Entrypoint, err = p.str(index, spec.Name, key.Value, value)
		case keyCwd:
			spec.WorkingDir, err = p.str(index, spec.Name, key.Value, value)
		case keyInterpreter:
			spec.Interpreter, err = p.str(index, spec.Name, key.Value, value)
		case keyArgs:
			spec.Args, err = p.strs(index, spec.Name, key.Value, value)
		default:
			err = p.unknown(index, spec.Name, key)
		}
		if err != nil {
			return spec, err
		}
	}

	required := []struct {
		key   string
		value string
	}{
		{keyName, spec.Name},
		{keyScript, spec.Entrypoint},
		{keyCwd, spec.WorkingDir},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return spec, p.entryError(index, spec.Name, req.key, n, "is required")
		}
	}
	return spec, nil
}

type field struct {
	key   *yaml.Node
	value *yaml.Node
}

// fields lists the key/value pairs of mapping n in document order with YAML
// merge keys expanded. Explicit keys win over merged ones, and among several
// merged mappings the earlier one wins.
// fields 按文档顺序列出映射 n 的键值对并展开 YAML 合并键。显式键优先于合并键，多个合并映射中靠前者优先。
func (p *parser) fields(index int, name string, n *yaml.Node) ([]field, error) {
	var explicit, merged []field
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], resolve(n.Content[i+1])
		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
			sources := []*yaml.Node{value}
			if value.Kind == yaml.SequenceNode {
				sources = value.Content
			}
			for _, src := range sources {
				src = resolve(src)
				if src.Kind != yaml.MappingNode {
					return nil, p.entryError(index, name, key.Value, src, "must merge a mapping or a sequence of mappings")
				}
				pairs, err := p.fields(index, name, src)
				if err != nil {
					return nil, err
				}
				merged = append(merged, pairs...)
			}
			continue
		}
		if seen[key.Value] {
			return nil, p.entryError(index, name, key.Value, key, "is defined more than once")
		}
		seen[key.Value] = true
		explicit = append(explicit, field{key: key, value: value})
	}

	for _, f := range merged {
		if !seen[f.key.Value] {
			seen[f.key.Value] = true
			explicit = append(explicit, f)
		}
	}
	return explicit, nil
}

func (p *parser) str(index int, name, key string, n *yaml.Node) (string, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", p.entryError(index, name, key, n, "must be a string")
	}
	return n.Value, nil
}

func (p *parser) strs(index int, name, key string, n *yaml.Node) ([]string, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, p.entryError(index, name, key, n, "must be a sequence of strings")
	}
	values := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			return nil, p.entryError(index, name, key, item, "must be a sequence of strings")
		}
		values = append(values, item.Value)
	}
	return values, nil
}

func (p *parser) unknown(index int, name string, key *yaml.Node) error {
	if p.strict {
		return p.entryError(index, name, key.Value, key, "is not a recognised key")
	}
	p.set.ignored = append(p.set.ignored, IgnoredKey{Index: index, Key: key.Value, Line: key.Line})
	return nil
}

func (p *parser) docError(n *yaml.Node, reason string, err error) *ConfigurationError {
	e := &ConfigurationError{Source: p.source, Index: -1, Reason: reason, Err: err}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

func (p *parser) entryError(index int, name, field string, n *yaml.Node, reason string) *ConfigurationError {
	return &ConfigurationError{
		Source: p.source,
		Index:  index,
		Name:   name,
		Field:  field,
		Line:   n.Line,
		Column: n.Column,
		Reason: reason,
	}
}

// resolve follows YAML aliases to the node they point at.
// resolve 跟随 YAML 别名找到其指向的节点。
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

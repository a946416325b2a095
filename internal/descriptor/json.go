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
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// jsonReader decodes a JSON document into a yaml.Node tree with the same
// shape yaml.v3 produces, so both formats share one walker. Escapes and
// string contents follow encoding/json; positions are 1-based like yaml.v3.
// jsonReader 将 JSON 文档解码为与 yaml.v3 结构一致的 yaml.Node 树，使两种格式共用同一遍历逻辑。
type jsonReader struct {
	data  []byte
	lines []int
	dec   *json.Decoder
}

func newJSONReader(data []byte) *jsonReader {
	r := &jsonReader{data: data, lines: []int{0}}
	for i, b := range data {
		if b == '\n' {
			r.lines = append(r.lines, i+1)
		}
	}
	r.dec = json.NewDecoder(bytes.NewReader(data))
	r.dec.UseNumber()
	return r
}

// document returns the root value, or nil when the input holds only whitespace
func (r *jsonReader) document() (*yaml.Node, error) {
	root, err := r.value()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	line, column := r.next()
	if _, err := r.dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("line %d:%d: unexpected data after the top-level value", line, column)
		}
		return nil, err
	}
	return root, nil
}

func (r *jsonReader) value() (*yaml.Node, error) {
	line, column := r.next()
	tok, err := r.dec.Token()
	if err != nil {
		return nil, err
	}

	n := &yaml.Node{Kind: yaml.ScalarNode, Line: line, Column: column}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n.Kind, n.Tag = yaml.MappingNode, "!!map"
		case '[':
			n.Kind, n.Tag = yaml.SequenceNode, "!!seq"
		default:
			return nil, fmt.Errorf("line %d:%d: unexpected %q", line, column, rune(v))
		}
		for r.dec.More() {
			child, err := r.value()
			if err != nil {
				return nil, eofIsTruncation(err)
			}
			n.Content = append(n.Content, child)
		}
		if _, err := r.dec.Token(); err != nil {
			return nil, eofIsTruncation(err)
		}
	case string:
		n.Tag, n.Value = "!!str", v
	case json.Number:
		n.Tag, n.Value = "!!int", v.String()
		if strings.ContainsAny(n.Value, ".eE") {
			n.Tag = "!!float"
		}
	case bool:
		n.Tag, n.Value = "!!bool", strconv.FormatBool(v)
	case nil:
		n.Tag, n.Value = "!!null", "null"
	}
	return n, nil
}

// next returns the position of the token the decoder reads next
func (r *jsonReader) next() (int, int) {
	offset := int(r.dec.InputOffset())
	for offset < len(r.data) && strings.IndexByte(" \t\r\n,:", r.data[offset]) >= 0 {
		offset++
	}
	return r.position(offset)
}

func (r *jsonReader) position(offset int) (int, int) {
	if offset > len(r.data) {
		offset = len(r.data)
	}
	line := sort.Search(len(r.lines), func(i int) bool { return r.lines[i] > offset })
	start := r.lines[line-1]
	return line, utf8.RuneCount(r.data[start:offset]) + 1
}

// locate reports the position of a syntax error, if err carries one
func (r *jsonReader) locate(err error) (int, int) {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return r.position(int(syntaxErr.Offset))
	}
	return 0, 0
}

func eofIsTruncation(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

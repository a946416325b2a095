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
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceNames = []string{"timer", "account_backend", "serve_backend", "visual_backend", "cors_server"}

// TestLoadFile_ReferenceGroup tests loading the five-process reference document
// TestLoadFile_ReferenceGroup 测试加载包含五个进程的参考文档
func TestLoadFile_ReferenceGroup(t *testing.T) {
	for _, file := range []string{"apps.yaml", "apps.json"} {
		t.Run(file, func(t *testing.T) {
			path := filepath.Join("testdata", file)
			set, err := LoadFile(path, Options{})
			require.NoError(t, err)
			require.NoError(t, set.Validate())

			var names []string
			for spec := range set.Specs() {
				names = append(names, spec.Name)
			}
			assert.Equal(t, referenceNames, names)
			assert.Equal(t, path, set.Source())

			abs, err := filepath.Abs("testdata")
			require.NoError(t, err)
			assert.Equal(t, abs, set.BaseDir())

			visual, ok := set.Lookup("visual_backend")
			require.True(t, ok)
			assert.Equal(t, "streamlit", visual.Entrypoint)
			assert.Equal(t, "./visual_backend/", visual.WorkingDir)
			assert.Equal(t, "python", visual.Interpreter)
			assert.Equal(t, []string{"run", "app_notiles.py", "--server.headless", "true"}, visual.Args)

			timer := set.At(0)
			assert.Empty(t, timer.Args)
			assert.True(t, timer.UsesInterpreter())
		})
	}
}

// TestLoadFile_DetectsFormat tests format detection by extension
// TestLoadFile_DetectsFormat 测试根据扩展名检测格式
func TestLoadFile_DetectsFormat(t *testing.T) {
	yamlSet, err := LoadFile(filepath.Join("testdata", "apps.yaml"), Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, yamlSet.Format())

	jsonSet, err := LoadFile(filepath.Join("testdata", "apps.json"), Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, jsonSet.Format())
}

// TestLoadFile_Missing tests that an unreadable file is a configuration error
// TestLoadFile_Missing 测试无法读取的文件返回配置错误
func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), Options{})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, -1, cfgErr.Index)
	assert.Contains(t, err.Error(), "cannot read document")
}

// TestParse_MissingRequiredField tests that every required field is enforced with its position
// TestParse_MissingRequiredField 测试每个必填字段都会被校验并报告位置
func TestParse_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantIndex int
		wantField string
		wantName  string
	}{
		{
			name: "missing name",
			doc: `apps:
  - name: timer
    script: timer.py
    cwd: ./
  - script: app.py
    cwd: ./account_backend/
`,
			wantIndex: 1,
			wantField: "name",
		},
		{
			name: "missing script",
			doc: `apps:
  - name: timer
    cwd: ./
`,
			wantIndex: 0,
			wantField: "script",
			wantName:  "timer",
		},
		{
			name: "missing cwd",
			doc: `apps:
  - name: timer
    script: timer.py
    cwd: ./
  - name: serve_backend
    script: app.py
  - name: cors_server
    script: cors_server.py
    cwd: ./visual_backend/tiles
`,
			wantIndex: 1,
			wantField: "cwd",
			wantName:  "serve_backend",
		},
		{
			name: "blank name",
			doc: `apps:
  - name: "  "
    script: timer.py
    cwd: ./
`,
			wantIndex: 0,
			wantField: "name",
		},
		{
			name: "null script",
			doc: `apps:
  - name: timer
    script: ~
    cwd: ./
`,
			wantIndex: 0,
			wantField: "script",
			wantName:  "timer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), Options{})
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
			assert.Equal(t, tt.wantIndex, cfgErr.Index)
			assert.Equal(t, tt.wantField, cfgErr.Field)
			assert.Equal(t, tt.wantName, cfgErr.Name)
			assert.Equal(t, "is required", cfgErr.Reason)
			assert.Positive(t, cfgErr.Line)
			assert.Contains(t, err.Error(), "entry ")
		})
	}
}

// TestParse_Malformed tests documents that cannot be parsed as a structured value
// TestParse_Malformed 测试无法解析为结构化值的文档
func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		errMsg string
	}{
		{name: "broken yaml", doc: "apps: [\n  - name: timer\n", format: FormatYAML, errMsg: "document is malformed"},
		{name: "broken json", doc: `{"apps": [ {"name": "timer",, } ]}`, format: FormatJSON, errMsg: "document is malformed"},
		{name: "json trailing value", doc: `{"apps": []} {}`, format: FormatJSON, errMsg: "unexpected data after the top-level value"},
		{name: "json truncated", doc: `{"apps": [{"name": "timer"`, format: FormatJSON, errMsg: "document is malformed"},
		{name: "json empty", doc: " \n", format: FormatJSON, errMsg: "no structured value"},
		{name: "empty", doc: "", format: FormatYAML, errMsg: "no structured value"},
		{name: "comment only", doc: "# nothing here\n", format: FormatYAML, errMsg: "no structured value"},
		{name: "scalar root", doc: "just a string\n", format: FormatYAML, errMsg: "top level must be a mapping"},
		{name: "sequence root", doc: "- name: timer\n", format: FormatYAML, errMsg: "top level must be a mapping"},
		{name: "missing apps", doc: "services: []\n", format: FormatYAML, errMsg: `field "apps" is required`},
		{name: "apps not sequence", doc: "apps:\n  timer: {}\n", format: FormatYAML, errMsg: `field "apps" must be a sequence`},
		{name: "entry not mapping", doc: "apps:\n  - timer\n", format: FormatYAML, errMsg: "entry 0: line 2:5: must be a mapping"},
		{name: "duplicate key", doc: "apps:\n  - name: a\n    name: b\n    script: s\n    cwd: .\n", format: FormatYAML, errMsg: "is defined more than once"},
		{name: "name not string", doc: `{"apps": [{"name": 7, "script": "a", "cwd": "."}]}`, format: FormatJSON, errMsg: `field "name" must be a string`},
		{name: "args not sequence", doc: "apps:\n  - name: a\n    script: s\n    cwd: .\n    args: run app.py\n", format: FormatYAML, errMsg: `field "args" must be a sequence of strings`},
		{name: "args with number", doc: "apps:\n  - name: a\n    script: s\n    cwd: .\n    args: [run, 8501]\n", format: FormatYAML, errMsg: `field "args" must be a sequence of strings`},
		{name: "unknown format", doc: "apps: []\n", format: Format("toml"), errMsg: "unknown document format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), Options{Format: tt.format})
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestParse_JSONStrings tests that JSON documents decode with JSON escape rules
// TestParse_JSONStrings 测试 JSON 文档按 JSON 转义规则解码
func TestParse_JSONStrings(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		script string
	}{
		{name: "escaped solidus", doc: `{"apps":[{"name":"a","script":"x\/y.py","cwd":"."}]}`, script: "x/y.py"},
		{name: "surrogate pair", doc: `{"apps":[{"name":"a","script":"a\ud83d\ude00","cwd":"."}]}`, script: "a\U0001F600"},
		{name: "raw DEL", doc: "{\"apps\":[{\"name\":\"a\",\"script\":\"a\x7fb\",\"cwd\":\".\"}]}", script: "a\x7fb"},
		{name: "raw NEL and BOM", doc: "{\"apps\":[{\"name\":\"a\",\"script\":\"a\u0085b\ufeffc\",\"cwd\":\".\"}]}", script: "a\u0085b\ufeffc"},
		{name: "escaped controls", doc: `{"apps":[{"name":"a","script":"a\u0000b\tc\u2028","cwd":"."}]}`, script: "a\x00b\tc\u2028"},
		{name: "tab indentation", doc: "{\n\t\"apps\": [\n\t\t{\"name\": \"a\", \"script\": \"run.sh\", \"cwd\": \".\"}\n\t]\n}\n", script: "run.sh"},
		{name: "byte order mark", doc: "\ufeff{\"apps\":[{\"name\":\"a\",\"script\":\"run.sh\",\"cwd\":\".\"}]}", script: "run.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Parse([]byte(tt.doc), Options{Format: FormatJSON, Strict: true})
			require.NoError(t, err)
			require.Equal(t, 1, set.Len())
			assert.Equal(t, tt.script, set.At(0).Entrypoint)
		})
	}
}

// TestParse_JSONPositions tests that JSON entries and errors carry line and column
// TestParse_JSONPositions 测试 JSON 条目与错误带有行列号
func TestParse_JSONPositions(t *testing.T) {
	doc := "{\n  \"apps\": [\n    {\"name\": \"a\", \"script\": \"run.sh\", \"cwd\": \".\"},\n    {\"name\": \"b\", \"cwd\": \".\", \"extra\": 1}\n  ]\n}\n"

	_, err := Parse([]byte(doc), Options{Format: FormatJSON})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 1, cfgErr.Index)
	assert.Equal(t, keyScript, cfgErr.Field)
	assert.Equal(t, 4, cfgErr.Line)
	assert.Equal(t, 5, cfgErr.Column)

	fixed := strings.Replace(doc, `"cwd": ".", "extra"`, `"cwd": ".", "script": "b.sh", "extra"`, 1)
	set, err := Parse([]byte(fixed), Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, Position{Line: 3, Column: 5}, set.Position(0))
	require.Len(t, set.Ignored(), 1)
	assert.Equal(t, "extra", set.Ignored()[0].Key)
	assert.Equal(t, 4, set.Ignored()[0].Line)

	_, err = Parse([]byte("{\n  \"apps\": [,]\n}"), Options{Format: FormatJSON})
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 2, cfgErr.Line)
}

// TestParse_MergeKeys tests that YAML merge keys are expanded into entries
// TestParse_MergeKeys 测试 YAML 合并键会展开到条目中
func TestParse_MergeKeys(t *testing.T) {
	doc := `
apps:
  - &python {name: timer, script: timer.py, cwd: ./timer/, interpreter: python}
  - <<: *python
    name: account_backend
    cwd: ./account_backend/
  - &headless
    name: visual_backend
    script: streamlit
    cwd: ./visual_backend/
    args: [run, app.py]
  - <<: [*headless, *python]
    name: visual_copy
`
	for _, strict := range []bool{false, true} {
		set, err := Parse([]byte(doc), Options{Strict: strict})
		require.NoError(t, err, "strict=%t", strict)
		require.Equal(t, 4, set.Len())
		assert.Empty(t, set.Ignored())

		account := set.At(1)
		assert.Equal(t, "account_backend", account.Name)
		assert.Equal(t, "timer.py", account.Entrypoint)
		assert.Equal(t, "./account_backend/", account.WorkingDir)
		assert.Equal(t, "python", account.Interpreter)

		// The earlier mapping of a merge sequence wins
		// 合并序列中靠前的映射优先
		copied := set.At(3)
		assert.Equal(t, "visual_copy", copied.Name)
		assert.Equal(t, "streamlit", copied.Entrypoint)
		assert.Equal(t, "./visual_backend/", copied.WorkingDir)
		assert.Equal(t, "python", copied.Interpreter)
		assert.Equal(t, []string{"run", "app.py"}, copied.Args)
	}

	_, err := Parse([]byte("apps:\n  - {<<: plain, name: a, script: s, cwd: .}\n"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must merge a mapping")

	_, err = Parse([]byte(`{"apps": [{"<<": {"script": "s"}, "name": "a", "script": "s", "cwd": "."}]}`), Options{Format: FormatJSON})
	require.NoError(t, err, "a JSON \"<<\" key is an ordinary key")
}

// TestParse_EmptyApps tests that an empty group is a valid document
// TestParse_EmptyApps 测试空应用组是合法文档
func TestParse_EmptyApps(t *testing.T) {
	set, err := Parse([]byte("apps: []\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.NoError(t, set.Validate())
}

// TestParse_Aliases tests that YAML anchors are followed
// TestParse_Aliases 测试会跟随 YAML 锚点
func TestParse_Aliases(t *testing.T) {
	doc := `
common_args: &headless ["--server.headless", "true"]
apps:
  - name: visual_backend
    script: streamlit
    cwd: ./visual_backend/
    interpreter: python
    args: *headless
`
	set, err := Parse([]byte(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"--server.headless", "true"}, set.At(0).Args)
	require.Len(t, set.Ignored(), 1)
	assert.Equal(t, "common_args", set.Ignored()[0].Key)
	assert.Equal(t, -1, set.Ignored()[0].Index)
}

// TestParse_UnknownKeys tests that unknown keys are recorded by default and rejected in strict mode
// TestParse_UnknownKeys 测试未知键默认被记录，严格模式下被拒绝
func TestParse_UnknownKeys(t *testing.T) {
	path := filepath.Join("testdata", "apps.yaml")

	set, err := LoadFile(path, Options{})
	require.NoError(t, err)
	ignored := set.Ignored()
	require.Len(t, ignored, 1)
	assert.Equal(t, 3, ignored[0].Index)
	assert.Equal(t, "alternate_script", ignored[0].Key)
	assert.Positive(t, ignored[0].Line)

	_, err = LoadFile(path, Options{Strict: true})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 3, cfgErr.Index)
	assert.Equal(t, "visual_backend", cfgErr.Name)
	assert.Equal(t, "alternate_script", cfgErr.Field)
	assert.Contains(t, err.Error(), "is not a recognised key")
}

// TestValidate_DuplicateNames tests that two entries named worker are rejected
// TestValidate_DuplicateNames 测试两个名为 worker 的条目会被拒绝
func TestValidate_DuplicateNames(t *testing.T) {
	doc := `apps:
  - name: worker
    script: worker.py
    cwd: ./
  - name: timer
    script: timer.py
    cwd: ./
  - name: worker
    script: worker.py
    cwd: ./other
`
	set, err := Parse([]byte(doc), Options{})
	require.NoError(t, err, "load does not check uniqueness")

	err = set.Validate()
	require.Error(t, err)

	var dupErr *DuplicateNameError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "worker", dupErr.Name)
	assert.Equal(t, []int{0, 2}, dupErr.Indexes)
	assert.Equal(t, []int{2, 8}, dupErr.Lines)
	assert.Equal(t, []string{"worker", "worker"}, dupErr.Entries())
	assert.Contains(t, err.Error(), `#0 "worker" (line 2), #2 "worker" (line 8)`)
}

// TestValidate_SeveralDuplicates tests that every colliding name is reported
// TestValidate_SeveralDuplicates 测试会报告所有冲突的名称
func TestValidate_SeveralDuplicates(t *testing.T) {
	set := New(".",
		ProcessSpec{Name: "a", Entrypoint: "a.py", WorkingDir: "."},
		ProcessSpec{Name: "b", Entrypoint: "b.py", WorkingDir: "."},
		ProcessSpec{Name: "a", Entrypoint: "a.py", WorkingDir: "."},
		ProcessSpec{Name: "b", Entrypoint: "b.py", WorkingDir: "."},
		ProcessSpec{Name: "a", Entrypoint: "a.py", WorkingDir: "."},
	)

	err := set.Validate()
	require.Error(t, err)

	var dupErr *DuplicateNameError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "a", dupErr.Name)
	assert.Equal(t, []int{0, 2, 4}, dupErr.Indexes)
	assert.Contains(t, err.Error(), `duplicate name "b"`)
}

// TestIterate_Restartable tests that iteration is lazy, ordered and restartable
// TestIterate_Restartable 测试迭代是惰性、有序且可重新开始的
func TestIterate_Restartable(t *testing.T) {
	set, err := LoadFile(filepath.Join("testdata", "apps.yaml"), Options{})
	require.NoError(t, err)

	var first []string
	for i, spec := range set.All() {
		first = append(first, spec.Name)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, referenceNames[:2], first)

	var second []string
	for spec := range set.Specs() {
		second = append(second, spec.Name)
	}
	assert.Equal(t, referenceNames, second)
	assert.Equal(t, referenceNames, set.Names())
}

// TestSet_Immutable tests that callers cannot mutate the set through returned values
// TestSet_Immutable 测试调用方无法通过返回值修改描述集
func TestSet_Immutable(t *testing.T) {
	args := []string{"run", "app.py"}
	set := New(".", ProcessSpec{Name: "visual", Entrypoint: "streamlit", WorkingDir: ".", Args: args})
	args[0] = "changed"

	spec := set.At(0)
	assert.Equal(t, "run", spec.Args[0])

	spec.Args[1] = "other.py"
	for s := range set.Specs() {
		s.Args[0] = "x"
	}
	assert.Equal(t, []string{"run", "app.py"}, set.At(0).Args)
}

// TestSet_ResolveDir tests working directory resolution against the base directory
// TestSet_ResolveDir 测试工作目录基于基准目录解析
func TestSet_ResolveDir(t *testing.T) {
	set := New("/srv/constellation")
	assert.Equal(t, "/srv/constellation/visual_backend/tiles", set.ResolveDir(ProcessSpec{WorkingDir: "./visual_backend/tiles"}))
	assert.Equal(t, "/srv/constellation", set.ResolveDir(ProcessSpec{WorkingDir: "./"}))
	assert.Equal(t, "/opt/timer", set.ResolveDir(ProcessSpec{WorkingDir: "/opt/timer/"}))
}

// TestProcessSpec_UsesInterpreter tests implicit interpreter detection
// TestProcessSpec_UsesInterpreter 测试隐式解释器判断
func TestProcessSpec_UsesInterpreter(t *testing.T) {
	assert.True(t, ProcessSpec{Interpreter: "python"}.UsesInterpreter())
	assert.False(t, ProcessSpec{}.UsesInterpreter())
	assert.False(t, ProcessSpec{Interpreter: "none"}.UsesInterpreter())
	assert.False(t, ProcessSpec{Interpreter: "  "}.UsesInterpreter())
}

// TestEncode_RoundTrip tests that the reference document survives serialization in both formats
// TestEncode_RoundTrip 测试参考文档在两种格式下序列化后保持不变
func TestEncode_RoundTrip(t *testing.T) {
	original, err := LoadFile(filepath.Join("testdata", "apps.yaml"), Options{})
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(original, format)
			require.NoError(t, err)

			reloaded, err := Parse(data, Options{Format: format, Strict: true})
			require.NoError(t, err, "encoded document:\n%s", data)
			require.Equal(t, original.Len(), reloaded.Len())
			for i, spec := range original.All() {
				assert.True(t, spec.Equal(reloaded.At(i)), "entry %d differs: %+v vs %+v", i, spec, reloaded.At(i))
			}
			assert.Equal(t, original.Fingerprint(), reloaded.Fingerprint())
		})
	}
}

// TestEncode_OmitsEmptyOptionalFields tests that optional fields are left out when empty
// TestEncode_OmitsEmptyOptionalFields 测试可选字段为空时不输出
func TestEncode_OmitsEmptyOptionalFields(t *testing.T) {
	set := New(".", ProcessSpec{Name: "job", Entrypoint: "./run.sh", WorkingDir: ".", Args: []string{}})

	data, err := Encode(set, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "apps:\n  - name: job\n    script: ./run.sh\n    cwd: .\n", string(data))

	_, err = Encode(set, Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// TestParseFormat tests format names accepted from the command line
// TestParseFormat 测试命令行接受的格式名称
func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"": FormatAuto, "auto": FormatAuto, "YAML": FormatYAML, "yml": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseFormat("js")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// TestDetectFormat tests content sniffing when the extension is not conclusive
// TestDetectFormat 测试扩展名无法判断时的内容嗅探
func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("apps.json", nil))
	assert.Equal(t, FormatYAML, DetectFormat("apps.yml", []byte("{}")))
	assert.Equal(t, FormatJSON, DetectFormat("", []byte("  \n{\"apps\": []}")))
	assert.Equal(t, FormatYAML, DetectFormat("ecosystem.config", []byte("apps: []")))
}

// TestDiff tests change detection between two loads
// TestDiff 测试两次加载之间的变更检测
func TestDiff(t *testing.T) {
	from := New(".",
		ProcessSpec{Name: "timer", Entrypoint: "timer.py", WorkingDir: "./", Interpreter: "python"},
		ProcessSpec{Name: "visual_backend", Entrypoint: "streamlit", WorkingDir: "./visual_backend/", Interpreter: "python",
			Args: []string{"run", "app_notiles.py"}},
		ProcessSpec{Name: "serve_backend", Entrypoint: "app.py", WorkingDir: "./serve_backend/", Interpreter: "python"},
	)
	to := New(".",
		ProcessSpec{Name: "timer", Entrypoint: "timer.py", WorkingDir: "./", Interpreter: "python"},
		ProcessSpec{Name: "visual_backend", Entrypoint: "streamlit", WorkingDir: "./visual_backend/", Interpreter: "python",
			Args: []string{"run", "app_tiles.py"}},
		ProcessSpec{Name: "cors_server", Entrypoint: "cors_server.py", WorkingDir: "./visual_backend/tiles", Interpreter: "python"},
	)

	changes := Diff(from, to)
	assert.Equal(t, []string{"cors_server"}, changes.Added)
	assert.Equal(t, []string{"serve_backend"}, changes.Removed)
	assert.Equal(t, []string{"visual_backend"}, changes.Changed)
	assert.False(t, changes.Reordered)
	assert.False(t, changes.Empty())

	assert.True(t, Diff(from, from).Empty())

	swapped := New(".", from.At(1), from.At(0), from.At(2))
	assert.True(t, Diff(from, swapped).Reordered)
}

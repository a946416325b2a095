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

// Package descriptor loads and validates the launch descriptor set: the ordered
// list of processes an operator runs together as one application group.
// descriptor 包加载并校验启动描述集：运维人员作为一个应用组一起运行的有序进程列表。
//
// The set is read once, validated eagerly and never mutated afterwards.
// Reloading means parsing the whole document again.
// 描述集只读取一次、立即校验，之后不再修改。重新加载即重新解析整个文档。
package descriptor

import "strings"

// InterpreterNone marks an entrypoint that is executed directly.
// InterpreterNone 表示入口直接执行，不经过解释器。
const InterpreterNone = "none"

// ProcessSpec describes how to launch one process of the group.
// ProcessSpec 描述如何启动应用组中的一个进程。
type ProcessSpec struct {
	// Name is the unique identifier of the process within the set
	// Name 是进程在描述集中的唯一标识
	Name string `json:"name" yaml:"name"`

	// Entrypoint is the script or command to run (document key "script")
	// Entrypoint 是要运行的脚本或命令（文档键 "script"）
	Entrypoint string `json:"script" yaml:"script"`

	// WorkingDir is relative to the document location (document key "cwd")
	// WorkingDir 相对于文档所在目录（文档键 "cwd"）
	WorkingDir string `json:"cwd" yaml:"cwd"`

	// Interpreter is the runtime binary; empty or "none" means implicit
	// Interpreter 是运行时程序；为空或 "none" 表示直接执行
	Interpreter string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`

	// Args are passed to the entrypoint in order (document key "args")
	// Args 按顺序传递给入口（文档键 "args"）
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// UsesInterpreter reports whether the entrypoint runs through an interpreter.
// UsesInterpreter 判断入口是否通过解释器运行。
func (p ProcessSpec) UsesInterpreter() bool {
	i := strings.TrimSpace(p.Interpreter)
	return i != "" && i != InterpreterNone
}

// Equal compares two specs field by field. Nil and empty Args are equal.
// Equal 逐字段比较两个描述。nil 与空 Args 视为相等。
func (p ProcessSpec) Equal(other ProcessSpec) bool {
	if p.Name != other.Name ||
		p.Entrypoint != other.Entrypoint ||
		p.WorkingDir != other.WorkingDir ||
		p.Interpreter != other.Interpreter {
		return false
	}
	if len(p.Args) != len(other.Args) {
		return false
	}
	for i, arg := range p.Args {
		if arg != other.Args[i] {
			return false
		}
	}
	return true
}

func (p ProcessSpec) clone() ProcessSpec {
	if p.Args != nil {
		p.Args = append([]string(nil), p.Args...)
	}
	return p
}

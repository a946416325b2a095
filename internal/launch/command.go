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

// Package launch turns a validated descriptor set into the concrete commands a
// supervisor runs: the program, its arguments and the absolute working
// directory of every process. Nothing here starts a process.
// launch 包把已校验的描述集转换为进程管理器要执行的具体命令：程序、参数与绝对工作目录。
// 本包不会启动任何进程。
package launch

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/xingzuo/appgroup/internal/descriptor"
)

// Command is the resolved hand-off for one process
// Command 是单个进程解析后的启动信息
type Command struct {
	// Name is the process name from the descriptor
	// Name 是描述中的进程名称
	Name string `json:"name"`

	// Dir is the absolute working directory
	// Dir 是绝对工作目录
	Dir string `json:"dir"`

	// Interpreter is empty when the script is executed directly
	// Interpreter 为空表示脚本直接执行
	Interpreter string `json:"interpreter,omitempty"`

	// Script is the entrypoint exactly as declared
	// Script 是声明的原始入口
	Script string `json:"script"`

	// Args are the declared arguments, never nil
	// Args 是声明的参数，不为 nil
	Args []string `json:"args"`
}

// NewCommand resolves spec against the set's base directory
// NewCommand 基于描述集的基准目录解析 spec
func NewCommand(set *descriptor.Set, spec descriptor.ProcessSpec) Command {
	cmd := Command{
		Name:   spec.Name,
		Dir:    set.ResolveDir(spec),
		Script: spec.Entrypoint,
		Args:   append([]string{}, spec.Args...),
	}
	if spec.UsesInterpreter() {
		cmd.Interpreter = strings.TrimSpace(spec.Interpreter)
	}
	return cmd
}

// Program returns the executable the supervisor invokes: the interpreter when
// there is one, otherwise the script. A script given as a relative path is
// joined onto Dir; a bare name is left for PATH lookup.
// Program 返回要调用的可执行文件：有解释器时为解释器，否则为脚本本身。
// 相对路径的脚本会拼接到 Dir，裸名称保留给 PATH 查找。
func (c Command) Program() string {
	if c.Interpreter != "" {
		return c.Interpreter
	}
	bare := !strings.ContainsRune(c.Script, '/') && !strings.ContainsRune(c.Script, filepath.Separator)
	if bare || filepath.IsAbs(c.Script) {
		return c.Script
	}
	return filepath.Join(c.Dir, c.Script)
}

// Argv returns the full argument vector, program first
// Argv 返回完整参数列表，第一个元素为程序
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+2)
	argv = append(argv, c.Program())
	if c.Interpreter != "" {
		argv = append(argv, c.Script)
	}
	return append(argv, c.Args...)
}

// String renders the command as a POSIX shell line
// String 将命令渲染为 POSIX shell 命令行
func (c Command) String() string {
	return "cd " + shellescape.Quote(c.Dir) + " && " + shellescape.QuoteCommand(c.Argv())
}

// ExecCmd builds an unstarted command in its own process group.
// The caller owns starting, waiting and signalling it.
// ExecCmd 构建一个未启动、位于独立进程组的命令，启动、等待与信号处理由调用方负责。
func (c Command) ExecCmd(ctx context.Context) *exec.Cmd {
	argv := c.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	setProcGroupAttr(cmd)
	return cmd
}

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

// Package preflight checks, on demand, that a launch plan can be handed off:
// working directories exist, entrypoints resolve and interpreters are on PATH.
// It only reports and never starts anything.
// preflight 包按需检查启动计划能否交付：工作目录存在、入口可解析、解释器在 PATH 中。
// 本包只报告结果，不会启动任何进程。
package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xingzuo/appgroup/internal/launch"
	"github.com/xingzuo/appgroup/internal/otel_trace"
	"go.opentelemetry.io/otel/attribute"
)

// CheckStatus represents the status of a check item
// CheckStatus 表示检查项的状态
type CheckStatus string

const (
	CheckStatusPassed  CheckStatus = "passed"
	CheckStatusFailed  CheckStatus = "failed"
	CheckStatusWarning CheckStatus = "warning"
)

// CheckName represents the name of a check item
// CheckName 表示检查项的名称
type CheckName string

const (
	// CheckNameCwd checks that the working directory exists
	// CheckNameCwd 检查工作目录是否存在
	CheckNameCwd CheckName = "cwd"

	// CheckNameInterpreter checks that the interpreter can be found
	// CheckNameInterpreter 检查解释器是否可找到
	CheckNameInterpreter CheckName = "interpreter"

	// CheckNameEntrypoint checks that the script can be found
	// CheckNameEntrypoint 检查入口脚本是否可找到
	CheckNameEntrypoint CheckName = "entrypoint"
)

// Item represents a single check result
// Item 表示单个检查结果
type Item struct {
	// Process is the descriptor entry the check belongs to
	// Process 是检查所属的描述条目
	Process string `json:"process"`

	Name    CheckName              `json:"name"`
	Status  CheckStatus            `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Result contains all check results
// Result 包含所有检查结果
type Result struct {
	Items []Item `json:"items"`

	// OverallStatus is failed if any check failed, warning if any warned
	// OverallStatus 有失败项则为失败，有警告项则为警告
	OverallStatus CheckStatus `json:"overall_status"`

	Summary string `json:"summary"`
}

// FileSystem is the view of the host the checks run against
// FileSystem 是检查所依赖的主机视图
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	LookPath(file string) (string, error)
}

// OSFileSystem is the default FileSystem backed by the os package
// OSFileSystem 是基于 os 包的默认实现
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OSFileSystem) LookPath(file string) (string, error) { return exec.LookPath(file) }

// Checker runs the checks for a plan
// Checker 对启动计划执行检查
type Checker struct {
	fs FileSystem
}

// NewChecker creates a Checker; a nil fs uses the host filesystem
// NewChecker 创建 Checker，fs 为 nil 时使用主机文件系统
func NewChecker(fs FileSystem) *Checker {
	if fs == nil {
		fs = OSFileSystem{}
	}
	return &Checker{fs: fs}
}

// Run checks every command of plan in order
// Run 按顺序检查计划中的每个命令
func (c *Checker) Run(ctx context.Context, plan *launch.Plan) (*Result, error) {
	ctx, span := otel_trace.Start(ctx, "preflight.Run")
	defer span.End()

	result := &Result{
		Items:         make([]Item, 0, len(plan.Commands)*3),
		OverallStatus: CheckStatusPassed,
	}

	passedCount, failedCount, warningCount := 0, 0, 0
	for _, cmd := range plan.Commands {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for _, item := range c.CheckCommand(cmd) {
			result.Items = append(result.Items, item)
			switch item.Status {
			case CheckStatusPassed:
				passedCount++
			case CheckStatusFailed:
				failedCount++
				result.OverallStatus = CheckStatusFailed
			case CheckStatusWarning:
				warningCount++
				if result.OverallStatus == CheckStatusPassed {
					result.OverallStatus = CheckStatusWarning
				}
			}
		}
	}

	result.Summary = fmt.Sprintf(
		"Preflight completed for %d processes: %d passed, %d failed, %d warnings / 预检查完成（%d 个进程）：%d 通过，%d 失败，%d 警告",
		len(plan.Commands), passedCount, failedCount, warningCount,
		len(plan.Commands), passedCount, failedCount, warningCount,
	)
	span.SetAttributes(
		attribute.Int("preflight.processes", len(plan.Commands)),
		attribute.String("preflight.status", string(result.OverallStatus)),
	)
	return result, nil
}

// CheckCommand returns the items for one command
// CheckCommand 返回单个命令的检查项
func (c *Checker) CheckCommand(cmd launch.Command) []Item {
	items := []Item{c.checkCwd(cmd)}
	if cmd.Interpreter != "" {
		items = append(items, c.checkInterpreter(cmd))
	}
	return append(items, c.checkEntrypoint(cmd))
}

func (c *Checker) checkCwd(cmd launch.Command) Item {
	item := Item{Process: cmd.Name, Name: CheckNameCwd, Details: map[string]interface{}{"path": cmd.Dir}}

	info, err := c.fs.Stat(cmd.Dir)
	switch {
	case err != nil:
		item.Status = CheckStatusFailed
		item.Message = fmt.Sprintf("Working directory %s is not accessible: %v / 工作目录不可访问", cmd.Dir, err)
	case !info.IsDir():
		item.Status = CheckStatusFailed
		item.Message = fmt.Sprintf("Working directory %s is not a directory / 工作目录不是目录", cmd.Dir)
	default:
		item.Status = CheckStatusPassed
		item.Message = fmt.Sprintf("Working directory %s exists / 工作目录存在", cmd.Dir)
	}
	return item
}

func (c *Checker) checkInterpreter(cmd launch.Command) Item {
	item := Item{Process: cmd.Name, Name: CheckNameInterpreter, Details: map[string]interface{}{"interpreter": cmd.Interpreter}}

	path, err := c.resolveExecutable(cmd.Interpreter, cmd.Dir)
	if err != nil {
		item.Status = CheckStatusFailed
		item.Message = fmt.Sprintf("Interpreter %s not found: %v / 未找到解释器", cmd.Interpreter, err)
		return item
	}
	item.Details["path"] = path
	item.Status = CheckStatusPassed
	item.Message = fmt.Sprintf("Interpreter %s resolved to %s / 解释器已解析", cmd.Interpreter, path)
	return item
}

func (c *Checker) checkEntrypoint(cmd launch.Command) Item {
	item := Item{Process: cmd.Name, Name: CheckNameEntrypoint, Details: map[string]interface{}{"script": cmd.Script}}

	if cmd.Interpreter != "" {
		// The interpreter receives the script as given and resolves it from cwd.
		// 解释器按原样接收脚本，并相对 cwd 解析。
		path := cmd.Script
		if !filepath.IsAbs(path) {
			path = filepath.Join(cmd.Dir, path)
		}
		item.Details["path"] = path
		if info, err := c.fs.Stat(path); err == nil && !info.IsDir() {
			item.Status = CheckStatusPassed
			item.Message = fmt.Sprintf("Script %s exists / 脚本存在", path)
			return item
		}
		item.Status = CheckStatusWarning
		item.Message = fmt.Sprintf(
			"Script %s not found in %s; %s may still resolve it as a module or console script / 脚本未在工作目录中找到，解释器可能仍能解析",
			cmd.Script, cmd.Dir, cmd.Interpreter,
		)
		return item
	}

	path, err := c.resolveExecutable(cmd.Program(), cmd.Dir)
	if err != nil {
		item.Status = CheckStatusFailed
		item.Message = fmt.Sprintf("Entrypoint %s cannot be executed: %v / 入口无法执行", cmd.Script, err)
		return item
	}
	item.Details["path"] = path
	item.Status = CheckStatusPassed
	item.Message = fmt.Sprintf("Entrypoint %s resolved to %s / 入口已解析", cmd.Script, path)
	return item
}

// resolveExecutable finds name on PATH when it is bare, otherwise checks the file itself
func (c *Checker) resolveExecutable(name, dir string) (string, error) {
	if !strings.ContainsRune(name, '/') && !strings.ContainsRune(name, filepath.Separator) {
		return c.fs.LookPath(name)
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	info, err := c.fs.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%s is not executable", path)
	}
	return path, nil
}

// Failed returns the items that failed
// Failed 返回失败的检查项
func (r *Result) Failed() []Item {
	var failed []Item
	for _, item := range r.Items {
		if item.Status == CheckStatusFailed {
			failed = append(failed, item)
		}
	}
	return failed
}

// GetCheck returns the item for process and check name, or nil
// GetCheck 返回指定进程和检查名称的检查项，不存在时返回 nil
func (r *Result) GetCheck(process string, name CheckName) *Item {
	for i := range r.Items {
		if r.Items[i].Process == process && r.Items[i].Name == name {
			return &r.Items[i]
		}
	}
	return nil
}

// ToJSON converts the result to JSON string
// ToJSON 将结果转换为 JSON 字符串
func (r *Result) ToJSON() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

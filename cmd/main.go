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

// Package main is the entry point for the appgroup command line tool.
// main 包是 appgroup 命令行工具的入口点。
//
// appgroup loads and validates the launch descriptor of an application group:
// appgroup 加载并校验应用组的启动描述：
// - Validates the document and records revisions / 校验文档并记录修订
// - Prints and exports the entries / 打印和导出条目
// - Resolves the launch plan and runs preflight checks / 解析启动计划并执行预检
// - Publishes the set over HTTP for a supervisor / 通过 HTTP 向进程管理器发布描述集
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/xingzuo/appgroup/internal/config"
	"github.com/xingzuo/appgroup/internal/descriptor"
	"github.com/xingzuo/appgroup/internal/logger"
	"github.com/xingzuo/appgroup/internal/otel_trace"
)

// Version information, set at build time
// 版本信息，在构建时设置
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// app holds state shared by all subcommands
// app 保存所有子命令共享的状态
type app struct {
	// configFile is the path to the settings file
	// configFile 是配置文件的路径
	configFile string

	logLevel string
	strict   bool

	// cfg is loaded in PersistentPreRunE
	// cfg 在 PersistentPreRunE 中加载
	cfg *config.Config
}

// newRootCmd creates the root command with every subcommand attached
// newRootCmd 创建挂载了所有子命令的根命令
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "appgroup",
		Short: "appgroup - launch descriptor tooling for application groups",
		Long: `appgroup loads, validates and publishes the launch descriptor of an application group.
appgroup 加载、校验并发布应用组的启动描述。

The descriptor lists every process of the group with its script, working
directory, interpreter and arguments. appgroup never starts the processes.
描述文件列出应用组中每个进程的脚本、工作目录、解释器和参数，appgroup 不会启动进程。`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "settings file path (default: $APPGROUP_CONFIG or appgroup.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&a.strict, "strict", false, "reject unknown keys in the descriptor")

	rootCmd.AddCommand(
		newVersionCmd(),
		newValidateCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newPlanCmd(a),
		newPreflightCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// newVersionCmd shows version information
// newVersionCmd 显示版本信息
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information / 打印版本信息",
		Args:  cobra.NoArgs,
		// version needs no settings
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		PersistentPostRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "appgroup\n")
			fmt.Fprintf(out, "  Version:    %s\n", Version)
			fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Build Time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// setup loads settings and initializes logging and tracing
// setup 加载配置并初始化日志和链路追踪
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("log-level") {
		overrides["log.level"] = a.logLevel
	}
	if cmd.Flags().Changed("strict") {
		overrides["descriptor.strict"] = a.strict
	}

	cfg, err := config.LoadWithPriority(a.configFile, overrides)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	a.cfg = cfg

	if err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Console:    cmd.ErrOrStderr(),
	}); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	otel_trace.Init(cmd.Context(), cfg.Telemetry)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) {
	otel_trace.Shutdown(context.WithoutCancel(cmd.Context()))
	_ = logger.Sync()
}

// descriptorPath returns the descriptor given on the command line or the configured one
// descriptorPath 返回命令行指定的描述文件或配置中的描述文件
func (a *app) descriptorPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.Descriptor.File
}

// loadSet loads and validates the descriptor. "-" reads standard input.
// Ignored unknown keys are logged as warnings.
// loadSet 加载并校验描述文件，"-" 表示读取标准输入；被忽略的未知键记录为警告。
func (a *app) loadSet(cmd *cobra.Command, args []string) (*descriptor.Set, error) {
	ctx, span := otel_trace.Start(cmd.Context(), "descriptor.Load")
	defer span.End()

	opts := descriptor.Options{Strict: a.cfg.Descriptor.Strict}
	path := a.descriptorPath(args)

	var set *descriptor.Set
	var err error
	if path == "-" {
		set, err = descriptor.Load(cmd.InOrStdin(), opts)
	} else {
		set, err = descriptor.LoadFile(path, opts)
	}
	if err != nil {
		return nil, err
	}

	for _, key := range set.Ignored() {
		if key.Index < 0 {
			logger.WarnF(ctx, "[Descriptor] %s: line %d: ignoring unknown top-level key %q", path, key.Line, key.Key)
			continue
		}
		logger.WarnF(ctx, "[Descriptor] %s: line %d: entry %d: ignoring unknown key %q", path, key.Line, key.Index, key.Key)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	logger.DebugF(ctx, "[Descriptor] loaded %d entries from %s", set.Len(), path)
	return set, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xingzuo/appgroup/internal/descriptor"
	"github.com/xingzuo/appgroup/internal/launch"
	"github.com/xingzuo/appgroup/internal/logger"
	"github.com/xingzuo/appgroup/internal/preflight"
)

// Output formats of the printing commands
// 打印类命令的输出格式
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// errPreflightFailed makes the preflight command exit non-zero
var errPreflightFailed = errors.New("preflight failed")

// newValidateCmd loads the descriptor and reports whether it is well formed
// newValidateCmd 加载描述文件并报告其是否合法
func newValidateCmd(a *app) *cobra.Command {
	var record, publishSet bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a launch descriptor / 校验启动描述文件",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSet(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d processes OK\n", a.descriptorPath(args), set.Len())
			if n := len(set.Ignored()); n > 0 {
				fmt.Fprintf(out, "%d unknown keys ignored\n", n)
			}

			if record {
				store, closeStore, err := openStore(cmd.Context(), a.cfg)
				if err != nil {
					return err
				}
				defer closeStore()

				snap, created, err := store.Record(cmd.Context(), set)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(out, "recorded snapshot %s\n", snap.SnapshotID)
				} else {
					fmt.Fprintf(out, "unchanged since snapshot %s\n", snap.SnapshotID)
				}
			}

			if publishSet {
				publisher, err := openPublisher(cmd.Context(), a.cfg)
				if err != nil {
					return err
				}
				defer publisher.Close()

				changed, err := publisher.Publish(cmd.Context(), set)
				if err != nil {
					return err
				}
				if changed {
					fmt.Fprintf(out, "published to %s\n", publisher.DocumentKey())
				} else {
					fmt.Fprintf(out, "%s is up to date\n", publisher.DocumentKey())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "store a snapshot when the document changed")
	cmd.Flags().BoolVar(&publishSet, "publish", false, "publish the set to redis")
	return cmd
}

// newListCmd prints the entries in declaration order
// newListCmd 按声明顺序打印条目
func newListCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "List the processes of a descriptor / 列出描述文件中的进程",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSet(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch output {
			case outputTable:
				return printSpecTable(out, set)
			case outputJSON:
				apps := make([]descriptor.ProcessSpec, 0, set.Len())
				for spec := range set.Specs() {
					apps = append(apps, spec)
				}
				return writeJSON(out, apps)
			case outputYAML:
				data, err := descriptor.Encode(set, descriptor.FormatYAML)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			default:
				return fmt.Errorf("unknown output %q (must be table, json or yaml)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json, yaml")
	return cmd
}

func printSpecTable(out io.Writer, set *descriptor.Set) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINTERPRETER\tSCRIPT\tCWD\tARGS")
	for spec := range set.Specs() {
		interpreter := spec.Interpreter
		if !spec.UsesInterpreter() {
			interpreter = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", spec.Name, interpreter, spec.Entrypoint, spec.WorkingDir, strings.Join(spec.Args, " "))
	}
	return w.Flush()
}

// newExportCmd re-encodes the descriptor, optionally converting its format
// newExportCmd 重新编码描述文件，可选转换格式
func newExportCmd(a *app) *cobra.Command {
	var formatName, outFile string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the descriptor in canonical form / 以规范格式输出描述文件",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := descriptor.ParseFormat(formatName)
			if err != nil {
				return err
			}
			set, err := a.loadSet(cmd, args)
			if err != nil {
				return err
			}
			if format == descriptor.FormatAuto {
				format = set.Format()
			}

			data, err := descriptor.Encode(set, format)
			if err != nil {
				return err
			}
			if outFile == "" || outFile == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			logger.InfoF(cmd.Context(), "[Descriptor] exported %d entries to %s", set.Len(), outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: yaml or json (default: same as input)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")
	return cmd
}

// newPlanCmd prints the command line each process would be launched with
// newPlanCmd 打印每个进程的启动命令行
func newPlanCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Show how each process would be launched / 显示每个进程的启动方式",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSet(cmd, args)
			if err != nil {
				return err
			}
			plan := launch.NewPlan(set)
			out := cmd.OutOrStdout()

			switch output {
			case outputTable:
				for _, c := range plan.Commands {
					fmt.Fprintf(out, "%s: %s\n", c.Name, c.String())
				}
				return nil
			case outputJSON:
				return writeJSON(out, plan)
			default:
				return fmt.Errorf("unknown output %q (must be table or json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json")
	return cmd
}

// newPreflightCmd checks working directories, interpreters and entrypoints
// newPreflightCmd 检查工作目录、解释器和入口
func newPreflightCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preflight [file]",
		Short: "Check that every process can be launched / 检查每个进程是否可以启动",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSet(cmd, args)
			if err != nil {
				return err
			}
			result, err := preflight.NewChecker(preflight.OSFileSystem{}).Run(cmd.Context(), launch.NewPlan(set))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch output {
			case outputTable:
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PROCESS\tCHECK\tSTATUS\tMESSAGE")
				for _, item := range result.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Process, item.Name, item.Status, item.Message)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintln(out, result.Summary)
			case outputJSON:
				data, err := result.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, data)
			default:
				return fmt.Errorf("unknown output %q (must be table or json)", output)
			}

			if result.OverallStatus == preflight.CheckStatusFailed {
				return fmt.Errorf("%w: %d checks failed", errPreflightFailed, len(result.Failed()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json")
	return cmd
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

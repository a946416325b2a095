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

package launch

import (
	"github.com/xingzuo/appgroup/internal/descriptor"
)

// Plan is the ordered list of commands for a whole group
// Plan 是整个应用组的有序命令列表
type Plan struct {
	Source   string    `json:"source"`
	BaseDir  string    `json:"base_dir"`
	Commands []Command `json:"commands"`
}

// NewPlan resolves every entry of set in declaration order.
// The set should already have passed Validate.
// NewPlan 按声明顺序解析 set 中的每个条目，set 应已通过 Validate。
func NewPlan(set *descriptor.Set) *Plan {
	plan := &Plan{
		Source:   set.Source(),
		BaseDir:  set.BaseDir(),
		Commands: make([]Command, 0, set.Len()),
	}
	for spec := range set.Specs() {
		plan.Commands = append(plan.Commands, NewCommand(set, spec))
	}
	return plan
}

// Lookup 按名称查找命令
func (p *Plan) Lookup(name string) (Command, bool) {
	for _, c := range p.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

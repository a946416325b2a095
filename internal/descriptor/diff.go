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

// Changes summarizes how one set differs from another, by entry name.
// Changes 按条目名称汇总两个描述集之间的差异。
type Changes struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Changed   []string `json:"changed"`
	Reordered bool     `json:"reordered"`
}

// Empty reports whether the two sets were identical.
// Empty 判断两个描述集是否完全相同。
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0 && !c.Reordered
}

// Diff compares from and to. Entries are matched by name; when a name
// occurs more than once only its first occurrence is compared.
// Diff 比较 from 与 to。条目按名称匹配；名称重复时只比较第一次出现的条目。
func Diff(from, to *Set) Changes {
	changes := Changes{Added: []string{}, Removed: []string{}, Changed: []string{}}

	old := make(map[string]ProcessSpec, from.Len())
	for spec := range from.Specs() {
		if _, ok := old[spec.Name]; !ok {
			old[spec.Name] = spec
		}
	}
	current := make(map[string]bool, to.Len())

	var common []string
	for spec := range to.Specs() {
		if current[spec.Name] {
			continue
		}
		current[spec.Name] = true

		prev, ok := old[spec.Name]
		switch {
		case !ok:
			changes.Added = append(changes.Added, spec.Name)
		case !prev.Equal(spec):
			changes.Changed = append(changes.Changed, spec.Name)
			common = append(common, spec.Name)
		default:
			common = append(common, spec.Name)
		}
	}

	var previousOrder []string
	seen := make(map[string]bool, from.Len())
	for spec := range from.Specs() {
		if seen[spec.Name] {
			continue
		}
		seen[spec.Name] = true
		if !current[spec.Name] {
			changes.Removed = append(changes.Removed, spec.Name)
			continue
		}
		previousOrder = append(previousOrder, spec.Name)
	}

	for i := range common {
		if common[i] != previousOrder[i] {
			changes.Reordered = true
			break
		}
	}
	return changes
}

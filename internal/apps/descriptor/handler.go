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

// Package descriptor publishes a loaded launch descriptor set over HTTP.
// Package descriptor 通过 HTTP 发布已加载的启动描述集。
package descriptor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xingzuo/appgroup/internal/descriptor"
	"github.com/xingzuo/appgroup/internal/launch"
)

// Handler serves read-only views of one descriptor set.
// The set is immutable so no locking is needed.
// Handler 提供单个描述集的只读视图，描述集不可变，无需加锁。
type Handler struct {
	set  *descriptor.Set
	plan *launch.Plan
}

// NewHandler creates a new Handler for a validated set.
// NewHandler 为已校验的描述集创建 Handler。
func NewHandler(set *descriptor.Set) *Handler {
	return &Handler{set: set, plan: launch.NewPlan(set)}
}

// ==================== Request/Response Types 请求/响应类型 ====================

// HealthResponse represents the response for health check.
// HealthResponse 表示健康检查的响应。
type HealthResponse struct {
	ErrorMsg string      `json:"error_msg"`
	Data     *HealthData `json:"data"`
}

// HealthData holds the health status.
// HealthData 包含健康状态。
type HealthData struct {
	Status string `json:"status"`
	Source string `json:"source"`
	Apps   int    `json:"apps"`
}

// ListAppsResponse represents the response for listing entries.
// ListAppsResponse 表示列出条目的响应。
type ListAppsResponse struct {
	ErrorMsg string        `json:"error_msg"`
	Data     *ListAppsData `json:"data"`
}

// ListAppsData holds the set in declaration order.
// ListAppsData 按声明顺序包含描述集。
type ListAppsData struct {
	Source  string                   `json:"source"`
	Format  descriptor.Format        `json:"format"`
	Total   int                      `json:"total"`
	Apps    []descriptor.ProcessSpec `json:"apps"`
	Ignored []descriptor.IgnoredKey  `json:"ignored"`
}

// GetAppResponse represents the response for one entry.
// GetAppResponse 表示单个条目的响应。
type GetAppResponse struct {
	ErrorMsg string   `json:"error_msg"`
	Data     *AppInfo `json:"data"`
}

// AppInfo combines an entry with its resolved launch command.
// AppInfo 将条目与解析后的启动命令组合。
type AppInfo struct {
	Spec     descriptor.ProcessSpec `json:"spec"`
	Position descriptor.Position    `json:"position"`
	Command  launch.Command         `json:"command"`
}

// GetPlanResponse represents the response for the launch plan.
// GetPlanResponse 表示启动计划的响应。
type GetPlanResponse struct {
	ErrorMsg string       `json:"error_msg"`
	Data     *launch.Plan `json:"data"`
}

// ==================== Handlers 处理器 ====================

// Health handles GET /api/v1/health.
// Health 处理 GET /api/v1/health 请求。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Data: &HealthData{
		Status: "ok",
		Source: h.set.Source(),
		Apps:   h.set.Len(),
	}})
}

// ListApps handles GET /api/v1/apps.
// ListApps 处理 GET /api/v1/apps 请求。
func (h *Handler) ListApps(c *gin.Context) {
	apps := make([]descriptor.ProcessSpec, 0, h.set.Len())
	for spec := range h.set.Specs() {
		apps = append(apps, spec)
	}
	ignored := h.set.Ignored()
	if ignored == nil {
		ignored = []descriptor.IgnoredKey{}
	}
	c.JSON(http.StatusOK, ListAppsResponse{Data: &ListAppsData{
		Source:  h.set.Source(),
		Format:  h.set.Format(),
		Total:   len(apps),
		Apps:    apps,
		Ignored: ignored,
	}})
}

// GetApp handles GET /api/v1/apps/:name.
// GetApp 处理 GET /api/v1/apps/:name 请求。
func (h *Handler) GetApp(c *gin.Context) {
	name := c.Param("name")
	for i, spec := range h.set.All() {
		if spec.Name != name {
			continue
		}
		c.JSON(http.StatusOK, GetAppResponse{Data: &AppInfo{
			Spec:     spec,
			Position: h.set.Position(i),
			Command:  h.plan.Commands[i],
		}})
		return
	}
	c.JSON(http.StatusNotFound, GetAppResponse{ErrorMsg: "app not found: " + name})
}

// GetPlan handles GET /api/v1/plan.
// GetPlan 处理 GET /api/v1/plan 请求。
func (h *Handler) GetPlan(c *gin.Context) {
	c.JSON(http.StatusOK, GetPlanResponse{Data: h.plan})
}

// GetDocument handles GET /api/v1/document?format=yaml|json and returns
// the set re-encoded as a descriptor document.
// GetDocument 处理 GET /api/v1/document 请求，返回重新编码的描述文档。
func (h *Handler) GetDocument(c *gin.Context) {
	format, err := descriptor.ParseFormat(c.DefaultQuery("format", string(descriptor.FormatYAML)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error_msg": err.Error(), "data": nil})
		return
	}
	data, err := descriptor.Encode(h.set, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error_msg": err.Error(), "data": nil})
		return
	}

	contentType := "application/yaml; charset=utf-8"
	if format == descriptor.FormatJSON {
		contentType = "application/json; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, data)
}

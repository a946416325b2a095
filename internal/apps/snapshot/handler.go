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

package snapshot

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xingzuo/appgroup/internal/descriptor"
)

// Handler provides HTTP handlers for snapshot history.
// Handler 提供快照历史的 HTTP 处理器。
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler instance.
// NewHandler 创建一个新的 Handler 实例。
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ==================== Request/Response Types 请求/响应类型 ====================

// ListSnapshotsRequest represents the request for listing snapshots.
// ListSnapshotsRequest 表示获取快照列表的请求。
type ListSnapshotsRequest struct {
	Current int    `json:"current" form:"current" binding:"min=1"`
	Size    int    `json:"size" form:"size" binding:"min=1,max=100"`
	Source  string `json:"source" form:"source"`
}

// ListSnapshotsResponse represents the response for listing snapshots.
// ListSnapshotsResponse 表示获取快照列表的响应。
type ListSnapshotsResponse struct {
	ErrorMsg string             `json:"error_msg"`
	Data     *ListSnapshotsData `json:"data"`
}

// ListSnapshotsData 快照列表数据
type ListSnapshotsData struct {
	Total     int64       `json:"total"`
	Snapshots []*Snapshot `json:"snapshots"`
}

// GetSnapshotResponse represents the response for getting a snapshot.
// GetSnapshotResponse 表示获取快照详情的响应。
type GetSnapshotResponse struct {
	ErrorMsg string `json:"error_msg"`
	Data     *Info  `json:"data"`
}

// DiffResponse represents the response for comparing two snapshots.
// DiffResponse 表示比较两个快照的响应。
type DiffResponse struct {
	ErrorMsg string    `json:"error_msg"`
	Data     *DiffData `json:"data"`
}

// DiffData 快照差异数据
type DiffData struct {
	From    string             `json:"from"`
	To      string             `json:"to"`
	Changes descriptor.Changes `json:"changes"`
}

// ==================== Handlers 处理器 ====================

// ListSnapshots handles GET /api/v1/snapshots - lists snapshots, newest first.
// ListSnapshots 处理 GET /api/v1/snapshots - 获取快照列表（最新的在前）。
func (h *Handler) ListSnapshots(c *gin.Context) {
	req := &ListSnapshotsRequest{Current: 1, Size: 20}
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, ListSnapshotsResponse{ErrorMsg: err.Error()})
		return
	}

	source := req.Source
	if source != "" {
		source = SourceKey(source)
	}
	snapshots, total, err := h.service.Repository().List(c.Request.Context(), &Filter{
		Source:   source,
		Page:     req.Current,
		PageSize: req.Size,
	})
	if err != nil {
		c.JSON(getStatusCodeForError(err), ListSnapshotsResponse{ErrorMsg: err.Error()})
		return
	}

	if snapshots == nil {
		snapshots = []*Snapshot{}
	}
	c.JSON(http.StatusOK, ListSnapshotsResponse{Data: &ListSnapshotsData{Total: total, Snapshots: snapshots}})
}

// GetSnapshot handles GET /api/v1/snapshots/:id - returns one snapshot with its entries.
// GetSnapshot 处理 GET /api/v1/snapshots/:id - 获取快照及其条目。
func (h *Handler) GetSnapshot(c *gin.Context) {
	info, err := h.service.Info(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(getStatusCodeForError(err), GetSnapshotResponse{ErrorMsg: err.Error()})
		return
	}
	c.JSON(http.StatusOK, GetSnapshotResponse{Data: info})
}

// DiffSnapshot handles GET /api/v1/snapshots/:id/diff - compares a snapshot with
// ?against=<id>, or with the previous snapshot of the same source.
// DiffSnapshot 处理 GET /api/v1/snapshots/:id/diff - 与 against 指定的快照或同来源的上一个快照比较。
func (h *Handler) DiffSnapshot(c *gin.Context) {
	ctx := c.Request.Context()
	toID := c.Param("id")
	fromID := c.Query("against")

	var changes descriptor.Changes
	var err error
	if fromID != "" {
		changes, err = h.service.Diff(ctx, fromID, toID)
	} else {
		var prev *Snapshot
		prev, changes, err = h.service.DiffPrevious(ctx, toID)
		if prev != nil {
			fromID = prev.SnapshotID
		}
	}
	if err != nil {
		c.JSON(getStatusCodeForError(err), DiffResponse{ErrorMsg: err.Error()})
		return
	}

	c.JSON(http.StatusOK, DiffResponse{Data: &DiffData{From: fromID, To: toID, Changes: changes}})
}

// getStatusCodeForError returns the appropriate HTTP status code for an error.
// getStatusCodeForError 根据错误返回适当的 HTTP 状态码。
func getStatusCodeForError(err error) int {
	switch {
	case errors.Is(err, ErrSnapshotNotFound), errors.Is(err, ErrNoPrevious):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidSnapshotID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

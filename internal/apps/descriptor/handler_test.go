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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xingzuo/appgroup/internal/descriptor"
)

var referenceOrder = []string{"timer", "account_backend", "serve_backend", "visual_backend", "cors_server"}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	set, err := descriptor.LoadFile(filepath.Join("..", "..", "descriptor", "testdata", "apps.yaml"), descriptor.Options{})
	require.NoError(t, err)
	require.NoError(t, set.Validate())

	h := NewHandler(set)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/apps", h.ListApps)
	r.GET("/apps/:name", h.GetApp)
	r.GET("/plan", h.GetPlan)
	r.GET("/document", h.GetDocument)
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_Health(t *testing.T) {
	w := doGet(setupRouter(t), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.Equal(t, "ok", resp.Data.Status)
	assert.Equal(t, 5, resp.Data.Apps)
}

// TestHandler_ListApps tests that entries are returned in declaration order
// TestHandler_ListApps 测试按声明顺序返回条目
func TestHandler_ListApps(t *testing.T) {
	w := doGet(setupRouter(t), "/apps")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListAppsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.Equal(t, 5, resp.Data.Total)
	assert.Equal(t, descriptor.FormatYAML, resp.Data.Format)

	names := make([]string, 0, len(resp.Data.Apps))
	for _, app := range resp.Data.Apps {
		names = append(names, app.Name)
	}
	assert.Equal(t, referenceOrder, names)

	require.Len(t, resp.Data.Ignored, 1)
	assert.Equal(t, "alternate_script", resp.Data.Ignored[0].Key)
	assert.Equal(t, 3, resp.Data.Ignored[0].Index)
}

func TestHandler_GetApp(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name string
		app  string
		code int
	}{
		{"known app", "serve_backend", http.StatusOK},
		{"last app", "cors_server", http.StatusOK},
		{"unknown app", "scheduler", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, "/apps/"+tt.app)
			assert.Equal(t, tt.code, w.Code)

			var resp GetAppResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.code != http.StatusOK {
				assert.Contains(t, resp.ErrorMsg, tt.app)
				assert.Nil(t, resp.Data)
				return
			}
			require.NotNil(t, resp.Data)
			assert.Equal(t, tt.app, resp.Data.Spec.Name)
			assert.Equal(t, tt.app, resp.Data.Command.Name)
			assert.True(t, filepath.IsAbs(resp.Data.Command.Dir))
			assert.Positive(t, resp.Data.Position.Line)
		})
	}
}

func TestHandler_GetPlan(t *testing.T) {
	w := doGet(setupRouter(t), "/plan")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GetPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Commands, 5)
	for i, cmd := range resp.Data.Commands {
		assert.Equal(t, referenceOrder[i], cmd.Name)
	}
	assert.Equal(t, "python", resp.Data.Commands[0].Interpreter)
	assert.Equal(t, "cors_server.py", resp.Data.Commands[4].Script)
	assert.Empty(t, resp.Data.Commands[4].Args)
	assert.Equal(t, []string{"run", "app_notiles.py", "--server.headless", "true"}, resp.Data.Commands[3].Args)
}

// TestHandler_GetDocument tests that the published document reloads to the same set
// TestHandler_GetDocument 测试发布的文档可重新加载为相同的描述集
func TestHandler_GetDocument(t *testing.T) {
	r := setupRouter(t)

	for _, format := range []descriptor.Format{descriptor.FormatYAML, descriptor.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			w := doGet(r, "/document?format="+string(format))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), string(format))

			set, err := descriptor.Parse(w.Body.Bytes(), descriptor.Options{Format: format, Strict: true})
			require.NoError(t, err)
			assert.Equal(t, referenceOrder, set.Names())
		})
	}

	w := doGet(r, "/document?format=toml")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

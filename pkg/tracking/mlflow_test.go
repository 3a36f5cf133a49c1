// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altm/mlfcore/pkg/config"
	"github.com/altm/mlfcore/pkg/errors"
)

type fakeMLflow struct {
	mu        sync.Mutex
	params    map[string]string
	artifacts map[string]string
	auth      []string
	status    int
	body      string
}

func (f *fakeMLflow) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, r.Header.Get("Authorization"))

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == mlflowLogParamPath:
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.params[req["run_id"]+"/"+req["key"]] = req["value"]
		_, _ = io.WriteString(w, "{}")
	case r.Method == http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.artifacts[r.URL.Path] = string(b)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeMLflow(t *testing.T) (*fakeMLflow, *MLflowClient) {
	t.Helper()
	f := &fakeMLflow{params: map[string]string{}, artifacts: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := NewMLflowClient(config.Tracking{
		URI:          srv.URL + "/",
		ExperimentID: "5",
		RunID:        "run1",
		Token:        "tok",
	}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return f, c
}

func TestMLflowClient_LogParam(t *testing.T) {
	f, c := newFakeMLflow(t)

	require.NoError(t, c.LogParam(context.Background(), "training_data_hash", "/data-abc"))

	assert.Equal(t, "/data-abc", f.params["run1/training_data_hash"])
	assert.Equal(t, []string{"Bearer tok"}, f.auth)
	assert.Error(t, c.LogParam(context.Background(), "", "v"))
}

func TestMLflowClient_LogArtifact(t *testing.T) {
	f, c := newFakeMLflow(t)
	src := writeFiles(t, map[string]string{"altm_conda_environment.yml": "name: altm\n"})

	require.NoError(t, c.LogArtifact(context.Background(), filepath.Join(src, "altm_conda_environment.yml"), "reports"))

	want := "/api/2.0/mlflow-artifacts/artifacts/5/run1/artifacts/reports/altm_conda_environment.yml"
	assert.Equal(t, "name: altm\n", f.artifacts[want])
}

func TestMLflowClient_LogArtifacts(t *testing.T) {
	f, c := newFakeMLflow(t)
	src := writeFiles(t, map[string]string{
		"system_intelligence.json": "{}",
		"system_intelligence.html": "<html/>",
	})

	require.NoError(t, c.LogArtifacts(context.Background(), src, "reports"))

	paths := make([]string, 0, len(f.artifacts))
	for p := range f.artifacts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{
		"/api/2.0/mlflow-artifacts/artifacts/5/run1/artifacts/reports/system_intelligence.html",
		"/api/2.0/mlflow-artifacts/artifacts/5/run1/artifacts/reports/system_intelligence.json",
	}, paths)
}

func TestMLflowClient_ArtifactURLEscapes(t *testing.T) {
	c, err := NewMLflowClient(config.Tracking{URI: "http://mlflow:5000", ExperimentID: "1", RunID: "r"})
	require.NoError(t, err)
	assert.Equal(t, "http://mlflow:5000/api/2.0/mlflow-artifacts/artifacts/1/r/artifacts/reports/a%20b.json",
		c.ArtifactURL("reports/a b.json"))
}

func TestMLflowClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.ErrorCode
		wantMLf  string
	}{
		{"bad request", http.StatusBadRequest, `{"error_code":"INVALID_PARAMETER_VALUE","message":"Changing param values is not allowed"}`, errors.ErrCodeInvalidRequest, "INVALID_PARAMETER_VALUE"},
		{"not found", http.StatusNotFound, `{"error_code":"RESOURCE_DOES_NOT_EXIST","message":"Run not found"}`, errors.ErrCodeNotFound, "RESOURCE_DOES_NOT_EXIST"},
		{"unauthorized", http.StatusUnauthorized, "denied", errors.ErrCodeUnauthorized, ""},
		{"throttled", http.StatusTooManyRequests, "", errors.ErrCodeUnavailable, ""},
		{"server error", http.StatusInternalServerError, "", errors.ErrCodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, c := newFakeMLflow(t)
			f.status = tt.status
			f.body = tt.body

			err := c.LogParam(context.Background(), "k", "v")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))

			var se *errors.StructuredError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Context["status"])
			assert.Equal(t, tt.wantMLf, se.Context["errorCode"])
		})
	}
}

func TestMLflowClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewMLflowClient(config.Tracking{URI: url, ExperimentID: "0", RunID: "r"})
	require.NoError(t, err)

	err = c.LogParam(context.Background(), "k", "v")
	assert.Equal(t, errors.ErrCodeUnavailable, errors.CodeOf(err))
}

func TestMLflowClient_CancelledContext(t *testing.T) {
	_, c := newFakeMLflow(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.LogParam(ctx, "k", "v")
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}

func TestNewMLflowClient_Validation(t *testing.T) {
	for name, cfg := range map[string]config.Tracking{
		"no scheme":     {URI: "mlflow:5000", ExperimentID: "0", RunID: "r"},
		"file uri":      {URI: "file:///tmp", ExperimentID: "0", RunID: "r"},
		"no run":        {URI: "http://mlflow", ExperimentID: "0"},
		"no experiment": {URI: "http://mlflow", RunID: "r"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewMLflowClient(cfg)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, errors.ErrCodeUnauthorized, statusCode(http.StatusForbidden))
	assert.Equal(t, errors.ErrCodeTimeout, statusCode(http.StatusGatewayTimeout))
	assert.Equal(t, errors.ErrCodeUnavailable, statusCode(http.StatusServiceUnavailable))
	assert.Equal(t, errors.ErrCodeInvalidRequest, statusCode(http.StatusConflict))
	assert.Equal(t, errors.ErrCodeInternal, statusCode(http.StatusNotImplemented))
}

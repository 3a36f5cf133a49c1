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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altm/mlfcore/pkg/config"
	"github.com/altm/mlfcore/pkg/errors"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for p, c := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(c), 0o600))
	}
	return dir
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Tracking
		want    any
		wantErr bool
	}{
		{
			name: "file",
			cfg:  config.Tracking{Backend: config.BackendFile, URI: t.TempDir(), ExperimentID: "0"},
			want: &FileStore{},
		},
		{
			name: "mlflow",
			cfg:  config.Tracking{Backend: config.BackendMLflow, URI: "http://localhost:5000", ExperimentID: "0", RunID: "r"},
			want: &MLflowClient{},
		},
		{
			name: "oci",
			cfg:  config.Tracking{Backend: config.BackendOCI, URI: "oci://localhost:5000/runs", ExperimentID: "0"},
			want: &OCIStore{},
		},
		{
			name:    "unknown",
			cfg:     config.Tracking{Backend: "wandb"},
			wantErr: true,
		},
		{
			name:    "mlflow without run",
			cfg:     config.Tracking{Backend: config.BackendMLflow, URI: "http://localhost:5000", ExperimentID: "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(ctx, tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
			if s, ok := got.(*OCIStore); ok {
				t.Cleanup(func() { os.RemoveAll(s.staging) })
			}
		})
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestValidateKey(t *testing.T) {
	for _, k := range []string{"training_data_hash", "lr", "a.b-c d"} {
		assert.NoError(t, validateKey(k), k)
	}
	for _, k := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.Error(t, validateKey(k), k)
	}
}

func TestCleanArtifactPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{".", "", false},
		{"reports", "reports", false},
		{"reports/env/", "reports/env", false},
		{"a/../b", "b", false},
		{"../escape", "", true},
		{"/abs", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanArtifactPath(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

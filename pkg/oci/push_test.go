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

package oci

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	orasoci "oras.land/oras-go/v2/content/oci"

	"github.com/altm/mlfcore/pkg/errors"
)

func writeRun(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"artifacts/reports/system_intelligence.json":   `{"kind":"SystemIntelligence"}`,
		"artifacts/reports/altm_conda_environment.yml": "name: altm\n",
	}
	for p, c := range files {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(c), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func pushToLayout(t *testing.T, src string, annotations map[string]string) (*PushResult, *orasoci.Store) {
	t.Helper()
	store, err := orasoci.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create OCI layout store: %v", err)
	}

	res, err := Push(context.Background(), PushOptions{
		SourceDir:   src,
		Reference:   &Reference{Registry: "localhost:5000", Repository: "altm/runs", Tag: "run-1"},
		Annotations: annotations,
		Target:      store,
	})
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	return res, store
}

func TestPush_ToLayout(t *testing.T) {
	ctx := context.Background()
	annotations := map[string]string{"mlfcore.param.training_data_hash": "/data-302cbafc0dfbc97f30d576a6f394dad3"}

	res, store := pushToLayout(t, writeRun(t), annotations)

	if res.Reference != "localhost:5000/altm/runs:run-1" {
		t.Errorf("Reference = %q", res.Reference)
	}
	if !strings.HasPrefix(res.Digest, "sha256:") {
		t.Errorf("Digest = %q", res.Digest)
	}

	desc, err := store.Resolve(ctx, "run-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if desc.Digest.String() != res.Digest {
		t.Errorf("tag resolves to %s, pushed %s", desc.Digest, res.Digest)
	}

	raw, err := content.FetchAll(ctx, store, desc)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	var manifest ociv1.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatal(err)
	}

	if manifest.ArtifactType != ArtifactType {
		t.Errorf("ArtifactType = %q", manifest.ArtifactType)
	}
	if len(manifest.Layers) != 1 || manifest.Layers[0].MediaType != ociv1.MediaTypeImageLayerGzip {
		t.Errorf("unexpected layers: %+v", manifest.Layers)
	}
	if got := manifest.Annotations["mlfcore.param.training_data_hash"]; got != annotations["mlfcore.param.training_data_hash"] {
		t.Errorf("annotation = %q", got)
	}
}

func TestPush_Reproducible(t *testing.T) {
	src := writeRun(t)
	ann := map[string]string{ociv1.AnnotationCreated: "2026-01-01T00:00:00Z"}

	a, _ := pushToLayout(t, src, ann)
	b, _ := pushToLayout(t, src, ann)

	if a.Digest != b.Digest {
		t.Errorf("digests differ for identical content: %s vs %s", a.Digest, b.Digest)
	}
}

func TestPush_Validation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		opts PushOptions
	}{
		{"nil reference", PushOptions{SourceDir: t.TempDir()}},
		{"empty tag", PushOptions{SourceDir: t.TempDir(), Reference: &Reference{Registry: "ghcr.io", Repository: "a/b"}}},
		{"invalid repository", PushOptions{SourceDir: t.TempDir(), Reference: &Reference{Registry: "ghcr.io", Repository: "A/B", Tag: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Push(ctx, tt.opts)
			if code := errors.CodeOf(err); code != errors.ErrCodeInvalidRequest {
				t.Errorf("code = %s, err = %v", code, err)
			}
		})
	}
}

func TestCreateAuthClient(t *testing.T) {
	t.Setenv("DOCKER_CONFIG", t.TempDir())

	c := createAuthClient(false, true)
	if c.Cache == nil {
		t.Error("expected auth cache")
	}
	tr, ok := c.Client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport = %T", c.Client.Transport)
	}
	if tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify")
	}

	plain := createAuthClient(true, true).Client.Transport.(*http.Transport)
	if plain.TLSClientConfig != nil && plain.TLSClientConfig.InsecureSkipVerify {
		t.Error("plain HTTP must not alter TLS config")
	}
}

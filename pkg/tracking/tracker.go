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
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/altm/mlfcore/pkg/config"
	"github.com/altm/mlfcore/pkg/errors"
)

// Tracker records parameters and artifacts of a single run.
type Tracker interface {
	// LogParam records key=value on the run.
	LogParam(ctx context.Context, key, value string) error
	// LogArtifact uploads one file under artifactPath.
	LogArtifact(ctx context.Context, localPath, artifactPath string) error
	// LogArtifacts uploads the contents of localDir under artifactPath.
	LogArtifacts(ctx context.Context, localDir, artifactPath string) error
	// Close flushes pending state and releases resources.
	Close(ctx context.Context) error
}

// New creates the Tracker selected by cfg.Backend.
func New(ctx context.Context, cfg config.Tracking) (Tracker, error) {
	slog.DebugContext(ctx, "creating tracker", "backend", cfg.Backend, "uri", cfg.URI, "experiment", cfg.ExperimentID)

	switch cfg.Backend {
	case config.BackendFile, "":
		root := cfg.URI
		if root == "" {
			root = config.Default().Tracking.URI
		}
		return NewFileStore(root, cfg.ExperimentID, cfg.RunID)
	case config.BackendMLflow:
		return NewMLflowClient(cfg)
	case config.BackendOCI:
		return NewOCIStore(cfg)
	default:
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown tracking backend %q", cfg.Backend),
			map[string]any{"supported": config.Backends})
	}
}

// NewRunID returns a dashless UUID, the MLflow run id format.
func NewRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// validateKey rejects param keys that cannot be stored as a file name.
func validateKey(key string) error {
	if key == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "param key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid param key %q", key))
	}
	return nil
}

// cleanArtifactPath returns artifactPath in slash form, rejecting absolute
// paths and paths escaping the artifact root. Empty means the root.
func cleanArtifactPath(artifactPath string) (string, error) {
	if artifactPath == "" {
		return "", nil
	}
	p := filepath.ToSlash(filepath.Clean(artifactPath))
	if !filepath.IsLocal(filepath.FromSlash(p)) {
		return "", errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid artifact path %q", artifactPath))
	}
	if p == "." {
		return "", nil
	}
	return p, nil
}

func conflict(key, existing, value string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("param %q already logged with a different value", key),
		map[string]any{"key": key, "existing": existing, "new": value})
}

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
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/altm/mlfcore/pkg/errors"
)

const (
	paramsDir    = "params"
	artifactsDir = "artifacts"
)

// FileStore tracks a run in a local directory tree.
type FileStore struct {
	root         string
	experimentID string
	runID        string

	mu sync.Mutex
}

var _ Tracker = (*FileStore)(nil)

// NewFileStore creates the run directories under root. An empty runID
// starts a new run.
func NewFileStore(root, experimentID, runID string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "file store root is required")
	}
	if experimentID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "experiment id is required")
	}
	if runID == "" {
		runID = NewRunID()
	}
	if err := validateKey(experimentID); err != nil {
		return nil, err
	}
	if err := validateKey(runID); err != nil {
		return nil, err
	}

	s := &FileStore{root: root, experimentID: experimentID, runID: runID}
	for _, d := range []string{paramsDir, artifactsDir} {
		if err := os.MkdirAll(filepath.Join(s.RunDir(), d), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create run directory", err)
		}
	}

	slog.Debug("file tracking store ready", "run", s.RunDir())
	return s, nil
}

// RunID returns the run identifier.
func (s *FileStore) RunID() string { return s.runID }

// RunDir returns the run directory.
func (s *FileStore) RunDir() string {
	return filepath.Join(s.root, s.experimentID, s.runID)
}

// LogParam writes value to params/<key>.
func (s *FileStore) LogParam(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.RunDir(), paramsDir, key)
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if string(existing) == value {
			return nil
		}
		return conflict(key, string(existing), value)
	case !os.IsNotExist(err):
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to read param %q", key), err)
	}

	if err := os.WriteFile(path, []byte(value), 0o644); err != nil { //nolint:gosec // params are not secret
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to write param %q", key), err)
	}
	return nil
}

// Params returns all params logged on the run.
func (s *FileStore) Params() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.RunDir(), paramsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to list params", err)
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read param", err)
		}
		out[e.Name()] = string(b)
	}
	return out, nil
}

// LogArtifact copies localPath to artifacts/<artifactPath>/<base name>.
func (s *FileStore) LogArtifact(ctx context.Context, localPath, artifactPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.artifactDir(artifactPath)
	if err != nil {
		return err
	}
	if err := copyFile(localPath, filepath.Join(dst, filepath.Base(localPath))); err != nil {
		return errors.Wrap(codeFor(err), "failed to log artifact", err)
	}
	return nil
}

// LogArtifacts copies the contents of localDir to artifacts/<artifactPath>/.
func (s *FileStore) LogArtifacts(ctx context.Context, localDir, artifactPath string) error {
	dst, err := s.artifactDir(artifactPath)
	if err != nil {
		return err
	}
	if err := copyTree(ctx, localDir, dst); err != nil {
		return errors.Wrap(codeFor(err), "failed to log artifacts", err)
	}
	return nil
}

// Close is a no-op; every call is persisted immediately.
func (s *FileStore) Close(context.Context) error {
	return nil
}

func (s *FileStore) artifactDir(artifactPath string) (string, error) {
	p, err := cleanArtifactPath(artifactPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.RunDir(), artifactsDir, filepath.FromSlash(p)), nil
}

func codeFor(err error) errors.ErrorCode {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.ErrCodeNotFound
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.ErrCodeTimeout
	default:
		return errors.ErrCodeInternal
	}
}

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
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	oras "oras.land/oras-go/v2"

	"github.com/altm/mlfcore/pkg/config"
	"github.com/altm/mlfcore/pkg/defaults"
	"github.com/altm/mlfcore/pkg/errors"
	"github.com/altm/mlfcore/pkg/oci"
)

const (
	// AnnotationParamPrefix prefixes manifest annotations carrying params.
	AnnotationParamPrefix = "mlfcore.param."
	AnnotationExperiment  = "mlfcore.experiment.id"
	AnnotationRun         = "mlfcore.run.id"
)

// OCIStore stages artifacts locally and pushes them as one OCI artifact on
// Close.
type OCIStore struct {
	ref          *oci.Reference
	experimentID string
	runID        string
	plainHTTP    bool
	insecureTLS  bool
	target       oras.Target

	mu      sync.Mutex
	staging string
	params  map[string]string
	result  *oci.PushResult
	closed  bool
}

var _ Tracker = (*OCIStore)(nil)

// OCIOption configures an OCIStore.
type OCIOption func(*OCIStore)

// WithOCITarget pushes to t instead of the remote registry.
func WithOCITarget(t oras.Target) OCIOption {
	return func(s *OCIStore) {
		s.target = t
	}
}

// NewOCIStore parses cfg.URI and creates the staging directory. Without a
// tag in the URI the run id is used, or "latest" when there is none.
func NewOCIStore(cfg config.Tracking, opts ...OCIOption) (*OCIStore, error) {
	ref, err := oci.ParseReference(cfg.URI)
	if err != nil {
		return nil, err
	}
	if ref.Tag == "" {
		tag := cfg.RunID
		if tag == "" {
			tag = defaults.OCITag
		}
		ref = ref.WithTag(tag)
	}

	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}

	staging, err := os.MkdirTemp("", "mlfcore-oci-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create staging directory", err)
	}

	s := &OCIStore{
		ref:          ref,
		experimentID: cfg.ExperimentID,
		runID:        runID,
		plainHTTP:    cfg.PlainHTTP,
		insecureTLS:  cfg.InsecureTLS,
		staging:      staging,
		params:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reference returns the push target.
func (s *OCIStore) Reference() *oci.Reference { return s.ref }

// Result returns the push result after a successful Close.
func (s *OCIStore) Result() *oci.PushResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// LogParam records the param as a manifest annotation.
func (s *OCIStore) LogParam(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if existing, ok := s.params[key]; ok {
		if existing == value {
			return nil
		}
		return conflict(key, existing, value)
	}
	s.params[key] = value
	return nil
}

// LogArtifact stages localPath under artifacts/<artifactPath>/.
func (s *OCIStore) LogArtifact(ctx context.Context, localPath, artifactPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.stagingDir(artifactPath)
	if err != nil {
		return err
	}
	if err := copyFile(localPath, filepath.Join(dst, filepath.Base(localPath))); err != nil {
		return errors.Wrap(codeFor(err), "failed to stage artifact", err)
	}
	return nil
}

// LogArtifacts stages the contents of localDir under artifacts/<artifactPath>/.
func (s *OCIStore) LogArtifacts(ctx context.Context, localDir, artifactPath string) error {
	dst, err := s.stagingDir(artifactPath)
	if err != nil {
		return err
	}
	if err := copyTree(ctx, localDir, dst); err != nil {
		return errors.Wrap(codeFor(err), "failed to stage artifacts", err)
	}
	return nil
}

// Close pushes the staged run and removes the staging directory. Later
// calls are no-ops. A failed push keeps the staging directory so Close can
// be called again.
func (s *OCIStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	annotations := map[string]string{
		AnnotationExperiment: s.experimentID,
		AnnotationRun:        s.runID,
	}
	for k, v := range s.params {
		annotations[AnnotationParamPrefix+k] = v
	}

	res, err := oci.Push(ctx, oci.PushOptions{
		SourceDir:   s.staging,
		Reference:   s.ref,
		Annotations: annotations,
		PlainHTTP:   s.plainHTTP,
		InsecureTLS: s.insecureTLS,
		Target:      s.target,
	})
	if err != nil {
		return err
	}

	s.result = res
	s.closed = true

	slog.Info("run pushed", "reference", res.Reference, "digest", res.Digest)

	if err := os.RemoveAll(s.staging); err != nil {
		slog.Warn("failed to remove staging directory", "path", s.staging, "error", err)
	}
	return nil
}

func (s *OCIStore) checkOpen() error {
	if s.closed {
		return errors.New(errors.ErrCodeInvalidRequest, "tracker is closed")
	}
	return nil
}

func (s *OCIStore) stagingDir(artifactPath string) (string, error) {
	p, err := cleanArtifactPath(artifactPath)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	return filepath.Join(s.staging, artifactsDir, filepath.FromSlash(p)), nil
}

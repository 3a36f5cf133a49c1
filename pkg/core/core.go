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

package core

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/altm/mlfcore/pkg/config"
	"github.com/altm/mlfcore/pkg/envexport"
	"github.com/altm/mlfcore/pkg/errors"
	"github.com/altm/mlfcore/pkg/hash"
	"github.com/altm/mlfcore/pkg/seed"
	"github.com/altm/mlfcore/pkg/serializer"
	"github.com/altm/mlfcore/pkg/sysintel"
	"github.com/altm/mlfcore/pkg/tracking"
)

const (
	// ArtifactPath is the artifact namespace for every uploaded report.
	ArtifactPath = "reports"

	// ParamTrainingDataHash is the param holding the input data digest.
	ParamTrainingDataHash = "training_data_hash"

	// SysIntelFileName is the JSON report written into the reports directory.
	SysIntelFileName = "system_intelligence.json"

	reportsDirPattern = "mlfcore-reports-*"
)

// Core records reproducibility information on a tracked run.
type Core struct {
	tracker     tracking.Tracker
	sysintel    *sysintel.Service
	exporter    *envexport.Exporter
	keepReports bool
}

// Option configures a Core.
type Option func(*Core)

// WithSysIntel sets the diagnostics service.
func WithSysIntel(s *sysintel.Service) Option {
	return func(c *Core) {
		c.sysintel = s
	}
}

// WithExporter sets the conda environment exporter.
func WithExporter(e *envexport.Exporter) Option {
	return func(c *Core) {
		c.exporter = e
	}
}

// WithKeepReports keeps the temporary reports directory created by
// LogSysIntelCondaEnv.
func WithKeepReports(keep bool) Option {
	return func(c *Core) {
		c.keepReports = keep
	}
}

// New creates a Core logging to tracker.
func New(tracker tracking.Tracker, opts ...Option) (*Core, error) {
	if tracker == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tracker is required")
	}

	c := &Core{
		tracker:  tracker,
		sysintel: &sysintel.Service{},
		exporter: envexport.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tracker returns the underlying tracker.
func (c *Core) Tracker() tracking.Tracker {
	return c.tracker
}

// LogSystemIntelligence writes the system intelligence report (JSON and HTML)
// into dir and uploads the directory under ArtifactPath.
func (c *Core) LogSystemIntelligence(ctx context.Context, dir string) error {
	slog.Info("collecting system intelligence", "dir", dir)

	_, err := c.sysintel.QueryAndExport(ctx,
		sysintel.QueryOptions{Scopes: []sysintel.Scope{sysintel.ScopeAll}},
		sysintel.ExportOptions{
			Format:       serializer.FormatJSON,
			GenerateHTML: true,
			Output:       reportPath(dir),
		})
	if err != nil {
		return err
	}

	return c.tracker.LogArtifacts(ctx, dir, ArtifactPath)
}

// LogCondaEnvironment exports the conda environment into dir and uploads the
// file under ArtifactPath. A failed export uploads nothing.
func (c *Core) LogCondaEnvironment(ctx context.Context, dir string) error {
	slog.Info("exporting conda environment", "env", c.exporter.EnvName, "dir", dir)

	file, err := c.exporter.Export(ctx, dir)
	if err != nil {
		return err
	}

	return c.tracker.LogArtifact(ctx, file, ArtifactPath)
}

// LogSysIntelCondaEnv runs LogSystemIntelligence and LogCondaEnvironment
// against a fresh temporary directory, removed afterwards unless the Core
// keeps reports.
func (c *Core) LogSysIntelCondaEnv(ctx context.Context) (err error) {
	dir, err := os.MkdirTemp("", reportsDirPattern)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create reports directory", err)
	}

	if c.keepReports {
		slog.Info("keeping reports directory", "dir", dir)
	} else {
		defer func() {
			if rerr := os.RemoveAll(dir); rerr != nil {
				slog.Warn("failed to remove reports directory", "dir", dir, "error", rerr)
			}
		}()
	}

	if err := c.LogSystemIntelligence(ctx, dir); err != nil {
		return err
	}
	return c.LogCondaEnvironment(ctx, dir)
}

// LogInputData hashes the file or directory at path and records
// "<path>-<digest>" as the training_data_hash param. maxFiles caps the
// files hashed per directory level; 0 means no cap.
func (c *Core) LogInputData(ctx context.Context, path string, maxFiles int) error {
	slog.Info("hashing input data", "path", path, "maxFiles", maxFiles)

	digest, err := InputDataHash(ctx, path, maxFiles)
	if err != nil {
		return err
	}

	slog.Debug("input data hashed", "path", path, "digest", digest)

	return c.tracker.LogParam(ctx, ParamTrainingDataHash, path+"-"+digest)
}

// InputDataHash returns the directory hash when path is a directory and
// the file hash otherwise.
func InputDataHash(ctx context.Context, path string, maxFiles int) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		code := errors.ErrCodeInternal
		if stderrors.Is(err, fs.ErrNotExist) {
			code = errors.ErrCodeNotFound
		}
		return "", errors.WrapWithContext(code, "failed to stat input data", err,
			map[string]any{"path": path})
	}

	var digest string
	if info.IsDir() {
		digest, err = hash.Dir(ctx, path, maxFiles)
	} else {
		digest, err = hash.File(path)
	}
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to hash input data", err,
			map[string]any{"path": path})
	}
	return digest, nil
}

// SetGeneralRandomSeeds seeds the general purpose and numeric generators.
func SetGeneralRandomSeeds(s int64) {
	seed.SetGeneralRandomSeeds(s)
}

// SetTensorRandomSeeds seeds the tensor generators for the CPU and numGPUs
// devices and enables deterministic mode.
func SetTensorRandomSeeds(s int64, numGPUs int) {
	seed.SetTensorRandomSeeds(s, numGPUs)
}

// FileHash returns the MD5 hex digest of the file at path.
func FileHash(path string) (string, error) {
	return hash.File(path)
}

// DirHash returns the directory digest of dir.
func DirHash(ctx context.Context, dir string, maxFiles int) (string, error) {
	return hash.Dir(ctx, dir, maxFiles)
}

func reportPath(dir string) string {
	return filepath.Join(dir, SysIntelFileName)
}

var (
	defaultOnce sync.Once
	defaultCore *Core
	errDefault  error
)

// Default returns the shared Core configured from the environment
// (MLFLOW_TRACKING_URI and related variables). It is created on first use.
func Default(ctx context.Context) (*Core, error) {
	defaultOnce.Do(func() {
		cfg := config.Default()
		cfg.ApplyEnv()
		if errDefault = cfg.Validate(); errDefault != nil {
			return
		}

		var tr tracking.Tracker
		if tr, errDefault = tracking.New(ctx, cfg.Tracking); errDefault != nil {
			return
		}

		defaultCore, errDefault = New(tr,
			WithExporter(envexport.New(
				envexport.WithCommand(cfg.Environment.Command),
				envexport.WithEnvName(cfg.Environment.Name),
			)),
			WithKeepReports(cfg.Reports.Keep),
		)
	})
	return defaultCore, errDefault
}

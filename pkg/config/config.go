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

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/altm/mlfcore/pkg/defaults"
	"github.com/altm/mlfcore/pkg/errors"
	"github.com/altm/mlfcore/pkg/serializer"
)

const (
	BackendFile   = "file"
	BackendMLflow = "mlflow"
	BackendOCI    = "oci"

	EnvTrackingURI   = "MLFLOW_TRACKING_URI"
	EnvExperimentID  = "MLFLOW_EXPERIMENT_ID"
	EnvRunID         = "MLFLOW_RUN_ID"
	EnvTrackingToken = "MLFLOW_TRACKING_TOKEN" //nolint:gosec // variable name, not a credential
	EnvTracker       = "MLFCORE_TRACKER"
)

// Backends lists the supported tracking backends.
var Backends = []string{BackendFile, BackendMLflow, BackendOCI}

// Config is the complete mlfcore configuration.
type Config struct {
	Tracking    Tracking    `json:"tracking" yaml:"tracking" toml:"tracking"`
	Hash        Hash        `json:"hash" yaml:"hash" toml:"hash"`
	Environment Environment `json:"environment" yaml:"environment" toml:"environment"`
	Reports     Reports     `json:"reports" yaml:"reports" toml:"reports"`
}

// Tracking selects and configures the tracking backend.
type Tracking struct {
	// Backend is one of file, mlflow or oci.
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// URI is the file store root, MLflow server URL or oci:// reference.
	URI          string `json:"uri" yaml:"uri" toml:"uri"`
	ExperimentID string `json:"experimentId" yaml:"experimentId" toml:"experimentId"`
	RunID        string `json:"runId,omitempty" yaml:"runId,omitempty" toml:"runId,omitempty"`
	Token        string `json:"-" yaml:"token,omitempty" toml:"token,omitempty"`

	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond" toml:"requestsPerSecond"`
	Burst             int     `json:"burst" yaml:"burst" toml:"burst"`

	PlainHTTP   bool `json:"plainHTTP,omitempty" yaml:"plainHTTP,omitempty" toml:"plainHTTP,omitempty"`
	InsecureTLS bool `json:"insecureTLS,omitempty" yaml:"insecureTLS,omitempty" toml:"insecureTLS,omitempty"`
}

// Hash configures input data hashing.
type Hash struct {
	// MaxFiles caps files hashed per directory level; 0 means no cap.
	MaxFiles int `json:"maxFiles" yaml:"maxFiles" toml:"maxFiles"`
}

// Environment configures the conda environment export.
type Environment struct {
	Command string `json:"command" yaml:"command" toml:"command"`
	Name    string `json:"name" yaml:"name" toml:"name"`
}

// Reports configures the report directory lifecycle.
type Reports struct {
	// Keep retains the temporary report directory after upload.
	Keep bool `json:"keep" yaml:"keep" toml:"keep"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tracking: Tracking{
			Backend:           defaults.TrackerBackend,
			URI:               defaults.TrackingRoot,
			ExperimentID:      defaults.ExperimentID,
			RequestsPerSecond: defaults.MLflowRequestsPerSecond,
			Burst:             defaults.MLflowBurst,
		},
		Environment: Environment{
			Command: "conda",
			Name:    "altm",
		},
	}
}

// Load reads the file at path over the defaults, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml", ".json":
	default:
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported config file extension %q (want .yaml, .yml, .toml or .json)", filepath.Ext(path)))
	}

	r, err := serializer.NewFileReaderAuto(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("config file %s not found", path), err)
		}
		return errors.Wrap(errors.ErrCodeInternal, "failed to open config file", err)
	}
	defer r.Close()

	if err := r.Deserialize(c); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse config file", err,
			map[string]any{"path": path})
	}
	return nil
}

// ApplyEnv overrides tracking settings from the environment. When
// MLFCORE_TRACKER is not set, the backend follows the scheme of
// MLFLOW_TRACKING_URI.
func (c *Config) ApplyEnv() {
	if uri, ok := os.LookupEnv(EnvTrackingURI); ok && uri != "" {
		c.Tracking.Backend, c.Tracking.URI = InferBackend(uri)
	}
	if v, ok := os.LookupEnv(EnvTracker); ok && v != "" {
		c.Tracking.Backend = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvExperimentID); ok && v != "" {
		c.Tracking.ExperimentID = v
	}
	if v, ok := os.LookupEnv(EnvRunID); ok && v != "" {
		c.Tracking.RunID = v
	}
	if v, ok := os.LookupEnv(EnvTrackingToken); ok && v != "" {
		c.Tracking.Token = v
	}
}

// InferBackend derives the backend from a tracking URI and returns the URI in
// the form that backend expects.
//
//	http(s)://host   -> mlflow
//	oci://host/repo  -> oci
//	file:///path     -> file, "/path"
//	./mlruns         -> file
func InferBackend(uri string) (backend, normalized string) {
	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return BackendMLflow, strings.TrimRight(uri, "/")
	case strings.HasPrefix(lower, "oci://"):
		return BackendOCI, uri
	case strings.HasPrefix(lower, "file://"):
		return BackendFile, uri[len("file://"):]
	case strings.HasPrefix(lower, "file:"):
		return BackendFile, uri[len("file:"):]
	default:
		return BackendFile, uri
	}
}

// Validate checks backend names and required fields.
func (c *Config) Validate() error {
	t := c.Tracking

	switch t.Backend {
	case BackendFile, BackendMLflow, BackendOCI:
	default:
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown tracking backend %q", t.Backend),
			map[string]any{"supported": Backends})
	}

	if t.URI == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "tracking URI is required")
	}

	lower := strings.ToLower(t.URI)
	switch t.Backend {
	case BackendMLflow:
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("mlflow tracking URI must be http(s): %q", t.URI))
		}
		if t.RunID == "" {
			return errors.New(errors.ErrCodeInvalidRequest,
				"mlflow tracking requires a run id (set "+EnvRunID+" or --run-id)")
		}
		if t.RequestsPerSecond <= 0 || t.Burst <= 0 {
			return errors.New(errors.ErrCodeInvalidRequest, "requestsPerSecond and burst must be positive")
		}
	case BackendOCI:
		if !strings.HasPrefix(lower, "oci://") {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("oci tracking URI must start with oci://: %q", t.URI))
		}
	}

	if t.ExperimentID == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "experiment id is required")
	}
	if c.Hash.MaxFiles < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "hash.maxFiles must not be negative")
	}
	return nil
}

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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/altm/mlfcore/pkg/config"
	"github.com/altm/mlfcore/pkg/serializer"
	"github.com/altm/mlfcore/pkg/tracking"
)

const (
	flagConfig       = "config"
	flagLogLevel     = "log-level"
	flagTracker      = "tracker"
	flagTrackingURI  = "tracking-uri"
	flagExperimentID = "experiment-id"
	flagRunID        = "run-id"
	flagPlainHTTP    = "plain-http"
	flagInsecureTLS  = "insecure-tls"
	flagMaxFiles     = "max-files"
	flagKeepReports  = "keep-reports"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   fmt.Sprintf("output format (supported values: %s)", serializer.SupportedFormats()),
	}
}

func maxFilesFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  flagMaxFiles,
		Usage: "maximum files hashed per directory level (0 means no cap)",
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Usage:   "config file (.yaml, .yml, .toml or .json)",
			Sources: cli.EnvVars("MLFCORE_CONFIG"),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Value:   "info",
			Usage:   "log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    flagTracker,
			Usage:   fmt.Sprintf("tracking backend (supported values: %s)", config.Backends),
			Sources: cli.EnvVars(config.EnvTracker),
		},
		&cli.StringFlag{
			Name:    flagTrackingURI,
			Usage:   "tracking URI: directory, http(s) MLflow server or oci://registry/repo[:tag]",
			Sources: cli.EnvVars(config.EnvTrackingURI),
		},
		&cli.StringFlag{
			Name:    flagExperimentID,
			Usage:   "experiment id",
			Sources: cli.EnvVars(config.EnvExperimentID),
		},
		&cli.StringFlag{
			Name:    flagRunID,
			Usage:   "run id (generated for file and oci backends when empty)",
			Sources: cli.EnvVars(config.EnvRunID),
		},
		&cli.BoolFlag{
			Name:  flagPlainHTTP,
			Usage: "use plain HTTP for OCI registry pushes",
		},
		&cli.BoolFlag{
			Name:  flagInsecureTLS,
			Usage: "skip TLS verification for OCI registry pushes",
		},
	}
}

// parseOutputFormat returns the validated --format value.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// loadConfig reads --config and the environment, then applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}

	t := &cfg.Tracking
	if uri := cmd.String(flagTrackingURI); uri != "" {
		t.Backend, t.URI = config.InferBackend(uri)
	}
	if b := cmd.String(flagTracker); b != "" {
		t.Backend = b
	}
	if id := cmd.String(flagExperimentID); id != "" {
		t.ExperimentID = id
	}
	if id := cmd.String(flagRunID); id != "" {
		t.RunID = id
	}
	if cmd.Bool(flagPlainHTTP) {
		t.PlainHTTP = true
	}
	if cmd.Bool(flagInsecureTLS) {
		t.InsecureTLS = true
	}
	if cmd.IsSet(flagMaxFiles) {
		cfg.Hash.MaxFiles = int(cmd.Int(flagMaxFiles))
	}
	if cmd.IsSet(flagKeepReports) {
		cfg.Reports.Keep = cmd.Bool(flagKeepReports)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withTracker opens the configured tracker, runs fn and closes the tracker.
// A Close error is reported when fn succeeds.
func withTracker(ctx context.Context, cfg *config.Config, fn func(tracking.Tracker) error) (err error) {
	tr, err := tracking.New(ctx, cfg.Tracking)
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}
	defer func() {
		if cerr := tr.Close(ctx); cerr != nil {
			if err == nil {
				err = fmt.Errorf("failed to close tracker: %w", cerr)
				return
			}
			slog.Warn("failed to close tracker", "error", cerr)
		}
	}()

	if fs, ok := tr.(*tracking.FileStore); ok {
		slog.Info("tracking run", "backend", cfg.Tracking.Backend, "dir", fs.RunDir())
	} else {
		slog.Info("tracking run", "backend", cfg.Tracking.Backend, "uri", cfg.Tracking.URI)
	}

	return fn(tr)
}

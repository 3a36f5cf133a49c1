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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/altm/mlfcore/pkg/logging"
)

const (
	name           = "mlfcore"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the root command with os.Args. SIGINT and SIGTERM cancel the
// command context.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Experiment reproducibility and provenance tooling",
		Description: `mlfcore records what a training run needs to be reproduced:

  seed      - seed every random generator deterministically
  hash      - print the content hash of a file or directory
  log-data  - record the training data hash on the tracked run
  sysintel  - write a system intelligence report locally
  log-env   - upload system intelligence and the conda environment

The tracking backend is selected by --tracker or inferred from
--tracking-uri (MLFLOW_TRACKING_URI): http(s) URIs use the MLflow REST API,
oci:// URIs push the run to an OCI registry, anything else is a local
MLflow-style directory.`,
		Flags: globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", cmd.String("log-level"))
			return ctx, nil
		},
		ShellComplete: commandLister,
		Commands: []*cli.Command{
			seedCmd(),
			hashCmd(),
			logDataCmd(),
			sysintelCmd(),
			logEnvCmd(),
		},
	}
}

// commandLister prints the visible subcommands of the root command for
// shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	root := cmd.Root()
	w := root.Writer
	if w == nil {
		w = os.Stdout
	}
	for _, c := range root.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(w, c.Name)
	}
}

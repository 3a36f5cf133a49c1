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

package envexport

import (
	"context"
	goerrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/altm/mlfcore/pkg/errors"
)

const (
	DefaultCommand = "conda"
	DefaultEnvName = "altm"

	// stderr bytes kept in error context
	stderrTail = 2048
)

// FileName returns the export file name for the given environment.
func FileName(envName string) string {
	return envName + "_conda_environment.yml"
}

// Exporter writes `conda env export --name <EnvName>` into a directory.
type Exporter struct {
	// Runner executes the command; defaults to ExecRunner.
	Runner Runner

	// Command is the conda executable.
	Command string

	// EnvName is the environment to export.
	EnvName string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRunner sets the command runner.
func WithRunner(r Runner) Option {
	return func(e *Exporter) {
		e.Runner = r
	}
}

// WithCommand sets the conda executable.
func WithCommand(cmd string) Option {
	return func(e *Exporter) {
		e.Command = cmd
	}
}

// WithEnvName sets the environment to export.
func WithEnvName(name string) Option {
	return func(e *Exporter) {
		e.EnvName = name
	}
}

// New creates an Exporter with defaults applied.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		Runner:  ExecRunner{},
		Command: DefaultCommand,
		EnvName: DefaultEnvName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs the environment export into dir and returns the written path.
func (e *Exporter) Export(ctx context.Context, dir string) (path string, err error) {
	runner := e.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	command := e.Command
	if command == "" {
		command = DefaultCommand
	}
	envName := e.EnvName
	if envName == "" {
		envName = DefaultEnvName
	}

	path = filepath.Join(dir, FileName(envName))
	args := []string{"env", "export", "--name", envName}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to create environment file", err,
			map[string]any{"path": path})
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeInternal, "failed to close environment file", cerr)
		}
	}()

	slog.Debug("exporting environment", "command", command, "env", envName, "path", path)

	stderr, code, err := runner.Run(ctx, f, command, args...)
	if err != nil {
		if goerrors.Is(err, exec.ErrNotFound) || goerrors.Is(err, fs.ErrNotExist) {
			return "", errors.WrapWithContext(errors.ErrCodeUnavailable,
				fmt.Sprintf("%s executable not found", command), err,
				map[string]any{"command": command})
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", errors.Wrap(errors.ErrCodeTimeout, "environment export interrupted", ctxErr)
		}
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to run environment export", err,
			map[string]any{"command": command, "stderr": tail(stderr)})
	}
	if code != 0 {
		return "", errors.NewWithContext(errors.ErrCodeInternal,
			fmt.Sprintf("%s env export exited with code %d", command, code),
			map[string]any{"command": command, "env": envName, "exitCode": code, "stderr": tail(stderr)})
	}

	return path, nil
}

func tail(b []byte) string {
	if len(b) > stderrTail {
		b = b[len(b)-stderrTail:]
	}
	return string(b)
}

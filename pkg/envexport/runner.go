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
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner executes a command with stdout redirected to the given writer.
// exitCode is meaningful only when err is nil.
type Runner interface {
	Run(ctx context.Context, stdout io.Writer, name string, args ...string) (stderr []byte, exitCode int, err error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run starts name and waits for it. A non-zero exit is reported through
// exitCode, not err.
func (ExecRunner) Run(ctx context.Context, stdout io.Writer, name string, args ...string) ([]byte, int, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return stderr.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return stderr.Bytes(), -1, err
	}
	return stderr.Bytes(), 0, nil
}

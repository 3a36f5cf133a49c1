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

package host

import (
	"context"
	"log/slog"
	"os"
	"os/user"
	"runtime"

	"github.com/altm/mlfcore/pkg/measurement"
)

// DefaultEnvKeys are the environment variables that influence reproducibility
// of a training run.
var DefaultEnvKeys = []string{
	"PYTHONHASHSEED",
	"CUBLAS_WORKSPACE_CONFIG",
	"CUDA_VISIBLE_DEVICES",
	"CONDA_DEFAULT_ENV",
	"CONDA_PREFIX",
	"OMP_NUM_THREADS",
}

// Collector reports the runtime of the current process and host.
type Collector struct {
	// EnvKeys lists environment variables to record. Unset variables are omitted.
	EnvKeys []string
}

// Collect returns a Host measurement with "runtime" and, when any of the
// configured variables are set, "env" subtypes.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting host runtime")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]measurement.Reading{
		measurement.KeyArch: measurement.Str(runtime.GOARCH),
		"os":                measurement.Str(runtime.GOOS),
		"cpus":              measurement.Int(runtime.NumCPU()),
		"go-version":        measurement.Str(runtime.Version()),
		"pid":               measurement.Int(os.Getpid()),
	}

	if name, err := os.Hostname(); err == nil {
		data[measurement.KeyHostname] = measurement.Str(name)
	}
	if u, err := user.Current(); err == nil {
		data["user"] = measurement.Str(u.Username)
	}
	if wd, err := os.Getwd(); err == nil {
		data["working-dir"] = measurement.Str(wd)
	}

	res := &measurement.Measurement{
		Type: measurement.TypeHost,
		Subtypes: []measurement.Subtype{
			{Name: "runtime", Data: data},
		},
	}

	env := make(map[string]measurement.Reading)
	for _, k := range c.EnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = measurement.Str(v)
		}
	}
	if len(env) > 0 {
		res.Subtypes = append(res.Subtypes, measurement.Subtype{Name: "env", Data: env})
	}

	return res, nil
}

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

package gpu

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/altm/mlfcore/pkg/defaults"
	"github.com/altm/mlfcore/pkg/measurement"
)

const (
	nvidiaSMICommand = "nvidia-smi"
	summarySubtype   = "smi"
)

// queryFields are requested from nvidia-smi in this order.
var queryFields = []string{
	"index",
	"name",
	"uuid",
	"driver_version",
	"memory.total",
	"compute_cap",
}

// Collector collects GPU inventory via nvidia-smi.
type Collector struct {
	// Command overrides the nvidia-smi executable.
	Command string
}

// Collect runs nvidia-smi and converts its CSV output into a GPU measurement.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting GPU information")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := c.Command
	if cmd == "" {
		cmd = nvidiaSMICommand
	}

	if _, err := exec.LookPath(cmd); err != nil {
		slog.Debug("nvidia-smi not found, reporting no GPUs", "command", cmd)
		return noGPUMeasurement(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.GPUQueryTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	run := exec.CommandContext(ctx, cmd, //nolint:gosec // command is operator supplied
		"--query-gpu="+strings.Join(queryFields, ","),
		"--format=csv,noheader,nounits",
	)
	run.Stdout = &stdout
	run.Stderr = &stderr

	if err := run.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("nvidia-smi timed out after %s: %w", defaults.GPUQueryTimeout, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// driver not loaded or no devices
			slog.Warn("nvidia-smi failed, reporting no GPUs",
				"exitCode", exitErr.ExitCode(),
				"stderr", strings.TrimSpace(stderr.String()))
			return noGPUMeasurement(), nil
		}
		return nil, fmt.Errorf("failed to run nvidia-smi: %w", err)
	}

	return parseQuery(&stdout)
}

// parseQuery converts nvidia-smi CSV rows into a measurement.
func parseQuery(r io.Reader) (*measurement.Measurement, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = len(queryFields)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse nvidia-smi output: %w", err)
	}
	if len(records) == 0 {
		return noGPUMeasurement(), nil
	}

	subs := make([]measurement.Subtype, 0, len(records)+1)
	subs = append(subs, measurement.Subtype{
		Name: summarySubtype,
		Data: map[string]measurement.Reading{
			measurement.KeyGPUCount:  measurement.Int(len(records)),
			measurement.KeyGPUDriver: measurement.Str(strings.TrimSpace(records[0][3])),
		},
	})

	for _, rec := range records {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}

		data := map[string]measurement.Reading{
			measurement.KeyGPUModel:  measurement.Str(rec[1]),
			measurement.KeyGPUUUID:   measurement.Str(rec[2]),
			measurement.KeyGPUDriver: measurement.Str(rec[3]),
			"compute-capability":     measurement.Str(rec[5]),
		}
		// memory.total is reported in MiB
		if mib, err := strconv.ParseUint(rec[4], 10, 64); err == nil {
			data[measurement.KeyGPUMemory] = measurement.Uint64(mib << 20)
		} else {
			data[measurement.KeyGPUMemory] = measurement.Str(rec[4])
		}

		subs = append(subs, measurement.Subtype{
			Name: "gpu-" + rec[0],
			Data: data,
		})
	}

	return &measurement.Measurement{
		Type:     measurement.TypeGPU,
		Subtypes: subs,
	}, nil
}

func noGPUMeasurement() *measurement.Measurement {
	return &measurement.Measurement{
		Type: measurement.TypeGPU,
		Subtypes: []measurement.Subtype{
			{
				Name: summarySubtype,
				Data: map[string]measurement.Reading{
					measurement.KeyGPUCount: measurement.Int(0),
				},
			},
		},
	}
}

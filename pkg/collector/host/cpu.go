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
	"fmt"
	"log/slog"
	"strings"

	"github.com/altm/mlfcore/pkg/collector/file"
	"github.com/altm/mlfcore/pkg/measurement"
)

var filePathCPUInfo = "/proc/cpuinfo"

// CPUCollector summarizes /proc/cpuinfo.
type CPUCollector struct{}

// Collect returns a CPU measurement with a single "cpuinfo" subtype.
func (c *CPUCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting cpu info")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := file.NewParser(file.WithMaxSize(8<<20)).GetLines(filePathCPUInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to read cpu info from %s: %w", filePathCPUInfo, err)
	}

	var (
		logical  int
		physical = make(map[string]struct{})
		socket   string
		data     = make(map[string]measurement.Reading)
	)

	for _, line := range lines {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		switch k {
		case "processor":
			logical++
		case "physical id":
			socket = v
		case "core id":
			physical[socket+"/"+v] = struct{}{}
		case "model name":
			data["model"] = measurement.Str(v)
		case "vendor_id":
			data["vendor"] = measurement.Str(v)
		case "flags":
			data["flags"] = measurement.Int(len(strings.Fields(v)))
		}
	}

	data["logical-cores"] = measurement.Int(logical)
	if len(physical) > 0 {
		data["physical-cores"] = measurement.Int(len(physical))
	}

	return &measurement.Measurement{
		Type: measurement.TypeCPU,
		Subtypes: []measurement.Subtype{
			{Name: "cpuinfo", Data: data},
		},
	}, nil
}

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
	"strconv"
	"strings"

	"github.com/altm/mlfcore/pkg/collector/file"
	"github.com/altm/mlfcore/pkg/measurement"
)

var (
	filePathMemInfo = "/proc/meminfo"

	memInfoKeys = []string{
		"MemTotal",
		"MemAvailable",
		"SwapTotal",
		"HugePages_Total",
		"Hugepagesize",
	}
)

// MemoryCollector reports selected /proc/meminfo values.
type MemoryCollector struct{}

// Collect returns a Memory measurement with a single "meminfo" subtype.
// Values reported in kB are converted to bytes.
func (c *MemoryCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting memory info")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, err := file.NewParser(file.WithKVDelimiter(":")).GetMap(filePathMemInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory info from %s: %w", filePathMemInfo, err)
	}

	data := make(map[string]measurement.Reading, len(memInfoKeys))
	for _, k := range memInfoKeys {
		v, ok := params[k]
		if !ok {
			continue
		}
		n, err := parseMemValue(v)
		if err != nil {
			slog.Debug("skipping unparsable meminfo value", "key", k, "value", v)
			continue
		}
		data[k] = measurement.Uint64(n)
	}

	return &measurement.Measurement{
		Type: measurement.TypeMemory,
		Subtypes: []measurement.Subtype{
			{Name: "meminfo", Data: data},
		},
	}, nil
}

// parseMemValue parses "65843148 kB" into bytes and bare counts as-is.
func parseMemValue(v string) (uint64, error) {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	n, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, err
	}
	if len(fields) > 1 && strings.EqualFold(fields[1], "kB") {
		n *= 1024
	}
	return n, nil
}

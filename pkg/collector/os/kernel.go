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

package os

import (
	"context"
	"fmt"
	"strings"

	"github.com/altm/mlfcore/pkg/collector/file"
	"github.com/altm/mlfcore/pkg/measurement"
)

var (
	filePathGrub = "/proc/cmdline"
	filePathKMod = "/proc/modules"

	// boot parameters that identify storage devices
	filterOutGrubKeys = []string{
		"root",
	}
)

// collectGRUB parses the kernel command line. Flags without a value are
// recorded with an empty string.
func (c *Collector) collectGRUB(ctx context.Context) (*measurement.Subtype, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, err := file.NewParser(file.WithDelimiter(" ")).GetMap(filePathGrub)
	if err != nil {
		return nil, fmt.Errorf("failed to read GRUB params from %s: %w", filePathGrub, err)
	}

	props := make(map[string]measurement.Reading, len(params))
	for k, v := range params {
		props[k] = measurement.Str(v)
	}

	return &measurement.Subtype{
		Name: "grub",
		Data: measurement.FilterOut(props, filterOutGrubKeys),
	}, nil
}

// collectKMod lists loaded kernel modules keyed by name.
func (c *Collector) collectKMod(ctx context.Context) (*measurement.Subtype, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := file.NewParser(file.WithMaxSize(4 << 20)).GetLines(filePathKMod)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel modules from %s: %w", filePathKMod, err)
	}

	readings := make(map[string]measurement.Reading, len(lines))
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			readings[fields[0]] = measurement.Bool(true)
		}
	}

	return &measurement.Subtype{Name: "kmod", Data: readings}, nil
}

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
	"os"

	"github.com/altm/mlfcore/pkg/collector/file"
	"github.com/altm/mlfcore/pkg/measurement"
)

var (
	filePathReleasePrimary  = "/etc/os-release"
	filePathReleaseFallback = "/usr/lib/os-release"
	filePathKernelRelease   = "/proc/sys/kernel/osrelease"
)

// collectRelease reads os-release, falling back to /usr/lib/os-release when
// the primary file is missing.
//
//	NAME="Ubuntu"
//	VERSION_ID="22.04"
func (c *Collector) collectRelease(ctx context.Context) (*measurement.Subtype, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filePathReleasePrimary
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = filePathReleaseFallback
	}

	params, err := file.NewParser(file.WithVTrimChars(`"'`)).GetMap(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read os release from %s: %w", path, err)
	}

	readings := make(map[string]measurement.Reading, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		readings[k] = measurement.Str(v)
	}

	return &measurement.Subtype{Name: "release", Data: readings}, nil
}

func (c *Collector) collectKernel(ctx context.Context) (*measurement.Subtype, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := file.NewParser().GetLines(filePathKernelRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel release from %s: %w", filePathKernelRelease, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("kernel release file %s is empty", filePathKernelRelease)
	}

	return &measurement.Subtype{
		Name: "kernel",
		Data: map[string]measurement.Reading{
			measurement.KeyKernel: measurement.Str(lines[0]),
		},
	}, nil
}

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
	"errors"
	"io/fs"
	"log/slog"

	"github.com/altm/mlfcore/pkg/measurement"
)

// Collector collects operating system configuration.
type Collector struct{}

type subtypeFunc func(context.Context) (*measurement.Subtype, error)

// Collect returns an OS measurement with release, kernel, grub and kmod
// subtypes, omitting those whose source file is absent.
func (c *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting OS configuration")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	steps := []subtypeFunc{
		c.collectRelease,
		c.collectKernel,
		c.collectGRUB,
		c.collectKMod,
	}

	subs := make([]measurement.Subtype, 0, len(steps))
	for _, step := range steps {
		st, err := step(ctx)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("os source not available", "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		subs = append(subs, *st)
	}

	return &measurement.Measurement{
		Type:     measurement.TypeOS,
		Subtypes: subs,
	}, nil
}

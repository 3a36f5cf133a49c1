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

package sysintel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/altm/mlfcore/pkg/collector"
	"github.com/altm/mlfcore/pkg/defaults"
	"github.com/altm/mlfcore/pkg/errors"
	"github.com/altm/mlfcore/pkg/header"
	"github.com/altm/mlfcore/pkg/measurement"
)

var (
	// subtypes omitted from non-verbose reports
	verboseOnlySubtypes = map[measurement.Type][]string{
		measurement.TypeOS: {"kmod", "grub"},
	}

	// systemd properties kept in non-verbose reports
	conciseSystemDKeys = []string{
		measurement.KeyAvailable,
		"ActiveState",
		"SubState",
		"LoadState",
		"UnitFileState",
		"NRestarts",
		"*Timestamp",
	}
)

// Service runs queries and exports reports.
type Service struct {
	// Factory creates collectors. If nil, the default factory is used.
	Factory collector.Factory

	// Version is recorded in the report metadata.
	Version string
}

type source struct {
	create  func(collector.Factory) collector.Collector
	timeout time.Duration
}

var sources = map[Scope]source{
	ScopeHost:    {collector.Factory.CreateHostCollector, defaults.CollectorTimeout},
	ScopeCPU:     {collector.Factory.CreateCPUCollector, defaults.CollectorTimeout},
	ScopeMemory:  {collector.Factory.CreateMemoryCollector, defaults.CollectorTimeout},
	ScopeOS:      {collector.Factory.CreateOSCollector, defaults.CollectorTimeout},
	ScopeGPU:     {collector.Factory.CreateGPUCollector, defaults.GPUQueryTimeout},
	ScopeSystemD: {collector.Factory.CreateSystemDCollector, defaults.CollectorTimeout},
}

// Query collects every requested scope concurrently. It fails if any
// collector fails.
func (s *Service) Query(ctx context.Context, opts QueryOptions) (*Report, error) {
	scopes, err := expand(opts.Scopes)
	if err != nil {
		return nil, err
	}

	factory := s.Factory
	if factory == nil {
		factory = collector.NewDefaultFactory()
	}

	slog.Debug("starting system intelligence query", "scopes", scopes, "verbose", opts.Verbose)

	start := time.Now()
	defer func() {
		queryDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]*measurement.Measurement, len(scopes))
	g, gctx := errgroup.WithContext(ctx)

	for i, scope := range scopes {
		src := sources[scope]
		g.Go(func() error {
			collectorStart := time.Now()
			defer func() {
				collectorDuration.WithLabelValues(string(scope)).Observe(time.Since(collectorStart).Seconds())
			}()

			cctx, cancel := context.WithTimeout(gctx, src.timeout)
			defer cancel()

			m, err := src.create(factory).Collect(cctx)
			if err != nil {
				slog.Error("collector failed", "scope", scope, "error", err)
				return errors.WrapWithContext(errors.ErrCodeInternal,
					fmt.Sprintf("failed to collect %s diagnostics", scope), err,
					map[string]any{"scope": string(scope)})
			}
			results[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		queryTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	queryTotal.WithLabelValues("success").Inc()

	report := &Report{
		Scopes:       scopes,
		Measurements: make([]*measurement.Measurement, 0, len(results)),
	}
	report.Init(header.KindSystemIntelligence, s.Version)

	for _, m := range results {
		if m == nil {
			continue
		}
		if !opts.Verbose {
			m = concise(m)
		}
		report.Measurements = append(report.Measurements, m)
	}

	slog.Debug("system intelligence query complete", "measurements", len(report.Measurements))

	return report, nil
}

// concise returns a copy of m without verbose-only content.
func concise(m *measurement.Measurement) *measurement.Measurement {
	drop := make(map[string]bool)
	for _, name := range verboseOnlySubtypes[m.Type] {
		drop[name] = true
	}

	out := &measurement.Measurement{
		Type:     m.Type,
		Subtypes: make([]measurement.Subtype, 0, len(m.Subtypes)),
	}
	for _, st := range m.Subtypes {
		if drop[st.Name] {
			continue
		}
		if m.Type == measurement.TypeSystemD {
			st = measurement.Subtype{
				Name: st.Name,
				Data: measurement.FilterIn(st.Data, conciseSystemDKeys),
			}
		}
		out.Subtypes = append(out.Subtypes, st)
	}
	return out
}

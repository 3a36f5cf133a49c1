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

package systemd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/altm/mlfcore/pkg/measurement"
)

var (
	filterOutSystemDKeys = []string{
		"AllowedCPUs",
		"AllowedMemoryNodes",
		"Asserts",
		"BPFProgram",
		"BusName",
		"Id",
		"*Credential*",
	}

	defaultServices = []string{"containerd.service"}

	// newConn opens a systemd connection; replaced in tests.
	newConn = func(ctx context.Context) (unitConn, error) {
		return dbus.NewSystemdConnectionContext(ctx)
	}
)

type unitConn interface {
	GetAllPropertiesContext(ctx context.Context, unit string) (map[string]any, error)
	Close()
}

// Collector gathers unit properties of the configured services.
type Collector struct {
	Services []string
}

// Collect returns one subtype per service. Services that are not loaded are
// reported with available=false.
func (s *Collector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	slog.Debug("collecting systemd service configurations")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	services := s.Services
	if len(services) == 0 {
		services = defaultServices
	}

	conn, err := newConn(ctx)
	if err != nil {
		slog.Debug("systemd bus unavailable", "error", err)
		return unavailable(), nil
	}
	defer conn.Close()

	subs := make([]measurement.Subtype, 0, len(services))
	for _, service := range services {
		data, err := conn.GetAllPropertiesContext(ctx, service)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to get unit properties of %s: %w", service, err)
		}

		readings := make(map[string]measurement.Reading, len(data))
		for k, v := range data {
			readings[k] = measurement.ToReading(v)
		}

		if load, ok := data["LoadState"].(string); ok && load == "not-found" {
			readings = map[string]measurement.Reading{
				measurement.KeyAvailable: measurement.Bool(false),
				"LoadState":              measurement.Str(load),
			}
		}

		subs = append(subs, measurement.Subtype{
			Name: service,
			Data: measurement.FilterOut(readings, filterOutSystemDKeys),
		})
	}

	return &measurement.Measurement{
		Type:     measurement.TypeSystemD,
		Subtypes: subs,
	}, nil
}

func unavailable() *measurement.Measurement {
	return &measurement.Measurement{
		Type: measurement.TypeSystemD,
		Subtypes: []measurement.Subtype{
			{
				Name: "systemd",
				Data: map[string]measurement.Reading{
					measurement.KeyAvailable: measurement.Bool(false),
				},
			},
		},
	}
}

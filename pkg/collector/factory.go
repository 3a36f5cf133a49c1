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

package collector

import (
	"github.com/altm/mlfcore/pkg/collector/gpu"
	"github.com/altm/mlfcore/pkg/collector/host"
	"github.com/altm/mlfcore/pkg/collector/os"
	"github.com/altm/mlfcore/pkg/collector/systemd"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateHostCollector() Collector
	CreateCPUCollector() Collector
	CreateMemoryCollector() Collector
	CreateOSCollector() Collector
	CreateGPUCollector() Collector
	CreateSystemDCollector() Collector
}

// Option configures a DefaultFactory.
type Option func(*DefaultFactory)

// WithSystemDServices overrides the systemd units that are inspected.
func WithSystemDServices(services []string) Option {
	return func(f *DefaultFactory) {
		f.SystemDServices = services
	}
}

// WithEnvKeys overrides the environment variables reported by the host collector.
func WithEnvKeys(keys []string) Option {
	return func(f *DefaultFactory) {
		f.EnvKeys = keys
	}
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	SystemDServices []string
	EnvKeys         []string
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		SystemDServices: []string{
			"nvidia-persistenced.service",
			"containerd.service",
			"docker.service",
		},
		EnvKeys: host.DefaultEnvKeys,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateHostCollector creates a host runtime collector.
func (f *DefaultFactory) CreateHostCollector() Collector {
	return &host.Collector{EnvKeys: f.EnvKeys}
}

// CreateCPUCollector creates a CPU collector.
func (f *DefaultFactory) CreateCPUCollector() Collector {
	return &host.CPUCollector{}
}

// CreateMemoryCollector creates a memory collector.
func (f *DefaultFactory) CreateMemoryCollector() Collector {
	return &host.MemoryCollector{}
}

// CreateOSCollector creates an operating system collector.
func (f *DefaultFactory) CreateOSCollector() Collector {
	return &os.Collector{}
}

// CreateGPUCollector creates an nvidia-smi backed GPU collector.
func (f *DefaultFactory) CreateGPUCollector() Collector {
	return &gpu.Collector{}
}

// CreateSystemDCollector creates a systemd collector.
func (f *DefaultFactory) CreateSystemDCollector() Collector {
	return &systemd.Collector{
		Services: f.SystemDServices,
	}
}

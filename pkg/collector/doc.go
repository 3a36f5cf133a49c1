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

// Package collector provides the interfaces and factory for the collectors
// behind a system intelligence query.
//
// # Core Interface
//
//	type Collector interface {
//	    Collect(ctx context.Context) (*measurement.Measurement, error)
//	}
//
// # Available Collectors
//
//   - host: hostname, platform, Go runtime, process and selected environment
//   - cpu: /proc/cpuinfo model, vendor, logical and physical core counts
//   - memory: /proc/meminfo totals in bytes
//   - os: os-release, kernel version, kernel command line, loaded modules
//   - gpu: nvidia-smi query; reports gpu-count=0 when nvidia-smi is absent
//   - systemd: unit properties over D-Bus; reports available=false when the
//     system bus cannot be reached
//
// # Usage
//
//	f := collector.NewDefaultFactory(
//	    collector.WithSystemDServices([]string{"containerd.service"}),
//	)
//	m, err := f.CreateGPUCollector().Collect(ctx)
package collector

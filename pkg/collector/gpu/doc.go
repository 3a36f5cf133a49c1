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

// Package gpu collects NVIDIA GPU inventory by querying nvidia-smi.
//
// The collector runs
//
//	nvidia-smi --query-gpu=index,name,uuid,driver_version,memory.total,compute_cap --format=csv,noheader,nounits
//
// and records one subtype per device plus an "smi" summary subtype carrying
// the device count and driver version. When nvidia-smi is not installed the
// collector returns a measurement with gpu-count set to 0 instead of failing,
// so CPU-only hosts still produce a complete report.
package gpu

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

package hash

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hashFilesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlfcore_hash_files_total",
			Help: "Total number of files digested",
		},
	)

	hashBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlfcore_hash_bytes_total",
			Help: "Total number of bytes read while digesting files",
		},
	)

	hashDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlfcore_hash_duration_seconds",
			Help:    "Time taken to digest a file or directory tree",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 60, 300},
		},
		[]string{"kind"}, // file or dir
	)
)

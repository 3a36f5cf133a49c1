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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mlfcore_sysintel_query_duration_seconds",
			Help:    "Time taken to complete a system intelligence query",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
	)

	queryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlfcore_sysintel_query_total",
			Help: "Total number of system intelligence queries",
		},
		[]string{"status"}, // success or error
	)

	collectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlfcore_sysintel_collector_duration_seconds",
			Help:    "Time taken by individual collectors",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15},
		},
		[]string{"collector"},
	)
)

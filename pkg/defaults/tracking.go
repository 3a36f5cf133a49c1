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

package defaults

const (
	// TrackerBackend is the tracking backend used when none is configured.
	TrackerBackend = "file"

	// TrackingRoot is the local directory used by the file tracking backend.
	TrackingRoot = "mlruns"

	// ExperimentID is the MLflow default experiment.
	ExperimentID = "0"

	// MLflowRequestsPerSecond limits outbound MLflow REST calls.
	MLflowRequestsPerSecond = 10

	// MLflowBurst is the MLflow limiter burst size.
	MLflowBurst = 20

	// OCITag is used when an oci:// tracking URI carries no tag.
	OCITag = "latest"
)

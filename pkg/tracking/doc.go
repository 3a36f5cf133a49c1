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

// Package tracking records run parameters and artifacts in an experiment
// tracking backend.
//
// Three backends implement Tracker:
//   - file: MLflow-style directory layout on the local filesystem
//     (<root>/<experiment>/<run>/{params,artifacts})
//   - mlflow: MLflow tracking server over its REST API
//   - oci: artifacts staged locally and pushed to an OCI registry on Close,
//     with params carried as manifest annotations
//
// New selects the backend from configuration:
//
//	t, err := tracking.New(ctx, cfg.Tracking)
//	if err != nil {
//		return err
//	}
//	defer t.Close(ctx)
//	err = t.LogParam(ctx, "training_data_hash", value)
//
// Params are immutable within a run: logging a key again with the same value
// is a no-op, with a different value an INVALID_REQUEST error. No backend
// retries failed calls.
package tracking

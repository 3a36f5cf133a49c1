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

// Package core is the mlfcore facade used by training code.
//
// It ties together the lower-level packages: deterministic seeding
// (pkg/seed), training data hashing (pkg/hash), system intelligence
// reports (pkg/sysintel), conda environment export (pkg/envexport) and a
// tracking backend (pkg/tracking).
//
// # Usage
//
//	tr, err := tracking.New(ctx, cfg.Tracking)
//	if err != nil {
//	    return err
//	}
//	defer tr.Close(ctx)
//
//	c, err := core.New(tr)
//	if err != nil {
//	    return err
//	}
//
//	core.SetGeneralRandomSeeds(42)
//	core.SetTensorRandomSeeds(42, 1)
//
//	if err := c.LogInputData(ctx, "/data/train", 0); err != nil {
//	    return err
//	}
//	if err := c.LogSysIntelCondaEnv(ctx); err != nil {
//	    return err
//	}
//
// The seeding and hashing helpers are free functions. Only the operations
// that record something on a run need a Core, and a Core keeps no state
// between calls beyond its collaborators.
//
// # Artifacts
//
// Reports are uploaded under the "reports" artifact path:
//
//	reports/system_intelligence.json
//	reports/system_intelligence.html
//	reports/altm_conda_environment.yml
//
// The input data digest is recorded as the "training_data_hash" param with
// the value "<path>-<md5>".
package core

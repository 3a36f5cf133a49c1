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

// Package envexport captures the active conda environment specification so a
// training run can be reproduced with the same packages.
//
//	e := envexport.New()
//	path, err := e.Export(ctx, reportsDir) // reportsDir/altm_conda_environment.yml
//
// The command runs through a Runner so tests can replace the process
// execution. A missing executable yields ErrCodeUnavailable and a non-zero
// exit yields ErrCodeInternal; in both cases the partially written file is
// left in place for inspection.
package envexport

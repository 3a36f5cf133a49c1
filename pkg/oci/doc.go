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

// Package oci pushes a directory of run artifacts to an OCI-compliant
// registry (GHCR, ECR, Harbor, a local registry) using ORAS.
//
// The directory is packed as a single gzipped tar layer under an OCI 1.1
// manifest with ArtifactType; caller-supplied annotations are attached to the
// manifest, which is how tracked run parameters travel with the artifacts.
//
//	ref, err := oci.ParseReference("oci://ghcr.io/altm/runs:run-42")
//	if err != nil {
//		return err
//	}
//	res, err := oci.Push(ctx, oci.PushOptions{
//		SourceDir:   stagingDir,
//		Reference:   ref,
//		Annotations: map[string]string{"mlfcore.param.training_data_hash": "..."},
//	})
//
// Registry credentials are read from the Docker credential store
// (~/.docker/config.json and its helpers).
package oci

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

// Package config loads mlfcore settings from a YAML or TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables, then CLI flags (applied by pkg/cli).
//
//	# mlfcore.yaml
//	tracking:
//	  backend: mlflow
//	  uri: https://mlflow.example.com
//	  experimentId: "12"
//	hash:
//	  maxFiles: 1000
//
// Recognized environment variables:
//   - MLFLOW_TRACKING_URI: tracking URI; also selects the backend from its scheme
//   - MLFLOW_EXPERIMENT_ID, MLFLOW_RUN_ID, MLFLOW_TRACKING_TOKEN
//   - MLFCORE_TRACKER: explicit backend (file, mlflow, oci)
package config

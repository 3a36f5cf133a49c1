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

// Package cli implements the command-line interface for the mlfcore tool.
//
// # Overview
//
// The mlfcore CLI exposes the reproducibility facade to shell scripts and
// job launchers that cannot call the Go packages directly. It seeds
// generators, hashes training data and uploads run diagnostics to a
// tracking backend.
//
// # Commands
//
// seed - Seed every random generator:
//
//	mlfcore seed --seed 42 [--gpus 2] [--samples 3]
//
// hash - Print the content hash of a file or directory:
//
//	mlfcore hash /data/train [--max-files 100] [--algorithm md5|h1]
//
// log-data - Record the training data hash on the tracked run:
//
//	mlfcore log-data /data/train --tracking-uri http://mlflow:5000 --run-id <id>
//
// sysintel - Write a system intelligence report:
//
//	mlfcore sysintel --scope gpu --scope os --output si.json --html
//
// log-env - Upload system intelligence and the conda environment:
//
//	mlfcore log-env [--keep-reports] [--env-name altm]
//
// # Global Flags
//
//	--config         Config file (.yaml, .yml, .toml, .json)
//	--log-level      debug, info, warn, error (default: info)
//	--tracker        file, mlflow or oci (default: inferred from URI)
//	--tracking-uri   Directory, MLflow server URL or oci://registry/repo[:tag]
//	--experiment-id  Experiment id (default: 0)
//	--run-id         Run id
//
// # Environment Variables
//
//	MLFLOW_TRACKING_URI    Tracking URI
//	MLFLOW_EXPERIMENT_ID   Experiment id
//	MLFLOW_RUN_ID          Run id
//	MLFLOW_TRACKING_TOKEN  Bearer token for the MLflow server
//	MLFCORE_TRACKER        Tracking backend
//	MLFCORE_CONFIG         Config file
//	LOG_LEVEL              Logging verbosity
//
// Flags override the environment, which overrides the config file.
//
// # Exit Codes
//
//	0  Success
//	1  Any error
package cli

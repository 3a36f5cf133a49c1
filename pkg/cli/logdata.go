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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/altm/mlfcore/pkg/core"
	"github.com/altm/mlfcore/pkg/tracking"
)

func logDataCmd() *cli.Command {
	return &cli.Command{
		Name:                  "log-data",
		EnableShellCompletion: true,
		Usage:                 "Record the training data hash on the tracked run",
		ArgsUsage:             "PATH",
		Description: `Hashes PATH (file or directory) and logs "<PATH>-<digest>" as the
training_data_hash param of the run selected by the tracking flags.`,
		Flags: []cli.Flag{
			maxFilesFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("path argument is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return withTracker(ctx, cfg, func(tr tracking.Tracker) error {
				c, err := core.New(tr)
				if err != nil {
					return err
				}
				return c.LogInputData(ctx, path, cfg.Hash.MaxFiles)
			})
		},
	}
}

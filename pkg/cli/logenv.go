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

	"github.com/urfave/cli/v3"

	"github.com/altm/mlfcore/pkg/collector"
	"github.com/altm/mlfcore/pkg/core"
	"github.com/altm/mlfcore/pkg/envexport"
	"github.com/altm/mlfcore/pkg/sysintel"
	"github.com/altm/mlfcore/pkg/tracking"
)

func logEnvCmd() *cli.Command {
	return &cli.Command{
		Name:                  "log-env",
		EnableShellCompletion: true,
		Usage:                 "Upload system intelligence and the conda environment",
		Description: `Writes system_intelligence.json, system_intelligence.html and
<env>_conda_environment.yml into a temporary directory and uploads them under
the "reports" artifact path of the tracked run. The directory is removed
afterwards unless --keep-reports is set.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagKeepReports,
				Usage: "keep the temporary reports directory",
			},
			&cli.StringFlag{
				Name:  "conda",
				Usage: "conda executable (default from config: conda)",
			},
			&cli.StringFlag{
				Name:  "env-name",
				Usage: "conda environment to export (default from config: altm)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if v := cmd.String("conda"); v != "" {
				cfg.Environment.Command = v
			}
			if v := cmd.String("env-name"); v != "" {
				cfg.Environment.Name = v
			}

			return withTracker(ctx, cfg, func(tr tracking.Tracker) error {
				c, err := core.New(tr,
					core.WithSysIntel(&sysintel.Service{
						Factory: collector.NewDefaultFactory(),
						Version: version,
					}),
					core.WithExporter(envexport.New(
						envexport.WithCommand(cfg.Environment.Command),
						envexport.WithEnvName(cfg.Environment.Name),
					)),
					core.WithKeepReports(cfg.Reports.Keep),
				)
				if err != nil {
					return err
				}
				return c.LogSysIntelCondaEnv(ctx)
			})
		},
	}
}

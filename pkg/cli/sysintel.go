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

	"github.com/altm/mlfcore/pkg/collector"
	"github.com/altm/mlfcore/pkg/sysintel"
)

func sysintelCmd() *cli.Command {
	return &cli.Command{
		Name:                  "sysintel",
		EnableShellCompletion: true,
		Usage:                 "Write a system intelligence report",
		Description: `Collects host diagnostics and writes them locally:
  - host runtime and selected environment variables
  - CPU and memory totals
  - OS release, kernel version, boot parameters and kernel modules
  - GPU inventory from nvidia-smi
  - SystemD service state

The report can be output in JSON, YAML, TOML or table format. --html also
writes an HTML summary next to --output.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "scope",
				Usage: fmt.Sprintf("scopes to collect, can be repeated (supported values: %s)", sysintel.SupportedScopes()),
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "also write an HTML summary (requires --output)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "include kernel modules, boot parameters and all systemd properties",
			},
			&cli.StringSliceFlag{
				Name:  "systemd-service",
				Usage: "systemd unit to inspect, can be repeated",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			scopes, err := sysintel.ParseScopes(cmd.StringSlice("scope"))
			if err != nil {
				return err
			}

			var opts []collector.Option
			if units := cmd.StringSlice("systemd-service"); len(units) > 0 {
				opts = append(opts, collector.WithSystemDServices(units))
			}

			svc := &sysintel.Service{
				Factory: collector.NewDefaultFactory(opts...),
				Version: version,
			}

			_, err = svc.QueryAndExport(ctx,
				sysintel.QueryOptions{Scopes: scopes, Verbose: cmd.Bool("verbose")},
				sysintel.ExportOptions{
					Format:       outFormat,
					GenerateHTML: cmd.Bool("html"),
					Output:       cmd.String("output"),
				})
			return err
		},
	}
}

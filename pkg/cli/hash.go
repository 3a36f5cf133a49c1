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
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/altm/mlfcore/pkg/core"
	"github.com/altm/mlfcore/pkg/hash"
	"github.com/altm/mlfcore/pkg/header"
	"github.com/altm/mlfcore/pkg/serializer"
)

const (
	algorithmMD5 = "md5"
	algorithmH1  = "h1"
)

// HashResult is the output of the hash command.
type HashResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Path      string `json:"path" yaml:"path"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Digest    string `json:"digest" yaml:"digest"`
	MaxFiles  int    `json:"maxFiles,omitempty" yaml:"maxFiles,omitempty"`
}

func hashCmd() *cli.Command {
	return &cli.Command{
		Name:                  "hash",
		EnableShellCompletion: true,
		Usage:                 "Print the content hash of a file or directory",
		ArgsUsage:             "PATH",
		Description: `Computes the digest recorded as training_data_hash. Files are hashed with
MD5. Directories are walked top-down in sorted order and the sorted file
digests are hashed again; --max-files caps the files taken per level.

--algorithm h1 prints the Go checksum database hash of a directory instead,
for cross-checking trees with Go tooling. It is never logged.`,
		Flags: []cli.Flag{
			maxFilesFlag(),
			&cli.StringFlag{
				Name:  "algorithm",
				Value: algorithmMD5,
				Usage: fmt.Sprintf("hash algorithm (supported values: %s, %s)", algorithmMD5, algorithmH1),
			},
			&cli.BoolFlag{
				Name:  "digest-only",
				Usage: "print only the digest",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("path argument is required")
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			res, err := runHash(ctx, path, cmd.String("algorithm"), int(cmd.Int(flagMaxFiles)))
			if err != nil {
				return err
			}

			if cmd.Bool("digest-only") {
				w := cmd.Root().Writer
				if w == nil {
					w = os.Stdout
				}
				_, err := fmt.Fprintln(w, res.Digest)
				return err
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)

			return ser.Serialize(ctx, res)
		},
	}
}

func runHash(ctx context.Context, path, algorithm string, maxFiles int) (*HashResult, error) {
	if maxFiles < 0 {
		return nil, fmt.Errorf("max-files must not be negative")
	}

	res := &HashResult{Path: path, Algorithm: algorithm, MaxFiles: maxFiles}
	res.Init(header.KindDataProvenance, version)

	var err error
	switch algorithm {
	case algorithmMD5:
		res.Digest, err = core.InputDataHash(ctx, path, maxFiles)
	case algorithmH1:
		res.MaxFiles = 0
		res.Digest, err = hash.DirH1(path)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("hashed", "path", path, "algorithm", algorithm, "digest", res.Digest)
	return res, nil
}

func closeSerializer(ser serializer.Closer) {
	if err := ser.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}

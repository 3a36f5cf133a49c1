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

package sysintel

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/altm/mlfcore/pkg/errors"
	"github.com/altm/mlfcore/pkg/serializer"
)

const htmlTitle = "System Intelligence"

// HTMLPath returns the path of the HTML summary written next to output.
func HTMLPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".html"
}

// Export writes report according to opts.
func (s *Service) Export(ctx context.Context, report *Report, opts ExportOptions) error {
	if report == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "report is nil")
	}
	if opts.GenerateHTML && opts.Output == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "HTML summary requires an output path")
	}

	format := opts.Format
	if format == "" {
		format = serializer.FormatJSON
	}

	var w *serializer.Writer
	if opts.Output == "" {
		w = serializer.NewWriter(format, os.Stdout)
	} else {
		fw, err := serializer.NewFileWriter(format, opts.Output)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to create report file", err)
		}
		w = fw
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close report file", "path", opts.Output, "error", err)
		}
	}()

	if err := w.Serialize(ctx, report); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write report", err)
	}

	if !opts.GenerateHTML {
		return nil
	}

	path := HTMLPath(opts.Output)
	if err := writeHTML(path, report); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write HTML summary", err,
			map[string]any{"path": path})
	}

	slog.Debug("system intelligence exported", "output", opts.Output, "html", path)
	return nil
}

// QueryAndExport runs Query then Export.
func (s *Service) QueryAndExport(ctx context.Context, q QueryOptions, e ExportOptions) (*Report, error) {
	report, err := s.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.Export(ctx, report, e); err != nil {
		return nil, err
	}
	return report, nil
}

func writeHTML(path string, report *Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return serializer.WriteHTML(f, htmlTitle, sections(report))
}

func sections(report *Report) []serializer.HTMLSection {
	out := make([]serializer.HTMLSection, 0, len(report.Measurements)+1)

	meta := serializer.HTMLSection{Title: "report"}
	for _, k := range slices.Sorted(maps.Keys(report.Metadata)) {
		meta.Rows = append(meta.Rows, serializer.HTMLRow{Key: k, Value: report.Metadata[k]})
	}
	out = append(out, meta)

	for _, m := range report.Measurements {
		for i := range m.Subtypes {
			st := &m.Subtypes[i]
			sec := serializer.HTMLSection{Title: fmt.Sprintf("%s %s", m.Type, st.Name)}
			for _, k := range st.Keys() {
				sec.Rows = append(sec.Rows, serializer.HTMLRow{Key: k, Value: st.Data[k].String()})
			}
			out = append(out, sec)
		}
	}
	return out
}

// Query runs a query with the default collector factory.
func Query(ctx context.Context, opts QueryOptions) (*Report, error) {
	return (&Service{}).Query(ctx, opts)
}

// Export writes report according to opts.
func Export(ctx context.Context, report *Report, opts ExportOptions) error {
	return (&Service{}).Export(ctx, report, opts)
}

// QueryAndExport runs a query with the default collector factory and
// writes the result.
func QueryAndExport(ctx context.Context, q QueryOptions, e ExportOptions) (*Report, error) {
	return (&Service{}).QueryAndExport(ctx, q, e)
}

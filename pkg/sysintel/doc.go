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

// Package sysintel queries the local host for diagnostics ("system
// intelligence") and exports them as a report.
//
// A query runs one collector per requested scope concurrently and gathers
// the measurements into a Report:
//
//	svc := &sysintel.Service{Version: "v0.3.0"}
//	report, err := svc.Query(ctx, sysintel.QueryOptions{
//		Scopes: []sysintel.Scope{sysintel.ScopeAll},
//	})
//
// Export writes the report in a serializer format and, optionally, an HTML
// summary next to it:
//
//	err = svc.Export(ctx, report, sysintel.ExportOptions{
//		Format:       serializer.FormatJSON,
//		GenerateHTML: true,
//		Output:       "reports/system_intelligence.json", // plus reports/system_intelligence.html
//	})
//
// Without Verbose, bulky sources (kernel modules, kernel command line) are
// dropped and systemd units are reduced to their state properties.
//
// Prometheus metrics:
//   - mlfcore_sysintel_query_duration_seconds
//   - mlfcore_sysintel_collector_duration_seconds{collector}
//   - mlfcore_sysintel_query_total{status}
package sysintel

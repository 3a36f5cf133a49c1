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
	"fmt"
	"strings"

	"github.com/altm/mlfcore/pkg/errors"
	"github.com/altm/mlfcore/pkg/header"
	"github.com/altm/mlfcore/pkg/measurement"
	"github.com/altm/mlfcore/pkg/serializer"
)

// Scope selects a group of diagnostics.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeHost    Scope = "host"
	ScopeCPU     Scope = "cpu"
	ScopeMemory  Scope = "memory"
	ScopeOS      Scope = "os"
	ScopeGPU     Scope = "gpu"
	ScopeSystemD Scope = "systemd"
)

// Scopes lists every concrete scope in report order.
var Scopes = []Scope{
	ScopeHost,
	ScopeCPU,
	ScopeMemory,
	ScopeOS,
	ScopeGPU,
	ScopeSystemD,
}

// SupportedScopes returns the accepted scope names including "all".
func SupportedScopes() []string {
	out := []string{string(ScopeAll)}
	for _, s := range Scopes {
		out = append(out, string(s))
	}
	return out
}

// ParseScopes converts names into scopes, case-insensitively.
func ParseScopes(names []string) ([]Scope, error) {
	out := make([]Scope, 0, len(names))
	for _, n := range names {
		s := Scope(strings.ToLower(strings.TrimSpace(n)))
		if s != ScopeAll && !isConcrete(s) {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("unknown scope %q", n),
				map[string]any{"supported": SupportedScopes()})
		}
		out = append(out, s)
	}
	return out, nil
}

func isConcrete(s Scope) bool {
	for _, c := range Scopes {
		if c == s {
			return true
		}
	}
	return false
}

// expand resolves "all" and removes duplicates, keeping report order.
// An empty list means all scopes.
func expand(scopes []Scope) ([]Scope, error) {
	if len(scopes) == 0 {
		return Scopes, nil
	}

	want := make(map[Scope]bool, len(Scopes))
	for _, s := range scopes {
		switch {
		case s == ScopeAll:
			return Scopes, nil
		case isConcrete(s):
			want[s] = true
		default:
			return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown scope %q", s))
		}
	}

	out := make([]Scope, 0, len(want))
	for _, s := range Scopes {
		if want[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

// QueryOptions controls what a query collects.
type QueryOptions struct {
	// Scopes to collect; empty means all.
	Scopes []Scope

	// Verbose keeps bulky sources that are dropped by default.
	Verbose bool
}

// ExportOptions controls how a report is written.
type ExportOptions struct {
	// Format of the main output; defaults to JSON.
	Format serializer.Format

	// GenerateHTML also writes an HTML summary next to Output.
	GenerateHTML bool

	// Output is the destination path; empty writes to stdout.
	Output string
}

// Report is the result of a query.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Scopes       []Scope                    `json:"scopes" yaml:"scopes"`
	Measurements []*measurement.Measurement `json:"measurements" yaml:"measurements"`
}

// Get returns the measurement of the given type, or nil.
func (r *Report) Get(t measurement.Type) *measurement.Measurement {
	for _, m := range r.Measurements {
		if m != nil && m.Type == t {
			return m
		}
	}
	return nil
}

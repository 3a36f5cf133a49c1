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

package header

import (
	"time"
)

// APIVersion is the schema version of all documents written by mlfcore.
const APIVersion = "mlfcore.altm.io/v1"

// Kind identifies the document type.
type Kind string

const (
	KindSystemIntelligence Kind = "SystemIntelligence"
	KindDataProvenance     Kind = "DataProvenance"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a recognized kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindSystemIntelligence, KindDataProvenance:
		return true
	default:
		return false
	}
}

// Option configures a Header.
type Option func(*Header)

// WithMetadata adds a metadata key/value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind sets the Kind.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// New creates a Header with the given options applied.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		Metadata:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header carries the type, schema version and free-form metadata of a document.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets the kind and API version, and resets Metadata to the creation
// timestamp plus the tool version when not empty.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if version != "" {
		h.Metadata["version"] = version
	}
}

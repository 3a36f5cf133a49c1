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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	"github.com/altm/mlfcore/pkg/errors"
)

// URIScheme prefixes registry targets, e.g. "oci://ghcr.io/org/repo:tag".
const URIScheme = "oci://"

// Reference is a parsed registry target.
type Reference struct {
	// Registry host, e.g. "ghcr.io" or "localhost:5000".
	Registry string
	// Repository path, e.g. "altm/runs".
	Repository string
	// Tag may be empty; callers apply a default.
	Tag string
}

// IsURI reports whether target uses the oci:// scheme.
func IsURI(target string) bool {
	return strings.HasPrefix(target, URIScheme)
}

// ParseReference parses an oci:// URI.
func ParseReference(target string) (*Reference, error) {
	if !IsURI(target) {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("OCI reference must start with %s: %q", URIScheme, target))
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "OCI reference must not contain a digest")
	}

	r := &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}
	return r, nil
}

// ValidateRegistryReference checks that registry and repository form a valid
// image name. A leading http:// or https:// on registry is ignored.
func ValidateRegistryReference(registry, repository string) error {
	name := fmt.Sprintf("%s/%s", stripProtocol(registry), repository)
	if _, err := reference.ParseNormalizedNamed(name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid registry reference %q", name), err)
	}
	return nil
}

// String returns the oci:// form of the reference.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns the reference without scheme.
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy with the tag replaced.
func (r *Reference) WithTag(tag string) *Reference {
	c := *r
	c.Tag = tag
	return &c
}

func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	return strings.TrimPrefix(registry, "http://")
}

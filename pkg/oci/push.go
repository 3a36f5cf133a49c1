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
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/altm/mlfcore/pkg/errors"
)

// ArtifactType is the manifest artifact type of pushed runs.
const ArtifactType = "application/vnd.altm.mlfcore.run"

// PushOptions configures Push.
type PushOptions struct {
	// SourceDir is the directory packed into the artifact layer.
	SourceDir string
	// Reference is the registry target; its Tag is required.
	Reference *Reference
	// Annotations are attached to the manifest.
	Annotations map[string]string
	// PlainHTTP uses HTTP instead of HTTPS.
	PlainHTTP bool
	// InsecureTLS skips certificate verification.
	InsecureTLS bool
	// Target overrides the remote repository, e.g. with a local OCI layout.
	Target oras.Target
}

// PushResult describes a pushed artifact.
type PushResult struct {
	// Digest of the manifest.
	Digest string
	// Reference is registry/repository:tag.
	Reference string
}

// Push packs SourceDir and copies it to the registry.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	ref := opts.Reference
	if ref.Tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}
	if err := ValidateRegistryReference(ref.Registry, ref.Repository); err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve source directory", err)
	}

	store, err := file.New(absDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = store.Close() }()

	// deterministic tars give stable layer digests for identical content
	store.TarReproducible = true

	layer, err := store.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to add source directory to store", err)
	}

	manifest, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: opts.Annotations,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to pack manifest", err)
	}

	if err := store.Tag(ctx, manifest, ref.Tag); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to tag manifest in local store", err)
	}

	target := opts.Target
	if target == nil {
		repo, rerr := remote.NewRepository(fmt.Sprintf("%s/%s", stripProtocol(ref.Registry), ref.Repository))
		if rerr != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to initialize remote repository", rerr)
		}
		repo.PlainHTTP = opts.PlainHTTP
		repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)
		target = repo
	}

	slog.Debug("pushing OCI artifact", "reference", ref.ImageReference(), "source", absDir)

	desc, err := oras.Copy(ctx, store, ref.Tag, target, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to push artifact to registry", err,
			map[string]any{"reference": ref.ImageReference()})
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: ref.ImageReference(),
	}, nil
}

// createAuthClient returns a registry client using Docker credentials when
// available.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credential store unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec // opt-in
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // opt-in
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}

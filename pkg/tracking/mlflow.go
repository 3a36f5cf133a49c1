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

package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"golang.org/x/time/rate"

	"github.com/altm/mlfcore/pkg/config"
	"github.com/altm/mlfcore/pkg/defaults"
	"github.com/altm/mlfcore/pkg/errors"
)

const (
	mlflowLogParamPath  = "/api/2.0/mlflow/runs/log-parameter"
	mlflowArtifactsPath = "/api/2.0/mlflow-artifacts/artifacts"
	mlflowUserAgent     = "mlfcore/1.0"

	// response bytes kept for error messages
	maxErrorBody = 4096
)

// MLflowClient logs to an MLflow tracking server.
type MLflowClient struct {
	baseURL      string
	experimentID string
	runID        string
	token        string

	client  *http.Client
	limiter *rate.Limiter
}

var _ Tracker = (*MLflowClient)(nil)

// MLflowOption configures an MLflowClient.
type MLflowOption func(*MLflowClient)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) MLflowOption {
	return func(m *MLflowClient) {
		m.client = c
	}
}

// NewMLflowClient creates a client for the run in cfg.
func NewMLflowClient(cfg config.Tracking, opts ...MLflowOption) (*MLflowClient, error) {
	u, err := url.Parse(cfg.URI)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid mlflow tracking URI %q", cfg.URI))
	}
	if cfg.RunID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "mlflow run id is required")
	}
	if cfg.ExperimentID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "mlflow experiment id is required")
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaults.MLflowRequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaults.MLflowBurst
	}

	m := &MLflowClient{
		baseURL:      strings.TrimRight(cfg.URI, "/"),
		experimentID: cfg.ExperimentID,
		runID:        cfg.RunID,
		token:        cfg.Token,
		client:       newHTTPClient(),
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
			ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
		},
	}
}

// LogParam posts the param to runs/log-parameter.
func (m *MLflowClient) LogParam(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "param key is required")
	}

	body, err := json.Marshal(map[string]string{
		"run_id": m.runID,
		"key":    key,
		"value":  value,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode param", err)
	}

	return m.do(ctx, http.MethodPost, m.baseURL+mlflowLogParamPath, "application/json", bytes.NewReader(body), int64(len(body)))
}

// LogArtifact uploads localPath to <artifactPath>/<base name> of the run.
func (m *MLflowClient) LogArtifact(ctx context.Context, localPath, artifactPath string) error {
	p, err := cleanArtifactPath(artifactPath)
	if err != nil {
		return err
	}
	return m.upload(ctx, localPath, path.Join(p, path.Base(strings.ReplaceAll(localPath, `\`, "/"))))
}

// LogArtifacts uploads every file under localDir, preserving relative paths.
func (m *MLflowClient) LogArtifacts(ctx context.Context, localDir, artifactPath string) error {
	p, err := cleanArtifactPath(artifactPath)
	if err != nil {
		return err
	}

	err = walkFiles(ctx, localDir, func(file, rel string) error {
		return m.upload(ctx, file, path.Join(p, rel))
	})
	if err != nil {
		var se *errors.StructuredError
		if stderrors.As(err, &se) {
			return err
		}
		return errors.Wrap(codeFor(err), "failed to log artifacts", err)
	}
	return nil
}

// Close is a no-op; the run lifecycle belongs to the caller.
func (m *MLflowClient) Close(context.Context) error {
	return nil
}

// ArtifactURL returns the upload URL of a run-relative artifact path.
func (m *MLflowClient) ArtifactURL(rel string) string {
	segs := []string{m.experimentID, m.runID, "artifacts"}
	segs = append(segs, strings.Split(rel, "/")...)
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return m.baseURL + mlflowArtifactsPath + "/" + strings.Join(segs, "/")
}

func (m *MLflowClient) upload(ctx context.Context, localPath, rel string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(codeFor(err), "failed to open artifact", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to stat artifact", err)
	}

	slog.Debug("uploading artifact", "path", localPath, "artifact", rel, "bytes", info.Size())

	return m.do(ctx, http.MethodPut, m.ArtifactURL(rel), "application/octet-stream", f, info.Size())
}

// mlflowError is the error body returned by the MLflow REST API.
type mlflowError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func (m *MLflowClient) do(ctx context.Context, method, target, contentType string, body io.Reader, size int64) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, "rate limiter wait aborted", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to build request", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", mlflowUserAgent)
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(errors.ErrCodeTimeout, "mlflow request aborted", err)
		}
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "mlflow request failed", err,
			map[string]any{"method": method, "url": target})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var me mlflowError
	_ = json.Unmarshal(raw, &me)

	msg := me.Message
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = resp.Status
	}

	return errors.NewWithContext(statusCode(resp.StatusCode),
		fmt.Sprintf("mlflow %s %s: %s", method, req.URL.Path, msg),
		map[string]any{"status": resp.StatusCode, "errorCode": me.ErrorCode})
}

func statusCode(status int) errors.ErrorCode {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return errors.ErrCodeUnauthorized
	case status == http.StatusNotFound:
		return errors.ErrCodeNotFound
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return errors.ErrCodeTimeout
	case status == http.StatusTooManyRequests, status == http.StatusServiceUnavailable, status == http.StatusBadGateway:
		return errors.ErrCodeUnavailable
	case status >= 400 && status < 500:
		return errors.ErrCodeInvalidRequest
	default:
		return errors.ErrCodeInternal
	}
}

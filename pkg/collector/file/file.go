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

package file

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser splits files into entries and key/value pairs.
type Parser struct {
	delimiter    string
	kvDelimiter  string
	trimChars    string
	maxSize      int
	skipComments bool
}

// WithDelimiter sets the entry delimiter. Default is newline.
func WithDelimiter(delim string) Option {
	return func(p *Parser) { p.delimiter = delim }
}

// WithKVDelimiter sets the key/value delimiter used by GetMap. Default is "=".
func WithKVDelimiter(delim string) Option {
	return func(p *Parser) { p.kvDelimiter = delim }
}

// WithVTrimChars sets characters trimmed from both ends of values.
func WithVTrimChars(chars string) Option {
	return func(p *Parser) { p.trimChars = chars }
}

// WithMaxSize sets the maximum accepted file size in bytes.
func WithMaxSize(size int) Option {
	return func(p *Parser) { p.maxSize = size }
}

// WithSkipComments toggles skipping of '#' comment entries.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) { p.skipComments = skip }
}

// NewParser creates a parser with the given options applied over the defaults.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		kvDelimiter:  "=",
		maxSize:      1 << 20,
		skipComments: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines returns the non-empty, trimmed entries of the file at path.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	parts := strings.Split(string(b), p.delimiter)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(part, "#") {
			continue
		}
		out = append(out, part)
	}
	return out, nil
}

// GetMap parses the file at path into key/value pairs. Entries without the
// key/value delimiter map to an empty value; later keys win.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(lines))
	for _, line := range lines {
		k, v, _ := strings.Cut(line, p.kvDelimiter)
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if p.trimChars != "" {
			v = strings.Trim(v, p.trimChars)
		}
		out[k] = v
	}
	return out, nil
}

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

// Package seed makes the process-wide random sources used by training code
// deterministic.
//
// SetGeneralRandomSeeds covers the hash seed inherited by child interpreter
// processes (PYTHONHASHSEED), the numeric-array generator and the
// general-purpose generator. SetTensorRandomSeeds covers the tensor CPU
// generator, one generator per GPU, and deterministic mode.
//
// Every generator is reachable through an accessor and is safe for concurrent
// use. Distinct generators draw distinct streams even when seeded with the
// same value, and reseeding with the same value replays the same sequence.
package seed

import (
	"encoding/binary"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"sync"
)

const (
	// EnvHashSeed is exported so child interpreters hash strings deterministically.
	EnvHashSeed = "PYTHONHASHSEED"

	// EnvCublasWorkspace must be set for deterministic cuBLAS kernels.
	EnvCublasWorkspace = "CUBLAS_WORKSPACE_CONFIG"

	// CublasWorkspaceDeterministic is the workspace setting required by deterministic mode.
	CublasWorkspaceDeterministic = ":4096:8"
)

// Stream ids keep generators seeded with the same value independent.
const (
	streamGeneral uint64 = iota + 1
	streamTensorCPU
	streamTensorGPU
)

// Source is a reseedable generator safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSource(src rand.Source) *Source {
	return &Source{rng: rand.New(src)}
}

func (s *Source) reset(src rand.Source) {
	s.mu.Lock()
	s.rng = rand.New(src)
	s.mu.Unlock()
}

// Int64 returns a non-negative pseudo-random int64.
func (s *Source) Int64() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int64()
}

// IntN returns a pseudo-random int in [0,n).
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Float64 returns a pseudo-random float64 in [0.0,1.0).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NormFloat64 returns a standard normally distributed float64.
func (s *Source) NormFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (s *Source) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Perm(n)
}

var (
	mu            sync.RWMutex
	general       = newSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	numeric       = newSource(rand.NewChaCha8(randomKey()))
	tensorCPU     = newSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	tensorGPU     []*Source
	deterministic bool
)

// SetGeneralRandomSeeds seeds the hash seed, numeric-array and general-purpose generators.
func SetGeneralRandomSeeds(seed int64) {
	if err := os.Setenv(EnvHashSeed, strconv.FormatInt(seed, 10)); err != nil {
		slog.Warn("failed to export hash seed", "error", err)
	}

	numeric.reset(rand.NewChaCha8(chachaKey(seed)))
	general.reset(rand.NewPCG(uint64(seed), streamGeneral))

	slog.Debug("general random seeds set", "seed", seed)
}

// SetTensorRandomSeeds seeds the tensor CPU generator, enables deterministic
// mode and, when numGPUs > 0, seeds one generator per GPU.
func SetTensorRandomSeeds(seed int64, numGPUs int) {
	tensorCPU.reset(rand.NewPCG(uint64(seed), streamTensorCPU))

	if err := os.Setenv(EnvCublasWorkspace, CublasWorkspaceDeterministic); err != nil {
		slog.Warn("failed to export cuBLAS workspace config", "error", err)
	}

	gpus := make([]*Source, 0, max(numGPUs, 0))
	for i := range max(numGPUs, 0) {
		gpus = append(gpus, newSource(rand.NewPCG(uint64(seed), streamTensorGPU+uint64(i))))
	}

	mu.Lock()
	deterministic = true
	if numGPUs > 0 {
		tensorGPU = gpus
	}
	mu.Unlock()

	slog.Debug("tensor random seeds set", "seed", seed, "gpus", numGPUs)
}

// General returns the general-purpose generator.
func General() *Source { return general }

// Numeric returns the numeric-array generator.
func Numeric() *Source { return numeric }

// TensorCPU returns the tensor CPU generator.
func TensorCPU() *Source { return tensorCPU }

// TensorGPU returns the generator of GPU i, or nil when i was not seeded.
func TensorGPU(i int) *Source {
	mu.RLock()
	defer mu.RUnlock()
	if i < 0 || i >= len(tensorGPU) {
		return nil
	}
	return tensorGPU[i]
}

// GPUCount returns the number of seeded GPU generators.
func GPUCount() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(tensorGPU)
}

// Deterministic reports whether deterministic mode has been enabled.
func Deterministic() bool {
	mu.RLock()
	defer mu.RUnlock()
	return deterministic
}

func chachaKey(seed int64) [32]byte {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	return key
}

func randomKey() [32]byte {
	var key [32]byte
	for i := 0; i < len(key); i += 8 {
		binary.LittleEndian.PutUint64(key[i:], rand.Uint64())
	}
	return key
}

// Copyright 2022 Matrix Origin
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

// Package prng provides the random source used to seed hash tables.
//
// Production code seeds a Source from the operating system's entropy pool
// through crypto/rand; construction fails rather than falling back to a
// fixed seed, since a predictable seed would defeat the table's resistance
// to hash flooding. Tests construct deterministic sources directly.
package prng

import (
	"crypto/rand"
	"encoding/binary"
	"math/bits"

	"github.com/apribadi/wordmap/pkg/common/wmerr"
)

// Source is a small pseudo-random generator with 128 bits of state. The
// state is never all zero. A Source is not safe for concurrent use.
type Source struct {
	lo uint64
	hi uint64
}

// NewSource returns a Source seeded with 16 bytes from crypto/rand. It
// fails with a seed-unavailable error if the entropy source cannot be read
// or returns all zeros.
func NewSource() (*Source, error) {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, wmerr.NewSeedUnavailable(err.Error())
	}
	lo := binary.LittleEndian.Uint64(seed[0:8])
	hi := binary.LittleEndian.Uint64(seed[8:16])
	if lo == 0 && hi == 0 {
		return nil, wmerr.NewSeedUnavailable("entropy source returned all zeros")
	}
	return &Source{lo: lo, hi: hi}, nil
}

// NewSeededSource returns a Source with the given state, for reproducible
// sequences in tests. An all-zero state is replaced with a fixed nonzero
// one.
func NewSeededSource(lo, hi uint64) *Source {
	if lo == 0 && hi == 0 {
		lo = 1
	}
	return &Source{lo: lo, hi: hi}
}

// Uint64 advances the generator and returns the next value. The output
// mixes the full 64x64 product of the state halves, and the state update
// preserves the nonzero invariant: the new hi half is zero only when the
// old lo half was zero, in which case the new lo half is the old hi half.
func (s *Source) Uint64() uint64 {
	u, v := s.lo, s.hi

	x := bits.RotateLeft64(u, -7) ^ v
	y := u ^ u>>19
	hi, lo := bits.Mul64(u, v)
	z := (lo ^ hi) + x

	s.lo = x
	s.hi = y

	return z
}

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

package wordmap

import (
	"math/bits"

	"github.com/apribadi/wordmap/pkg/common/prng"
)

// seeds holds the per-table hash seeds. fwd is always odd and inv is its
// multiplicative inverse mod 2^64, so intHash is a bijection on uint64.
//
// Because fwd*inv == 1, applying intHash twice yields the original key:
//
//	intHash(m, intHash(m, x)) == x
//
// The iterator relies on this to recover keys from stored hashes.
type seeds struct {
	fwd uint64
	inv uint64
}

func newSeeds(src *prng.Source) seeds {
	a := src.Uint64() | 1
	return seeds{fwd: a, inv: invert(a)}
}

// invert returns the multiplicative inverse of a mod 2^64. a must be odd.
// Newton's method, see https://arxiv.org/abs/2204.04342.
func invert(a uint64) uint64 {
	x := a*3 ^ 2
	y := 1 - a*x
	x *= y + 1
	y *= y
	x *= y + 1
	y *= y
	x *= y + 1
	y *= y
	x *= y + 1
	return x
}

// intHash mixes key with the table seeds. The byte swap between the two
// multiplications moves seed-dependent entropy into the top bits, which
// the table uses to derive home slots. The result is zero iff the key is
// zero, so a zero stored hash can mark an empty cell.
func intHash(m seeds, key uint64) uint64 {
	return bits.ReverseBytes64(key*m.fwd) * m.inv
}

func intBatchHash(m seeds, keys []uint64, hashes []uint64) {
	for i, key := range keys {
		hashes[i] = intHash(m, key)
	}
}

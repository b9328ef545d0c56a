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

// Package wordmap implements a fast open-addressing hash table keyed by
// machine-word (uint64) integers. Every table draws its hash seeds from a
// cryptographically seeded random source at construction time, so probe
// sequences cannot be predicted from key values alone and adversarially
// chosen key sets cannot degrade the table to linear behavior.
package wordmap

import (
	"github.com/apribadi/wordmap/pkg/common/prng"
	"github.com/apribadi/wordmap/pkg/common/wmerr"
)

const (
	kInitialBucketCntBits = 6
	kInitialBucketCnt     = 1 << kInitialBucketCntBits
	kInitialMarginCnt     = 8
	kMaxBucketCntBits     = 48
	// default load factor threshold, 7/8
	kLoadFactorNumerator   = 7
	kLoadFactorDenominator = 8
)

type cell[V any] struct {
	hash  uint64
	value V
}

// Map is an open-addressing hash table from uint64 keys to values of type V.
//
// Cells store the seeded hash of their key rather than the key itself; the
// hash is a bijection, so equal hashes mean equal keys and a stored hash of
// zero marks an empty cell. Key zero hashes to zero and lives in a dedicated
// cell outside the probe array. The home slot of a hash is derived from its
// top bits and decreases as the hash increases, and each occupied run is
// kept sorted by descending hash, so a probe can stop at the first cell
// whose stored hash is not greater than the probe hash. Insertion shifts
// the tail of a run one cell right, deletion shifts it back left; the table
// never holds tombstones.
//
// A small overflow margin past the last bucket absorbs runs that extend
// beyond the bucket region. The final cell of the array is kept empty at
// all times so that every probe loop terminates without bounds checks.
//
// A Map is not internally synchronized. It must be owned by one goroutine
// at a time; callers needing shared access must add their own locking or
// shard across tables.
type Map[V any] struct {
	seeds seeds

	bucketCntBits uint8
	hashShift     uint8
	bucketCnt     uint64
	bucketCntMask uint64
	marginCnt     uint64

	elemCnt    uint64
	maxElemCnt uint64
	// load factor threshold as a fraction loadNum/loadDen
	loadNum uint64
	loadDen uint64

	cells []cell[V]

	zeroInUse bool
	zeroValue V
}

// Options configures table construction.
type Options struct {
	// InitialCapacity reserves room for at least this many entries before
	// the first resize.
	InitialCapacity uint64
	// MaxLoadFactor overrides the default load factor threshold of 7/8.
	// Values outside (0, 1) fall back to the default.
	MaxLoadFactor float64
}

// New creates an empty map, seeding the hash function from the process
// entropy source. It fails with a seed-unavailable error if the entropy
// source cannot be read; it never falls back to a fixed seed.
func New[V any]() (*Map[V], error) {
	src, err := prng.NewSource()
	if err != nil {
		return nil, err
	}
	return NewSeeded[V](src), nil
}

// NewWithOptions is New with explicit construction options.
func NewWithOptions[V any](opts Options) (*Map[V], error) {
	src, err := prng.NewSource()
	if err != nil {
		return nil, err
	}
	return NewSeededWithOptions[V](src, opts)
}

// NewSeeded creates an empty map, seeding the hash function from the given
// random source.
func NewSeeded[V any](src *prng.Source) *Map[V] {
	ht, _ := NewSeededWithOptions[V](src, Options{})
	return ht
}

// NewSeededWithOptions creates an empty map with the given random source
// and options. It fails with a capacity-overflow error if InitialCapacity
// exceeds the addressable bucket range.
func NewSeededWithOptions[V any](src *prng.Source, opts Options) (*Map[V], error) {
	ht := &Map[V]{
		seeds:   newSeeds(src),
		loadNum: kLoadFactorNumerator,
		loadDen: kLoadFactorDenominator,
	}
	if f := opts.MaxLoadFactor; f > 0 && f < 1 {
		ht.loadNum = uint64(f * 1024)
		ht.loadDen = 1024
		if ht.loadNum == 0 {
			ht.loadNum = 1
		}
	}

	bucketCntBits := uint8(kInitialBucketCntBits)
	if opts.InitialCapacity > 0 {
		for ht.maxElemCntFor(uint64(1)<<bucketCntBits) < opts.InitialCapacity {
			bucketCntBits++
			if bucketCntBits > kMaxBucketCntBits {
				return nil, wmerr.NewCapacityOverflow(opts.InitialCapacity)
			}
		}
	}
	ht.init(bucketCntBits)
	return ht, nil
}

func (ht *Map[V]) init(bucketCntBits uint8) {
	ht.bucketCntBits = bucketCntBits
	ht.hashShift = 64 - bucketCntBits
	ht.bucketCnt = uint64(1) << bucketCntBits
	ht.bucketCntMask = ht.bucketCnt - 1
	ht.marginCnt = kInitialMarginCnt
	ht.maxElemCnt = ht.maxElemCntFor(ht.bucketCnt)
	ht.elemCnt = 0
	ht.cells = make([]cell[V], ht.bucketCnt+ht.marginCnt)
}

func (ht *Map[V]) maxElemCntFor(bucketCnt uint64) uint64 {
	maxElemCnt := bucketCnt * ht.loadNum / ht.loadDen
	if maxElemCnt < 1 {
		maxElemCnt = 1
	}
	if maxElemCnt > bucketCnt-1 {
		maxElemCnt = bucketCnt - 1
	}
	return maxElemCnt
}

// homeIdx maps a hash to its home slot. Larger hashes map to smaller
// indices, which keeps run order (descending hash) consistent with home
// slot order.
func (ht *Map[V]) homeIdx(hash uint64) uint64 {
	return ht.bucketCntMask - hash>>ht.hashShift
}

// Insert adds or updates the entry for key. It returns the previous value
// and true if the key was already present.
func (ht *Map[V]) Insert(key uint64, value V) (old V, existed bool) {
	if key == 0 {
		if ht.zeroInUse {
			old, ht.zeroValue = ht.zeroValue, value
			return old, true
		}
		ht.resizeOnDemand(1)
		ht.zeroInUse = true
		ht.zeroValue = value
		ht.elemCnt++
		return
	}

	ht.resizeOnDemand(1)

	hash := intHash(ht.seeds, key)
	idx := ht.homeIdx(hash)
	for ht.cells[idx].hash > hash {
		idx++
	}
	if ht.cells[idx].hash == hash {
		old, ht.cells[idx].value = ht.cells[idx].value, value
		return old, true
	}

	end := idx
	for ht.cells[end].hash != 0 {
		end++
	}
	copy(ht.cells[idx+1:end+1], ht.cells[idx:end])
	ht.cells[idx] = cell[V]{hash: hash, value: value}
	ht.elemCnt++

	if end == uint64(len(ht.cells))-1 {
		// the run reached the final cell, extend the margin
		ht.rehash(ht.bucketCntBits, ht.marginCnt*2)
	}
	return
}

// Get returns the value associated with key, if present.
func (ht *Map[V]) Get(key uint64) (value V, ok bool) {
	if key == 0 {
		if ht.zeroInUse {
			return ht.zeroValue, true
		}
		return
	}

	hash := intHash(ht.seeds, key)
	idx := ht.homeIdx(hash)
	for ht.cells[idx].hash > hash {
		idx++
	}
	if ht.cells[idx].hash == hash {
		return ht.cells[idx].value, true
	}
	return
}

// Contains reports whether the map contains key.
func (ht *Map[V]) Contains(key uint64) bool {
	if key == 0 {
		return ht.zeroInUse
	}
	hash := intHash(ht.seeds, key)
	idx := ht.homeIdx(hash)
	for ht.cells[idx].hash > hash {
		idx++
	}
	return ht.cells[idx].hash == hash
}

// Remove deletes the entry for key. It returns the removed value and true
// if the key was present. Deletion backward-shifts the remainder of the
// probe run, so the table keeps no tombstones.
func (ht *Map[V]) Remove(key uint64) (value V, ok bool) {
	if key == 0 {
		if !ht.zeroInUse {
			return
		}
		value, ok = ht.zeroValue, true
		var zero V
		ht.zeroValue = zero
		ht.zeroInUse = false
		ht.elemCnt--
		return
	}

	hash := intHash(ht.seeds, key)
	idx := ht.homeIdx(hash)
	for ht.cells[idx].hash > hash {
		idx++
	}
	if ht.cells[idx].hash != hash {
		return
	}
	value, ok = ht.cells[idx].value, true

	for {
		next := idx + 1
		x := ht.cells[next].hash
		// stop at an empty cell or an entry already at its home slot
		if x == 0 || ht.homeIdx(x) > idx {
			break
		}
		ht.cells[idx] = ht.cells[next]
		idx = next
	}
	ht.cells[idx] = cell[V]{}
	ht.elemCnt--
	return
}

// InsertBatch inserts the keys[i] -> values[i] pairs. Both slices must
// have the same length.
func (ht *Map[V]) InsertBatch(keys []uint64, values []V) {
	ht.resizeOnDemand(uint64(len(keys)))
	for i, key := range keys {
		ht.Insert(key, values[i])
	}
}

// FindBatch looks up every key, storing results in values and founds.
// All slices must have the same length.
func (ht *Map[V]) FindBatch(keys []uint64, values []V, founds []bool) {
	for i, key := range keys {
		values[i], founds[i] = ht.Get(key)
	}
}

// Len returns the number of entries.
func (ht *Map[V]) Len() int {
	return int(ht.elemCnt)
}

// IsEmpty reports whether the map holds no entries.
func (ht *Map[V]) IsEmpty() bool {
	return ht.elemCnt == 0
}

// Cap returns the current bucket count. It only ever increases.
func (ht *Map[V]) Cap() uint64 {
	return ht.bucketCnt
}

// Clear removes every entry. It retains the allocated cell array.
func (ht *Map[V]) Clear() {
	for i := range ht.cells {
		ht.cells[i] = cell[V]{}
	}
	var zero V
	ht.zeroValue = zero
	ht.zeroInUse = false
	ht.elemCnt = 0
}

func (ht *Map[V]) resizeOnDemand(n uint64) {
	targetCnt := ht.elemCnt + n
	if targetCnt <= ht.maxElemCnt {
		return
	}

	newBucketCntBits := ht.bucketCntBits + 2
	for ht.maxElemCntFor(uint64(1)<<newBucketCntBits) < targetCnt {
		newBucketCntBits++
	}
	ht.rehash(newBucketCntBits, ht.marginCnt)
}

// rehash rebuilds the cell array with the given geometry, rederiving home
// slots for every entry with the same seeds. If the new margin fills up
// while reinserting, the margin is doubled and the rehash restarts.
func (ht *Map[V]) rehash(newBucketCntBits uint8, newMarginCnt uint64) {
	oldCells := ht.cells
	for {
		ht.bucketCntBits = newBucketCntBits
		ht.hashShift = 64 - newBucketCntBits
		ht.bucketCnt = uint64(1) << newBucketCntBits
		ht.bucketCntMask = ht.bucketCnt - 1
		ht.marginCnt = newMarginCnt
		ht.maxElemCnt = ht.maxElemCntFor(ht.bucketCnt)
		ht.cells = make([]cell[V], ht.bucketCnt+newMarginCnt)
		if ht.reinsertAll(oldCells) {
			return
		}
		newMarginCnt *= 2
	}
}

func (ht *Map[V]) reinsertAll(oldCells []cell[V]) bool {
	lastIdx := uint64(len(ht.cells)) - 1
	for i := range oldCells {
		hash := oldCells[i].hash
		if hash == 0 {
			continue
		}
		idx := ht.homeIdx(hash)
		for ht.cells[idx].hash > hash {
			idx++
		}
		end := idx
		for ht.cells[end].hash != 0 {
			end++
		}
		copy(ht.cells[idx+1:end+1], ht.cells[idx:end])
		ht.cells[idx] = oldCells[i]
		if end == lastIdx {
			return false
		}
	}
	return true
}

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
	"github.com/apribadi/wordmap/pkg/common/wmerr"
)

// Iterator walks a map's entries in storage order, the zero-key entry
// first. Next reports the end of iteration with an error. The map must not
// be mutated while an iterator is in use.
type Iterator[V any] struct {
	table       *Map[V]
	pos         uint64
	zeroVisited bool
}

func (ht *Map[V]) NewIterator() *Iterator[V] {
	return &Iterator[V]{table: ht}
}

func (it *Iterator[V]) Next() (key uint64, value V, err error) {
	if !it.zeroVisited {
		it.zeroVisited = true
		if it.table.zeroInUse {
			value = it.table.zeroValue
			return
		}
	}

	cells := it.table.cells
	for it.pos < uint64(len(cells)) {
		c := &cells[it.pos]
		it.pos++
		if c.hash != 0 {
			// the hash is an involution of the key under the table seeds
			key = intHash(it.table.seeds, c.hash)
			value = c.value
			return
		}
	}

	err = wmerr.NewInternalError("out of range")
	return
}

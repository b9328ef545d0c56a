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
	"github.com/apribadi/wordmap/pkg/common/prng"
)

// Set is a set of uint64 keys backed by a Map with empty values. It shares
// the map's seeding, probing, and growth behavior, including the
// single-owner concurrency contract.
type Set struct {
	m *Map[struct{}]
}

// SetIterator yields the set's keys in storage order.
type SetIterator struct {
	it *Iterator[struct{}]
}

func NewSet() (*Set, error) {
	m, err := New[struct{}]()
	if err != nil {
		return nil, err
	}
	return &Set{m: m}, nil
}

func NewSeededSet(src *prng.Source) *Set {
	return &Set{m: NewSeeded[struct{}](src)}
}

// Insert adds key to the set. It returns true if the key was not already
// present.
func (s *Set) Insert(key uint64) (inserted bool) {
	_, existed := s.m.Insert(key, struct{}{})
	return !existed
}

// Contains reports whether key is in the set.
func (s *Set) Contains(key uint64) bool {
	return s.m.Contains(key)
}

// Remove deletes key from the set. It returns true if the key was present.
func (s *Set) Remove(key uint64) (removed bool) {
	_, removed = s.m.Remove(key)
	return
}

func (s *Set) Len() int {
	return s.m.Len()
}

func (s *Set) IsEmpty() bool {
	return s.m.IsEmpty()
}

func (s *Set) Clear() {
	s.m.Clear()
}

func (s *Set) NewIterator() *SetIterator {
	return &SetIterator{it: s.m.NewIterator()}
}

func (it *SetIterator) Next() (key uint64, err error) {
	key, _, err = it.it.Next()
	return
}

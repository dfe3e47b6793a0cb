// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package set

import (
	"cmp"
	"slices"
)

// SortedSet is a set of unique values held in ascending order, backed by a
// sorted array.  Iteration order is therefore always deterministic, which
// matters for anything feeding generated code.
type SortedSet[T cmp.Ordered] struct {
	items []T
}

// NewSortedSet returns a set containing the given elements.
func NewSortedSet[T cmp.Ordered](elements ...T) *SortedSet[T] {
	p := &SortedSet[T]{}
	//
	for _, element := range elements {
		p.Insert(element)
	}
	//
	return p
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(p.items)
}

// Contains returns true if a given element is in the set.
func (p *SortedSet[T]) Contains(element T) bool {
	_, ok := slices.BinarySearch(p.items, element)
	return ok
}

// Insert an element into this set, returning true if the set changed (i.e.
// the element was not already present).
func (p *SortedSet[T]) Insert(element T) bool {
	i, ok := slices.BinarySearch(p.items, element)
	if ok {
		return false
	}
	//
	p.items = slices.Insert(p.items, i, element)
	//
	return true
}

// InsertAll inserts every element of another set into this set, returning
// true if this set changed.
func (p *SortedSet[T]) InsertAll(q *SortedSet[T]) bool {
	changed := false
	//
	for _, element := range q.items {
		changed = p.Insert(element) || changed
	}
	//
	return changed
}

// Elements returns the elements of this set in ascending order.  The
// returned slice is shared with the set and must not be modified.
func (p *SortedSet[T]) Elements() []T {
	return p.items
}

// Equals returns true if both sets contain exactly the same elements.
func (p *SortedSet[T]) Equals(q *SortedSet[T]) bool {
	return slices.Equal(p.items, q.items)
}

// UnionSortedSets unions together a number of things which can each be turned
// into a sorted set using a given mapping function.  At some level, this is a
// map/reduce function.
func UnionSortedSets[S any, T cmp.Ordered](elements []S, fn func(S) *SortedSet[T]) *SortedSet[T] {
	set := NewSortedSet[T]()
	//
	for _, element := range elements {
		set.InsertAll(fn(element))
	}
	//
	return set
}

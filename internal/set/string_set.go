// SPDX-License-Identifier: MIT
//
// Copyright (c) 2019 GitHub Inc.
//               2022 Unikraft GmbH.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package set provides an insertion-ordered string set, used throughout the
// resolver to guarantee that output ordering depends only on input order and
// never on Go's randomised map iteration.
package set

var exists = struct{}{}

// StringSet is an insertion-ordered set of strings. The zero value is not
// usable; construct with NewStringSet.
type StringSet struct {
	v []string
	m map[string]struct{}
}

// NewStringSet returns a new StringSet instance initialized with the given
// values, if any are provided.
func NewStringSet(values ...string) *StringSet {
	s := &StringSet{
		m: make(map[string]struct{}, len(values)),
		v: make([]string, 0, len(values)),
	}

	s.Add(values...)

	return s
}

// Add inserts values into the set, preserving first-seen order, and reports
// whether at least one of the values was not already present.
func (s *StringSet) Add(values ...string) bool {
	novel := false
	for _, value := range values {
		if s.Contains(value) {
			continue
		}
		s.m[value] = exists
		s.v = append(s.v, value)
		novel = true
	}

	return novel
}

func (s *StringSet) Remove(values ...string) *StringSet {
	for _, value := range values {
		if !s.Contains(value) {
			continue
		}
		delete(s.m, value)
		s.v = sliceWithout(s.v, value)
	}

	return s
}

func sliceWithout(s []string, v string) []string {
	idx := -1
	for i, item := range s {
		if item == v {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	return append(s[:idx], s[idx+1:]...)
}

// Contains reports exact membership of value in the set.
func (s *StringSet) Contains(value string) bool {
	_, ok := s.m[value]
	return ok
}

// ContainsAnyOf reports whether the set exactly contains any of values.
func (s *StringSet) ContainsAnyOf(values ...string) bool {
	for _, value := range values {
		if s.Contains(value) {
			return true
		}
	}
	return false
}

func (s *StringSet) Len() int {
	return len(s.m)
}

// ToSlice returns the set's members in insertion order. The returned slice
// must not be mutated by the caller.
func (s *StringSet) ToSlice() []string {
	return s.v
}

// Union returns a new set containing every member of s and other.
func (s *StringSet) Union(other *StringSet) *StringSet {
	out := NewStringSet(s.ToSlice()...)
	out.Add(other.ToSlice()...)
	return out
}

// Intersect returns a new set containing only members present in both s and
// other, ordered per s.
func (s *StringSet) Intersect(other *StringSet) *StringSet {
	out := NewStringSet()
	for _, v := range s.v {
		if other.Contains(v) {
			out.Add(v)
		}
	}
	return out
}

func (s1 *StringSet) Equal(s2 *StringSet) bool {
	if s1.Len() != s2.Len() {
		return false
	}
	for _, v := range s1.v {
		if !s2.Contains(v) {
			return false
		}
	}
	return true
}

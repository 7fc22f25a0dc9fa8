// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package cohort

// Set is a set of player ids.
type Set map[string]struct{}

// NewSet builds a set from the given ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Inserting an existing id is a no-op.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the cardinality.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Union merges o into a new set.
func (s Set) Union(o Set) Set {
	out := s.Clone()
	for id := range o {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns the ids present in both sets.
func (s Set) Intersect(o Set) Set {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for id := range small {
		if large.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Difference returns the ids in s that are not in o.
func (s Set) Difference(o Set) Set {
	out := make(Set)
	for id := range s {
		if !o.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Counter counts, per player id, the number of distinct days the id was
// observed on.
type Counter map[string]int

// Count returns the day count for id (zero when absent).
func (c Counter) Count(id string) int {
	return c[id]
}

// merge adds one observation day's worth of ids into the counter.
func (c Counter) merge(day Set) {
	for id := range day {
		c[id]++
	}
}

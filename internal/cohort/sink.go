// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package cohort

import (
	"github.com/playforge/retention/internal/calendar"
)

// Sink receives player-id observations from ingestion. The three variants
// below keep increasing amounts of structure; ingestion code treats them
// uniformly instead of type-switching on the target.
type Sink interface {
	Accept(day calendar.Day, platform, channel, playerID string)
}

// SetSink flattens every observation into a single id set, discarding day
// and segment.
type SetSink struct {
	IDs Set
}

// NewSetSink returns an empty flat sink.
func NewSetSink() *SetSink {
	return &SetSink{IDs: make(Set)}
}

// Accept implements Sink.
func (s *SetSink) Accept(_ calendar.Day, _, _, playerID string) {
	if playerID == "" {
		return
	}
	s.IDs.Add(playerID)
}

// DayMapSink groups observations by day, discarding segment. It serves the
// computations that need per-day sets, a flattened union, and a distinct-day
// frequency counter from the same ingestion pass.
type DayMapSink struct {
	byDay map[calendar.Day]Set
}

// NewDayMapSink returns an empty per-day sink.
func NewDayMapSink() *DayMapSink {
	return &DayMapSink{byDay: make(map[calendar.Day]Set)}
}

// Accept implements Sink.
func (s *DayMapSink) Accept(day calendar.Day, _, _ string, playerID string) {
	if playerID == "" {
		return
	}
	ids, ok := s.byDay[day]
	if !ok {
		ids = make(Set)
		s.byDay[day] = ids
	}
	ids.Add(playerID)
}

// Day returns a copy of one day's id set.
func (s *DayMapSink) Day(day calendar.Day) (Set, bool) {
	ids, ok := s.byDay[day]
	if !ok {
		return nil, false
	}
	return ids.Clone(), true
}

// Union flattens all days into one set.
func (s *DayMapSink) Union() Set {
	out := make(Set)
	for _, ids := range s.byDay {
		for id := range ids {
			out.Add(id)
		}
	}
	return out
}

// Counter returns the distinct-day count per id across all days.
func (s *DayMapSink) Counter() Counter {
	out := make(Counter)
	for _, ids := range s.byDay {
		out.merge(ids)
	}
	return out
}

// Days returns the days present, unordered.
func (s *DayMapSink) Days() []calendar.Day {
	out := make([]calendar.Day, 0, len(s.byDay))
	for d := range s.byDay {
		out = append(out, d)
	}
	return out
}

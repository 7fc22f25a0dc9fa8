// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package cohort

import (
	"sort"
	"strings"

	"github.com/playforge/retention/internal/calendar"
)

// PlayerIDMap is the cohort index: platform → channel → day → player ids.
// Lookups are case-insensitive and channel-alias aware; display names are
// preserved as first seen (with aliases already resolved).
//
// A PlayerIDMap is built fresh per job invocation and is not safe for
// concurrent mutation.
type PlayerIDMap struct {
	platforms map[string]map[string]map[calendar.Day]Set

	// normalized key → name to report in output documents
	platformNames map[string]string
	channelNames  map[string]string

	size int
}

// NewPlayerIDMap returns an empty index.
func NewPlayerIDMap() *PlayerIDMap {
	return &PlayerIDMap{
		platforms:     make(map[string]map[string]map[calendar.Day]Set),
		platformNames: make(map[string]string),
		channelNames:  make(map[string]string),
	}
}

// Put inserts a player id observation. Re-inserting the same
// (day, platform, channel, id) tuple is a no-op; empty leaf sets are never
// created.
func (m *PlayerIDMap) Put(day calendar.Day, platform, channel, playerID string) {
	if playerID == "" {
		return
	}
	pKey := NormalizePlatform(platform)
	cKey := NormalizeChannel(channel)

	channels, ok := m.platforms[pKey]
	if !ok {
		channels = make(map[string]map[calendar.Day]Set)
		m.platforms[pKey] = channels
		m.platformNames[pKey] = displayName(platform, pKey)
	}
	days, ok := channels[cKey]
	if !ok {
		days = make(map[calendar.Day]Set)
		channels[cKey] = days
		m.channelNames[cKey] = displayName(channel, cKey)
	}
	ids, ok := days[day]
	if !ok {
		ids = make(Set)
		days[day] = ids
	}
	if !ids.Has(playerID) {
		ids.Add(playerID)
		m.size++
	}
}

// displayName keeps the caller's spelling unless normalization resolved an
// alias or an absent value, in which case the canonical key wins.
func displayName(raw, normalized string) string {
	if raw == "" {
		return UnknownSegment
	}
	if strings.ToLower(raw) != normalized {
		return normalized
	}
	return raw
}

// Accept implements Sink.
func (m *PlayerIDMap) Accept(day calendar.Day, platform, channel, playerID string) {
	m.Put(day, platform, channel, playerID)
}

// Size returns the total number of player-id occurrences across all
// (platform, channel, day) entries. Each leaf set contributes its
// cardinality; the same id on two days counts twice.
func (m *PlayerIDMap) Size() int {
	return m.size
}

// GetDay returns a copy of the id set for one (platform, channel, day)
// triple. The second return reports whether the triple exists in the index.
func (m *PlayerIDMap) GetDay(platform, channel string, day calendar.Day) (Set, bool) {
	days, ok := m.segment(platform, channel)
	if !ok {
		return nil, false
	}
	ids, ok := days[day]
	if !ok {
		return nil, false
	}
	return ids.Clone(), true
}

// GetRange returns the union of the id sets over the listed days. The
// existence flag is false when the segment itself is absent; a present
// segment with no matching days yields an empty set and true.
func (m *PlayerIDMap) GetRange(platform, channel string, days []calendar.Day) (Set, bool) {
	daySets, ok := m.segment(platform, channel)
	if !ok {
		return nil, false
	}
	out := make(Set)
	for _, d := range days {
		for id := range daySets[d] {
			out.Add(id)
		}
	}
	return out, true
}

// GetRangeCounter returns, for each id seen in the listed days, the number of
// distinct listed days it appears on.
func (m *PlayerIDMap) GetRangeCounter(platform, channel string, days []calendar.Day) (Counter, bool) {
	daySets, ok := m.segment(platform, channel)
	if !ok {
		return nil, false
	}
	out := make(Counter)
	for _, d := range days {
		out.merge(daySets[d])
	}
	return out, true
}

// TotalBySegment returns, per platform and channel display name, the union of
// all days' id sets.
func (m *PlayerIDMap) TotalBySegment() map[string]map[string]Set {
	out := make(map[string]map[string]Set, len(m.platforms))
	for pKey, channels := range m.platforms {
		byChannel := make(map[string]Set, len(channels))
		for cKey, days := range channels {
			union := make(Set)
			for _, ids := range days {
				for id := range ids {
					union.Add(id)
				}
			}
			byChannel[m.channelNames[cKey]] = union
		}
		out[m.platformNames[pKey]] = byChannel
	}
	return out
}

// TotalBySegmentCounter returns, per platform and channel display name, the
// distinct-day frequency counter over all days.
func (m *PlayerIDMap) TotalBySegmentCounter() map[string]map[string]Counter {
	out := make(map[string]map[string]Counter, len(m.platforms))
	for pKey, channels := range m.platforms {
		byChannel := make(map[string]Counter, len(channels))
		for cKey, days := range channels {
			counter := make(Counter)
			for _, ids := range days {
				counter.merge(ids)
			}
			byChannel[m.channelNames[cKey]] = counter
		}
		out[m.platformNames[pKey]] = byChannel
	}
	return out
}

// Segment identifies a (platform, channel) grouping by display name.
type Segment struct {
	Platform string
	Channel  string
}

// Segments lists the index's (platform, channel) pairs sorted by platform
// then channel, keeping downstream output deterministic.
func (m *PlayerIDMap) Segments() []Segment {
	out := make([]Segment, 0, len(m.platforms))
	for pKey, channels := range m.platforms {
		for cKey := range channels {
			out = append(out, Segment{
				Platform: m.platformNames[pKey],
				Channel:  m.channelNames[cKey],
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

func (m *PlayerIDMap) segment(platform, channel string) (map[calendar.Day]Set, bool) {
	channels, ok := m.platforms[NormalizePlatform(platform)]
	if !ok {
		return nil, false
	}
	days, ok := channels[NormalizeChannel(channel)]
	return days, ok
}

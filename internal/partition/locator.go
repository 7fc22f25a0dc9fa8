// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package partition

import (
	"time"

	"github.com/playforge/retention/internal/calendar"
)

// Locator resolves the UTC-partitioned storage prefixes that can hold log
// lines for a local calendar day.
type Locator struct {
	tmpl          Template
	tzOffsetHours int
}

// NewLocator builds a Locator over tmpl for logs recorded at the given local
// UTC offset (hours east of UTC; 0 means logs and partitions share a clock).
func NewLocator(tmpl Template, tzOffsetHours int) Locator {
	return Locator{tmpl: tmpl, tzOffsetHours: tzOffsetHours}
}

// PartitionDays returns the UTC days whose partitions can contain lines from
// the given local day, in ascending order.
//
// With a positive offset (local ahead of UTC) the local day starts inside the
// previous UTC day; with a negative offset it ends inside the next one. A
// zero offset needs only the nominal partition.
func (l Locator) PartitionDays(day calendar.Day) []calendar.Day {
	switch {
	case l.tzOffsetHours > 0:
		return []calendar.Day{day.AddDays(-1), day}
	case l.tzOffsetHours < 0:
		return []calendar.Day{day, day.AddDays(1)}
	default:
		return []calendar.Day{day}
	}
}

// Prefixes expands the template for every partition day of the given local
// day, in ascending day order.
func (l Locator) Prefixes(day calendar.Day) []string {
	days := l.PartitionDays(day)
	prefixes := make([]string, len(days))
	for i, d := range days {
		prefixes[i] = l.tmpl.Expand(d)
	}
	return prefixes
}

// DayBounds returns the UTC instants [start, end) delimiting the local
// calendar day. Ingestion keeps only lines whose timestamp falls inside.
func (l Locator) DayBounds(day calendar.Day) (startUnix, endUnix int64) {
	start := day.Time().Add(-time.Duration(l.tzOffsetHours) * time.Hour)
	return start.Unix(), start.AddDate(0, 0, 1).Unix()
}

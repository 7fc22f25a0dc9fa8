// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package calendar

import (
	"fmt"
	"time"
)

// Format is the wire format for calendar days, matching the job's CLI
// argument and the date component of every published document id.
const Format = "2006-01-02"

// Day is a calendar date without a time-of-day component. The zero value is
// not a valid day; construct one with ParseDay, FromTime, or arithmetic on
// an existing Day.
type Day struct {
	t time.Time // always midnight UTC
}

// ParseDay parses a YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// MustParseDay is ParseDay for compile-time-constant inputs; it panics on
// malformed input and exists for tests and defaults.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates t to its calendar date. The time's own location is used
// to decide which date it falls on.
func FromTime(t time.Time) Day {
	return Day{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Yesterday returns the day before now's calendar date. It is the default
// reference date for every job.
func Yesterday(now time.Time) Day {
	return FromTime(now).AddDays(-1)
}

// String returns the day in YYYY-MM-DD form.
func (d Day) String() string {
	return d.t.Format(Format)
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return d.t
}

// AddDays returns the day shifted by delta calendar days. Negative deltas
// move backwards.
func (d Day) AddDays(delta int) Day {
	return Day{t: d.t.AddDate(0, 0, delta)}
}

// Sub returns the signed number of calendar days from o to d.
func (d Day) Sub(o Day) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool {
	return d.t.Before(o.t)
}

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o are the same calendar day.
func (d Day) Equal(o Day) bool {
	return d.t.Equal(o.t)
}

// IsZero reports whether d is the zero value.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// IsFirstDayOfWeek reports whether the day is a Monday. Upstream schedulers
// use this to decide whether the weekly computations run.
func (d Day) IsFirstDayOfWeek() bool {
	return d.t.Weekday() == time.Monday
}

// IsFirstDayOfMonth reports whether the day is the 1st of its month.
func (d Day) IsFirstDayOfMonth() bool {
	return d.t.Day() == 1
}

// EpochMillis returns midnight UTC of the day as Unix milliseconds, the
// @timestamp representation used by published documents.
func (d Day) EpochMillis() int64 {
	return d.t.UnixMilli()
}

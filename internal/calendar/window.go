// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a window's end precedes its start.
var ErrInvalidRange = errors.New("calendar: window end before start")

// Window is an ordered, inclusive, contiguous range of calendar days.
// Windows are immutable once constructed.
type Window struct {
	start Day
	end   Day
}

// NewWindow builds the inclusive window [start, end]. It fails with
// ErrInvalidRange when end < start.
func NewWindow(start, end Day) (Window, error) {
	if end.Before(start) {
		return Window{}, fmt.Errorf("%w: start %s, end %s", ErrInvalidRange, start, end)
	}
	return Window{start: start, end: end}, nil
}

// Start returns the first day of the window.
func (w Window) Start() Day { return w.start }

// End returns the last day of the window.
func (w Window) End() Day { return w.end }

// Len returns the number of days in the window: (end - start) + 1.
func (w Window) Len() int {
	return w.end.Sub(w.start) + 1
}

// Days returns the window's days in ascending order. The slice is freshly
// allocated on every call.
func (w Window) Days() []Day {
	days := make([]Day, 0, w.Len())
	for d := w.start; !d.After(w.end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Day) bool {
	return !d.Before(w.start) && !d.After(w.end)
}

// DayList returns the inclusive ascending day sequence [start, end], failing
// with ErrInvalidRange when end < start.
func DayList(start, end Day) ([]Day, error) {
	w, err := NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return w.Days(), nil
}

// PreviousISOWeek returns the Monday..Sunday week strictly preceding the week
// containing ref. The returned window always has exactly 7 days and ends on
// the Sunday before ref's own Monday.
func PreviousISOWeek(ref Day) Window {
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	sinceMonday := (int(ref.Weekday()) + 6) % 7
	monday := ref.AddDays(-sinceMonday - 7)
	return Window{start: monday, end: monday.AddDays(6)}
}

// PreviousMonth returns the full calendar month preceding the month
// containing ref.
func PreviousMonth(ref Day) Window {
	t := ref.Time()
	firstOfThis := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfPrev := firstOfThis.AddDate(0, -1, 0)
	return Window{
		start: FromTime(firstOfPrev),
		end:   FromTime(firstOfThis).AddDays(-1),
	}
}

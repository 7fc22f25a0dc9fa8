// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package calendar

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-01", "2024-01-01", false},
		{"2024-02-29", "2024-02-29", false}, // leap day
		{"2023-02-29", "", true},
		{"2024-13-01", "", true},
		{"01/02/2024", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDay(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDay(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseDay(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDay_AddDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day   string
		delta int
		want  string
	}{
		{"2024-01-01", 0, "2024-01-01"},
		{"2024-01-01", 7, "2024-01-08"},
		{"2024-01-01", -1, "2023-12-31"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
	}

	for _, tt := range tests {
		got := MustParseDay(tt.day).AddDays(tt.delta)
		if got.String() != tt.want {
			t.Errorf("%s.AddDays(%d) = %s, want %s", tt.day, tt.delta, got, tt.want)
		}
	}
}

func TestDay_Sub(t *testing.T) {
	t.Parallel()

	a := MustParseDay("2024-03-10")
	b := MustParseDay("2024-03-01")
	if got := a.Sub(b); got != 9 {
		t.Errorf("Sub = %d, want 9", got)
	}
	if got := b.Sub(a); got != -9 {
		t.Errorf("Sub = %d, want -9", got)
	}
	if got := a.Sub(a); got != 0 {
		t.Errorf("Sub = %d, want 0", got)
	}
}

func TestYesterday(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 13, 45, 0, 0, time.UTC)
	if got := Yesterday(now); got.String() != "2024-02-29" {
		t.Errorf("Yesterday = %s, want 2024-02-29", got)
	}
}

func TestDay_FirstOfWeekAndMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day           string
		firstOfWeek   bool
		firstOfMonth  bool
	}{
		{"2024-01-01", true, true},  // Monday, Jan 1st
		{"2024-01-02", false, false},
		{"2024-04-01", true, true},
		{"2024-03-04", true, false}, // a plain Monday
		{"2024-02-01", false, true}, // a Thursday 1st
	}

	for _, tt := range tests {
		d := MustParseDay(tt.day)
		if got := d.IsFirstDayOfWeek(); got != tt.firstOfWeek {
			t.Errorf("%s IsFirstDayOfWeek = %v, want %v", tt.day, got, tt.firstOfWeek)
		}
		if got := d.IsFirstDayOfMonth(); got != tt.firstOfMonth {
			t.Errorf("%s IsFirstDayOfMonth = %v, want %v", tt.day, got, tt.firstOfMonth)
		}
	}
}

func TestDay_EpochMillis(t *testing.T) {
	t.Parallel()

	d := MustParseDay("2024-01-01")
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got := d.EpochMillis(); got != want {
		t.Errorf("EpochMillis = %d, want %d", got, want)
	}
}

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package cohort

import (
	"testing"

	"github.com/playforge/retention/internal/calendar"
)

var (
	day1 = calendar.MustParseDay("2024-03-01")
	day2 = calendar.MustParseDay("2024-03-02")
	day3 = calendar.MustParseDay("2024-03-03")
)

func TestPlayerIDMap_PutIdempotent(t *testing.T) {
	t.Parallel()

	m := NewPlayerIDMap()
	m.Put(day1, "ios", "appstore", "a")
	m.Put(day1, "ios", "appstore", "a")
	m.Put(day1, "ios", "appstore", "a")

	if got := m.Size(); got != 1 {
		t.Errorf("Size = %d, want 1 after duplicate puts", got)
	}
	ids, ok := m.GetDay("ios", "appstore", day1)
	if !ok {
		t.Fatal("GetDay: segment missing")
	}
	if ids.Len() != 1 || !ids.Has("a") {
		t.Errorf("GetDay = %v, want {a}", ids)
	}
}

func TestPlayerIDMap_SizeCountsOccurrences(t *testing.T) {
	t.Parallel()

	m := NewPlayerIDMap()
	// same id on two days counts twice
	m.Put(day1, "ios", "appstore", "a")
	m.Put(day2, "ios", "appstore", "a")
	m.Put(day1, "android", "google_play", "b")

	if got := m.Size(); got != 3 {
		t.Errorf("Size = %d, want 3", got)
	}
}

func TestPlayerIDMap_CaseInsensitiveAndAliased(t *testing.T) {
	t.Parallel()

	// Scenario: inserted as ("iOS", "GOOGLE_PLAY"), looked up as
	// ("ios", "google_store").
	m := NewPlayerIDMap()
	m.Put(day1, "iOS", "GOOGLE_PLAY", "a")
	m.Put(day1, "IOS", "google_play", "b")

	ids, ok := m.GetDay("ios", "google_store", day1)
	if !ok {
		t.Fatal("GetDay: aliased lookup missed")
	}
	if ids.Len() != 2 {
		t.Errorf("GetDay len = %d, want 2", ids.Len())
	}

	// absent triple is distinguishable from present-but-empty
	if _, ok := m.GetDay("ios", "google_store", day2); ok {
		t.Error("GetDay: expected exists=false for missing day")
	}
	if _, ok := m.GetDay("pc", "steam", day1); ok {
		t.Error("GetDay: expected exists=false for missing segment")
	}
}

func TestPlayerIDMap_GetRange(t *testing.T) {
	t.Parallel()

	m := NewPlayerIDMap()
	m.Put(day1, "ios", "appstore", "a")
	m.Put(day2, "ios", "appstore", "b")
	m.Put(day3, "ios", "appstore", "a")

	ids, ok := m.GetRange("ios", "appstore", []calendar.Day{day1, day2})
	if !ok {
		t.Fatal("GetRange: segment missing")
	}
	if ids.Len() != 2 || !ids.Has("a") || !ids.Has("b") {
		t.Errorf("GetRange = %v, want {a b}", ids)
	}

	// present segment, no matching days: empty set but exists
	far := calendar.MustParseDay("2024-06-01")
	ids, ok = m.GetRange("ios", "appstore", []calendar.Day{far})
	if !ok {
		t.Fatal("GetRange: expected exists=true for present segment")
	}
	if ids.Len() != 0 {
		t.Errorf("GetRange = %v, want empty", ids)
	}

	if _, ok := m.GetRange("pc", "steam", []calendar.Day{day1}); ok {
		t.Error("GetRange: expected exists=false for missing segment")
	}
}

func TestPlayerIDMap_GetRangeCounter(t *testing.T) {
	t.Parallel()

	m := NewPlayerIDMap()
	m.Put(day1, "ios", "appstore", "a")
	m.Put(day2, "ios", "appstore", "a")
	m.Put(day3, "ios", "appstore", "a")
	m.Put(day2, "ios", "appstore", "b")

	counter, ok := m.GetRangeCounter("ios", "appstore", []calendar.Day{day1, day2, day3})
	if !ok {
		t.Fatal("GetRangeCounter: segment missing")
	}
	if got := counter.Count("a"); got != 3 {
		t.Errorf("Count(a) = %d, want 3", got)
	}
	if got := counter.Count("b"); got != 1 {
		t.Errorf("Count(b) = %d, want 1", got)
	}
	if got := counter.Count("missing"); got != 0 {
		t.Errorf("Count(missing) = %d, want 0", got)
	}
}

func TestPlayerIDMap_TotalBySegment(t *testing.T) {
	t.Parallel()

	m := NewPlayerIDMap()
	m.Put(day1, "iOS", "AppStore", "a")
	m.Put(day2, "iOS", "AppStore", "b")
	m.Put(day1, "Android", "GOOGLE_PLAY", "c")

	total := m.TotalBySegment()
	if got := total["iOS"]["AppStore"].Len(); got != 2 {
		t.Errorf("iOS/AppStore union len = %d, want 2", got)
	}
	// aliased channel reports under its canonical name
	if got := total["Android"]["google_store"].Len(); got != 1 {
		t.Errorf("Android/google_store union len = %d, want 1", got)
	}

	counters := m.TotalBySegmentCounter()
	if got := counters["iOS"]["AppStore"].Count("a"); got != 1 {
		t.Errorf("counter a = %d, want 1", got)
	}
}

func TestPlayerIDMap_ReadsDoNotMutate(t *testing.T) {
	t.Parallel()

	m := NewPlayerIDMap()
	m.Put(day1, "ios", "appstore", "a")

	ids, _ := m.GetDay("ios", "appstore", day1)
	ids.Add("intruder")

	again, _ := m.GetDay("ios", "appstore", day1)
	if again.Has("intruder") || m.Size() != 1 {
		t.Error("GetDay leaked internal set")
	}
}

func TestNormalizeChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"GOOGLE_PLAY", "google_store"},
		{"google_play", "google_store"},
		{"AppStore", "appstore"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := NormalizeChannel(tt.in); got != tt.want {
			t.Errorf("NormalizeChannel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

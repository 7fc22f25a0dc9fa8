// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package partition

import (
	"errors"
	"testing"

	"github.com/playforge/retention/internal/calendar"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"padded", "logs/create/<yyyy>/<MM>/<dd>/", false},
		{"unpadded", "logs/create/<yyyy>/<M>/<d>/", false},
		{"mixed", "logs/<yyyy>-<MM>-<d>/", false},
		{"missing year", "logs/<MM>/<dd>/", true},
		{"missing month", "logs/<yyyy>/<dd>/", true},
		{"missing day", "logs/<yyyy>/<MM>/", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTemplate(tt.raw)
			if tt.wantErr && !errors.Is(err, ErrInvalidTemplate) {
				t.Errorf("ParseTemplate(%q): want ErrInvalidTemplate, got %v", tt.raw, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ParseTemplate(%q): unexpected error: %v", tt.raw, err)
			}
		})
	}
}

func TestTemplate_Expand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		day  string
		want string
	}{
		{"logs/<yyyy>/<MM>/<dd>/", "2024-03-05", "logs/2024/03/05/"},
		{"logs/<yyyy>/<M>/<d>/", "2024-03-05", "logs/2024/3/5/"},
		{"logs/<yyyy>/<M>/<d>/", "2024-11-25", "logs/2024/11/25/"},
		{"<yyyy>-<MM>-<dd>", "2024-01-09", "2024-01-09"},
	}

	for _, tt := range tests {
		tmpl, err := ParseTemplate(tt.raw)
		if err != nil {
			t.Fatalf("ParseTemplate(%q): %v", tt.raw, err)
		}
		if got := tmpl.Expand(calendar.MustParseDay(tt.day)); got != tt.want {
			t.Errorf("Expand(%q, %s) = %q, want %q", tt.raw, tt.day, got, tt.want)
		}
	}
}

func TestLocator_Prefixes(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplate("logs/<yyyy>/<MM>/<dd>/")
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	day := calendar.MustParseDay("2024-03-01")

	tests := []struct {
		name   string
		offset int
		want   []string
	}{
		{"utc", 0, []string{"logs/2024/03/01/"}},
		{"east", 8, []string{"logs/2024/02/29/", "logs/2024/03/01/"}},
		{"west", -5, []string{"logs/2024/03/01/", "logs/2024/03/02/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewLocator(tmpl, tt.offset).Prefixes(day)
			if len(got) != len(tt.want) {
				t.Fatalf("Prefixes len = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Prefixes[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLocator_DayBounds(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplate("logs/<yyyy>/<MM>/<dd>/")
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	day := calendar.MustParseDay("2024-03-01")

	// UTC+8: local midnight is 2024-02-29T16:00:00Z.
	start, end := NewLocator(tmpl, 8).DayBounds(day)
	wantStart := day.Time().Unix() - 8*3600
	if start != wantStart {
		t.Errorf("start = %d, want %d", start, wantStart)
	}
	if end-start != 24*3600 {
		t.Errorf("bounds span = %d seconds, want 86400", end-start)
	}

	// UTC: bounds are the day itself.
	start, end = NewLocator(tmpl, 0).DayBounds(day)
	if start != day.Time().Unix() {
		t.Errorf("utc start = %d, want %d", start, day.Time().Unix())
	}
	if end != day.AddDays(1).Time().Unix() {
		t.Errorf("utc end = %d, want %d", end, day.AddDays(1).Time().Unix())
	}
}

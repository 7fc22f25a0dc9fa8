// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/cohort"
	"github.com/playforge/retention/internal/partition"
	"github.com/playforge/retention/internal/storage"
)

func testLocator(t *testing.T, offset int) partition.Locator {
	t.Helper()
	tmpl, err := partition.ParseTemplate("logs/create/<yyyy>/<MM>/<dd>/")
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	return partition.NewLocator(tmpl, offset)
}

func logLine(epoch int64, event, playerID, platform, channel string) string {
	return fmt.Sprintf(`%d %s {"player_id":"%s","platform":"%s","channel":"%s"}`,
		epoch, event, playerID, platform, channel)
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		event   string
		wantID  string
		wantErr bool
	}{
		{
			name:   "valid",
			line:   `1709251200 player.create {"player_id":"p1","platform":"ios","channel":"appstore"}`,
			event:  "player.create",
			wantID: "p1",
		},
		{
			name:    "other event",
			line:    `1709251200 player.login {"player_id":"p1"}`,
			event:   "player.create",
			wantErr: true,
		},
		{
			name:    "two fields",
			line:    `1709251200 player.create`,
			event:   "player.create",
			wantErr: true,
		},
		{
			name:    "bad json",
			line:    `1709251200 player.create {not-json}`,
			event:   "player.create",
			wantErr: true,
		},
		{
			name:    "bad timestamp",
			line:    `yesterday player.create {"player_id":"p1"}`,
			event:   "player.create",
			wantErr: true,
		},
		{
			name:    "missing player id",
			line:    `1709251200 player.create {"platform":"ios"}`,
			event:   "player.create",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			event:   "player.create",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev, err := parseLine(tt.line, tt.event)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseLine(%q): expected error, got %+v", tt.line, ev)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLine(%q): %v", tt.line, err)
			}
			if ev.PlayerID != tt.wantID {
				t.Errorf("PlayerID = %q, want %q", ev.PlayerID, tt.wantID)
			}
		})
	}
}

func TestParseLine_DefaultsUnknown(t *testing.T) {
	t.Parallel()

	ev, err := parseLine(`1709251200 player.create {"player_id":"p1"}`, "player.create")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if ev.Platform != cohort.UnknownSegment || ev.Channel != cohort.UnknownSegment {
		t.Errorf("defaults = %q/%q, want UNKNOWN/UNKNOWN", ev.Platform, ev.Channel)
	}
}

func TestIngestor_Ingest(t *testing.T) {
	t.Parallel()

	day := calendar.MustParseDay("2024-03-01")
	epoch := day.Time().Unix()

	store := storage.NewMemory()
	store.PutObject("logs/create/2024/03/01/part-0000",
		logLine(epoch, "player.create", "a", "ios", "appstore")+"\n"+
			logLine(epoch+60, "player.create", "b", "android", "GOOGLE_PLAY")+"\n"+
			logLine(epoch+120, "player.login", "c", "ios", "appstore")+"\n"+ // other event
			"garbage line\n"+
			logLine(epoch+86400, "player.create", "late", "ios", "appstore")) // next day

	ing := New(store, testLocator(t, 0), "player.create", zerolog.Nop())
	idx := cohort.NewPlayerIDMap()
	exists, err := ing.Ingest(context.Background(), []calendar.Day{day}, idx)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !exists {
		t.Fatal("Ingest: exists = false, want true")
	}
	if got := idx.Size(); got != 2 {
		t.Errorf("index size = %d, want 2 (other-event, garbage, out-of-day all skipped)", got)
	}
	if _, ok := idx.GetDay("ios", "appstore", day); !ok {
		t.Error("expected ios/appstore cohort")
	}
	if _, ok := idx.GetDay("android", "google_store", day); !ok {
		t.Error("expected aliased android/google_store cohort")
	}
}

func TestIngestor_MissingPrefix(t *testing.T) {
	t.Parallel()

	day := calendar.MustParseDay("2024-03-01")
	ing := New(storage.NewMemory(), testLocator(t, 0), "player.create", zerolog.Nop())

	sink := cohort.NewSetSink()
	exists, err := ing.Ingest(context.Background(), []calendar.Day{day}, sink)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if exists {
		t.Error("Ingest: exists = true for empty store, want false")
	}
	if sink.IDs.Len() != 0 {
		t.Errorf("sink len = %d, want 0", sink.IDs.Len())
	}
}

func TestIngestor_ExistsWhenDataEmptyAfterFiltering(t *testing.T) {
	t.Parallel()

	// Objects exist but hold only other events: data existed, cohort empty.
	day := calendar.MustParseDay("2024-03-01")
	epoch := day.Time().Unix()
	store := storage.NewMemory()
	store.PutObject("logs/create/2024/03/01/part-0000",
		logLine(epoch, "player.login", "a", "ios", "appstore"))

	ing := New(store, testLocator(t, 0), "player.create", zerolog.Nop())
	sink := cohort.NewSetSink()
	exists, err := ing.Ingest(context.Background(), []calendar.Day{day}, sink)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !exists {
		t.Error("Ingest: exists = false, want true (objects matched the prefix)")
	}
	if sink.IDs.Len() != 0 {
		t.Errorf("sink len = %d, want 0", sink.IDs.Len())
	}
}

func TestIngestor_TimezoneSpill(t *testing.T) {
	t.Parallel()

	// UTC+8: local 2024-03-01 runs 2024-02-29T16:00Z .. 2024-03-01T16:00Z,
	// so lines live in both the 02/29 and 03/01 partitions.
	day := calendar.MustParseDay("2024-03-01")
	localStart := day.Time().Unix() - 8*3600

	store := storage.NewMemory()
	store.PutObject("logs/create/2024/02/29/part-0000",
		logLine(localStart-1, "player.create", "before", "ios", "appstore")+"\n"+
			logLine(localStart, "player.create", "first", "ios", "appstore"))
	store.PutObject("logs/create/2024/03/01/part-0000",
		logLine(localStart+86399, "player.create", "last", "ios", "appstore")+"\n"+
			logLine(localStart+86400, "player.create", "after", "ios", "appstore"))

	ing := New(store, testLocator(t, 8), "player.create", zerolog.Nop())
	sink := cohort.NewSetSink()
	exists, err := ing.Ingest(context.Background(), []calendar.Day{day}, sink)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !exists {
		t.Fatal("exists = false, want true")
	}
	if sink.IDs.Len() != 2 || !sink.IDs.Has("first") || !sink.IDs.Has("last") {
		t.Errorf("ids = %v, want {first last}", sink.IDs)
	}
}

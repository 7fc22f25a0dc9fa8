// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package publish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/engine"
)

func testMetric() engine.Metric {
	return engine.Metric{
		Kind:        engine.KindRetentionDay,
		SubType:     "day7",
		Date:        calendar.MustParseDay("2024-01-08"),
		Platform:    "ios",
		Channel:     "appstore",
		Count:       2,
		Denominator: 4,
		Rate:        0.5,
		HasRate:     true,
	}
}

func TestDocID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*engine.Metric)
		want   string
	}{
		{
			name:   "with subtype",
			modify: func(*engine.Metric) {},
			want:   "2024-01-08_retention_day_day7_ios_appstore",
		},
		{
			name:   "without subtype",
			modify: func(m *engine.Metric) { m.SubType = "" },
			want:   "2024-01-08_retention_day_ios_appstore",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := testMetric()
			tt.modify(&m)
			if got := DocID(m); got != tt.want {
				t.Errorf("DocID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocID_Deterministic(t *testing.T) {
	t.Parallel()

	if DocID(testMetric()) != DocID(testMetric()) {
		t.Error("identical metrics produced different document IDs")
	}
}

func TestFromMetric(t *testing.T) {
	t.Parallel()

	doc := FromMetric(testMetric())
	body, ok := doc.Body.(metricBody)
	if !ok {
		t.Fatalf("body type = %T", doc.Body)
	}
	if body.Timestamp != calendar.MustParseDay("2024-01-08").EpochMillis() {
		t.Errorf("timestamp = %d", body.Timestamp)
	}
	if body.Type != engine.KindRetentionDay || body.SubType != "day7" {
		t.Errorf("type/sub_type = %q/%q", body.Type, body.SubType)
	}
	if body.Count != 2 || body.Total != 4 || body.Retention != 0.5 {
		t.Errorf("count/total/retention = %d/%d/%v", body.Count, body.Total, body.Retention)
	}
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	pub := NewPublisher(store, "game-analytics", zerolog.Nop())

	batch := []engine.Metric{testMetric()}
	if err := pub.Publish(context.Background(), batch); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := store.Count("game-analytics"); got != 1 {
		t.Fatalf("stored %d docs, want 1", got)
	}
	if _, ok := store.Get("game-analytics", DocID(batch[0])); !ok {
		t.Error("document not found under its deterministic ID")
	}

	// Re-publishing the same metric replaces, never duplicates.
	if err := pub.Publish(context.Background(), batch); err != nil {
		t.Fatalf("Publish again: %v", err)
	}
	if got := store.Count("game-analytics"); got != 1 {
		t.Errorf("after re-publish stored %d docs, want 1", got)
	}
}

func TestPublisher_PublishEmpty(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	pub := NewPublisher(store, "game-analytics", zerolog.Nop())
	if err := pub.Publish(context.Background(), nil); err != nil {
		t.Fatalf("Publish(nil): %v", err)
	}
	if got := store.Count("game-analytics"); got != 0 {
		t.Errorf("stored %d docs for empty batch", got)
	}
}

func TestPublisher_PublishError(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.BulkErr = errors.New("cluster unavailable")
	pub := NewPublisher(store, "game-analytics", zerolog.Nop())

	err := pub.Publish(context.Background(), []engine.Metric{testMetric()})
	if err == nil || !strings.Contains(err.Error(), "cluster unavailable") {
		t.Fatalf("err = %v, want bulk failure", err)
	}
}

func TestCheckBulkItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "no errors",
			body:    `{"errors":false,"items":[{"index":{"_id":"a","status":201}}]}`,
			wantErr: false,
		},
		{
			name:    "item failure surfaces id and reason",
			body:    `{"errors":true,"items":[{"index":{"_id":"a","status":201}},{"index":{"_id":"b","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad field"}}}]}`,
			wantErr: true,
		},
		{
			name:    "malformed response",
			body:    `not json`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkBulkItems(strings.NewReader(tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && tt.name == "item failure surfaces id and reason" {
				if !strings.Contains(err.Error(), "b") || !strings.Contains(err.Error(), "mapper_parsing_exception") {
					t.Errorf("error lacks item detail: %v", err)
				}
			}
		})
	}
}

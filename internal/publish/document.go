// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package publish

import (
	"strings"

	"github.com/playforge/retention/internal/engine"
)

// Document is one analytics document ready for indexing.
type Document struct {
	ID   string
	Body any
}

// metricBody is the indexed shape of a computed metric. Timestamp is epoch
// milliseconds of the metric date's midnight UTC, the field Kibana keys
// time-series panels on.
type metricBody struct {
	Timestamp int64   `json:"@timestamp"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	SubType   string  `json:"sub_type,omitempty"`
	Platform  string  `json:"platform"`
	Channel   string  `json:"channel"`
	Count     int     `json:"count"`
	Total     int     `json:"total"`
	Retention float64 `json:"retention,omitempty"`
}

// DocID builds the deterministic document ID for a metric. Two runs over
// the same day produce the same IDs, making publication idempotent.
func DocID(m engine.Metric) string {
	parts := []string{m.Date.String(), m.Kind}
	if m.SubType != "" {
		parts = append(parts, m.SubType)
	}
	parts = append(parts, m.Platform, m.Channel)
	return strings.Join(parts, "_")
}

// FromMetric converts a computed metric into its document form.
func FromMetric(m engine.Metric) Document {
	body := metricBody{
		Timestamp: m.Date.EpochMillis(),
		Date:      m.Date.String(),
		Type:      m.Kind,
		SubType:   m.SubType,
		Platform:  m.Platform,
		Channel:   m.Channel,
		Count:     m.Count,
		Total:     m.Denominator,
	}
	if m.HasRate {
		body.Retention = m.Rate
	}
	return Document{ID: DocID(m), Body: body}
}

// FromMetrics converts a batch of metrics into documents.
func FromMetrics(metrics []engine.Metric) []Document {
	docs := make([]Document, 0, len(metrics))
	for _, m := range metrics {
		docs = append(docs, FromMetric(m))
	}
	return docs
}

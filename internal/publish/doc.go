// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

// Package publish writes computed metrics to the analytics document store.
//
// Metrics are converted into documents with deterministic IDs derived from
// the metric's date, kind, sub-type, and segment, so re-running a job for
// the same day overwrites the previous documents instead of duplicating
// them. The Elasticsearch client is wrapped in a circuit breaker so a
// degraded cluster fails the run fast instead of hammering it.
package publish

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

/*
Package metrics instruments the batch pipeline with Prometheus collectors:
ingestion volume and skip counts, publish successes and failures, and
per-job run durations. Because the process exits when the job finishes, the
collectors are pushed to a Pushgateway at the end of the run instead of
being scraped.
*/
package metrics

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

/*
Package ingest turns raw log lines from object storage into player-id
observations on a cohort sink.

A log line is "<epoch_seconds> <event_name> <json_payload>". Malformed lines
and lines naming other events are skipped with a warning, never failing the
run. Lines are kept only when their timestamp falls inside the requested
local calendar day, which matters when a day's lines spill across two
UTC-partitioned objects.

Reads for the prefixes of one day run concurrently; sink insertion stays
single-threaded, so set union order never affects results.
*/
package ingest

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

/*
Package storage abstracts the append-only event-log store the pipeline reads
from. The pipeline only ever scans all objects under a day-partitioned key
prefix and consumes their lines; ObjectStore captures exactly that.

The S3 implementation is the production backend. Memory backs tests and
local runs.
*/
package storage

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

/*
Package engine computes retention, churn, returning-user, and effective-user
metrics from cohort indexes. Every function is a pure transformation of one
or more fully materialized indexes into Metric records; nothing here touches
storage or the analytics store.

All computations run per (platform, channel) segment found in the creation
index. A segment whose creation cohort is empty is skipped outright — it
never appears in output, not even as a zero. Ratios always divide by the
creation-cohort size and are rounded to two decimals. Counts are exact set
cardinalities.
*/
package engine

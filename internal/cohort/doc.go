// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

/*
Package cohort holds the in-memory multi-dimensional index at the heart of
the retention pipeline: a platform → channel → day → set-of-player-ids map
with derived union and frequency views, plus the Sink capability that lets
ingestion feed a flat set, a per-day map, or the full index through one
interface.

Platform and channel are compared case-insensitively; distribution-channel
aliases (for example GOOGLE_PLAY publishing as google_store) are applied
consistently at both insertion and lookup.

Indexes are built fresh per job invocation and never shared across
goroutines, so no locking happens here.
*/
package cohort

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

// Package job orchestrates the per-invocation analytics pipelines.
//
// Each job builds the day windows for its reference date, ingests the
// creation and login cohort indexes it needs, runs the engine computations,
// and publishes the resulting documents. Jobs are selected by name from the
// command line; one invocation runs one job for one reference date.
package job

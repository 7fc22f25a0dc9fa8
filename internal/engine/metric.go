// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package engine

import (
	"math"

	"github.com/playforge/retention/internal/calendar"
)

// Metric kinds, as they appear in published document types.
const (
	KindRetentionDay    = "retention_day"
	KindRetentionWeek   = "retention_week"
	KindChurnWeek       = "churn_week"
	KindReturningWeek   = "returning_week"
	KindRetentionMonth  = "retention_month"
	KindChurnMonth      = "churn_month"
	KindReturningMonth  = "returning_month"
	KindEffectiveCreate = "effective_create"
	KindEffectiveLogin  = "effective_login"
	KindChurnRate       = "churn_rate"
	KindRetentionTrack  = "retention_track"
)

// Metric is one computed data point for one (platform, channel) segment.
// Records are immutable once produced; the publisher is their only consumer.
type Metric struct {
	Kind     string
	SubType  string // offset or series label, e.g. "day7"; empty when unused
	Date     calendar.Day
	Platform string
	Channel  string

	// Count is the metric's numerator (an exact set cardinality).
	// Denominator is the creation-cohort size the count was measured
	// against. Rate is Count/Denominator rounded to two decimals when the
	// metric kind carries one.
	Count       int
	Denominator int
	Rate        float64
	HasRate     bool
}

// round2 rounds to two decimal places, the precision every published ratio
// uses.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

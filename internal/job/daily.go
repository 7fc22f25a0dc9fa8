// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package job

import (
	"context"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/engine"
)

// Daily computes the day retention counts for the reference day, plus the
// weekly metrics when the day is a Monday and the monthly metrics on the
// first of the month.
func (r *Runner) Daily(ctx context.Context, day calendar.Day) error {
	var batch []engine.Metric

	dayMetrics, err := r.dailyCounts(ctx, day)
	if err != nil {
		return err
	}
	batch = append(batch, dayMetrics...)

	if day.IsFirstDayOfWeek() {
		weekMetrics, err := r.periodCounts(ctx,
			calendar.PreviousISOWeek, day,
			engine.KindRetentionWeek, engine.KindChurnWeek, engine.KindReturningWeek)
		if err != nil {
			return err
		}
		batch = append(batch, weekMetrics...)
	}

	if day.IsFirstDayOfMonth() {
		monthMetrics, err := r.periodCounts(ctx,
			calendar.PreviousMonth, day,
			engine.KindRetentionMonth, engine.KindChurnMonth, engine.KindReturningMonth)
		if err != nil {
			return err
		}
		batch = append(batch, monthMetrics...)
	}

	return r.publisher.Publish(ctx, batch)
}

// dailyCounts computes day-1 retention: yesterday's cohort intersected with
// the reference day's logins. A missing creation partition omits the metric.
func (r *Runner) dailyCounts(ctx context.Context, day calendar.Day) ([]engine.Metric, error) {
	createDay := day.AddDays(-1)
	create, exists, err := buildIndex(ctx, r.create, []calendar.Day{createDay})
	if err != nil {
		return nil, err
	}
	if !exists {
		r.log.Warn().Str("day", createDay.String()).Msg("creation data absent, day retention skipped")
		return nil, nil
	}
	login, _, err := buildIndex(ctx, r.login, []calendar.Day{day})
	if err != nil {
		return nil, err
	}
	return engine.DayRetention(create, login, createDay, day, engine.KindRetentionDay, ""), nil
}

// periodCounts computes retention, churn, and returning counts over the
// previous period and its two predecessors. The previous function derives
// the window immediately before a reference day; calling it on each
// window's start walks back one period at a time.
func (r *Runner) periodCounts(ctx context.Context, previous func(calendar.Day) calendar.Window, day calendar.Day, retKind, churnKind, returnKind string) ([]engine.Metric, error) {
	last := previous(day)
	oneAgo := previous(last.Start())
	twoAgo := previous(oneAgo.Start())

	var batch []engine.Metric

	login, _, err := buildIndex(ctx, r.login, last.Days())
	if err != nil {
		return nil, err
	}

	create, exists, err := buildIndex(ctx, r.create, oneAgo.Days())
	if err != nil {
		return nil, err
	}
	if exists {
		batch = append(batch, engine.PeriodRetentionChurn(create, login,
			oneAgo.Days(), last.Days(), last.End(), retKind, churnKind)...)
	} else {
		r.log.Warn().
			Str("start", oneAgo.Start().String()).
			Str("end", oneAgo.End().String()).
			Msg("creation data absent, period retention skipped")
	}

	returnCreate, exists, err := buildIndex(ctx, r.create, twoAgo.Days())
	if err != nil {
		return nil, err
	}
	if exists {
		firstLogin, _, err := buildIndex(ctx, r.login, oneAgo.Days())
		if err != nil {
			return nil, err
		}
		batch = append(batch, engine.Returning(returnCreate, firstLogin, login,
			twoAgo.Days(), oneAgo.Days(), last.Days(), last.End(), returnKind)...)
	} else {
		r.log.Warn().
			Str("start", twoAgo.Start().String()).
			Str("end", twoAgo.End().String()).
			Msg("creation data absent, returning count skipped")
	}

	return batch, nil
}

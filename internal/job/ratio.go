// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package job

import (
	"context"
	"fmt"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/cohort"
	"github.com/playforge/retention/internal/engine"
)

// Ratio computes the per-offset day retention ratios for the configured
// offsets, the retention tracking series, and the sliding-lookback churn
// rates, all against the reference day's logins.
func (r *Runner) Ratio(ctx context.Context, day calendar.Day) error {
	login, exists, err := buildIndex(ctx, r.login, []calendar.Day{day})
	if err != nil {
		return err
	}
	if !exists {
		r.log.Warn().Str("day", day.String()).Msg("login data absent, ratio run skipped")
		return nil
	}

	var batch []engine.Metric

	for _, offset := range r.deps.Cfg.Analysis.RetentionDays {
		createDay := day.AddDays(-(offset - 1))
		create, exists, err := buildIndex(ctx, r.create, []calendar.Day{createDay})
		if err != nil {
			return err
		}
		if !exists {
			r.log.Warn().
				Str("day", createDay.String()).
				Int("offset", offset).
				Msg("creation data absent, offset skipped")
			continue
		}
		batch = append(batch, engine.DayRetention(create, login, createDay, day,
			engine.KindRetentionDay, fmt.Sprintf("day%d", offset))...)
	}

	track, err := r.retentionTrack(ctx, day, login)
	if err != nil {
		return err
	}
	batch = append(batch, track...)

	churn, err := r.churnRates(ctx, day)
	if err != nil {
		return err
	}
	batch = append(batch, churn...)

	return r.publisher.Publish(ctx, batch)
}

// retentionTrack recomputes day retention for every creation day of the
// tracking window against the reference day's logins.
func (r *Runner) retentionTrack(ctx context.Context, day calendar.Day, login *cohort.PlayerIDMap) ([]engine.Metric, error) {
	trackLen := r.deps.Cfg.Analysis.RetentionTrackDays
	trackDays, err := calendar.DayList(day.AddDays(-trackLen), day.AddDays(-1))
	if err != nil {
		return nil, err
	}
	create, exists, err := buildIndex(ctx, r.create, trackDays)
	if err != nil {
		return nil, err
	}
	if !exists {
		r.log.Warn().Str("day", day.String()).Msg("creation data absent for whole tracking window")
		return nil, nil
	}
	return engine.RetentionTrack(create, login, trackDays, day, engine.KindRetentionTrack), nil
}

// churnRates computes the churn rate of the anchor cohort for every
// configured lookback. The cohort's creation day is anchored one maximum
// lookback before the reference day, so the longest lookback's window still
// ends on the reference day.
func (r *Runner) churnRates(ctx context.Context, day calendar.Day) ([]engine.Metric, error) {
	lookbacks := r.deps.Cfg.Analysis.ChurnLookbackDays
	if len(lookbacks) == 0 {
		return nil, nil
	}
	maxLookback := lookbacks[0]
	for _, k := range lookbacks {
		if k > maxLookback {
			maxLookback = k
		}
	}

	createDay := day.AddDays(-maxLookback)
	create, exists, err := buildIndex(ctx, r.create, []calendar.Day{createDay})
	if err != nil {
		return nil, err
	}
	if !exists {
		r.log.Warn().Str("day", createDay.String()).Msg("creation data absent, churn rates skipped")
		return nil, nil
	}

	loginDays, err := calendar.DayList(createDay, day)
	if err != nil {
		return nil, err
	}
	login, _, err := buildIndex(ctx, r.login, loginDays)
	if err != nil {
		return nil, err
	}
	return engine.ChurnRateLookback(create, login, createDay, day, lookbacks, day, engine.KindChurnRate), nil
}

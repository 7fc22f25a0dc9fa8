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

// Effective counts the players of one creation cohort whose active-day
// totals over the following interval meet the effective thresholds. With an
// interval of 7 and reference day March 12, the cohort is the players
// created March 6 and the login window runs March 6 through March 12.
func (r *Runner) Effective(ctx context.Context, day calendar.Day) error {
	cfg := r.deps.Cfg.Analysis
	startDay := day.AddDays(-(cfg.EffectiveInterval - 1))

	create, exists, err := buildIndex(ctx, r.create, []calendar.Day{startDay})
	if err != nil {
		return err
	}
	if !exists {
		r.log.Warn().Str("day", startDay.String()).Msg("creation data absent, effective run skipped")
		return nil
	}

	loginDays, err := calendar.DayList(startDay, day)
	if err != nil {
		return err
	}
	login, exists, err := buildIndex(ctx, r.login, loginDays)
	if err != nil {
		return err
	}
	if !exists {
		r.log.Warn().
			Str("start", startDay.String()).
			Str("end", day.String()).
			Msg("login data absent for whole effective window")
	}

	batch := engine.Effective(create, login, startDay, loginDays, startDay,
		cfg.CreateEffectiveDays, cfg.LoginEffectiveDays)
	return r.publisher.Publish(ctx, batch)
}

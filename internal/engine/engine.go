// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package engine

import (
	"fmt"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/cohort"
)

// DayRetention computes, per segment, how many of the players created on
// createDay logged in on loginDay. Every metric carries the raw count pair
// and the rounded ratio; callers publish whichever form their job needs.
func DayRetention(create, login *cohort.PlayerIDMap, createDay, loginDay calendar.Day, kind, subType string) []Metric {
	var out []Metric
	for _, seg := range create.Segments() {
		createSet, ok := create.GetDay(seg.Platform, seg.Channel, createDay)
		if !ok || createSet.Len() == 0 {
			continue
		}
		loginSet, _ := login.GetDay(seg.Platform, seg.Channel, loginDay)
		retained := createSet.Intersect(loginSet).Len()
		out = append(out, Metric{
			Kind:        kind,
			SubType:     subType,
			Date:        loginDay,
			Platform:    seg.Platform,
			Channel:     seg.Channel,
			Count:       retained,
			Denominator: createSet.Len(),
			Rate:        round2(float64(retained) / float64(createSet.Len())),
			HasRate:     true,
		})
	}
	return out
}

// PeriodRetentionChurn computes window retention and its complementary churn
// per segment: players created during createDays, retained when they logged
// in at least once during loginDays. retention + churn always partitions the
// creation cohort exactly.
func PeriodRetentionChurn(create, login *cohort.PlayerIDMap, createDays, loginDays []calendar.Day, date calendar.Day, retKind, churnKind string) []Metric {
	var out []Metric
	for _, seg := range create.Segments() {
		createSet, ok := create.GetRange(seg.Platform, seg.Channel, createDays)
		if !ok || createSet.Len() == 0 {
			continue
		}
		loginSet, _ := login.GetRange(seg.Platform, seg.Channel, loginDays)
		retained := createSet.Intersect(loginSet).Len()
		out = append(out,
			Metric{
				Kind: retKind, Date: date,
				Platform: seg.Platform, Channel: seg.Channel,
				Count: retained, Denominator: createSet.Len(),
			},
			Metric{
				Kind: churnKind, Date: date,
				Platform: seg.Platform, Channel: seg.Channel,
				Count: createSet.Len() - retained, Denominator: createSet.Len(),
			},
		)
	}
	return out
}

// Returning counts lapsed-and-recovered players per segment: those created
// during createDays who missed the first login window entirely but appeared
// in the second.
func Returning(create, firstLogin, secondLogin *cohort.PlayerIDMap, createDays, firstDays, secondDays []calendar.Day, date calendar.Day, kind string) []Metric {
	var out []Metric
	for _, seg := range create.Segments() {
		createSet, ok := create.GetRange(seg.Platform, seg.Channel, createDays)
		if !ok || createSet.Len() == 0 {
			continue
		}
		firstSet, _ := firstLogin.GetRange(seg.Platform, seg.Channel, firstDays)
		secondSet, _ := secondLogin.GetRange(seg.Platform, seg.Channel, secondDays)
		churned := createSet.Difference(firstSet)
		returning := churned.Intersect(secondSet).Len()
		out = append(out, Metric{
			Kind: kind, Date: date,
			Platform: seg.Platform, Channel: seg.Channel,
			Count: returning, Denominator: createSet.Len(),
		})
	}
	return out
}

// Effective counts, per segment, the players created on createDay whose
// active-day total over loginDays meets the configured thresholds. The
// creation day itself counts toward the total, so a player's total is its
// distinct login days plus one; a player is effective when that total is
// greater than or equal to the threshold. Both thresholds are evaluated over
// the same cohort in one pass, producing one effective-create and one
// effective-login metric per segment.
func Effective(create, login *cohort.PlayerIDMap, createDay calendar.Day, loginDays []calendar.Day, date calendar.Day, createThreshold, loginThreshold int) []Metric {
	var out []Metric
	for _, seg := range create.Segments() {
		createSet, ok := create.GetDay(seg.Platform, seg.Channel, createDay)
		if !ok || createSet.Len() == 0 {
			continue
		}
		counter, _ := login.GetRangeCounter(seg.Platform, seg.Channel, loginDays)
		effectiveCreate, effectiveLogin := 0, 0
		for id := range createSet {
			total := counter.Count(id) + 1
			if total >= createThreshold {
				effectiveCreate++
			}
			if total >= loginThreshold {
				effectiveLogin++
			}
		}
		out = append(out,
			Metric{
				Kind: KindEffectiveCreate, Date: date,
				Platform: seg.Platform, Channel: seg.Channel,
				Count: effectiveCreate, Denominator: createSet.Len(),
			},
			Metric{
				Kind: KindEffectiveLogin, Date: date,
				Platform: seg.Platform, Channel: seg.Channel,
				Count: effectiveLogin, Denominator: createSet.Len(),
			},
		)
	}
	return out
}

// ChurnRateLookback computes, per segment and per configured lookback k, the
// fraction of createDay's cohort that never logged in from createDay+k
// through lastDay. Lookbacks whose window starts after lastDay are skipped.
func ChurnRateLookback(create, login *cohort.PlayerIDMap, createDay, lastDay calendar.Day, lookbacks []int, date calendar.Day, kind string) []Metric {
	var out []Metric
	for _, k := range lookbacks {
		start := createDay.AddDays(k)
		if start.After(lastDay) {
			continue
		}
		window, err := calendar.DayList(start, lastDay)
		if err != nil {
			continue
		}
		for _, seg := range create.Segments() {
			createSet, ok := create.GetDay(seg.Platform, seg.Channel, createDay)
			if !ok || createSet.Len() == 0 {
				continue
			}
			loginSet, _ := login.GetRange(seg.Platform, seg.Channel, window)
			churned := createSet.Difference(loginSet).Len()
			out = append(out, Metric{
				Kind:        kind,
				SubType:     fmt.Sprintf("day%d", k),
				Date:        date,
				Platform:    seg.Platform,
				Channel:     seg.Channel,
				Count:       churned,
				Denominator: createSet.Len(),
				Rate:        round2(float64(churned) / float64(createSet.Len())),
				HasRate:     true,
			})
		}
	}
	return out
}

// RetentionTrack recomputes day retention independently for every creation
// cohort day in trackDays against the single reference day's logins,
// producing the per-creation-day series used to visualize retention decay.
// Each point's SubType is its creation day.
func RetentionTrack(create, login *cohort.PlayerIDMap, trackDays []calendar.Day, refDay calendar.Day, kind string) []Metric {
	var out []Metric
	for _, day := range trackDays {
		out = append(out, DayRetention(create, login, day, refDay, kind, day.String())...)
	}
	return out
}

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package job

import (
	"context"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/cohort"
	"github.com/playforge/retention/internal/publish"
)

// payingID is the roster document ID for one paying player. The segment is
// normalized so the active-paying intersection matches regardless of how
// the client reported platform and channel casing.
func payingID(playerID, platform, channel string) string {
	return playerID + "_" + cohort.NormalizePlatform(platform) + "_" + cohort.NormalizeChannel(channel)
}

// payerBody is the indexed shape of one paying-player roster entry.
type payerBody struct {
	Timestamp int64  `json:"@timestamp"`
	PlayerID  string `json:"player_id"`
	Platform  string `json:"platform"`
	Channel   string `json:"channel"`
}

// payer holds one purchase event's identity fields.
type payer struct {
	playerID string
	platform string
	channel  string
}

// payerSink collects purchase events keyed by roster ID, deduplicating
// repeat purchasers within the day.
type payerSink struct {
	payers map[string]payer
}

func newPayerSink() *payerSink {
	return &payerSink{payers: make(map[string]payer)}
}

func (s *payerSink) Accept(_ calendar.Day, platform, channel, playerID string) {
	s.payers[payingID(playerID, platform, channel)] = payer{
		playerID: playerID,
		platform: cohort.NormalizePlatform(platform),
		channel:  cohort.NormalizeChannel(channel),
	}
}

// Paying collects the reference day's purchase events and upserts one
// roster document per paying player. Repeated runs and repeat purchasers
// collapse onto the same document IDs.
func (r *Runner) Paying(ctx context.Context, day calendar.Day) error {
	sink := newPayerSink()
	exists, err := r.iap.Ingest(ctx, []calendar.Day{day}, sink)
	if err != nil {
		return err
	}
	if !exists {
		r.log.Warn().Str("day", day.String()).Msg("purchase data absent, paying run skipped")
		return nil
	}
	r.log.Info().Int("payers", len(sink.payers)).Msg("paying players collected")
	if len(sink.payers) == 0 {
		return nil
	}

	docs := make([]publish.Document, 0, len(sink.payers))
	for id, p := range sink.payers {
		docs = append(docs, publish.Document{
			ID: id,
			Body: payerBody{
				Timestamp: day.EpochMillis(),
				PlayerID:  p.playerID,
				Platform:  p.platform,
				Channel:   p.channel,
			},
		})
	}
	return r.deps.Store.Bulk(ctx, r.deps.Cfg.Elastic.PayingIndex, docs)
}

// segmentBody is the indexed shape of one active-payer count.
type segmentBody struct {
	Timestamp int64  `json:"@timestamp"`
	Platform  string `json:"platform"`
	Channel   string `json:"channel"`
	Count     int    `json:"count"`
}

// loginRosterSink groups the day's login players per segment, each entry
// keyed the same way as the paying roster.
type loginRosterSink struct {
	segments map[cohort.Segment]cohort.Set
}

func newLoginRosterSink() *loginRosterSink {
	return &loginRosterSink{segments: make(map[cohort.Segment]cohort.Set)}
}

func (s *loginRosterSink) Accept(_ calendar.Day, platform, channel, playerID string) {
	seg := cohort.Segment{
		Platform: cohort.NormalizePlatform(platform),
		Channel:  cohort.NormalizeChannel(channel),
	}
	ids, ok := s.segments[seg]
	if !ok {
		ids = cohort.NewSet()
		s.segments[seg] = ids
	}
	ids.Add(payingID(playerID, platform, channel))
}

// ActivePaying intersects the stored paying roster with the reference
// day's login players and publishes one active-payer count per segment.
func (r *Runner) ActivePaying(ctx context.Context, day calendar.Day) error {
	cfg := r.deps.Cfg.Elastic

	hits, err := r.deps.Store.MatchAll(ctx, cfg.PayingIndex)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		r.log.Warn().Str("index", cfg.PayingIndex).Msg("paying roster empty, active-paying run skipped")
		return nil
	}
	roster := cohort.NewSet()
	for _, hit := range hits {
		roster.Add(hit.ID)
	}
	r.log.Info().Int("payers", roster.Len()).Msg("paying roster loaded")

	sink := newLoginRosterSink()
	exists, err := r.login.Ingest(ctx, []calendar.Day{day}, sink)
	if err != nil {
		return err
	}
	if !exists {
		r.log.Warn().Str("day", day.String()).Msg("login data absent, active-paying run skipped")
		return nil
	}

	docs := make([]publish.Document, 0, len(sink.segments))
	for seg, ids := range sink.segments {
		docs = append(docs, publish.Document{
			ID: seg.Platform + "_" + seg.Channel,
			Body: segmentBody{
				Timestamp: day.EpochMillis(),
				Platform:  seg.Platform,
				Channel:   seg.Channel,
				Count:     ids.Intersect(roster).Len(),
			},
		})
	}
	return r.deps.Store.Bulk(ctx, cfg.ActivePayingIndex, docs)
}

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/cohort"
	"github.com/playforge/retention/internal/metrics"
	"github.com/playforge/retention/internal/partition"
	"github.com/playforge/retention/internal/storage"
)

// Ingestor reads one event stream's logs into cohort sinks.
type Ingestor struct {
	store   storage.ObjectStore
	locator partition.Locator
	event   string
	log     zerolog.Logger
}

// New builds an Ingestor for the named event over the given locator.
func New(store storage.ObjectStore, locator partition.Locator, event string, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		store:   store,
		locator: locator,
		event:   event,
		log:     log.With().Str("component", "ingest").Str("event", event).Logger(),
	}
}

// Ingest scans every requested day's partitions and feeds matching events
// into sink. The returned flag is false only when no storage object matched
// any requested day, the hard signal of missing upstream data. A read
// failure for one prefix is logged and treated as data absent for that
// prefix, not as a run failure.
func (i *Ingestor) Ingest(ctx context.Context, days []calendar.Day, sink cohort.Sink) (bool, error) {
	exists := false
	for _, day := range days {
		found, err := i.ingestDay(ctx, day, sink)
		if err != nil {
			return exists, err
		}
		if found {
			exists = true
		}
	}
	return exists, nil
}

// ingestDay fans out over the day's partition prefixes concurrently, then
// applies the collected events to the sink serially. Set union is
// commutative, so fetch order does not matter; insertion stays
// single-threaded so sinks need no locking.
func (i *Ingestor) ingestDay(ctx context.Context, day calendar.Day, sink cohort.Sink) (bool, error) {
	prefixes := i.locator.Prefixes(day)
	startUnix, endUnix := i.locator.DayBounds(day)

	batches := make([][]Event, len(prefixes))
	founds := make([]bool, len(prefixes))

	g, gctx := errgroup.WithContext(ctx)
	for idx, prefix := range prefixes {
		g.Go(func() error {
			events, found, err := i.scanPrefix(gctx, prefix, startUnix, endUnix)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// Missing or unreadable upstream data is recovered by
				// omission; dependent metrics are skipped downstream.
				i.log.Error().Err(err).Str("prefix", prefix).Msg("prefix read failed, treating as absent")
				metrics.PrefixReadFailures.Inc()
				return nil
			}
			batches[idx] = events
			founds[idx] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	found := false
	accepted := 0
	for idx, events := range batches {
		if founds[idx] {
			found = true
		}
		for _, ev := range events {
			sink.Accept(day, ev.Platform, ev.Channel, ev.PlayerID)
			accepted++
		}
	}
	i.log.Debug().
		Str("day", day.String()).
		Int("prefixes", len(prefixes)).
		Int("events", accepted).
		Bool("found", found).
		Msg("ingested day")
	return found, nil
}

func (i *Ingestor) scanPrefix(ctx context.Context, prefix string, startUnix, endUnix int64) ([]Event, bool, error) {
	var events []Event
	found, err := i.store.ScanPrefix(ctx, prefix, func(line string) error {
		ev, perr := parseLine(line, i.event)
		if perr != nil {
			if skippedForOtherEvent(line, i.event) {
				return nil
			}
			metrics.LinesSkipped.Inc()
			i.log.Warn().Str("line", truncate(line, 200)).Msg("malformed log line skipped")
			return nil
		}
		if ev.OccurredAt < startUnix || ev.OccurredAt >= endUnix {
			return nil
		}
		metrics.LinesParsed.Inc()
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, found, err
	}
	return events, found, nil
}

// skippedForOtherEvent distinguishes well-formed lines for other events
// (expected, silent) from genuinely malformed lines (warned).
func skippedForOtherEvent(line, wantEvent string) bool {
	parts := strings.SplitN(line, " ", 3)
	return len(parts) == 3 && parts[1] != wantEvent
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/cohort"
	"github.com/playforge/retention/internal/config"
	"github.com/playforge/retention/internal/ingest"
	"github.com/playforge/retention/internal/metrics"
	"github.com/playforge/retention/internal/partition"
	"github.com/playforge/retention/internal/publish"
	"github.com/playforge/retention/internal/storage"
)

// Job names accepted by Run.
const (
	JobDaily        = "daily"
	JobRatio        = "ratio"
	JobEffective    = "effective"
	JobDevice       = "device"
	JobPaying       = "paying"
	JobActivePaying = "active-paying"
)

// Names lists the accepted job names in display order.
func Names() []string {
	return []string{JobDaily, JobRatio, JobEffective, JobDevice, JobPaying, JobActivePaying}
}

// Deps carries the collaborators a Runner needs. Constructed once in main
// and passed down; jobs hold no global state.
type Deps struct {
	Cfg     *config.Config
	Storage storage.ObjectStore
	Store   publish.Store
	Log     zerolog.Logger
	Now     func() time.Time
}

// Runner executes one named job per invocation.
type Runner struct {
	deps      Deps
	create    *ingest.Ingestor
	login     *ingest.Ingestor
	iap       *ingest.Ingestor
	publisher *publish.Publisher
	log       zerolog.Logger
}

// NewRunner validates the key-prefix templates and wires the per-event
// ingestors.
func NewRunner(deps Deps) (*Runner, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	cfg := deps.Cfg

	locators := make(map[string]partition.Locator, 3)
	for name, raw := range map[string]string{
		"create": cfg.Storage.CreatePrefix,
		"login":  cfg.Storage.LoginPrefix,
		"iap":    cfg.Storage.IAPPrefix,
	} {
		tmpl, err := partition.ParseTemplate(raw)
		if err != nil {
			return nil, fmt.Errorf("%s prefix template: %w", name, err)
		}
		locators[name] = partition.NewLocator(tmpl, cfg.Storage.TZOffsetHours)
	}

	log := deps.Log.With().Str("component", "job").Logger()
	return &Runner{
		deps:      deps,
		create:    ingest.New(deps.Storage, locators["create"], cfg.Events.CreatePlayer, deps.Log),
		login:     ingest.New(deps.Storage, locators["login"], cfg.Events.PlayerLogin, deps.Log),
		iap:       ingest.New(deps.Storage, locators["iap"], cfg.Events.IAPPurchase, deps.Log),
		publisher: publish.NewPublisher(deps.Store, cfg.Elastic.Index, deps.Log),
		log:       log,
	}, nil
}

// Run dispatches to the named job, bootstraps the index template, and
// records run metrics.
func (r *Runner) Run(ctx context.Context, name string, day calendar.Day) error {
	started := r.deps.Now()
	r.log.Info().Str("job", name).Str("day", day.String()).Msg("run started")

	err := r.deps.Store.EnsureTemplate(ctx)
	if err == nil {
		switch name {
		case JobDaily:
			err = r.Daily(ctx, day)
		case JobRatio:
			err = r.Ratio(ctx, day)
		case JobEffective:
			err = r.Effective(ctx, day)
		case JobDevice:
			err = r.Device(ctx, day)
		case JobPaying:
			err = r.Paying(ctx, day)
		case JobActivePaying:
			err = r.ActivePaying(ctx, day)
		default:
			err = fmt.Errorf("unknown job %q", name)
		}
	}

	metrics.ObserveRun(name, started, err)
	if err != nil {
		r.log.Error().Err(err).Str("job", name).Msg("run failed")
		return err
	}
	r.log.Info().Str("job", name).Dur("elapsed", r.deps.Now().Sub(started)).Msg("run finished")
	return nil
}

// buildIndex ingests the days of one event stream into a fresh cohort
// index. The flag is false when no storage object matched any day.
func buildIndex(ctx context.Context, ing *ingest.Ingestor, days []calendar.Day) (*cohort.PlayerIDMap, bool, error) {
	idx := cohort.NewPlayerIDMap()
	exists, err := ing.Ingest(ctx, days, idx)
	if err != nil {
		return nil, false, err
	}
	return idx, exists, nil
}

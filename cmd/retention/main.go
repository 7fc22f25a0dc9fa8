// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

// Package main is the entry point for the retention batch runner.
//
// Each invocation executes exactly one job for one reference day and exits;
// scheduling is left to cron or the surrounding orchestrator.
//
// # Jobs
//
//	daily         day retention counts, plus week metrics on Mondays and
//	              month metrics on the first of the month
//	ratio         per-offset retention ratios, tracking series, churn rates
//	effective     effective-player counts over the rolling interval
//	device        per-device cohort distribution for every offset
//	paying        paying-player roster from the day's purchase events
//	active-paying daily active paying player counts per segment
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (S3_BUCKET, ES_URL, RETENTION_DAYS, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Example Usage
//
// Yesterday's daily counts:
//
//	export S3_BUCKET=game-event-logs
//	export ES_URL=http://elastic:9200
//	./retention -job daily
//
// Backfill one specific day:
//
//	./retention -job ratio -day 2026-08-14
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/config"
	"github.com/playforge/retention/internal/job"
	"github.com/playforge/retention/internal/logging"
	"github.com/playforge/retention/internal/metrics"
	"github.com/playforge/retention/internal/publish"
	"github.com/playforge/retention/internal/storage"
)

func main() {
	var (
		jobName = flag.String("job", job.JobDaily, "job to run: "+strings.Join(job.Names(), ", "))
		dayFlag string
	)
	flag.StringVar(&dayFlag, "day", "", "reference day as YYYY-MM-DD (default: yesterday)")
	flag.StringVar(&dayFlag, "d", "", "shorthand for -day")
	flag.Parse()

	if !validJob(*jobName) {
		fmt.Fprintf(os.Stderr, "unknown job %q, expected one of: %s\n",
			*jobName, strings.Join(job.Names(), ", "))
		os.Exit(2)
	}

	day, err := resolveDay(dayFlag, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use the default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var shipper *logging.Shipper
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	}
	if cfg.Elastic.ShipLogs {
		shipper = logging.NewShipper()
		logCfg.Output = zerolog.MultiLevelWriter(os.Stderr, shipper)
	}
	logging.Init(logCfg)

	logging.Info().
		Str("job", *jobName).
		Str("day", day.String()).
		Str("bucket", cfg.Storage.Bucket).
		Str("index", cfg.Elastic.Index).
		Msg("Starting retention run")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	objects, err := storage.NewS3Store(ctx, cfg.Storage.Region, cfg.Storage.Bucket, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	store, err := publish.NewESStore(publish.ESStoreConfig{
		URL:         cfg.Elastic.URL,
		Username:    cfg.Elastic.Username,
		Password:    cfg.Elastic.Password,
		IndexPrefix: cfg.Elastic.Index,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize analytics store")
	}

	runner, err := job.NewRunner(job.Deps{
		Cfg:     cfg,
		Storage: objects,
		Store:   store,
		Log:     logging.Logger(),
		Now:     time.Now,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize job runner")
	}

	runErr := runner.Run(ctx, *jobName, day)
	if runErr != nil {
		logging.Error().Err(runErr).Str("job", *jobName).Msg("Run failed")
	}

	if shipper != nil && shipper.Len() > 0 {
		// Ship with a fresh context: the run context may already be canceled.
		flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := shipper.Flush(flushCtx, store, cfg.Elastic.LogIndex()); err != nil {
			logging.Error().Err(err).Msg("Failed to ship run logs")
		}
		cancel()
	}

	if cfg.Metrics.PushgatewayURL != "" {
		if err := metrics.Push(cfg.Metrics.PushgatewayURL, *jobName); err != nil {
			logging.Error().Err(err).Msg("Failed to push metrics")
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func validJob(name string) bool {
	for _, n := range job.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// resolveDay parses the -day flag, defaulting to yesterday. The pipeline
// only ever analyzes complete days, so today and future days are rejected.
func resolveDay(flagValue string, now time.Time) (calendar.Day, error) {
	if flagValue == "" {
		return calendar.Yesterday(now), nil
	}
	day, err := calendar.ParseDay(flagValue)
	if err != nil {
		return calendar.Day{}, fmt.Errorf("invalid -day %q: %w", flagValue, err)
	}
	if day.After(calendar.Yesterday(now)) {
		return calendar.Day{}, fmt.Errorf("-day %s is not a complete day yet", flagValue)
	}
	return day, nil
}

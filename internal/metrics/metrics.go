// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// Ingestion metrics
	LinesParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_lines_parsed_total",
			Help: "Log lines accepted into a cohort sink",
		},
	)

	LinesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_lines_skipped_total",
			Help: "Malformed log lines skipped during ingestion",
		},
	)

	PrefixReadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_prefix_read_failures_total",
			Help: "Storage prefix reads that failed and were treated as absent data",
		},
	)

	// Publishing metrics
	DocsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retention_docs_published_total",
			Help: "Metric documents upserted into the analytics store",
		},
		[]string{"kind"},
	)

	PublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_publish_failures_total",
			Help: "Document store writes that failed",
		},
	)

	// Run metrics
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retention_run_duration_seconds",
			Help:    "Wall-clock duration of a job run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~68m
		},
		[]string{"job"},
	)

	RunLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retention_run_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job",
		},
		[]string{"job"},
	)
)

// ObserveRun records one finished run.
func ObserveRun(job string, started time.Time, err error) {
	RunDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
	if err == nil {
		RunLastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
}

// Push delivers the default registry to a Prometheus Pushgateway, the usual
// sink for batch jobs that exit before a scraper can reach them. Callers log
// failures but never fail the run over them.
func Push(gateway, job string) error {
	if gateway == "" {
		return nil
	}
	if err := push.New(gateway, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gateway, err)
	}
	return nil
}

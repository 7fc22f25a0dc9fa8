// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package publish

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/playforge/retention/internal/engine"
	"github.com/playforge/retention/internal/metrics"
)

// Store is the document store a Publisher writes to.
type Store interface {
	// EnsureTemplate installs the index template for metric and log
	// indices. Safe to call on every run.
	EnsureTemplate(ctx context.Context) error

	// Bulk indexes the documents into the named index, overwriting any
	// document that already has the same ID.
	Bulk(ctx context.Context, index string, docs []Document) error

	// MatchAll reads every document of the named index. Used to fetch
	// lookup data written by other pipelines (device inventories, the
	// paying-player roster).
	MatchAll(ctx context.Context, index string) ([]Hit, error)
}

// Hit is one document returned by MatchAll.
type Hit struct {
	ID     string
	Source map[string]any
}

// Publisher converts metrics to documents and bulk-writes them.
type Publisher struct {
	store Store
	index string
	log   zerolog.Logger
}

// NewPublisher builds a Publisher targeting the given metric index.
func NewPublisher(store Store, index string, log zerolog.Logger) *Publisher {
	return &Publisher{
		store: store,
		index: index,
		log:   log.With().Str("component", "publish").Logger(),
	}
}

// Publish writes the metrics to the store. A nil or empty batch is a no-op.
func (p *Publisher) Publish(ctx context.Context, batch []engine.Metric) error {
	if len(batch) == 0 {
		p.log.Debug().Msg("no metrics to publish")
		return nil
	}
	docs := FromMetrics(batch)
	if err := p.store.Bulk(ctx, p.index, docs); err != nil {
		metrics.PublishFailures.Inc()
		return err
	}
	for _, m := range batch {
		metrics.DocsPublished.WithLabelValues(m.Kind).Inc()
	}
	p.log.Info().Int("docs", len(docs)).Str("index", p.index).Msg("metrics published")
	return nil
}

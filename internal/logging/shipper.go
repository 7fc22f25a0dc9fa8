// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package logging

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/playforge/retention/internal/publish"
)

// Shipper buffers the run's JSON log lines and flushes them to the
// analytics cluster's log index at the end of the run, tagged with a batch
// ID so one run's logs can be filtered together. It implements io.Writer
// and is meant to sit behind a zerolog.MultiLevelWriter next to stderr.
type Shipper struct {
	mu    sync.Mutex
	lines [][]byte
	batch string
}

// NewShipper creates a Shipper with a fresh batch ID.
func NewShipper() *Shipper {
	return &Shipper{batch: uuid.NewString()}
}

// Batch returns the run's batch ID.
func (s *Shipper) Batch() string {
	return s.batch
}

// Write buffers one log line. It never fails, so a full buffer can never
// break logging itself.
func (s *Shipper) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
	return len(p), nil
}

// Len returns the number of buffered lines.
func (s *Shipper) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Flush ships the buffered lines to the given index in one bulk write and
// clears the buffer on success. Lines that are not valid JSON objects are
// wrapped as raw messages rather than dropped.
func (s *Shipper) Flush(ctx context.Context, store publish.Store, index string) error {
	s.mu.Lock()
	lines := s.lines
	s.mu.Unlock()
	if len(lines) == 0 {
		return nil
	}

	docs := make([]publish.Document, 0, len(lines))
	for i, line := range lines {
		var body map[string]any
		if err := json.Unmarshal(line, &body); err != nil {
			body = map[string]any{"message": string(line)}
		}
		body["batch"] = s.batch
		docs = append(docs, publish.Document{
			ID:   fmt.Sprintf("%s-%06d", s.batch, i),
			Body: body,
		})
	}

	if err := store.Bulk(ctx, index, docs); err != nil {
		return fmt.Errorf("ship run logs: %w", err)
	}

	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	return nil
}

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package publish

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and dry runs.
type MemoryStore struct {
	mu        sync.Mutex
	docs      map[string]map[string]Document
	templated bool

	// BulkErr, when set, is returned by every Bulk call.
	BulkErr error
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]Document)}
}

func (m *MemoryStore) EnsureTemplate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templated = true
	return nil
}

func (m *MemoryStore) Bulk(_ context.Context, index string, docs []Document) error {
	if m.BulkErr != nil {
		return m.BulkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.docs[index]
	if !ok {
		idx = make(map[string]Document)
		m.docs[index] = idx
	}
	for _, doc := range docs {
		idx[doc.ID] = doc
	}
	return nil
}

// MatchAll returns every document of the index in insertion-independent
// (sorted by ID) order.
func (m *MemoryStore) MatchAll(_ context.Context, index string) ([]Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.docs[index]
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	hits := make([]Hit, 0, len(ids))
	for _, id := range ids {
		source, _ := idx[id].Body.(map[string]any)
		hits = append(hits, Hit{ID: id, Source: source})
	}
	return hits, nil
}

// Get returns the stored document by index and ID.
func (m *MemoryStore) Get(index, id string) (Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[index][id]
	return doc, ok
}

// Count returns the number of documents in the index.
func (m *MemoryStore) Count(index string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[index])
}

// Templated reports whether EnsureTemplate was called.
func (m *MemoryStore) Templated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.templated
}

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory ObjectStore keyed by object name. It backs unit
// tests and local smoke runs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]string // key → newline-separated lines
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]string)}
}

// PutObject stores an object's full contents under key.
func (m *Memory) PutObject(key, contents string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = contents
}

// ScanPrefix implements ObjectStore. Objects are visited in key order to
// keep tests deterministic.
func (m *Memory) ScanPrefix(ctx context.Context, prefix string, fn func(line string) error) (bool, error) {
	m.mu.RLock()
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	m.mu.RUnlock()

	if len(keys) == 0 {
		return false, nil
	}
	sort.Strings(keys)

	for _, key := range keys {
		m.mu.RLock()
		contents := m.objects[key]
		m.mu.RUnlock()
		for _, line := range strings.Split(contents, "\n") {
			if line == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return true, err
			}
			if err := fn(line); err != nil {
				return true, err
			}
		}
	}
	return true, nil
}

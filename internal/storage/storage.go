// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package storage

import "context"

// ObjectStore reads raw event-log lines from day-partitioned objects.
type ObjectStore interface {
	// ScanPrefix calls fn for every line of every object whose key starts
	// with prefix. The found flag is false when no object matched the
	// prefix at all, which callers must distinguish from "objects existed
	// but contributed nothing". Scanning stops at the first fn error.
	ScanPrefix(ctx context.Context, prefix string, fn func(line string) error) (found bool, err error)
}

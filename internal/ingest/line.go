// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package ingest

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/playforge/retention/internal/cohort"
)

// Event is one parsed player event.
type Event struct {
	PlayerID   string
	Platform   string
	Channel    string
	OccurredAt int64 // epoch seconds
}

// errSkipLine marks lines that are malformed or name a different event.
var errSkipLine = errors.New("ingest: line skipped")

type payload struct {
	PlayerID string `json:"player_id"`
	Platform string `json:"platform"`
	Channel  string `json:"channel"`
}

// parseLine parses "<epoch_seconds> <event_name> <json_payload>" and returns
// the event when the line names wantEvent. Lines with fewer than three
// fields, a non-numeric timestamp, bad JSON, or a missing player_id return
// errSkipLine.
func parseLine(line, wantEvent string) (Event, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return Event{}, errSkipLine
	}
	if parts[1] != wantEvent {
		return Event{}, errSkipLine
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Event{}, errSkipLine
	}
	var p payload
	if err := json.Unmarshal([]byte(parts[2]), &p); err != nil {
		return Event{}, errSkipLine
	}
	if p.PlayerID == "" {
		return Event{}, errSkipLine
	}
	if p.Platform == "" {
		p.Platform = cohort.UnknownSegment
	}
	if p.Channel == "" {
		p.Channel = cohort.UnknownSegment
	}
	return Event{
		PlayerID:   p.PlayerID,
		Platform:   p.Platform,
		Channel:    p.Channel,
		OccurredAt: ts,
	}, nil
}

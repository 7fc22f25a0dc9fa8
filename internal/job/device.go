// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package job

import (
	"context"
	"fmt"

	"github.com/playforge/retention/internal/calendar"
	"github.com/playforge/retention/internal/cohort"
	"github.com/playforge/retention/internal/publish"
)

// device identifies a handset by vendor and model.
type device struct {
	Vendor string
	Model  string
}

var unknownDevice = device{Vendor: cohort.UnknownSegment, Model: cohort.UnknownSegment}

// deviceBody is the indexed shape of one device-distribution data point.
type deviceBody struct {
	Timestamp int64  `json:"@timestamp"`
	Type      string `json:"type"`
	Platform  string `json:"platform"`
	Channel   string `json:"channel"`
	Vendor    string `json:"vendor"`
	Model     string `json:"model"`
	Count     int    `json:"count"`
}

// Device breaks each retention offset's cohort down by handset. For every
// configured offset it counts, per segment and per (vendor, model), the
// created players and the retained players, looked up against the device
// inventory index written when the cohort was created. Players without an
// inventory entry are bucketed as UNKNOWN/UNKNOWN.
func (r *Runner) Device(ctx context.Context, day calendar.Day) error {
	login, _, err := buildIndex(ctx, r.login, []calendar.Day{day})
	if err != nil {
		return err
	}

	var docs []publish.Document
	for _, offset := range r.deps.Cfg.Analysis.RetentionDays {
		createDay := day.AddDays(-(offset - 1))
		create, exists, err := buildIndex(ctx, r.create, []calendar.Day{createDay})
		if err != nil {
			return err
		}
		if !exists {
			r.log.Warn().
				Str("day", createDay.String()).
				Int("offset", offset).
				Msg("creation data absent, device offset skipped")
			continue
		}

		devices, err := r.fetchDevices(ctx, createDay)
		if err != nil {
			return err
		}

		offsetDocs := deviceDistribution(create, login, createDay, day, offset, devices)
		docs = append(docs, offsetDocs...)
	}

	if len(docs) == 0 {
		r.log.Info().Msg("no device documents to publish")
		return nil
	}
	return r.deps.Store.Bulk(ctx, r.deps.Cfg.Elastic.Index, docs)
}

// deviceDistribution builds the per-device creation and retention counts of
// one offset's cohort.
func deviceDistribution(create, login *cohort.PlayerIDMap, createDay, loginDay calendar.Day, offset int, devices map[string]device) []publish.Document {
	var docs []publish.Document
	retainedType := fmt.Sprintf("retention_device_day%d", offset)
	createdType := fmt.Sprintf("create_device_day%d", offset)

	for _, seg := range create.Segments() {
		createSet, ok := create.GetDay(seg.Platform, seg.Channel, createDay)
		if !ok || createSet.Len() == 0 {
			continue
		}
		loginSet, _ := login.GetDay(seg.Platform, seg.Channel, loginDay)

		created := make(map[device]int)
		retained := make(map[device]int)
		for id := range createSet {
			d, ok := devices[id]
			if !ok {
				d = unknownDevice
			}
			created[d]++
			if loginSet.Has(id) {
				retained[d]++
			}
		}

		docs = append(docs,
			deviceDocs(createDay, createdType, seg, created)...)
		docs = append(docs,
			deviceDocs(createDay, retainedType, seg, retained)...)
	}
	return docs
}

func deviceDocs(day calendar.Day, docType string, seg cohort.Segment, counts map[device]int) []publish.Document {
	docs := make([]publish.Document, 0, len(counts))
	for d, count := range counts {
		id := fmt.Sprintf("%s_%s_%s_%s_%s_%s",
			day.String(), seg.Platform, seg.Channel, docType, d.Vendor, d.Model)
		docs = append(docs, publish.Document{
			ID: id,
			Body: deviceBody{
				Timestamp: day.EpochMillis(),
				Type:      docType,
				Platform:  seg.Platform,
				Channel:   seg.Channel,
				Vendor:    d.Vendor,
				Model:     d.Model,
				Count:     count,
			},
		})
	}
	return docs
}

// fetchDevices reads the day's device inventory index into a player-to-
// device lookup. A missing or empty index yields an empty lookup; every
// cohort member then lands in the UNKNOWN bucket.
func (r *Runner) fetchDevices(ctx context.Context, day calendar.Day) (map[string]device, error) {
	index := r.deps.Cfg.Elastic.DeviceIndexPrefix + day.Time().Format("2006.01.02")
	hits, err := r.deps.Store.MatchAll(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("fetch device inventory: %w", err)
	}

	devices := make(map[string]device, len(hits))
	for _, hit := range hits {
		tags, _ := hit.Source["tags"].(map[string]any)
		dev, _ := hit.Source["device"].(map[string]any)
		playerID, _ := tags["player_id"].(string)
		vendor, _ := dev["vendor"].(string)
		model, _ := dev["model"].(string)
		if playerID == "" {
			continue
		}
		if vendor == "" {
			vendor = cohort.UnknownSegment
		}
		if model == "" {
			model = cohort.UnknownSegment
		}
		devices[playerID] = device{Vendor: vendor, Model: model}
	}
	r.log.Debug().Str("index", index).Int("devices", len(devices)).Msg("device inventory loaded")
	return devices, nil
}

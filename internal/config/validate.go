// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validLogLevels are the accepted zerolog level names.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
}

// Validate checks the configuration for values the pipeline cannot run
// with. It returns the first problem found.
func (c *Config) Validate() error {
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Events.validate(); err != nil {
		return err
	}
	if err := c.Analysis.validate(); err != nil {
		return err
	}
	if err := c.Elastic.validate(); err != nil {
		return err
	}
	if err := c.Metrics.validate(); err != nil {
		return err
	}
	return c.Logging.validate()
}

func (s *StorageConfig) validate() error {
	if s.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if s.Region == "" {
		return fmt.Errorf("storage.region is required")
	}
	for name, prefix := range map[string]string{
		"storage.create_prefix": s.CreatePrefix,
		"storage.login_prefix":  s.LoginPrefix,
		"storage.iap_prefix":    s.IAPPrefix,
	} {
		if prefix == "" {
			return fmt.Errorf("%s is required", name)
		}
		if !strings.Contains(prefix, "<yyyy>") {
			return fmt.Errorf("%s must contain a <yyyy> placeholder", name)
		}
	}
	if s.TZOffsetHours < -12 || s.TZOffsetHours > 14 {
		return fmt.Errorf("storage.tz_offset_hours must be within -12..14, got %d", s.TZOffsetHours)
	}
	return nil
}

func (e *EventsConfig) validate() error {
	if e.CreatePlayer == "" {
		return fmt.Errorf("events.create_player is required")
	}
	if e.PlayerLogin == "" {
		return fmt.Errorf("events.player_login is required")
	}
	if e.IAPPurchase == "" {
		return fmt.Errorf("events.iap_purchase is required")
	}
	if e.CreatePlayer == e.PlayerLogin {
		return fmt.Errorf("events.create_player and events.player_login must differ")
	}
	return nil
}

func (a *AnalysisConfig) validate() error {
	if len(a.RetentionDays) == 0 {
		return fmt.Errorf("analysis.retention_days must list at least one offset")
	}
	for _, d := range a.RetentionDays {
		if d < 1 {
			return fmt.Errorf("analysis.retention_days entries must be >= 1, got %d", d)
		}
	}
	if a.RetentionTrackDays < 1 {
		return fmt.Errorf("analysis.retention_track_days must be >= 1, got %d", a.RetentionTrackDays)
	}
	if a.EffectiveInterval < 1 {
		return fmt.Errorf("analysis.effective_interval must be >= 1, got %d", a.EffectiveInterval)
	}
	if a.CreateEffectiveDays < 1 {
		return fmt.Errorf("analysis.create_effective_days must be >= 1, got %d", a.CreateEffectiveDays)
	}
	if a.LoginEffectiveDays < 1 {
		return fmt.Errorf("analysis.login_effective_days must be >= 1, got %d", a.LoginEffectiveDays)
	}
	for _, d := range a.ChurnLookbackDays {
		if d < 1 {
			return fmt.Errorf("analysis.churn_lookback_days entries must be >= 1, got %d", d)
		}
	}
	return nil
}

func (e *ElasticConfig) validate() error {
	if e.URL == "" {
		return fmt.Errorf("elastic.url is required")
	}
	u, err := url.Parse(e.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("elastic.url %q is not a valid URL", e.URL)
	}
	for name, index := range map[string]string{
		"elastic.index":               e.Index,
		"elastic.paying_index":        e.PayingIndex,
		"elastic.active_paying_index": e.ActivePayingIndex,
		"elastic.device_index_prefix": e.DeviceIndexPrefix,
	} {
		if index == "" {
			return fmt.Errorf("%s is required", name)
		}
		if strings.ToLower(index) != index {
			return fmt.Errorf("%s must be lowercase, got %q", name, index)
		}
	}
	return nil
}

func (m *MetricsConfig) validate() error {
	if m.PushgatewayURL == "" {
		return nil
	}
	u, err := url.Parse(m.PushgatewayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("metrics.pushgateway_url %q is not a valid URL", m.PushgatewayURL)
	}
	return nil
}

func (l *LoggingConfig) validate() error {
	if !validLogLevels[strings.ToLower(l.Level)] {
		return fmt.Errorf("logging.level %q is not a valid level", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", l.Format)
	}
}

// LogIndex returns the index run logs are shipped to.
func (e *ElasticConfig) LogIndex() string {
	return e.Index + "-logs"
}

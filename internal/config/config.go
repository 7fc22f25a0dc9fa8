// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where the optional config file is searched, in
// priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/retention/config.yaml",
	"/etc/retention/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the full pipeline configuration.
type Config struct {
	Storage  StorageConfig  `koanf:"storage"`
	Events   EventsConfig   `koanf:"events"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Elastic  ElasticConfig  `koanf:"elastic"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// StorageConfig locates the partitioned event logs in object storage.
type StorageConfig struct {
	Bucket string `koanf:"bucket"`
	Region string `koanf:"region"`
	// CreatePrefix, LoginPrefix and IAPPrefix are key templates with
	// <yyyy>, <MM> and <dd> placeholders, one per event stream.
	CreatePrefix string `koanf:"create_prefix"`
	LoginPrefix  string `koanf:"login_prefix"`
	IAPPrefix    string `koanf:"iap_prefix"`
	// TZOffsetHours is the game servers' UTC offset. A non-zero offset
	// widens each analysis day's partition scan by one calendar day.
	TZOffsetHours int `koanf:"tz_offset_hours"`
}

// EventsConfig names the event types extracted from the logs.
type EventsConfig struct {
	CreatePlayer string `koanf:"create_player"`
	PlayerLogin  string `koanf:"player_login"`
	IAPPurchase  string `koanf:"iap_purchase"`
}

// AnalysisConfig holds the tunable windows and thresholds of the metric
// computations.
type AnalysisConfig struct {
	// RetentionDays are the day-N retention offsets computed by the
	// daily job.
	RetentionDays []int `koanf:"retention_days"`
	// RetentionTrackDays is how many creation cohort days the tracking
	// series looks back over.
	RetentionTrackDays int `koanf:"retention_track_days"`
	// EffectiveInterval is the login window length, in days, of the
	// effective-player job.
	EffectiveInterval int `koanf:"effective_interval"`
	// CreateEffectiveDays and LoginEffectiveDays are the active-day
	// totals a player must reach to count as effective.
	CreateEffectiveDays int `koanf:"create_effective_days"`
	LoginEffectiveDays  int `koanf:"login_effective_days"`
	// ChurnLookbackDays are the per-cohort churn-rate offsets of the
	// ratio job.
	ChurnLookbackDays []int `koanf:"churn_lookback_days"`
}

// ElasticConfig connects the publisher to the analytics cluster.
type ElasticConfig struct {
	URL      string `koanf:"url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	// Index receives metric documents; run logs go to Index + "-logs".
	Index    string `koanf:"index"`
	ShipLogs bool   `koanf:"ship_logs"`
	// PayingIndex stores one document per paying player;
	// ActivePayingIndex receives per-segment active-payer counts.
	PayingIndex       string `koanf:"paying_index"`
	ActivePayingIndex string `koanf:"active_paying_index"`
	// DeviceIndexPrefix locates the per-day device lookup indices
	// written by the client performance pipeline; the day is appended
	// as YYYY.MM.DD.
	DeviceIndexPrefix string `koanf:"device_index_prefix"`
}

// MetricsConfig controls the end-of-run Prometheus push.
type MetricsConfig struct {
	// PushgatewayURL, when set, receives the run's metrics via the
	// Pushgateway protocol. Empty disables the push.
	PushgatewayURL string `koanf:"pushgateway_url"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, applied before the config
// file and environment layers.
func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Bucket:        "",
			Region:        "us-east-1",
			CreatePrefix:  "logs/create_player/<yyyy>/<MM>/<dd>/",
			LoginPrefix:   "logs/player_login/<yyyy>/<MM>/<dd>/",
			IAPPrefix:     "logs/iap_purchase/<yyyy>/<MM>/<dd>/",
			TZOffsetHours: 0,
		},
		Events: EventsConfig{
			CreatePlayer: "create_player",
			PlayerLogin:  "player_login",
			IAPPurchase:  "iap_purchase",
		},
		Analysis: AnalysisConfig{
			RetentionDays:       []int{1, 3, 7, 14, 30},
			RetentionTrackDays:  30,
			EffectiveInterval:   7,
			CreateEffectiveDays: 2,
			LoginEffectiveDays:  3,
			ChurnLookbackDays:   []int{7, 14, 30},
		},
		Elastic: ElasticConfig{
			URL:      "http://localhost:9200",
			Username: "",
			Password: "",
			Index:             "game-analytics",
			ShipLogs:          false,
			PayingIndex:       "paying-users",
			ActivePayingIndex: "active-paying-users",
			DeviceIndexPrefix: "gperf-index-",
		},
		Metrics: MetricsConfig{
			PushgatewayURL: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in ascending priority, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processIntSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// intSlicePaths are config paths holding day lists that arrive from the
// environment as comma-separated strings.
var intSlicePaths = []string{
	"analysis.retention_days",
	"analysis.churn_lookback_days",
}

// processIntSliceFields converts comma-separated day lists into int slices.
// Values already decoded as slices from YAML pass through untouched.
func processIntSliceFields(k *koanf.Koanf) error {
	for _, path := range intSlicePaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok {
			continue
		}
		if strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		days := make([]int, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				return fmt.Errorf("%s: invalid day list entry %q", path, p)
			}
			days = append(days, n)
		}
		if err := k.Set(path, days); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config paths. Keys
// absent from the table are dropped so arbitrary batch-host variables
// cannot reach the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Object storage
		"s3_bucket":                   "storage.bucket",
		"aws_region":                  "storage.region",
		"s3_key_prefix_create_player": "storage.create_prefix",
		"s3_key_prefix_player_login":  "storage.login_prefix",
		"s3_key_prefix_iap":           "storage.iap_prefix",
		"tz_offset_hours":             "storage.tz_offset_hours",

		// Event names
		"create_player_event": "events.create_player",
		"player_login_event":  "events.player_login",
		"iap_event":           "events.iap_purchase",

		// Analysis parameters
		"retention_days":               "analysis.retention_days",
		"retention_track_days":         "analysis.retention_track_days",
		"effective_interval":           "analysis.effective_interval",
		"create_player_effective_days": "analysis.create_effective_days",
		"player_login_effective_days":  "analysis.login_effective_days",
		"churn_lookback_days":          "analysis.churn_lookback_days",

		// Analytics cluster
		"es_url":                       "elastic.url",
		"es_user":                      "elastic.username",
		"es_pwd":                       "elastic.password",
		"es_index":                     "elastic.index",
		"es_ship_logs":                 "elastic.ship_logs",
		"es_paying_users_index":        "elastic.paying_index",
		"es_active_paying_users_index": "elastic.active_paying_index",
		"es_device_index_prefix":       "elastic.device_index_prefix",

		// Metrics push
		"pushgateway_url": "metrics.pushgateway_url",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

// Package config loads and validates the pipeline configuration.
//
// Configuration is layered with Koanf v2: built-in defaults first, then an
// optional YAML file, then environment variables, each layer overriding the
// previous. Environment variable names are mapped to config paths through
// an explicit table so unrelated variables in the batch environment cannot
// leak into the configuration.
package config

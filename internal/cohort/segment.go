// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package cohort

import "strings"

// UnknownSegment is the sentinel used when an event payload omits its
// platform or channel.
const UnknownSegment = "UNKNOWN"

// channelAliases maps normalized channel names that differ between the event
// logs and the analytics store. Lookup keys are lower-case.
var channelAliases = map[string]string{
	"google_play": "google_store",
}

// NormalizePlatform returns the case-folded lookup key for a platform.
func NormalizePlatform(platform string) string {
	if platform == "" {
		return strings.ToLower(UnknownSegment)
	}
	return strings.ToLower(platform)
}

// NormalizeChannel returns the case-folded, alias-resolved lookup key for a
// distribution channel. Aliasing is applied here so ingestion and lookup
// agree no matter which spelling either side uses.
func NormalizeChannel(channel string) string {
	if channel == "" {
		return strings.ToLower(UnknownSegment)
	}
	key := strings.ToLower(channel)
	if alias, ok := channelAliases[key]; ok {
		return alias
	}
	return key
}

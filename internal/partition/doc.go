// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

/*
Package partition maps an event's key-prefix template and a calendar day to
the concrete object-storage prefixes that hold that day's log lines.

Templates carry placeholders for the three date components:

	<yyyy>        four-digit year (required)
	<MM> or <M>   zero-padded or unpadded month (one required)
	<dd> or <d>   zero-padded or unpadded day (one required)

Log lines are timestamped in the platform's local time, but objects are
partitioned by UTC day. When the local offset is non-zero, a local calendar
day spills into one adjoining UTC partition, so the locator returns either
one or two prefixes per day.
*/
package partition

// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

/*
Package calendar provides the date arithmetic underlying every retention
window: day offsets, inclusive day ranges, and the "previous ISO week" and
"previous calendar month" derivations used by the weekly and monthly
computations.

All operations are pure functions of their inputs. A Day is a calendar date
with no time-of-day or timezone component; timezone handling happens at the
partition and ingestion layers, not here.

Week boundaries are Monday through Sunday. Month boundaries are the 1st
through the last day of the month. Both "previous" derivations strictly
exclude the week or month containing the reference date.
*/
package calendar

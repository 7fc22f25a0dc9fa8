// Retention - Player Cohort Retention Analytics
// Copyright 2026 Playforge
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/retention

package partition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/playforge/retention/internal/calendar"
)

// ErrInvalidTemplate is returned when a key-prefix template lacks a year,
// month, or day placeholder.
var ErrInvalidTemplate = errors.New("partition: template missing date placeholder")

// Placeholder tokens recognized in key-prefix templates. Month and day each
// come in a zero-padded and an unpadded variant.
const (
	tokenYear        = "<yyyy>"
	tokenMonthPadded = "<MM>"
	tokenMonth       = "<M>"
	tokenDayPadded   = "<dd>"
	tokenDay         = "<d>"
)

// Template is a parsed key-prefix template. Construct with ParseTemplate.
type Template struct {
	raw         string
	monthPadded bool
	dayPadded   bool
}

// ParseTemplate validates that raw contains a year placeholder, a month
// placeholder, and a day placeholder, preferring the zero-padded variant
// when both appear.
func ParseTemplate(raw string) (Template, error) {
	t := Template{raw: raw}
	var missing []string
	if !strings.Contains(raw, tokenYear) {
		missing = append(missing, "year")
	}
	switch {
	case strings.Contains(raw, tokenMonthPadded):
		t.monthPadded = true
	case strings.Contains(raw, tokenMonth):
	default:
		missing = append(missing, "month")
	}
	switch {
	case strings.Contains(raw, tokenDayPadded):
		t.dayPadded = true
	case strings.Contains(raw, tokenDay):
	default:
		missing = append(missing, "day")
	}
	if len(missing) > 0 {
		return Template{}, fmt.Errorf("%w: %s in %q", ErrInvalidTemplate, strings.Join(missing, ", "), raw)
	}
	return t, nil
}

// Raw returns the template as given.
func (t Template) Raw() string { return t.raw }

// Expand substitutes day's date components into the template and returns the
// concrete storage prefix.
func (t Template) Expand(day calendar.Day) string {
	d := day.Time()
	out := strings.ReplaceAll(t.raw, tokenYear, fmt.Sprintf("%04d", d.Year()))
	if t.monthPadded {
		out = strings.ReplaceAll(out, tokenMonthPadded, fmt.Sprintf("%02d", int(d.Month())))
	} else {
		out = strings.ReplaceAll(out, tokenMonth, strconv.Itoa(int(d.Month())))
	}
	if t.dayPadded {
		out = strings.ReplaceAll(out, tokenDayPadded, fmt.Sprintf("%02d", d.Day()))
	} else {
		out = strings.ReplaceAll(out, tokenDay, strconv.Itoa(d.Day()))
	}
	return out
}

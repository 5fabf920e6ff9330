// Package dates parses calendar dates and relative spans for the
// merge-activity date range flags.
package dates

import (
	"fmt"
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// layout is the calendar date format accepted on the command line.
const layout = "2006-01-02"

// ParseDate parses a calendar date like "2024-06-30".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// ParseSince parses human-readable spans like "1w", "30d", "6mo" and
// returns the time that span in the past from now.
func ParseSince(s string) (time.Time, error) {
	now := time.Now()

	var n int
	var unit string
	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return time.Time{}, fmt.Errorf("invalid span format: %s (use e.g., 1w, 30d, 6mo)", s)
	}

	var d time.Duration
	switch unit {
	case "d", "day", "days":
		d = time.Duration(n) * 24 * time.Hour
	case "w", "wk", "wks", "week", "weeks":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "mo", "month", "months":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "y", "yr", "yrs", "year", "years":
		d = time.Duration(n) * 365 * 24 * time.Hour
	default:
		return time.Time{}, fmt.Errorf("unknown span unit: %s", unit)
	}

	return now.Add(-d), nil
}

// ParseRange builds a DateRange from --from/--to/--since flag values.
// from/to are calendar dates; since is a relative span that sets the
// lower bound when from is empty. All empty means unbounded.
func ParseRange(from, to, since string) (model.DateRange, error) {
	var r model.DateRange

	if from != "" {
		t, err := ParseDate(from)
		if err != nil {
			return model.DateRange{}, err
		}
		r.From = t
	} else if since != "" {
		t, err := ParseSince(since)
		if err != nil {
			return model.DateRange{}, err
		}
		r.From = t
	}

	if to != "" {
		t, err := ParseDate(to)
		if err != nil {
			return model.DateRange{}, err
		}
		r.To = t
	}

	if !r.Valid() {
		return model.DateRange{}, fmt.Errorf("invalid range: from %s is after to %s",
			r.From.Format(layout), r.To.Format(layout))
	}

	return r, nil
}

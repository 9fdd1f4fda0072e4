package util

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// CanonicalTimeLayout is the single textual timestamp form records carry:
// second precision, "T" separator, no zone suffix.
const CanonicalTimeLayout = "2006-01-02T15:04:05"

// ParseTimeFlexible parses timestamps in whatever shape a log source emits
// (RFC3339, space-separated, epoch seconds or millis) into a time.Time.
func ParseTimeFlexible(value string) (time.Time, error) {
	return dateparse.ParseAny(strings.TrimSpace(value))
}

// NormalizeTimestamp rewrites a raw timestamp into CanonicalTimeLayout
// lexically: fractional seconds and zone suffix dropped, the date/time
// separator forced to "T". The second return reports whether
// the rewrite lost information, in which case callers keep the raw value
// around under a metadata key.
func NormalizeTimestamp(raw string) (string, bool) {
	ts := strings.TrimSpace(raw)
	lossy := false
	if i := strings.IndexAny(ts, ".,"); i >= 0 {
		ts = ts[:i]
		lossy = true
	}
	if strings.HasSuffix(ts, "Z") {
		ts = strings.TrimSuffix(ts, "Z")
		lossy = true
	}
	if strings.Contains(ts, " ") {
		ts = strings.Replace(ts, " ", "T", 1)
	}
	return ts, lossy
}

// SimplifyTimestamp reduces a timestamp to its HH:MM:SS portion for compact
// display. Fractional seconds and zone suffixes are dropped; values without a
// recognizable time component come back unchanged.
func SimplifyTimestamp(ts string) string {
	timePart := ts
	if i := strings.IndexByte(ts, 'T'); i >= 0 && i+1 < len(ts) {
		timePart = ts[i+1:]
	} else if parts := strings.SplitN(ts, " ", 2); len(parts) == 2 {
		timePart = parts[1]
	}
	// Only clock-like values get their fractional part cut; uptime-style
	// stamps such as "0.123s" stay intact.
	if strings.Contains(timePart, ":") {
		if i := strings.IndexAny(timePart, ".,"); i >= 0 {
			timePart = timePart[:i]
		}
		timePart = strings.TrimSuffix(timePart, "Z")
	}
	return timePart
}

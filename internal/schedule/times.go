package schedule

import (
	"strings"
	"time"
)

// timeLayouts are the timestamp shapes seen in upstream job records and
// transcripts. Zone-less layouts are interpreted in the caller's location.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimeIn parses a timestamp defensively. It reports ok=false instead of
// an error: upstream fields are extracted best-effort, and a malformed
// timestamp means "no occurrence", not a failed run.
func ParseTimeIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

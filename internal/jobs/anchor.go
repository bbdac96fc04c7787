package jobs

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"opsnap/internal/schedule"
)

// reRelative matches the CLI's relative next-run notation: "in 12m", "in 2h",
// "in 3d".
var reRelative = regexp.MustCompile(`^in\s+(\d+)([mhd])$`)

// resolveAnchor turns a job's "next run" field into the projection anchor.
// Accepts absolute timestamps and the relative "in N<unit>" form; anything
// else reports ok=false, which downstream treats as "no occurrences".
func resolveAnchor(next string, now time.Time, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(next)
	if s == "" || s == "-" {
		return time.Time{}, false
	}
	if m := reRelative.FindStringSubmatch(strings.ToLower(s)); len(m) == 3 {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		var unit time.Duration
		switch m[2] {
		case "m":
			unit = time.Minute
		case "h":
			unit = time.Hour
		case "d":
			unit = 24 * time.Hour
		}
		return now.Add(time.Duration(n) * unit), true
	}
	return schedule.ParseTimeIn(s, loc)
}

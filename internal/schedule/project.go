package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxOccurrences is the absolute cap on projected run times per job. It is a
// safety bound independent of the window size: a malformed or very frequent
// schedule can never blow up a report.
const MaxOccurrences = 100

// Window is the half-open interval [Now, Now+Horizon) that occurrences are
// reported for.
type Window struct {
	Now     time.Time
	Horizon time.Duration
}

func (w Window) End() time.Time { return w.Now.Add(w.Horizon) }

func (w Window) valid() bool { return !w.Now.IsZero() && w.Horizon > 0 }

// Project returns the upcoming run times for spec inside w, in ascending
// order, capped at MaxOccurrences.
//
// The anchor is the reference tick that interval stepping starts from; it may
// lie before the window, in which case stepping catches up to the window
// without emitting stale ticks. Degenerate inputs (zero anchor, non-positive
// interval, invalid window) return nil rather than an error: a missing
// timeline row beats a failed generation run.
//
// Project is pure; calling it twice with identical inputs yields identical
// output.
func Project(spec Spec, anchor time.Time, w Window) []time.Time {
	if !w.valid() {
		return nil
	}
	switch spec.Kind {
	case KindOnce:
		if spec.At.IsZero() {
			return nil
		}
		if spec.At.Before(w.Now) || !spec.At.Before(w.End()) {
			return nil
		}
		return []time.Time{spec.At}
	case KindInterval:
		return projectInterval(anchor, spec.Every, w)
	case KindCron:
		return projectInterval(anchor, approxCronInterval(spec.Expr), w)
	default:
		return nil
	}
}

// projectInterval steps from anchor by every, emitting ticks inside the
// window. The catch-up is arithmetic, not a loop: an anchor years in the past
// must not cost millions of iterations.
func projectInterval(anchor time.Time, every time.Duration, w Window) []time.Time {
	if every <= 0 || anchor.IsZero() {
		return nil
	}
	t := anchor
	if diff := w.Now.Sub(anchor); diff > 0 {
		steps := diff / every
		t = anchor.Add(steps * every)
		if t.Before(w.Now) {
			t = t.Add(every)
		}
	}
	end := w.End()
	var out []time.Time
	for t.Before(end) && len(out) < MaxOccurrences {
		out = append(out, t)
		t = t.Add(every)
	}
	return out
}

// ---- Cron interval approximation ----

// approxRule maps an expression shape onto a repeat interval. Rules are
// evaluated in order; the first match wins. Keeping this a flat table (rather
// than nested conditionals) makes the precedence auditable and lets tests
// exercise each rule on its own.
type approxRule struct {
	name  string
	match func(f cronFields) (time.Duration, bool)
}

type cronFields struct {
	minute, hour, dom, month, dow string
}

const defaultCronInterval = 24 * time.Hour

var reMinuteStep = regexp.MustCompile(`^\*/(\d+)$`)

var approxRules = []approxRule{
	{
		name: "minute-step",
		match: func(f cronFields) (time.Duration, bool) {
			n, ok := stepValue(f.minute)
			if ok && f.hour == "*" {
				return time.Duration(n) * time.Minute, true
			}
			return 0, false
		},
	},
	{
		name: "minute-step-hour-range",
		match: func(f cronFields) (time.Duration, bool) {
			n, ok := stepValue(f.minute)
			if ok && strings.Contains(f.hour, "-") {
				return time.Duration(n) * time.Minute, true
			}
			return 0, false
		},
	},
	{
		name: "hourly",
		match: func(f cronFields) (time.Duration, bool) {
			if f.hour == "*" && isFixedField(f.minute) {
				return time.Hour, true
			}
			return 0, false
		},
	},
	{
		// Covers both a single daily fire and comma-separated multi-time-per-day
		// minute/hour fields; the extra daily slots are not expanded, only the
		// first repeats.
		name: "daily",
		match: func(f cronFields) (time.Duration, bool) {
			if f.dom == "*" && f.month == "*" && f.dow == "*" {
				return defaultCronInterval, true
			}
			return 0, false
		},
	},
	{
		name: "weekly",
		match: func(f cronFields) (time.Duration, bool) {
			if f.dom == "*" && f.month == "*" && isFixedField(f.dow) {
				return 7 * 24 * time.Hour, true
			}
			return 0, false
		},
	},
}

// approxCronInterval infers a repeat interval from the shape of a 5-field
// expression. This is a deliberate approximation for the visual timeline, not
// cron evaluation; unrecognized shapes fall back to one day.
func approxCronInterval(expr string) time.Duration {
	fields := strings.Fields(strings.TrimSpace(expr))
	if len(fields) != 5 {
		return defaultCronInterval
	}
	f := cronFields{
		minute: fields[0],
		hour:   fields[1],
		dom:    fields[2],
		month:  fields[3],
		dow:    fields[4],
	}
	for _, r := range approxRules {
		if every, ok := r.match(f); ok {
			return every
		}
	}
	return defaultCronInterval
}

// stepValue extracts N from a "*/N" field. N must be positive: "*/0" would
// produce a degenerate interval, so it does not match.
func stepValue(field string) (int, bool) {
	m := reMinuteStep.FindStringSubmatch(field)
	if len(m) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// isFixedField reports whether a cron field is a plain numeric value
// (no wildcards, steps, ranges, or lists).
func isFixedField(field string) bool {
	if field == "" {
		return false
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return false
		}
	}
	return true
}

package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Kind describes the normalized kind of a schedule string.
//
// We intentionally keep this small: a one-shot timestamp, a fixed interval,
// or a cron expression (projected as an approximate interval).
type Kind int

const (
	KindOnce Kind = iota
	KindInterval
	KindCron
)

// Spec represents a parsed schedule string.
//
// Supported forms:
//   - One-shot: "at 2025-03-01T09:00:00Z", bare RFC3339 timestamp
//   - Interval duration: "every 30m", "55m", "2h30m"
//   - Interval HH:MM: "00:50" (50 minutes), "02:30" (2 hours 30 minutes)
//   - Cron (crontab.guru-style, 5 fields): "cron */5 * * * *", "55 * * * *"
//   - Cron descriptors: "@hourly", "@daily", "@weekly", "@every 55m"
//     (normalized to intervals)
//
// The "at", "every" and "cron" keyword prefixes force interpretation; they are
// the column keywords the upstream job CLI prints.
type Spec struct {
	Kind   Kind
	At     time.Time     // KindOnce
	Every  time.Duration // KindInterval
	Expr   string        // KindCron, raw 5-field expression
	Source string        // "at" | "duration" | "hhmm" | "cron" | "descriptor"
}

var reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

// cronParser validates 5-field expressions. Validation only: projection never
// uses cron's Next(), see Project.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Parse parses a schedule string into a one-shot, interval, or cron Spec.
// Naive timestamps (no zone suffix) are interpreted in loc.
func Parse(raw string, loc *time.Location) (Spec, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return Spec{}, fmt.Errorf("schedule required")
	}

	// Keyword prefixes (explicit).
	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "at "):
		v := strings.TrimSpace(s[len("at "):])
		at, ok := ParseTimeIn(v, loc)
		if !ok {
			return Spec{}, fmt.Errorf("invalid timestamp %q after 'at'", v)
		}
		return Spec{Kind: KindOnce, At: at, Source: "at"}, nil
	case strings.HasPrefix(low, "every "):
		v := strings.TrimSpace(s[len("every "):])
		d, src, err := parseInterval(v)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindInterval, Every: d, Source: src}, nil
	case strings.HasPrefix(low, "cron "):
		expr := strings.TrimSpace(s[len("cron "):])
		return parseCron(expr)
	}

	// Descriptors normalize to plain intervals; the projector only ever steps
	// by a fixed period anyway.
	if strings.HasPrefix(s, "@") {
		return parseDescriptor(s)
	}

	// Heuristics:
	// - timestamp-looking => one-shot
	if at, ok := ParseTimeIn(s, loc); ok {
		return Spec{Kind: KindOnce, At: at, Source: "at"}, nil
	}

	// - any whitespace => cron expression
	if strings.ContainsAny(s, " \t") {
		return parseCron(s)
	}

	// - HH:MM => interval duration
	if reHHMM.MatchString(s) {
		d, _, err := parseHHMMDuration(s)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindInterval, Every: d, Source: "hhmm"}, nil
	}

	// - Go duration => interval duration
	d, err := time.ParseDuration(s)
	if err == nil {
		if d <= 0 {
			return Spec{}, fmt.Errorf("interval must be > 0")
		}
		return Spec{Kind: KindInterval, Every: d, Source: "duration"}, nil
	}

	return Spec{}, fmt.Errorf(
		"invalid schedule %q (use cron like '*/5 * * * *', 'every 55m', or 'at <timestamp>')",
		raw,
	)
}

func parseCron(expr string) (Spec, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Spec{}, fmt.Errorf("cron expression required")
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return Spec{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	if len(strings.Fields(expr)) != 5 {
		return Spec{}, fmt.Errorf("cron expression %q: expected 5 fields", expr)
	}
	return Spec{Kind: KindCron, Expr: expr, Source: "cron"}, nil
}

func parseDescriptor(s string) (Spec, error) {
	low := strings.ToLower(strings.TrimSpace(s))
	switch low {
	case "@hourly":
		return Spec{Kind: KindInterval, Every: time.Hour, Source: "descriptor"}, nil
	case "@daily", "@midnight":
		return Spec{Kind: KindInterval, Every: 24 * time.Hour, Source: "descriptor"}, nil
	case "@weekly":
		return Spec{Kind: KindInterval, Every: 7 * 24 * time.Hour, Source: "descriptor"}, nil
	}
	if strings.HasPrefix(low, "@every ") {
		v := strings.TrimSpace(s[len("@every "):])
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Spec{}, fmt.Errorf("invalid @every duration %q", v)
		}
		return Spec{Kind: KindInterval, Every: d, Source: "descriptor"}, nil
	}
	return Spec{}, fmt.Errorf("unsupported descriptor %q", s)
}

func parseInterval(v string) (time.Duration, string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, "", fmt.Errorf("interval required")
	}
	if reHHMM.MatchString(v) {
		d, _, err := parseHHMMDuration(v)
		return d, "hhmm", err
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, "", fmt.Errorf("invalid interval %q (use HH:MM or Go duration like '55m'/'2h30m')", v)
	}
	if d <= 0 {
		return 0, "", fmt.Errorf("interval must be > 0")
	}
	return d, "duration", nil
}

func parseHHMMDuration(v string) (time.Duration, string, error) {
	m := reHHMM.FindStringSubmatch(v)
	if len(m) != 3 {
		return 0, "", fmt.Errorf("invalid HH:MM %q", v)
	}
	// safe parse: hours up to 999, minutes 0..59
	var hh int
	for i := 0; i < len(m[1]); i++ {
		hh = hh*10 + int(m[1][i]-'0')
	}
	mm := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if mm > 59 {
		return 0, "", fmt.Errorf("invalid minutes in %q", v)
	}
	d := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
	if d <= 0 {
		return 0, "", fmt.Errorf("interval must be > 0")
	}
	return d, "hhmm", nil
}

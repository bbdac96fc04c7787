package schedule

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func window(h time.Duration) Window { return Window{Now: testNow, Horizon: h} }

func checkWindowInvariants(t *testing.T, got []time.Time, w Window) {
	t.Helper()
	if len(got) > MaxOccurrences {
		t.Fatalf("occurrence count %d exceeds cap %d", len(got), MaxOccurrences)
	}
	for i, ts := range got {
		if ts.Before(w.Now) || !ts.Before(w.End()) {
			t.Fatalf("occurrence %d (%v) outside [%v, %v)", i, ts, w.Now, w.End())
		}
		if i > 0 && ts.Before(got[i-1]) {
			t.Fatalf("occurrences not ascending at %d: %v < %v", i, ts, got[i-1])
		}
	}
}

func TestProjectOnce(t *testing.T) {
	t.Parallel()
	w := window(14 * 24 * time.Hour)

	in := testNow.Add(time.Hour)
	got := Project(Spec{Kind: KindOnce, At: in}, time.Time{}, w)
	if len(got) != 1 || !got[0].Equal(in) {
		t.Fatalf("expected exactly [%v], got %v", in, got)
	}
	checkWindowInvariants(t, got, w)

	if got := Project(Spec{Kind: KindOnce, At: testNow.Add(-time.Hour)}, time.Time{}, w); len(got) != 0 {
		t.Fatalf("past one-shot should be dropped, got %v", got)
	}
	if got := Project(Spec{Kind: KindOnce, At: w.End()}, time.Time{}, w); len(got) != 0 {
		t.Fatalf("window end is exclusive, got %v", got)
	}
	if got := Project(Spec{Kind: KindOnce}, time.Time{}, w); len(got) != 0 {
		t.Fatalf("zero one-shot timestamp should be dropped, got %v", got)
	}
	// The window start is inclusive.
	if got := Project(Spec{Kind: KindOnce, At: testNow}, time.Time{}, w); len(got) != 1 {
		t.Fatalf("occurrence at now should be included, got %v", got)
	}
}

func TestProjectIntervalCatchUp(t *testing.T) {
	t.Parallel()
	w := window(time.Hour)
	every := 30 * time.Minute

	// Anchor slightly more than 90 minutes back: ticks at -90s...,
	// the first tick >= now is anchor+120m.
	anchor := testNow.Add(-90*time.Minute - time.Second)
	got := Project(Spec{Kind: KindInterval, Every: every}, anchor, w)
	checkWindowInvariants(t, got, w)
	if len(got) == 0 {
		t.Fatal("expected occurrences")
	}
	if want := anchor.Add(4 * every); !got[0].Equal(want) {
		t.Fatalf("first occurrence = %v, want anchor-aligned %v", got[0], want)
	}

	// Anchor exactly 90 minutes back: anchor+90m lands on now and is included.
	anchor = testNow.Add(-90 * time.Minute)
	got = Project(Spec{Kind: KindInterval, Every: every}, anchor, w)
	checkWindowInvariants(t, got, w)
	if len(got) != 2 || !got[0].Equal(testNow) {
		t.Fatalf("expected [now, now+30m], got %v", got)
	}
}

func TestProjectIntervalGuards(t *testing.T) {
	t.Parallel()
	w := window(time.Hour)
	if got := Project(Spec{Kind: KindInterval, Every: 0}, testNow, w); got != nil {
		t.Fatalf("zero interval must yield nil, got %v", got)
	}
	if got := Project(Spec{Kind: KindInterval, Every: -time.Minute}, testNow, w); got != nil {
		t.Fatalf("negative interval must yield nil, got %v", got)
	}
	if got := Project(Spec{Kind: KindInterval, Every: time.Minute}, time.Time{}, w); got != nil {
		t.Fatalf("zero anchor must yield nil, got %v", got)
	}
	if got := Project(Spec{Kind: KindInterval, Every: time.Minute}, testNow, Window{}); got != nil {
		t.Fatalf("invalid window must yield nil, got %v", got)
	}
	if got := Project(Spec{Kind: KindInterval, Every: time.Minute}, testNow, Window{Now: testNow, Horizon: -time.Hour}); got != nil {
		t.Fatalf("negative horizon must yield nil, got %v", got)
	}
}

func TestProjectBoundedness(t *testing.T) {
	t.Parallel()
	// A very frequent schedule over a huge window must stop at the cap.
	w := window(365 * 24 * time.Hour)
	got := Project(Spec{Kind: KindInterval, Every: time.Minute}, testNow, w)
	if len(got) != MaxOccurrences {
		t.Fatalf("expected %d occurrences, got %d", MaxOccurrences, len(got))
	}
	checkWindowInvariants(t, got, w)
}

func TestProjectCronPrecedence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		expr string
		want time.Duration
	}{
		{"*/15 * * * *", 15 * time.Minute},
		{"*/5 * * * *", 5 * time.Minute},
		{"*/10 9-17 * * *", 10 * time.Minute},
		{"0 * * * *", time.Hour},
		{"30 * * * *", time.Hour},
		{"0 9 * * *", 24 * time.Hour},
		{"30 8 * * *", 24 * time.Hour},
		{"0 9,18 * * *", 24 * time.Hour},
		{"0 9 * * 1", 7 * 24 * time.Hour},
		{"5 4 1 * *", 24 * time.Hour}, // fixed day-of-month: unrecognized, defaults
		{"*/0 * * * *", 24 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			if got := approxCronInterval(tt.expr); got != tt.want {
				t.Fatalf("approxCronInterval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestProjectCronStepsFromAnchor(t *testing.T) {
	t.Parallel()
	w := window(2 * time.Hour)
	anchor := testNow.Add(10 * time.Minute)
	got := Project(Spec{Kind: KindCron, Expr: "*/30 * * * *"}, anchor, w)
	checkWindowInvariants(t, got, w)
	if len(got) != 4 {
		t.Fatalf("expected 4 occurrences, got %d (%v)", len(got), got)
	}
	for i, ts := range got {
		if want := anchor.Add(time.Duration(i) * 30 * time.Minute); !ts.Equal(want) {
			t.Fatalf("occurrence %d = %v, want %v", i, ts, want)
		}
	}
}

func TestProjectIdempotent(t *testing.T) {
	t.Parallel()
	w := window(24 * time.Hour)
	spec := Spec{Kind: KindCron, Expr: "0 9 * * *"}
	anchor := testNow.Add(-3 * time.Hour)

	a := Project(spec, anchor, w)
	b := Project(spec, anchor, w)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("occurrence %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestApproxRuleOrder(t *testing.T) {
	t.Parallel()
	// "*/15 9-17 * * *" matches both the minute-step-hour-range and the daily
	// rule; the earlier rule must win.
	if got := approxCronInterval("*/15 9-17 * * *"); got != 15*time.Minute {
		t.Fatalf("hour-range step rule should win, got %v", got)
	}
	// "0 * * * *" matches both hourly and daily; hourly is listed first.
	if got := approxCronInterval("0 * * * *"); got != time.Hour {
		t.Fatalf("hourly rule should win, got %v", got)
	}
}

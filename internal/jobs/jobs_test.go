package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"opsnap/internal/schedule"
	"opsnap/pkg/logx"
)

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func TestResolveAnchor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		next string
		want time.Time
		ok   bool
	}{
		{"relative minutes", "in 12m", testNow.Add(12 * time.Minute), true},
		{"relative hours", "in 2h", testNow.Add(2 * time.Hour), true},
		{"relative days", "in 3d", testNow.Add(72 * time.Hour), true},
		{"absolute", "2025-06-02T14:00:00Z", time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), true},
		{"placeholder", "-", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"garbage", "soonish", time.Time{}, false},
		{"unknown unit", "in 5w", time.Time{}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := resolveAnchor(tt.next, testNow, time.UTC)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("anchor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTable(t *testing.T) {
	t.Parallel()
	output := `ID        NAME            SCHEDULE          NEXT
a1b2c3d4  morning brief   cron 0 7 * * *    in 9h
e5f6a7b8  backup sweep    every 30m         in 12m
c9d0e1f2  one-off ping    at 2025-06-03T09:00:00Z
mangled line without keywords
`
	got := ParseTable(output)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(got), got)
	}
	if got[0].ID != "a1b2c3d4" || got[0].Name != "morning brief" {
		t.Fatalf("record 0 wrong: %+v", got[0])
	}
	if got[0].Schedule != "cron 0 7 * * *" || got[0].Next != "in 9h" {
		t.Fatalf("record 0 schedule/next wrong: %+v", got[0])
	}
	if got[1].Schedule != "every 30m" || got[1].Next != "in 12m" {
		t.Fatalf("record 1 wrong: %+v", got[1])
	}
	if got[2].Schedule != "at 2025-06-03T09:00:00Z" || got[2].Next != "" {
		t.Fatalf("record 2 wrong: %+v", got[2])
	}
}

func TestBuildReports(t *testing.T) {
	t.Parallel()
	w := schedule.Window{Now: testNow, Horizon: 14 * 24 * time.Hour}
	records := []Record{
		{ID: "1", Name: "brief", Schedule: "cron 0 7 * * *", Status: "ok", Next: "in 19h"},
		{ID: "2", Name: "sweep", Schedule: "every 30m", Status: "ok", Next: "in 12m"},
		{ID: "3", Name: "ping", Schedule: "at 2025-06-02T13:00:00Z", Status: "ok"},
		{ID: "4", Name: "stale", Schedule: "at 2025-06-01T13:00:00Z", Status: "ok"},
		{ID: "5", Schedule: "whenever", Next: "in 5m"},
		{ID: "6", Name: "anchorless", Schedule: "every 1h"},
	}

	got := BuildReports(records, w, time.UTC, logx.Nop())
	if len(got) != len(records) {
		t.Fatalf("expected %d reports, got %d", len(records), len(got))
	}

	// Daily cron anchored 19h out: one run per day for 14 days, minus the
	// partial day at the end of the window.
	if n := len(got[0].NextRuns); n != 14 {
		t.Fatalf("daily job: expected 14 runs, got %d", n)
	}
	if got[0].NextRuns[0] != "2025-06-03T07:00:00Z" {
		t.Fatalf("daily job first run = %s", got[0].NextRuns[0])
	}

	if n := len(got[1].NextRuns); n != schedule.MaxOccurrences {
		t.Fatalf("frequent job must hit the cap, got %d", n)
	}

	if len(got[2].NextRuns) != 1 || got[2].NextRuns[0] != "2025-06-02T13:00:00Z" {
		t.Fatalf("one-shot wrong: %+v", got[2].NextRuns)
	}
	if len(got[3].NextRuns) != 0 {
		t.Fatalf("past one-shot should have no runs: %+v", got[3].NextRuns)
	}

	// Unparseable schedule: row survives with defaults and an empty timeline.
	if got[4].Name != "Unnamed" || got[4].Status != "unknown" || len(got[4].NextRuns) != 0 {
		t.Fatalf("degraded row wrong: %+v", got[4])
	}

	if len(got[5].NextRuns) != 0 {
		t.Fatalf("missing anchor should yield no runs: %+v", got[5].NextRuns)
	}
}

func TestReportsWindowInvariants(t *testing.T) {
	t.Parallel()
	w := schedule.Window{Now: testNow, Horizon: 48 * time.Hour}
	records := []Record{
		{ID: "1", Schedule: "cron */15 * * * *", Next: "in 5m"},
		{ID: "2", Schedule: "every 7h", Next: "2025-06-01T00:00:00Z"},
	}
	for _, rep := range BuildReports(records, w, time.UTC, logx.Nop()) {
		if len(rep.NextRuns) > schedule.MaxOccurrences {
			t.Fatalf("run count %d over cap", len(rep.NextRuns))
		}
		prev := ""
		for _, raw := range rep.NextRuns {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				t.Fatalf("bad timestamp %q: %v", raw, err)
			}
			if ts.Before(w.Now) || !ts.Before(w.End()) {
				t.Fatalf("run %s outside window", raw)
			}
			if prev != "" && raw < prev {
				t.Fatalf("runs not ascending: %s after %s", raw, prev)
			}
			prev = raw
		}
	}
}

func TestFileSource(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "jobs.json")
	data := `[{"id":"x","name":"n","schedule":"every 5m","status":"ok","last":"-","next":"in 2m"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewFileSource(path).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "x" || got[0].Next != "in 2m" {
		t.Fatalf("unexpected records: %+v", got)
	}

	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).List(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"opsnap/pkg/logx"
)

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{"", "none"} {
		st, err := Open(Config{Driver: driver}, logx.Nop())
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if st != nil {
			t.Fatalf("Open(%q) should be disabled", driver)
		}
	}
	if _, err := Open(Config{Driver: "bogus", Path: "x"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestFileLedgerRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ledger")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := RunEntry{
			At:         base.Add(time.Duration(i) * time.Minute),
			Activities: 10 + i,
			Jobs:       3,
			Documents:  7,
			TookMS:     int64(100 + i),
		}
		if i == 4 {
			e.Error = "jobs cli: exit status 1"
		}
		if err := st.AppendRun(ctx, e); err != nil {
			t.Fatalf("AppendRun: %v", err)
		}
	}

	got, err := st.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(got))
	}
	if got[0].Activities != 12 || got[2].Activities != 14 {
		t.Fatalf("wrong slice of runs: %+v", got)
	}
	if got[2].Error == "" {
		t.Fatal("expected error recorded on last run")
	}
	if !got[0].At.Before(got[2].At) {
		t.Fatal("runs should be oldest-first")
	}
}

func TestFileLedgerRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{Driver: "file"}, logx.Nop()); err == nil {
		t.Fatal("expected error for missing path")
	}
}

package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"opsnap/pkg/logx"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "data")
	w := NewWriter(dir, logx.Nop())

	payload := []map[string]string{{"id": "a"}, {"id": "b"}}
	if err := w.WriteJSON("cron.json", payload); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "cron.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0]["id"] != "a" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !strings.Contains(string(b), "\n  ") {
		t.Fatal("expected two-space indentation")
	}

	// No temp residue.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestWriteJSONOverwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := NewWriter(dir, logx.Nop())

	if err := w.WriteJSON("activity.json", []string{"old"}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteJSON("activity.json", []string{"new"}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "activity.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "new") || strings.Contains(string(b), "old") {
		t.Fatalf("overwrite failed: %s", b)
	}
}

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateCommand(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	cfg := filepath.Join(root, "opsnap.yaml")
	body := "sources:\n  sessions: " + filepath.Join(root, "sessions") + "\noutput:\n  dir: " + out + "\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	rootCmd.SetArgs([]string{"--config", cfg, "generate"})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(out, "cron.json"))
	if err != nil {
		t.Fatalf("read cron.json: %v", err)
	}
	var v []any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("cron.json: %v", err)
	}
}

func TestGenerateCommandBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "opsnap.json")
	if err := os.WriteFile(cfg, []byte(`{"nope": true}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	rootCmd.SetArgs([]string{"--config", cfg, "generate"})
	if err := rootCmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected unknown-field config error")
	}
}

package docindex

import (
	"os"
	"path/filepath"
	"testing"

	"opsnap/internal/session"
	"opsnap/pkg/logx"
)

func TestBuildComposition(t *testing.T) {
	root := t.TempDir()
	memDir := filepath.Join(root, "memory")
	if err := os.MkdirAll(memDir, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(memDir, "projects.md"), "# Projects\nalpha, beta")
	write(filepath.Join(root, "MEMORY.md"), "# Memory\nlong-term facts")
	write(filepath.Join(root, "todo.md"), "- [ ] rotate keys")
	write(filepath.Join(root, "ignored.txt"), "not markdown")

	sessDir := filepath.Join(root, "sessions")
	if err := os.MkdirAll(sessDir, 0o755); err != nil {
		t.Fatal(err)
	}
	write(filepath.Join(sessDir, "fedcba9876543210.jsonl"),
		`{"type":"message","timestamp":"t","message":{"role":"assistant","content":[{"type":"text","text":"session text"}]}}`+"\n")

	ix := New(Config{
		MemoryDir:  memDir,
		MemoryFile: filepath.Join(root, "MEMORY.md"),
		NotesDir:   root,
	}, session.NewScanner(sessDir, 0, logx.Nop()), logx.Nop())

	docs := ix.Build()
	byFile := map[string]Document{}
	for _, d := range docs {
		byFile[d.File] = d
	}

	if len(docs) != 4 {
		t.Fatalf("expected 4 documents, got %d: %+v", len(docs), docs)
	}
	if d := byFile["memory/projects.md"]; d.Type != "memory" {
		t.Fatalf("missing memory dir doc: %+v", docs)
	}
	if d := byFile["MEMORY.md"]; d.Type != "memory" {
		t.Fatalf("root memory file should be type memory: %+v", d)
	}
	if d := byFile["todo.md"]; d.Type != "notes" {
		t.Fatalf("notes doc missing: %+v", docs)
	}
	if d := byFile["session/fedcba98..."]; d.Type != "session" || d.Content != "session text" {
		t.Fatalf("session doc wrong: %+v", d)
	}
}

func TestBuildEmptySources(t *testing.T) {
	t.Parallel()
	ix := New(Config{}, nil, logx.Nop())
	if docs := ix.Build(); len(docs) != 0 {
		t.Fatalf("expected empty index, got %d docs", len(docs))
	}
}

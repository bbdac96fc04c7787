// Package report writes dashboard snapshot files. Every file is replaced
// atomically (temp file + rename) so the dashboard never reads a torn JSON
// document mid-generation.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"opsnap/pkg/logx"
)

type Writer struct {
	log logx.Logger
	dir string
}

func NewWriter(dir string, log logx.Logger) *Writer {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Writer{log: log, dir: dir}
}

func (w *Writer) Dir() string { return w.dir }

// WriteJSON marshals v (two-space indent, the dashboard's diff-friendly
// format) and atomically replaces <dir>/<name>.
func (w *Writer) WriteJSON(name string, v any) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	b = append(b, '\n')

	final := filepath.Join(w.dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	w.log.Debug("snapshot written", logx.String("file", final), logx.Int("bytes", len(b)))
	return nil
}

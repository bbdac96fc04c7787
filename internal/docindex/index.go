// Package docindex builds the dashboard's client-side search index: memory
// files, loose notes, and recent session transcripts, each as one document
// with its full (capped) text content.
package docindex

import (
	"os"
	"path/filepath"
	"strings"

	"opsnap/internal/session"
	"opsnap/pkg/logx"
)

// Document is one searchable entry.
type Document struct {
	File    string `json:"file"`
	Type    string `json:"type"` // "memory" | "notes" | "session"
	Content string `json:"content"`
}

const (
	// defaultMaxSessions bounds how many transcripts get indexed.
	defaultMaxSessions = 20

	// sessionContentCap keeps a single huge transcript from dominating the
	// index payload, in runes.
	sessionContentCap = 10000
)

// Config points the indexer at its source trees. Empty paths disable the
// corresponding source.
type Config struct {
	MemoryDir   string // per-topic memory files (*.md)
	MemoryFile  string // the root memory file
	NotesDir    string // loose notes (*.md, root memory file excluded)
	MaxSessions int
}

type Indexer struct {
	log      logx.Logger
	cfg      Config
	sessions *session.Scanner
}

// New creates an indexer. sessions may be nil to skip transcript indexing.
func New(cfg Config, sessions *session.Scanner, log logx.Logger) *Indexer {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Indexer{log: log, cfg: cfg, sessions: sessions}
}

// Build assembles the index. Unreadable files are skipped with a warning;
// the index is always best-effort.
func (ix *Indexer) Build() []Document {
	out := []Document{}
	out = append(out, ix.memoryDocs()...)
	out = append(out, ix.notesDocs()...)
	out = append(out, ix.sessionDocs()...)
	return out
}

func (ix *Indexer) memoryDocs() []Document {
	var out []Document
	if dir := ix.cfg.MemoryDir; dir != "" {
		for _, path := range markdownFiles(dir) {
			content, err := os.ReadFile(path)
			if err != nil {
				ix.log.Warn("memory file unreadable", logx.String("path", path), logx.Err(err))
				continue
			}
			out = append(out, Document{
				File:    "memory/" + filepath.Base(path),
				Type:    "memory",
				Content: string(content),
			})
		}
	}
	if path := ix.cfg.MemoryFile; path != "" {
		content, err := os.ReadFile(path)
		if err == nil {
			out = append(out, Document{
				File:    filepath.Base(path),
				Type:    "memory",
				Content: string(content),
			})
		}
	}
	return out
}

func (ix *Indexer) notesDocs() []Document {
	dir := ix.cfg.NotesDir
	if dir == "" {
		return nil
	}
	var out []Document
	for _, path := range markdownFiles(dir) {
		// The root memory file usually lives in the notes dir; it is already
		// indexed as memory.
		if ix.cfg.MemoryFile != "" && filepath.Base(path) == filepath.Base(ix.cfg.MemoryFile) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			ix.log.Warn("notes file unreadable", logx.String("path", path), logx.Err(err))
			continue
		}
		out = append(out, Document{
			File:    filepath.Base(path),
			Type:    "notes",
			Content: string(content),
		})
	}
	return out
}

func (ix *Indexer) sessionDocs() []Document {
	if ix.sessions == nil {
		return nil
	}
	var out []Document
	for _, path := range ix.sessions.RecentFiles(ix.cfg.MaxSessions) {
		content := session.Text(path, sessionContentCap)
		if content == "" {
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		label := stem
		if len(label) > 8 {
			label = label[:8]
		}
		out = append(out, Document{
			File:    "session/" + label + "...",
			Type:    "session",
			Content: content,
		})
	}
	return out
}

// markdownFiles lists *.md files directly under dir, sorted by name
// (os.ReadDir order). A missing dir yields nil.
func markdownFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out
}

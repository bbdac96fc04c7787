// Package session extracts dashboard activity from agent session transcripts.
//
// Transcripts are JSON Lines files, one event per line. Extraction is
// strictly best-effort: a line that fails to decode, or a field with an
// unexpected shape, is skipped without failing the scan. Upstream formats are
// not validated here.
package session

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"opsnap/pkg/logx"
)

// Scanner reads recent session transcripts from a directory.
type Scanner struct {
	log logx.Logger
	dir string
	max int

	// warnRate throttles per-line decode warnings; a corrupt transcript can
	// have thousands of bad lines.
	warnRate rate.Sometimes
}

func NewScanner(dir string, maxSessions int, log logx.Logger) *Scanner {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Scanner{
		log:      log,
		dir:      dir,
		max:      maxSessions,
		warnRate: rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}
}

// transcriptLine is the subset of a transcript event the feed cares about.
type transcriptLine struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Message   struct {
		Role    string        `json:"role"`
		Content []contentPart `json:"content"`
	} `json:"message"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`

	// toolCall fields
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Scan reads the newest transcripts and returns their activities sorted
// newest-first. A missing directory yields an empty result, not an error.
func (s *Scanner) Scan() []Activity {
	files := s.recentFiles(s.max)
	var out []Activity
	for _, path := range files {
		out = append(out, s.scanFile(path)...)
	}
	// Timestamps are ISO-8601 strings, so lexicographic order is
	// chronological order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// recentFiles returns up to max transcript paths, newest mtime first.
func (s *Scanner) recentFiles(max int) []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Debug("session dir unavailable", logx.String("dir", s.dir), logx.Err(err))
		return nil
	}
	type fileInfo struct {
		path string
		mod  time.Time
	}
	var files []fileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{path: filepath.Join(s.dir, e.Name()), mod: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod.After(files[j].mod) })
	if len(files) > max {
		files = files[:max]
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.path)
	}
	return out
}

func (s *Scanner) scanFile(path string) []Activity {
	f, err := os.Open(path)
	if err != nil {
		s.log.Warn("transcript open failed", logx.String("path", path), logx.Err(err))
		return nil
	}
	defer f.Close()

	session := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var out []Activity
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var entry transcriptLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			s.warnRate.Do(func() {
				s.log.Warn("skipping malformed transcript line", logx.String("session", session), logx.Err(err))
			})
			continue
		}
		if entry.Type != "message" {
			continue
		}
		switch entry.Message.Role {
		case "assistant":
			out = append(out, extractAssistant(entry, session)...)
		case "user":
			out = append(out, extractUser(entry, session)...)
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Warn("transcript read failed", logx.String("path", path), logx.Err(err))
	}
	return out
}

// extractAssistant turns tool calls into "tool" activities and non-trivial
// text into a "message" activity.
func extractAssistant(entry transcriptLine, session string) []Activity {
	var out []Activity
	var text strings.Builder
	for _, part := range entry.Message.Content {
		switch part.Type {
		case "text":
			text.WriteString(part.Text)
		case "toolCall":
			out = append(out, Activity{
				Type:      "tool",
				Content:   toolCallSummary(part),
				Timestamp: entry.Timestamp,
				Session:   session,
			})
		}
	}
	msg := strings.TrimSpace(text.String())
	if len(msg) > minMessageLen {
		out = append(out, Activity{
			Type:      "message",
			Content:   truncateRunes(msg, messageContentCap, true),
			Timestamp: entry.Timestamp,
			Session:   session,
		})
	}
	return out
}

// extractUser surfaces inbound chat relay messages (tagged "Telegram" by the
// upstream bridge) so the feed shows what triggered a session.
func extractUser(entry transcriptLine, session string) []Activity {
	var out []Activity
	for _, part := range entry.Message.Content {
		if part.Type != "text" {
			continue
		}
		text := truncateRunes(part.Text, inboxContentCap, false)
		if text == "" || !strings.Contains(text, "Telegram") {
			continue
		}
		out = append(out, Activity{
			Type:      "message",
			Content:   "📨 " + text,
			Timestamp: entry.Timestamp,
			Session:   session,
		})
	}
	return out
}

// toolCallSummary renders "name: arg" where arg is the command or path from
// the call's arguments, when they have one. Arguments of any other shape
// collapse to just the tool name.
func toolCallSummary(part contentPart) string {
	name := part.Name
	if name == "" {
		name = "unknown"
	}
	if len(part.Arguments) == 0 {
		return name
	}
	var args map[string]any
	if err := json.Unmarshal(part.Arguments, &args); err != nil {
		return name
	}
	if cmd, ok := args["command"].(string); ok && cmd != "" {
		return name + ": " + truncateRunes(cmd, toolArgPreviewCap, false)
	}
	if path, ok := args["path"].(string); ok && path != "" {
		return name + ": " + path
	}
	return name
}

// truncateRunes caps s at n runes. With ellipsis, a truncated string gets a
// "..." suffix (on top of the cap, matching the feed's display contract).
func truncateRunes(s string, n int, ellipsis bool) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if ellipsis {
		return string(r[:n]) + "..."
	}
	return string(r[:n])
}

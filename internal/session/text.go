package session

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// Text returns the concatenated text parts of one transcript, capped at
// maxRunes, for full-text indexing. Malformed lines are skipped.
func Text(path string, maxRunes int) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var parts []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var entry transcriptLine
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			continue
		}
		if entry.Type != "message" {
			continue
		}
		for _, part := range entry.Message.Content {
			if part.Type == "text" && part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	return truncateRunes(strings.Join(parts, "\n"), maxRunes, false)
}

// RecentFiles exposes transcript discovery for the document indexer, which
// shares the "newest N transcripts" policy with the activity feed.
func (s *Scanner) RecentFiles(max int) []string {
	return s.recentFiles(max)
}

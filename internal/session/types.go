package session

// Activity is one row of the dashboard activity feed.
//
// Timestamp is the transcript's own ISO-8601 string, passed through verbatim:
// the feed only needs a sortable display value, not parsed time.
type Activity struct {
	Type      string `json:"type"` // "tool" | "message"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Session   string `json:"session"`
}

const (
	// defaultMaxSessions bounds how many transcripts (newest first) a scan reads.
	defaultMaxSessions = 30

	// Display caps, in runes.
	messageContentCap = 200
	toolArgPreviewCap = 100
	inboxContentCap   = 150

	// minMessageLen filters out trivial assistant responses ("ok", "done").
	minMessageLen = 5
)

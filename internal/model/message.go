package model

import "time"

// Message is a canonical, normalized message record. It is immutable once
// produced by the archive normalizer; every downstream computation works on
// this shape regardless of whether the record came from a ZIP entry, a single
// JSON file or an in-memory upload.
type Message struct {
	Sender      string `json:"sender"`
	TimestampMs int64  `json:"timestamp_ms"`
	Content     string `json:"content,omitempty"`
	ShareLink   string `json:"share_link,omitempty"`
	HasMedia    bool   `json:"has_media,omitempty"`
}

// HasTimestamp reports whether the message carries a usable timestamp.
// Messages without one are excluded from all time-based computations but
// still participate in count-based ones.
func (m *Message) HasTimestamp() bool {
	return m != nil && m.TimestampMs > 0
}

// Time converts the epoch-millisecond timestamp. Zero time when absent.
func (m *Message) Time() time.Time {
	if !m.HasTimestamp() {
		return time.Time{}
	}
	return time.UnixMilli(m.TimestampMs)
}

// Conversation is a one-to-one chat between the owning user and a single
// other identity. Group chats are filtered out at the extraction layer and
// never reach the analyzer.
type Conversation struct {
	ID       string     `json:"id"`
	Owner    string     `json:"owner"`
	Other    string     `json:"other"`
	Messages []*Message `json:"messages"`

	// Folder is the chat directory inside the export this conversation was
	// read from, kept for diagnostics and on-demand detail lookups.
	Folder string `json:"chat_folder,omitempty"`
	Files  int    `json:"message_files,omitempty"`
}

package model

import "time"

// Relationship is the lightweight listing entry for one conversation inside
// a session, available before any analysis has run.
type Relationship struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Folder        string `json:"chat_folder,omitempty"`
	MessageFiles  int    `json:"message_files"`
	TotalMessages int    `json:"total_messages"`
	Analyzed      bool   `json:"analyzed"`
}

// Session holds one ingested export for the lifetime of an analysis run.
// Conversations are keyed by relationship id. A session is never mutated
// after registration, so concurrent readers can share one instance.
type Session struct {
	ID            string                   `json:"id"`
	Owner         string                   `json:"owner"`
	Fingerprint   string                   `json:"fingerprint,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	Relationships []*Relationship          `json:"relationships"`
	Conversations map[string]*Conversation `json:"-"`
}

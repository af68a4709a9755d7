package model

import "time"

// WordCount is a single entry of a frequency list.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// HourCount buckets messages by local hour of day (0-23).
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DayCount buckets messages by weekday name.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// TimingStats describes when one side of a relationship tends to write.
// Peak ties break deterministically: the smallest hour wins, and the
// earliest weekday in Sunday..Saturday order wins.
type TimingStats struct {
	PeakHour int         `json:"peak_hour"`
	PeakDay  string      `json:"peak_day"`
	Hourly   []HourCount `json:"hourly"`
	Daily    []DayCount  `json:"daily"`
}

// ResponseBucket is one category of the response-time distribution.
type ResponseBucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ResponseStats is the per-side response-time distribution. Thresholds in
// seconds: instant <60, quick <300, normal <3600, slow <86400, very_slow
// everything above.
type ResponseStats struct {
	Count      int            `json:"count"`
	AvgSeconds float64        `json:"avg_seconds"`
	Instant    ResponseBucket `json:"instant"`
	Quick      ResponseBucket `json:"quick"`
	Normal     ResponseBucket `json:"normal"`
	Slow       ResponseBucket `json:"slow"`
	VerySlow   ResponseBucket `json:"very_slow"`
}

// SharedContent tallies classifier outcomes for shared links per side.
type SharedContent struct {
	Posts        int `json:"posts"`
	Reels        int `json:"reels"`
	Stories      int `json:"stories"`
	StoryReplies int `json:"story_replies"`
	OtherLinks   int `json:"other_links"`
	Total        int `json:"total"`
}

// LengthStats summarizes plain-text message lengths for one side.
type LengthStats struct {
	AvgLength float64 `json:"avg_length"`
	Longest   int     `json:"longest"`
}

// EmojiStats summarizes emoji usage extracted from plain-text content.
type EmojiStats struct {
	Total  int         `json:"total"`
	Unique int         `json:"unique"`
	Top    []WordCount `json:"top"`
}

// SideStats groups every per-participant metric of a relationship.
type SideStats struct {
	Messages   int           `json:"messages"`
	Percentage float64       `json:"percentage"`
	Words      []WordCount   `json:"words"`
	Lengths    LengthStats   `json:"lengths"`
	Timing     TimingStats   `json:"timing"`
	Response   ResponseStats `json:"response"`
	Shared     SharedContent `json:"shared"`
	Emojis     EmojiStats    `json:"emojis"`
}

// Gap is a span exceeding 24 hours between two consecutive timestamped
// messages, irrespective of sender.
type Gap struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
	DurationDays  float64   `json:"duration_days"`
}

// RelationshipAnalysis is the full derived view of a single one-to-one
// relationship. It is immutable after the analyzer returns it; the analysis
// cache stores it verbatim.
type RelationshipAnalysis struct {
	RelationshipID string     `json:"relationship_id"`
	Owner          string     `json:"owner"`
	Other          string     `json:"other"`
	TotalMessages  int        `json:"total_messages"`
	FirstMessage   *time.Time `json:"first_message,omitempty"`
	LastMessage    *time.Time `json:"last_message,omitempty"`
	DurationDays   float64    `json:"duration_days"`
	MessagesPerDay float64    `json:"messages_per_day"`
	OwnerStats     SideStats  `json:"owner_stats"`
	OtherStats     SideStats  `json:"other_stats"`
	Gaps           []Gap      `json:"conversation_gaps"`
	GapCount       int        `json:"gap_count"`
	Intensity      int        `json:"intensity"`
	Rating         string     `json:"rating"`
}

package model

import "time"

// SearchRequest holds the parameters of one full-text query over a session's
// messages. Start and End are a closed interval; zero values disable the
// time filter. Relationship and Sender accept comma-separated lists.
type SearchRequest struct {
	SessionID    string    `json:"session_id"`
	Query        string    `json:"query"`
	Relationship string    `json:"relationship"`
	Sender       string    `json:"sender"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Limit        int       `json:"limit"`
	Offset       int       `json:"offset"`
}

// Clone returns a shallow copy so layers can adjust parameters without
// mutating the caller's request.
func (r *SearchRequest) Clone() *SearchRequest {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// SearchHit is one matched message with its highlight snippet. Score is the
// index relevance score; larger means more relevant.
type SearchHit struct {
	RelationshipID string   `json:"relationship_id"`
	Message        *Message `json:"message"`
	Snippet        string   `json:"snippet,omitempty"`
	Score          float64  `json:"score"`
}

// SearchResponse aggregates search results with the effective paging values.
type SearchResponse struct {
	Total      int          `json:"total"`
	Hits       []*SearchHit `json:"hits"`
	DurationMs int64        `json:"duration_ms"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
	Query      string       `json:"query"`
}

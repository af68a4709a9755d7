package indexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/instalens/instalens/internal/model"
)

// Index wraps a Bleve index over one session's normalized messages with
// concurrency control. Sessions are short-lived, so the default is an
// in-memory index built at ingest time.
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
}

// NewMemOnly creates a fresh in-memory index with the message mapping.
func NewMemOnly() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Close closes the underlying Bleve index.
func (i *Index) Close() error {
	if i == nil {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.idx == nil {
		return nil
	}
	err := i.idx.Close()
	i.idx = nil
	return err
}

// IndexConversation indexes every message of a conversation in batches.
// Document ids combine the relationship id and the message position.
func (i *Index) IndexConversation(conv *model.Conversation) error {
	if conv == nil || len(conv.Messages) == 0 {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.idx == nil {
		return errors.New("index not initialized")
	}

	batch := i.idx.NewBatch()
	const batchSize = 250
	for pos, msg := range conv.Messages {
		doc, err := newDocument(conv.ID, pos, msg)
		if err != nil {
			return err
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("batch index: %w", err)
		}
		if (pos+1)%batchSize == 0 {
			if err := i.idx.Batch(batch); err != nil {
				return fmt.Errorf("flush batch: %w", err)
			}
			batch = i.idx.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := i.idx.Batch(batch); err != nil {
			return fmt.Errorf("flush final batch: %w", err)
		}
	}
	return nil
}

// Search runs a full-text query with optional relationship, sender and time
// filters and maps hits back to domain messages.
func (i *Index) Search(req *model.SearchRequest) (*model.SearchResponse, error) {
	if req == nil {
		return nil, errors.New("search request is nil")
	}
	started := time.Now()

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	queryObj := buildQuery(req)
	resp := &model.SearchResponse{
		Hits:   []*model.SearchHit{},
		Limit:  limit,
		Offset: offset,
		Query:  req.Query,
	}
	if queryObj == nil {
		return resp, nil
	}

	i.mu.RLock()
	idx := i.idx
	i.mu.RUnlock()
	if idx == nil {
		return nil, errors.New("index not initialized")
	}

	searchRequest := bleve.NewSearchRequestOptions(queryObj, limit, offset, false)
	searchRequest.Highlight = bleve.NewHighlightWithStyle("html")
	searchRequest.Fields = []string{"relationship", "message_json"}

	result, err := idx.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	for _, hit := range result.Hits {
		messageJSON, ok := hit.Fields["message_json"].(string)
		if !ok || messageJSON == "" {
			continue
		}
		var msg model.Message
		if err := json.Unmarshal([]byte(messageJSON), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		relationship, _ := hit.Fields["relationship"].(string)

		snippet := ""
		if frags, ok := hit.Fragments["content"]; ok && len(frags) > 0 {
			snippet = strings.Join(frags, " … ")
		}
		resp.Hits = append(resp.Hits, &model.SearchHit{
			RelationshipID: relationship,
			Message:        &msg,
			Snippet:        snippet,
			Score:          hit.Score,
		})
	}
	resp.Total = int(result.Total)
	resp.DurationMs = time.Since(started).Milliseconds()
	return resp, nil
}

// document is the representation stored inside Bleve.
type document struct {
	ID           string `json:"id"`
	Relationship string `json:"relationship"`
	Sender       string `json:"sender"`
	Unix         int64  `json:"unix"`
	Content      string `json:"content"`
	MessageJSON  string `json:"message_json"`
}

func newDocument(relationshipID string, pos int, msg *model.Message) (*document, error) {
	if msg == nil {
		return nil, errors.New("nil message")
	}
	messageJSON, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return &document{
		ID:           fmt.Sprintf("%s:%d", relationshipID, pos),
		Relationship: relationshipID,
		Sender:       msg.Sender,
		Unix:         msg.TimestampMs / 1000,
		Content:      msg.Content,
		MessageJSON:  string(messageJSON),
	}, nil
}

func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "standard"

	docMapping := mapping.NewDocumentMapping()

	contentField := mapping.NewTextFieldMapping()
	contentField.Analyzer = "standard"
	contentField.Store = false
	docMapping.AddFieldMappingsAt("content", contentField)

	relationshipField := mapping.NewTextFieldMapping()
	relationshipField.Analyzer = "keyword"
	relationshipField.Store = true
	relationshipField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("relationship", relationshipField)

	senderField := mapping.NewTextFieldMapping()
	senderField.Analyzer = "keyword"
	senderField.Store = true
	senderField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("sender", senderField)

	unixField := mapping.NewNumericFieldMapping()
	unixField.Store = true
	docMapping.AddFieldMappingsAt("unix", unixField)

	messageField := mapping.NewTextFieldMapping()
	messageField.Analyzer = "keyword"
	messageField.Store = true
	messageField.Index = false
	docMapping.AddFieldMappingsAt("message_json", messageField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func buildQuery(req *model.SearchRequest) query.Query {
	var must []query.Query
	if contentQuery := buildContentQuery(req.Query); contentQuery != nil {
		must = append(must, contentQuery)
	}
	if rels := splitList(req.Relationship); len(rels) > 0 {
		if q := buildTermsFilter("relationship", rels); q != nil {
			must = append(must, q)
		}
	}
	if senders := splitList(req.Sender); len(senders) > 0 {
		if q := buildTermsFilter("sender", senders); q != nil {
			must = append(must, q)
		}
	}
	if !req.Start.IsZero() || !req.End.IsZero() {
		var minPtr, maxPtr *float64
		if !req.Start.IsZero() {
			min := float64(req.Start.Unix())
			minPtr = &min
		}
		if !req.End.IsZero() {
			max := float64(req.End.Unix())
			maxPtr = &max
		}
		rangeQuery := query.NewNumericRangeQuery(minPtr, maxPtr)
		rangeQuery.SetField("unix")
		must = append(must, rangeQuery)
	}

	if len(must) == 0 {
		return nil
	}
	if len(must) == 1 {
		return must[0]
	}
	return query.NewConjunctionQuery(must)
}

func buildContentQuery(input string) query.Query {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}

	upper := strings.ToUpper(s)
	advanced := strings.ContainsAny(s, "\"'*()") ||
		strings.Contains(upper, " AND ") ||
		strings.Contains(upper, " OR ") ||
		strings.HasPrefix(upper, "NOT ")
	if advanced {
		return query.NewQueryStringQuery(s)
	}

	tokens := strings.Fields(s)
	conj := make([]query.Query, 0, len(tokens))
	for _, token := range tokens {
		mq := query.NewMatchQuery(token)
		mq.SetField("content")
		conj = append(conj, mq)
	}
	if len(conj) == 0 {
		return nil
	}
	if len(conj) == 1 {
		return conj[0]
	}
	return query.NewConjunctionQuery(conj)
}

func buildTermsFilter(field string, values []string) query.Query {
	sanitized := make([]query.Query, 0, len(values))
	for _, val := range values {
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			continue
		}
		tq := query.NewTermQuery(trimmed)
		tq.SetField(field)
		sanitized = append(sanitized, tq)
	}
	if len(sanitized) == 0 {
		return nil
	}
	if len(sanitized) == 1 {
		return sanitized[0]
	}
	return query.NewDisjunctionQuery(sanitized)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

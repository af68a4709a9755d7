package instalens

import (
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/instalens/instalens/internal/analysis"
	"github.com/instalens/instalens/internal/archive"
	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/indexer"
	"github.com/instalens/instalens/internal/instalens/conf"
	"github.com/instalens/instalens/internal/model"
	"github.com/instalens/instalens/internal/store"
)

// App owns the ingestion pipeline, the analyzer and the per session state.
// HTTP handlers, MCP tools and the TUI all go through it.
type App struct {
	cfg      *conf.Config
	sessions store.SessionStore
	cache    store.AnalysisCache
	analyzer *analysis.Analyzer
	watcher  *archive.Watcher

	mu      sync.RWMutex
	indexes map[string]*indexer.Index
}

func New(cfg *conf.Config) (*App, error) {
	loc := time.Local
	if cfg.Analysis.Timezone != "" {
		l, err := time.LoadLocation(cfg.Analysis.Timezone)
		if err != nil {
			return nil, errors.InvalidArg("analysis.timezone").Wrap(err)
		}
		loc = l
	}

	analyzer := analysis.New(analysis.Options{
		TopWords:       cfg.Analysis.TopWords,
		ExtraStopwords: cfg.Analysis.ExtraStopwords,
		TopEmojis:      cfg.Analysis.TopEmojis,
		Location:       loc,
	})

	cache, err := newCache(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		sessions: store.NewMemorySessions(cfg.Cache.TTL()),
		cache:    cache,
		analyzer: analyzer,
		indexes:  make(map[string]*indexer.Index),
	}

	if cfg.Watch.Enabled {
		w, err := archive.NewWatcher(cfg.Watch.Dir, app.onWatchedExport)
		if err != nil {
			cache.Close()
			app.sessions.Close()
			return nil, err
		}
		app.watcher = w
	}
	return app, nil
}

func newCache(cfg *conf.Config) (store.AnalysisCache, error) {
	if cfg.Cache.Backend != "sqlite" {
		return store.NewMemoryCache(cfg.Cache.TTL()), nil
	}
	path := cfg.Cache.Path
	if !filepath.IsAbs(path) && cfg.WorkDir != "" {
		path = filepath.Join(cfg.WorkDir, path)
	}
	return store.NewSQLiteCache(path, cfg.Cache.TTL())
}

// Start launches background components. Safe to call when none are enabled.
func (a *App) Start() {
	if a.watcher != nil {
		a.watcher.Start()
	}
}

func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.mu.Lock()
	for id, idx := range a.indexes {
		idx.Close()
		delete(a.indexes, id)
	}
	a.mu.Unlock()
	a.cache.Close()
	return a.sessions.Close()
}

func (a *App) onWatchedExport(path string) {
	owner := a.cfg.Watch.Owner
	if owner == "" {
		log.Warn().Str("path", path).Msg("watch.owner not configured, skipping export")
		return
	}
	if _, err := a.IngestZip(path, owner); err != nil {
		log.Err(err).Str("path", path).Msg("failed to ingest watched export")
	}
}

// IngestZip loads an export archive and registers a session for it. A
// re-uploaded archive with a known fingerprint reuses the existing session.
func (a *App) IngestZip(zipPath, owner string) (*model.Session, error) {
	if fp, err := archive.FingerprintFile(zipPath); err == nil {
		if sess, ok := a.sessions.FindByFingerprint(fp); ok {
			log.Info().Str("session", sess.ID).Msg("reusing session for identical archive")
			return sess, nil
		}
	}

	export, err := archive.LoadZip(zipPath, owner)
	if err != nil {
		return nil, err
	}
	return a.registerSession(export)
}

// IngestConversationFile registers a single-conversation session from a raw
// chat JSON document.
func (a *App) IngestConversationFile(jsonPath, owner string) (*model.Session, error) {
	export, err := archive.LoadConversationFile(jsonPath, owner)
	if err != nil {
		return nil, err
	}
	return a.registerSession(export)
}

func (a *App) registerSession(export *archive.Export) (*model.Session, error) {
	sess := &model.Session{
		ID:            uuid.NewString(),
		Owner:         export.Owner,
		Fingerprint:   export.Fingerprint,
		CreatedAt:     time.Now(),
		Conversations: make(map[string]*model.Conversation, len(export.Conversations)),
	}
	for _, conv := range export.Conversations {
		sess.Conversations[conv.ID] = conv
		sess.Relationships = append(sess.Relationships, &model.Relationship{
			ID:            conv.ID,
			Name:          conv.Other,
			Folder:        conv.Folder,
			MessageFiles:  conv.Files,
			TotalMessages: len(conv.Messages),
		})
	}
	sort.Slice(sess.Relationships, func(i, j int) bool {
		if sess.Relationships[i].TotalMessages == sess.Relationships[j].TotalMessages {
			return sess.Relationships[i].Name < sess.Relationships[j].Name
		}
		return sess.Relationships[i].TotalMessages > sess.Relationships[j].TotalMessages
	})

	if err := a.sessions.Put(sess); err != nil {
		return nil, err
	}

	if a.cfg.Index.Enabled {
		if err := a.buildIndex(sess); err != nil {
			log.Err(err).Str("session", sess.ID).Msg("failed to build message index")
		}
	}

	log.Info().
		Str("session", sess.ID).
		Str("owner", sess.Owner).
		Int("relationships", len(sess.Relationships)).
		Msg("session registered")
	return sess, nil
}

func (a *App) buildIndex(sess *model.Session) error {
	idx, err := indexer.NewMemOnly()
	if err != nil {
		return err
	}
	for _, conv := range sess.Conversations {
		if err := idx.IndexConversation(conv); err != nil {
			idx.Close()
			return err
		}
	}
	a.mu.Lock()
	if old, ok := a.indexes[sess.ID]; ok {
		old.Close()
	}
	a.indexes[sess.ID] = idx
	a.mu.Unlock()
	return nil
}

// session returns the live registered session. Its contents are never
// mutated after registration, so concurrent readers need no lock; callers
// must not modify what they get back.
func (a *App) session(id string) (*model.Session, error) {
	sess, ok := a.sessions.Get(id)
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return sess, nil
}

// Session returns a snapshot of a registered session with per-relationship
// analyzed flags filled in, or ErrSessionNotFound.
func (a *App) Session(id string) (*model.Session, error) {
	sess, err := a.session(id)
	if err != nil {
		return nil, err
	}
	rels, err := a.Relationships(id)
	if err != nil {
		return nil, err
	}
	view := *sess
	view.Relationships = rels
	view.Conversations = nil
	return &view, nil
}

// Relationships lists the relationships of a session, largest first. Each
// entry is a fresh copy with the analyzed flag derived from the cache, so
// callers can hold or encode the result without synchronization.
func (a *App) Relationships(sessionID string) ([]*model.Relationship, error) {
	sess, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	rels := make([]*model.Relationship, 0, len(sess.Relationships))
	for _, r := range sess.Relationships {
		c := *r
		c.Analyzed = a.cache.Has(sessionID, r.ID)
		rels = append(rels, &c)
	}
	return rels, nil
}

// FindRelationships filters a session's relationships by case-insensitive
// substring match on the contact name. Entries are copies, as with
// Relationships.
func (a *App) FindRelationships(sessionID, query string) ([]*model.Relationship, error) {
	rels, err := a.Relationships(sessionID)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rels, nil
	}
	matched := make([]*model.Relationship, 0)
	for _, r := range rels {
		if strings.Contains(strings.ToLower(r.Name), q) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Analyze produces the full analysis for one relationship, memoized in the
// cache. Identical input always yields an identical result, so a cache hit
// and a fresh run are interchangeable.
func (a *App) Analyze(sessionID, relationshipID string) (*model.RelationshipAnalysis, error) {
	if cached, ok := a.cache.Get(sessionID, relationshipID); ok {
		return cached, nil
	}

	sess, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	conv, ok := sess.Conversations[relationshipID]
	if !ok {
		return nil, errors.ErrRelationshipNotFound
	}

	result, err := a.analyzer.Analyze(conv)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Put(sessionID, relationshipID, result); err != nil {
		log.Debug().Err(err).Msg("failed to cache analysis")
	}
	return result, nil
}

// Network analyzes every relationship of a session and aggregates the
// results. Relationships that cannot be analyzed are skipped and reported
// by id; the aggregate covers the rest.
func (a *App) Network(sessionID string) (*model.NetworkSummary, []string, error) {
	sess, err := a.session(sessionID)
	if err != nil {
		return nil, nil, err
	}

	analyses := make([]*model.RelationshipAnalysis, 0, len(sess.Relationships))
	var skipped []string
	for _, rel := range sess.Relationships {
		res, err := a.Analyze(sessionID, rel.ID)
		if err != nil {
			log.Debug().Err(err).Str("relationship", rel.ID).Msg("skipping relationship in aggregate")
			skipped = append(skipped, rel.ID)
			continue
		}
		analyses = append(analyses, res)
	}

	summary, err := analysis.Aggregate(analyses)
	if err != nil {
		return nil, skipped, err
	}
	return summary, skipped, nil
}

// Search runs a full-text query against a session's message index.
func (a *App) Search(req *model.SearchRequest) (*model.SearchResponse, error) {
	if req == nil || req.SessionID == "" {
		return nil, errors.InvalidArg("session")
	}
	if _, err := a.session(req.SessionID); err != nil {
		return nil, err
	}

	a.mu.RLock()
	idx, ok := a.indexes[req.SessionID]
	a.mu.RUnlock()
	if !ok {
		return nil, errors.New(http.StatusUnprocessableEntity, "session has no message index")
	}
	return idx.Search(req)
}

// DeleteSession drops a session with its cached analyses and index.
func (a *App) DeleteSession(id string) error {
	if _, err := a.session(id); err != nil {
		return err
	}
	a.mu.Lock()
	if idx, ok := a.indexes[id]; ok {
		idx.Close()
		delete(a.indexes, id)
	}
	a.mu.Unlock()
	if err := a.cache.Evict(id); err != nil {
		log.Debug().Err(err).Str("session", id).Msg("failed to evict cached analyses")
	}
	return a.sessions.Delete(id)
}

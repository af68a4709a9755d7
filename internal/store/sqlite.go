package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/instalens/instalens/internal/model"
)

const createCacheTable = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	session_id      TEXT NOT NULL,
	relationship_id TEXT NOT NULL,
	payload         BLOB NOT NULL,
	expires_at      INTEGER NOT NULL,
	PRIMARY KEY (session_id, relationship_id)
)`

// SQLiteCache is an AnalysisCache backed by a local SQLite file so cached
// analyses survive a service restart within their TTL.
type SQLiteCache struct {
	db   *sql.DB
	ttl  time.Duration
	done chan struct{}
}

func NewSQLiteCache(path string, ttl time.Duration) (*SQLiteCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, err
	}
	c := &SQLiteCache{db: db, ttl: ttl, done: make(chan struct{})}
	go c.janitor()
	return c, nil
}

func (c *SQLiteCache) Get(sessionID, relationshipID string) (*model.RelationshipAnalysis, bool) {
	var payload []byte
	var expiresAt int64
	err := c.db.QueryRow(
		`SELECT payload, expires_at FROM analysis_cache WHERE session_id = ? AND relationship_id = ?`,
		sessionID, relationshipID,
	).Scan(&payload, &expiresAt)
	if err != nil {
		return nil, false
	}
	if time.Now().Unix() > expiresAt {
		_, _ = c.db.Exec(`DELETE FROM analysis_cache WHERE session_id = ? AND relationship_id = ?`, sessionID, relationshipID)
		return nil, false
	}
	var analysis model.RelationshipAnalysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		log.Debug().Err(err).Msg("dropping undecodable cache entry")
		return nil, false
	}
	return &analysis, true
}

func (c *SQLiteCache) Has(sessionID, relationshipID string) bool {
	var expiresAt int64
	err := c.db.QueryRow(
		`SELECT expires_at FROM analysis_cache WHERE session_id = ? AND relationship_id = ?`,
		sessionID, relationshipID,
	).Scan(&expiresAt)
	return err == nil && time.Now().Unix() <= expiresAt
}

func (c *SQLiteCache) Put(sessionID, relationshipID string, a *model.RelationshipAnalysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO analysis_cache (session_id, relationship_id, payload, expires_at) VALUES (?, ?, ?, ?)`,
		sessionID, relationshipID, payload, time.Now().Add(c.ttl).Unix(),
	)
	return err
}

func (c *SQLiteCache) Evict(sessionID string) error {
	_, err := c.db.Exec(`DELETE FROM analysis_cache WHERE session_id = ?`, sessionID)
	return err
}

func (c *SQLiteCache) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return c.db.Close()
}

func (c *SQLiteCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			if _, err := c.db.Exec(`DELETE FROM analysis_cache WHERE expires_at < ?`, now.Unix()); err != nil {
				log.Debug().Err(err).Msg("cache janitor sweep failed")
			}
		}
	}
}

package store

import (
	"sync"
	"time"

	"github.com/instalens/instalens/internal/model"
)

// DefaultTTL bounds how long sessions and cached analyses outlive their
// last write when the configuration does not say otherwise.
const DefaultTTL = 24 * time.Hour

const janitorInterval = time.Minute

// MemorySessions is the in-memory SessionStore with TTL eviction.
type MemorySessions struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*sessionEntry
	done  chan struct{}
	once  sync.Once
}

type sessionEntry struct {
	session *model.Session
	expires time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemorySessions{
		ttl:   ttl,
		items: make(map[string]*sessionEntry),
		done:  make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemorySessions) Get(id string) (*model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.session, true
}

func (s *MemorySessions) Put(sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.ID] = &sessionEntry{session: sess, expires: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemorySessions) FindByFingerprint(fp string) (*model.Session, bool) {
	if fp == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	for _, e := range s.items {
		if e.session.Fingerprint == fp && now.Before(e.expires) {
			return e.session, true
		}
	}
	return nil, false
}

func (s *MemorySessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemorySessions) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemorySessions) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, e := range s.items {
				if now.After(e.expires) {
					delete(s.items, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// MemoryCache is the in-memory AnalysisCache with TTL eviction.
type MemoryCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]map[string]*cacheEntry
	done  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	analysis *model.RelationshipAnalysis
	expires  time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &MemoryCache{
		ttl:   ttl,
		items: make(map[string]map[string]*cacheEntry),
		done:  make(chan struct{}),
	}
	go c.janitor()
	return c
}

func (c *MemoryCache) Get(sessionID, relationshipID string) (*model.RelationshipAnalysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byRel, ok := c.items[sessionID]
	if !ok {
		return nil, false
	}
	e, ok := byRel[relationshipID]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.analysis, true
}

func (c *MemoryCache) Has(sessionID, relationshipID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[sessionID][relationshipID]
	return ok && time.Now().Before(e.expires)
}

func (c *MemoryCache) Put(sessionID, relationshipID string, a *model.RelationshipAnalysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	byRel, ok := c.items[sessionID]
	if !ok {
		byRel = make(map[string]*cacheEntry)
		c.items[sessionID] = byRel
	}
	byRel[relationshipID] = &cacheEntry{analysis: a, expires: time.Now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Evict(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, sessionID)
	return nil
}

func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *MemoryCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for sid, byRel := range c.items {
				for rid, e := range byRel {
					if now.After(e.expires) {
						delete(byRel, rid)
					}
				}
				if len(byRel) == 0 {
					delete(c.items, sid)
				}
			}
			c.mu.Unlock()
		}
	}
}

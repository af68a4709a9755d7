package store

import (
	"github.com/instalens/instalens/internal/model"
)

// AnalysisCache memoizes relationship analyses keyed by (session,
// relationship). At most one value per key, last write wins. Implementations
// must be safe for concurrent use and expire entries after their TTL; the
// surrounding service owns the cache and injects it into callers.
type AnalysisCache interface {
	Get(sessionID, relationshipID string) (*model.RelationshipAnalysis, bool)
	// Has reports whether a live entry exists without decoding it.
	Has(sessionID, relationshipID string) bool
	Put(sessionID, relationshipID string, a *model.RelationshipAnalysis) error
	Evict(sessionID string) error
	Close() error
}

// SessionStore keeps ingested sessions for the duration of an analysis run.
type SessionStore interface {
	Get(id string) (*model.Session, bool)
	Put(s *model.Session) error
	// FindByFingerprint locates an existing session for a re-uploaded
	// archive so it can be reused instead of re-ingested.
	FindByFingerprint(fp string) (*model.Session, bool)
	Delete(id string) error
	Close() error
}

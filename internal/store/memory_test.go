package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instalens/instalens/internal/model"
)

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	_, ok := c.Get("s1", "r1")
	assert.False(t, ok)

	a := &model.RelationshipAnalysis{RelationshipID: "r1", TotalMessages: 10}
	require.NoError(t, c.Put("s1", "r1", a))

	got, ok := c.Get("s1", "r1")
	require.True(t, ok)
	assert.Equal(t, a, got)

	assert.True(t, c.Has("s1", "r1"))
	assert.False(t, c.Has("s1", "r2"))

	// Other sessions do not see the entry.
	_, ok = c.Get("s2", "r1")
	assert.False(t, ok)
}

func TestMemoryCacheLastWriteWins(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	require.NoError(t, c.Put("s1", "r1", &model.RelationshipAnalysis{TotalMessages: 1}))
	require.NoError(t, c.Put("s1", "r1", &model.RelationshipAnalysis{TotalMessages: 2}))

	got, ok := c.Get("s1", "r1")
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalMessages)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Put("s1", "r1", &model.RelationshipAnalysis{}))
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("s1", "r1")
	assert.False(t, ok)
	assert.False(t, c.Has("s1", "r1"))
}

func TestMemoryCacheEvict(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	require.NoError(t, c.Put("s1", "r1", &model.RelationshipAnalysis{}))
	require.NoError(t, c.Put("s1", "r2", &model.RelationshipAnalysis{}))
	require.NoError(t, c.Put("s2", "r1", &model.RelationshipAnalysis{}))

	require.NoError(t, c.Evict("s1"))

	_, ok := c.Get("s1", "r1")
	assert.False(t, ok)
	_, ok = c.Get("s1", "r2")
	assert.False(t, ok)
	_, ok = c.Get("s2", "r1")
	assert.True(t, ok)
}

func TestMemorySessions(t *testing.T) {
	s := NewMemorySessions(time.Minute)
	defer s.Close()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	sess := &model.Session{ID: "s1", Owner: "Alice", Fingerprint: "fp-1"}
	require.NoError(t, s.Put(sess))

	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, sess, got)

	byFp, ok := s.FindByFingerprint("fp-1")
	require.True(t, ok)
	assert.Equal(t, sess, byFp)

	_, ok = s.FindByFingerprint("")
	assert.False(t, ok)

	require.NoError(t, s.Delete("s1"))
	_, ok = s.Get("s1")
	assert.False(t, ok)
}

func TestMemorySessionsExpiry(t *testing.T) {
	s := NewMemorySessions(10 * time.Millisecond)
	defer s.Close()

	require.NoError(t, s.Put(&model.Session{ID: "s1", Fingerprint: "fp"}))
	time.Sleep(30 * time.Millisecond)

	_, ok := s.Get("s1")
	assert.False(t, ok)
	_, ok = s.FindByFingerprint("fp")
	assert.False(t, ok)
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewMemorySessions(time.Minute)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	c := NewMemoryCache(time.Minute)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

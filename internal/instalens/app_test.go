package instalens

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/instalens/conf"
	"github.com/instalens/instalens/internal/model"
)

const appChatBob = `{
  "participants": [{"name": "Alice"}, {"name": "Bob"}],
  "messages": [
    {"sender_name": "Alice", "timestamp_ms": 1700000000000, "content": "planning the hiking trip"},
    {"sender_name": "Bob", "timestamp_ms": 1700000060000, "content": "sounds amazing, count me in"},
    {"sender_name": "Alice", "timestamp_ms": 1700000120000, "content": "great, bringing snacks"}
  ]
}`

const appChatCarol = `{
  "participants": [{"name": "Alice"}, {"name": "Carol"}],
  "messages": [
    {"sender_name": "Carol", "timestamp_ms": 1700000200000, "content": "coffee tomorrow?"}
  ]
}`

func writeTestZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func testExportZip(t *testing.T) string {
	return writeTestZip(t, map[string]string{
		"your_instagram_activity/messages/inbox/bob_1/message_1.json":   appChatBob,
		"your_instagram_activity/messages/inbox/carol_2/message_1.json": appChatCarol,
	})
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &conf.Config{
		Analysis: conf.AnalysisConfig{Timezone: "UTC"},
		Cache:    conf.CacheConfig{Backend: "memory"},
		Index:    conf.IndexConfig{Enabled: true},
	}
	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestIngestAndListRelationships(t *testing.T) {
	app := newTestApp(t)

	sess, err := app.IngestZip(testExportZip(t), "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Fingerprint)

	rels, err := app.Relationships(sess.ID)
	require.NoError(t, err)
	require.Len(t, rels, 2)
	// Largest conversation first.
	assert.Equal(t, "Bob", rels[0].Name)
	assert.Equal(t, 3, rels[0].TotalMessages)
	assert.Equal(t, "Carol", rels[1].Name)

	matched, err := app.FindRelationships(sess.ID, "car")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Carol", matched[0].Name)

	_, err = app.Relationships("no-such-session")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestIngestReusesSessionForSameArchive(t *testing.T) {
	app := newTestApp(t)
	path := testExportZip(t)

	first, err := app.IngestZip(path, "Alice")
	require.NoError(t, err)
	second, err := app.IngestZip(path, "Alice")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestAnalyzeIsCached(t *testing.T) {
	app := newTestApp(t)
	sess, err := app.IngestZip(testExportZip(t), "Alice")
	require.NoError(t, err)
	relID := sess.Relationships[0].ID

	first, err := app.Analyze(sess.ID, relID)
	require.NoError(t, err)

	rels, err := app.Relationships(sess.ID)
	require.NoError(t, err)
	assert.True(t, rels[0].Analyzed)
	assert.False(t, rels[1].Analyzed)

	// Mutating the conversation does not change the cached result.
	sess.Conversations[relID].Messages = sess.Conversations[relID].Messages[:1]
	second, err := app.Analyze(sess.ID, relID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, second.TotalMessages)

	_, err = app.Analyze(sess.ID, "missing")
	assert.ErrorIs(t, err, errors.ErrRelationshipNotFound)
}

func TestConcurrentAnalyzeAndList(t *testing.T) {
	app := newTestApp(t)
	sess, err := app.IngestZip(testExportZip(t), "Alice")
	require.NoError(t, err)
	relID := sess.Relationships[0].ID

	// Analyses and listings of the same session must not race: listings
	// return copies and the analyzed flag comes from the cache.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := app.Analyze(sess.ID, relID)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			rels, err := app.Relationships(sess.ID)
			if assert.NoError(t, err) {
				_, err = json.Marshal(rels)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	rels, err := app.Relationships(sess.ID)
	require.NoError(t, err)
	assert.True(t, rels[0].Analyzed)
}

func TestNetwork(t *testing.T) {
	app := newTestApp(t)
	sess, err := app.IngestZip(testExportZip(t), "Alice")
	require.NoError(t, err)

	summary, skipped, err := app.Network(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, 2, summary.TotalRelationships)
	assert.Equal(t, 4, summary.TotalMessages)
	assert.Equal(t, "Bob", summary.MostMessages[0].Other)
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)
	sess, err := app.IngestZip(testExportZip(t), "Alice")
	require.NoError(t, err)

	resp, err := app.Search(&model.SearchRequest{SessionID: sess.ID, Query: "hiking"})
	require.NoError(t, err)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "planning the hiking trip", resp.Hits[0].Message.Content)

	_, err = app.Search(&model.SearchRequest{SessionID: "missing", Query: "x"})
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	_, err = app.Search(nil)
	assert.Error(t, err)
}

func TestDeleteSession(t *testing.T) {
	app := newTestApp(t)
	sess, err := app.IngestZip(testExportZip(t), "Alice")
	require.NoError(t, err)

	require.NoError(t, app.DeleteSession(sess.ID))
	_, err = app.Session(sess.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	assert.ErrorIs(t, app.DeleteSession(sess.ID), errors.ErrSessionNotFound)
}

func TestIngestConversationFile(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "chat.json")
	require.NoError(t, os.WriteFile(path, []byte(appChatBob), 0o644))

	sess, err := app.IngestConversationFile(path, "Alice")
	require.NoError(t, err)
	require.Len(t, sess.Relationships, 1)
	assert.Equal(t, "Bob", sess.Relationships[0].Name)
}

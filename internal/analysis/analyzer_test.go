package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/model"
)

func testConversation() *model.Conversation {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	min := int64(60 * 1000)
	day := int64(24 * 3600 * 1000)

	msg := func(sender, content string, offset int64) *model.Message {
		return &model.Message{Sender: sender, Content: content, TimestampMs: base + offset}
	}

	return &model.Conversation{
		ID:    "rel-1",
		Owner: "Alice",
		Other: "Bob",
		Messages: []*model.Message{
			msg("Alice", "good morning bob, coffee later today", 0),
			msg("Bob", "morning alice, coffee sounds amazing", 2*min),
			msg("Alice", "amazing, meet at noon 😂", 4*min),
			{Sender: "Bob", Content: "", TimestampMs: base + 5*min, ShareLink: "https://www.instagram.com/reel/abc/"},
			msg("Bob", "Alice sent a photo.", 6*min),
			// Silence of two days, then a short exchange.
			msg("Bob", "hey still around", 2*day+7*min),
			msg("Alice", "yes sorry, busy week 😂😂", 2*day+9*min),
		},
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	a := New(Options{Location: time.UTC})
	result, err := a.Analyze(testConversation())
	require.NoError(t, err)

	assert.Equal(t, "rel-1", result.RelationshipID)
	assert.Equal(t, 7, result.TotalMessages)
	assert.Equal(t, 3, result.OwnerStats.Messages)
	assert.Equal(t, 4, result.OtherStats.Messages)
	assert.InDelta(t, 100.0, result.OwnerStats.Percentage+result.OtherStats.Percentage, 0.0001)

	require.NotNil(t, result.FirstMessage)
	require.NotNil(t, result.LastMessage)
	assert.InDelta(t, 2.0, result.DurationDays, 0.01)
	assert.Greater(t, result.MessagesPerDay, 0.0)

	// One silence above 24h between day 0 and day 2.
	assert.Equal(t, 1, result.GapCount)
	require.Len(t, result.Gaps, 1)
	assert.Greater(t, result.Gaps[0].DurationHours, 24.0)

	// Bob responded after 2min and 1min, Alice twice after 2min each.
	assert.Equal(t, 2, result.OtherStats.Response.Count)
	assert.Equal(t, 2, result.OwnerStats.Response.Count)
	assert.InDelta(t, 90.0, result.OtherStats.Response.AvgSeconds, 0.001)
	assert.InDelta(t, 120.0, result.OwnerStats.Response.AvgSeconds, 0.001)

	// The reel share and the photo placeholder are not words.
	assert.Equal(t, 1, result.OtherStats.Shared.Reels)
	assert.Equal(t, 1, result.OtherStats.Shared.Total)
	words := map[string]int{}
	for _, w := range result.OtherStats.Words {
		words[w.Word] = w.Count
	}
	assert.NotContains(t, words, "photo")
	assert.NotContains(t, words, "sent")
	assert.Contains(t, words, "coffee")
	// Bob's own name is suppressed from Bob's list but Alice's is counted.
	assert.NotContains(t, words, "bob")
	assert.Contains(t, words, "alice")

	// Emoji usage is per side.
	assert.Equal(t, 3, result.OwnerStats.Emojis.Total)
	assert.Equal(t, 1, result.OwnerStats.Emojis.Unique)
	assert.Equal(t, 0, result.OtherStats.Emojis.Total)

	assert.GreaterOrEqual(t, result.Intensity, 0)
	assert.LessOrEqual(t, result.Intensity, 100)
	assert.NotEmpty(t, result.Rating)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := New(Options{Location: time.UTC})

	first, err := a.Analyze(testConversation())
	require.NoError(t, err)
	second, err := a.Analyze(testConversation())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeEmptyConversation(t *testing.T) {
	a := New(Options{})

	_, err := a.Analyze(&model.Conversation{ID: "x", Owner: "a", Other: "b"})
	assert.ErrorIs(t, err, errors.ErrNoMessages)

	_, err = a.Analyze(nil)
	assert.ErrorIs(t, err, errors.ErrNoMessages)
}

func TestAnalyzeUnsortedInput(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	conv := &model.Conversation{
		ID:    "rel-2",
		Owner: "Alice",
		Other: "Bob",
		Messages: []*model.Message{
			{Sender: "Bob", Content: "reply", TimestampMs: base + 30_000},
			{Sender: "Alice", Content: "question", TimestampMs: base},
		},
	}

	a := New(Options{Location: time.UTC})
	result, err := a.Analyze(conv)
	require.NoError(t, err)

	// The later message answers the earlier one once sorted.
	assert.Equal(t, 1, result.OtherStats.Response.Count)
	assert.InDelta(t, 30.0, result.OtherStats.Response.AvgSeconds, 0.001)
	assert.Equal(t, base, result.FirstMessage.UnixMilli())
}

func TestAnalyzeMessagesWithoutTimestamps(t *testing.T) {
	conv := &model.Conversation{
		ID:    "rel-3",
		Owner: "Alice",
		Other: "Bob",
		Messages: []*model.Message{
			{Sender: "Alice", Content: "undated note"},
			{Sender: "Bob", Content: "also undated"},
		},
	}

	a := New(Options{Location: time.UTC})
	result, err := a.Analyze(conv)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalMessages)
	assert.Nil(t, result.FirstMessage)
	assert.Equal(t, 0.0, result.DurationDays)
	assert.Equal(t, 0, result.GapCount)
	// Timing falls back to the documented defaults.
	assert.Equal(t, 12, result.OwnerStats.Timing.PeakHour)
	assert.Equal(t, "Monday", result.OwnerStats.Timing.PeakDay)
}

func TestAnalyzeTopWordsOption(t *testing.T) {
	conv := testConversation()
	a := New(Options{TopWords: 1, Location: time.UTC})

	result, err := a.Analyze(conv)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.OwnerStats.Words), 1)
	assert.LessOrEqual(t, len(result.OtherStats.Words), 1)
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/model"
)

func relAnalysis(other string, total int, perDay, ownerPct, otherAvg float64, durationDays float64) *model.RelationshipAnalysis {
	a := &model.RelationshipAnalysis{
		Other:          other,
		TotalMessages:  total,
		MessagesPerDay: perDay,
		DurationDays:   durationDays,
	}
	a.OwnerStats.Percentage = ownerPct
	a.OtherStats.Percentage = 100 - ownerPct
	if otherAvg > 0 {
		a.OtherStats.Response.Count = 1
		a.OtherStats.Response.AvgSeconds = otherAvg
	}
	return a
}

func TestAggregateCategories(t *testing.T) {
	analyses := []*model.RelationshipAnalysis{
		relAnalysis("best", 1200, 3.0, 50, 30, 400),
		relAnalysis("close", 600, 1.5, 55, 60, 400),
		relAnalysis("regular", 250, 0.7, 60, 120, 350),
		relAnalysis("occasional", 80, 0.1, 70, 300, 800),
		relAnalysis("distant", 10, 0.01, 90, 0, 900),
		// High volume but low rate lands in occasional, not best.
		relAnalysis("slow-burn", 1100, 0.4, 50, 45, 2700),
	}

	summary, err := Aggregate(analyses)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalRelationships)
	assert.Equal(t, 1200+600+250+80+10+1100, summary.TotalMessages)

	names := func(list []*model.RelationshipAnalysis) []string {
		out := make([]string, 0, len(list))
		for _, a := range list {
			out = append(out, a.Other)
		}
		return out
	}

	assert.Equal(t, []string{"best"}, names(summary.Categories.Best))
	assert.Equal(t, []string{"close"}, names(summary.Categories.Close))
	assert.Equal(t, []string{"regular"}, names(summary.Categories.Regular))
	assert.Equal(t, []string{"occasional", "slow-burn"}, names(summary.Categories.Occasional))
	assert.Equal(t, []string{"distant"}, names(summary.Categories.Distant))
}

func TestAggregateRankings(t *testing.T) {
	analyses := []*model.RelationshipAnalysis{
		relAnalysis("a", 100, 1, 50, 300, 10),
		relAnalysis("b", 300, 1, 80, 30, 40),
		relAnalysis("c", 200, 1, 45, 0, 90), // never responded
	}

	summary, err := Aggregate(analyses)
	require.NoError(t, err)

	assert.Equal(t, "b", summary.MostMessages[0].Other)
	assert.Equal(t, "a", summary.MostBalanced[0].Other)
	assert.Equal(t, "c", summary.LongestDuration[0].Other)

	// c has no response data and is excluded from the responder ranking.
	require.Len(t, summary.FastestResponders, 2)
	assert.Equal(t, "b", summary.FastestResponders[0].Other)
	assert.Equal(t, "a", summary.FastestResponders[1].Other)
}

func TestAggregateTopTenCap(t *testing.T) {
	analyses := make([]*model.RelationshipAnalysis, 0, 15)
	for i := 0; i < 15; i++ {
		analyses = append(analyses, relAnalysis("x", 100+i, 1, 50, 60, 10))
	}

	summary, err := Aggregate(analyses)
	require.NoError(t, err)

	assert.Len(t, summary.MostMessages, 10)
	assert.Len(t, summary.FastestResponders, 10)
}

func TestAggregateStableTieBreak(t *testing.T) {
	first := relAnalysis("first", 100, 1, 50, 60, 10)
	second := relAnalysis("second", 100, 1, 50, 60, 10)

	summary, err := Aggregate([]*model.RelationshipAnalysis{first, second})
	require.NoError(t, err)

	// Equal on every key: input order is preserved.
	assert.Same(t, first, summary.MostMessages[0])
	assert.Same(t, second, summary.MostMessages[1])
	assert.Same(t, first, summary.MostBalanced[0])
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, errors.ErrNoData)
}

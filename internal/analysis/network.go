package analysis

import (
	"math"
	"sort"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/model"
)

const topListSize = 10

// Aggregate combines one owner's relationship analyses into the network
// summary: four top-10 rankings and the five-tier categorization. Ties keep
// the input order (stable sorts over copies of the input slice). Fails with
// ErrNoData on an empty collection.
func Aggregate(analyses []*model.RelationshipAnalysis) (*model.NetworkSummary, error) {
	if len(analyses) == 0 {
		return nil, errors.ErrNoData
	}

	summary := &model.NetworkSummary{
		TotalRelationships: len(analyses),
	}
	for _, a := range analyses {
		summary.TotalMessages += a.TotalMessages
	}

	summary.MostMessages = rank(analyses, func(a, b *model.RelationshipAnalysis) bool {
		return a.TotalMessages > b.TotalMessages
	})
	summary.MostBalanced = rank(analyses, func(a, b *model.RelationshipAnalysis) bool {
		return math.Abs(50-a.OwnerStats.Percentage) < math.Abs(50-b.OwnerStats.Percentage)
	})
	summary.LongestDuration = rank(analyses, func(a, b *model.RelationshipAnalysis) bool {
		return a.DurationDays > b.DurationDays
	})
	// Only relationships where the other side actually responded qualify;
	// a zero average from no data must not outrank real response times.
	responders := make([]*model.RelationshipAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if a.OtherStats.Response.Count > 0 {
			responders = append(responders, a)
		}
	}
	summary.FastestResponders = rank(responders, func(a, b *model.RelationshipAnalysis) bool {
		return a.OtherStats.Response.AvgSeconds < b.OtherStats.Response.AvgSeconds
	})

	cats := model.NetworkCategories{
		Best:       []*model.RelationshipAnalysis{},
		Close:      []*model.RelationshipAnalysis{},
		Regular:    []*model.RelationshipAnalysis{},
		Occasional: []*model.RelationshipAnalysis{},
		Distant:    []*model.RelationshipAnalysis{},
	}
	for _, a := range analyses {
		switch {
		case a.TotalMessages >= 1000 && a.MessagesPerDay >= 2:
			cats.Best = append(cats.Best, a)
		case a.TotalMessages >= 500 && a.MessagesPerDay >= 1:
			cats.Close = append(cats.Close, a)
		case a.TotalMessages >= 200 && a.MessagesPerDay >= 0.5:
			cats.Regular = append(cats.Regular, a)
		case a.TotalMessages >= 50:
			cats.Occasional = append(cats.Occasional, a)
		default:
			cats.Distant = append(cats.Distant, a)
		}
	}
	summary.Categories = cats

	return summary, nil
}

func rank(analyses []*model.RelationshipAnalysis, less func(a, b *model.RelationshipAnalysis) bool) []*model.RelationshipAnalysis {
	ranked := make([]*model.RelationshipAnalysis, len(analyses))
	copy(ranked, analyses)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	return ranked
}

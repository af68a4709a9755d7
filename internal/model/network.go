package model

// NetworkCategories partitions relationships into five activity tiers using
// total message count and messages-per-day jointly. Tiers are evaluated in
// descending order, first match wins:
//
//	best       >= 1000 msgs and >= 2.0/day
//	close      >= 500 msgs and >= 1.0/day
//	regular    >= 200 msgs and >= 0.5/day
//	occasional >= 50 msgs, any rate
//	distant    everything else
type NetworkCategories struct {
	Best       []*RelationshipAnalysis `json:"best_friends"`
	Close      []*RelationshipAnalysis `json:"close_friends"`
	Regular    []*RelationshipAnalysis `json:"regular_friends"`
	Occasional []*RelationshipAnalysis `json:"occasional_friends"`
	Distant    []*RelationshipAnalysis `json:"distant_friends"`
}

// NetworkSummary is the cross-relationship view for one owner. It is cheap
// relative to per-relationship analysis and recomputed on every request.
type NetworkSummary struct {
	TotalRelationships int `json:"total_relationships"`
	TotalMessages      int `json:"total_messages"`

	// Four top-10 rankings, ties broken by stable input order.
	MostMessages      []*RelationshipAnalysis `json:"most_messages"`
	MostBalanced      []*RelationshipAnalysis `json:"most_balanced"`
	LongestDuration   []*RelationshipAnalysis `json:"longest_friendships"`
	FastestResponders []*RelationshipAnalysis `json:"fastest_responses"`

	Categories NetworkCategories `json:"categories"`
}

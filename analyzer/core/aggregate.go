package core

import (
	"math"
	"sort"
)

// scoreTolerance decides when two average scores are considered tied.
const scoreTolerance = 1e-9

// Aggregate groups analyzed reviews by product, in order of first
// appearance, and ranks the products by average sentiment score and by
// review count. Both ranks use standard competition ranking: tied products
// share the best rank and the next rank skips accordingly.
func Aggregate(records []AnalyzedReview) []ProductSummary {
	type acc struct {
		scoreSum  float64
		count     int
		ratingSum float64
		rated     int
	}

	order := make([]string, 0)
	groups := make(map[string]*acc)
	for _, r := range records {
		g, ok := groups[r.ProductID]
		if !ok {
			g = &acc{}
			groups[r.ProductID] = g
			order = append(order, r.ProductID)
		}
		g.scoreSum += r.Sentiment.Score()
		g.count++
		if r.Rating != nil {
			g.ratingSum += float64(*r.Rating)
			g.rated++
		}
	}

	summaries := make([]ProductSummary, len(order))
	scores := make([]float64, len(order))
	volumes := make([]float64, len(order))
	for i, id := range order {
		g := groups[id]
		s := ProductSummary{
			ProductID:         id,
			AvgSentimentScore: g.scoreSum / float64(g.count),
			ReviewCount:       g.count,
		}
		if g.rated > 0 {
			avg := g.ratingSum / float64(g.rated)
			s.AvgRating = &avg
		}
		summaries[i] = s
		scores[i] = s.AvgSentimentScore
		volumes[i] = float64(s.ReviewCount)
	}

	sentimentRanks := competitionRanks(scores, scoreTolerance)
	volumeRanks := competitionRanks(volumes, 0)
	for i := range summaries {
		summaries[i].SentimentRank = sentimentRanks[i]
		summaries[i].VolumeRank = volumeRanks[i]
	}
	return summaries
}

// competitionRanks ranks values descending. A value within tolerance of the
// first value of the current tie group joins that group.
func competitionRanks(values []float64, tolerance float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	ranks := make([]int, len(values))
	var anchor float64
	rank := 0
	for pos, i := range idx {
		if pos == 0 || math.Abs(anchor-values[i]) > tolerance {
			anchor = values[i]
			rank = pos + 1
		}
		ranks[i] = rank
	}
	return ranks
}

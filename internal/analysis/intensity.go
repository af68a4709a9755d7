package analysis

import "math"

// Rating tier labels, thresholds on the intensity score.
const (
	RatingVeryHigh = "Very High"
	RatingHigh     = "High"
	RatingModerate = "Moderate"
	RatingLow      = "Low"
)

// intensityScore combines four capped sub-scores into a 0-100 intensity:
// volume (0-30), responsiveness (0-25), continuity (0-25) and balance
// (0-20). The responsiveness input averages both sides' mean response times
// when both exist, otherwise uses whichever exists, otherwise contributes
// nothing.
func intensityScore(totalMessages int, ownerPct float64, ownerAvg, otherAvg float64, ownerResponded, otherResponded bool, gapCount int) int {
	score := 0

	switch {
	case totalMessages >= 1000:
		score += 30
	case totalMessages >= 500:
		score += 20
	case totalMessages >= 200:
		score += 15
	case totalMessages >= 100:
		score += 10
	case totalMessages >= 50:
		score += 5
	}

	var avgResponse float64
	haveResponse := true
	switch {
	case ownerResponded && otherResponded:
		avgResponse = (ownerAvg + otherAvg) / 2
	case ownerResponded:
		avgResponse = ownerAvg
	case otherResponded:
		avgResponse = otherAvg
	default:
		haveResponse = false
	}
	if haveResponse {
		switch {
		case avgResponse < 300:
			score += 25
		case avgResponse < 1800:
			score += 20
		case avgResponse < 3600:
			score += 15
		case avgResponse < 86400:
			score += 10
		}
	}

	switch {
	case gapCount == 0:
		score += 25
	case gapCount <= 3:
		score += 20
	case gapCount <= 10:
		score += 15
	case gapCount <= 20:
		score += 10
	}

	if totalMessages > 0 {
		balance := math.Abs(50 - ownerPct)
		switch {
		case balance <= 10:
			score += 20
		case balance <= 20:
			score += 15
		case balance <= 30:
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// rating maps an intensity score to its tier.
func rating(score int) string {
	switch {
	case score >= 80:
		return RatingVeryHigh
	case score >= 60:
		return RatingHigh
	case score >= 40:
		return RatingModerate
	default:
		return RatingLow
	}
}

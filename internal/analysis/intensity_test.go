package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntensityScoreComponents(t *testing.T) {
	// Full marks: 1000+ msgs (30), instant replies (25), no gaps (25),
	// perfect balance (20) = 100.
	assert.Equal(t, 100, intensityScore(1500, 50, 60, 60, true, true, 0))

	// Volume tiers in isolation: no responses, 100 gaps and a 0% owner
	// share contribute nothing else.
	assert.Equal(t, 30, intensityScore(1000, 0, 0, 0, false, false, 100))
	assert.Equal(t, 20, intensityScore(500, 0, 0, 0, false, false, 100))
	assert.Equal(t, 15, intensityScore(200, 0, 0, 0, false, false, 100))
	assert.Equal(t, 10, intensityScore(100, 0, 0, 0, false, false, 100))
	assert.Equal(t, 5, intensityScore(50, 0, 0, 0, false, false, 100))
	assert.Equal(t, 0, intensityScore(49, 0, 0, 0, false, false, 100))
}

func TestIntensityResponsiveness(t *testing.T) {
	base := intensityScore(1, 0, 0, 0, false, false, 100) // everything else zero

	assert.Equal(t, base+25, intensityScore(1, 0, 100, 0, true, false, 100))
	assert.Equal(t, base+20, intensityScore(1, 0, 900, 0, true, false, 100))
	assert.Equal(t, base+15, intensityScore(1, 0, 2000, 0, true, false, 100))
	assert.Equal(t, base+10, intensityScore(1, 0, 50000, 0, true, false, 100))
	assert.Equal(t, base, intensityScore(1, 0, 90000, 0, true, false, 100))

	// Both sides responding averages the two means.
	assert.Equal(t, base+20, intensityScore(1, 0, 100, 1800, true, true, 100)) // avg 950 -> 20
}

func TestIntensityContinuity(t *testing.T) {
	base := intensityScore(1, 0, 0, 0, false, false, 100)

	assert.Equal(t, base+25, intensityScore(1, 0, 0, 0, false, false, 0))
	assert.Equal(t, base+20, intensityScore(1, 0, 0, 0, false, false, 3))
	assert.Equal(t, base+15, intensityScore(1, 0, 0, 0, false, false, 10))
	assert.Equal(t, base+10, intensityScore(1, 0, 0, 0, false, false, 20))
	assert.Equal(t, base, intensityScore(1, 0, 0, 0, false, false, 21))
}

func TestIntensityBalance(t *testing.T) {
	noBalance := intensityScore(1, 0, 0, 0, false, false, 100) // |50-0| = 50: no points

	assert.Equal(t, noBalance+20, intensityScore(1, 55, 0, 0, false, false, 100))
	assert.Equal(t, noBalance+15, intensityScore(1, 68, 0, 0, false, false, 100))
	assert.Equal(t, noBalance+10, intensityScore(1, 25, 0, 0, false, false, 100))
	assert.Equal(t, noBalance, intensityScore(1, 15, 0, 0, false, false, 100))
}

func TestRating(t *testing.T) {
	assert.Equal(t, RatingVeryHigh, rating(80))
	assert.Equal(t, RatingVeryHigh, rating(100))
	assert.Equal(t, RatingHigh, rating(60))
	assert.Equal(t, RatingHigh, rating(79))
	assert.Equal(t, RatingModerate, rating(40))
	assert.Equal(t, RatingModerate, rating(59))
	assert.Equal(t, RatingLow, rating(39))
	assert.Equal(t, RatingLow, rating(0))
}

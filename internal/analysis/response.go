package analysis

import (
	"github.com/instalens/instalens/internal/model"
)

// Response-time category thresholds, in seconds.
const (
	instantMax = 60
	quickMax   = 300
	normalMax  = 3600
	slowMax    = 86400

	// gapThresholdHours separates a response-eligible pair from a
	// conversation gap. Exactly 24h is still a response window.
	gapThresholdHours = 24
)

// responseObservation attributes one response time to the responder (the
// sender of the later message).
type responseObservation struct {
	responder string
	seconds   float64
}

// scanSequence walks the timestamp-sorted message sequence pairwise. A pair
// more than 24 hours apart is a conversation gap regardless of sender; a
// pair within 24 hours with different senders is a response attributed to
// the second sender.
func scanSequence(sorted []*model.Message) ([]responseObservation, []model.Gap) {
	var responses []responseObservation
	var gaps []model.Gap

	for i := 0; i+1 < len(sorted); i++ {
		cur, next := sorted[i], sorted[i+1]
		seconds := float64(next.TimestampMs-cur.TimestampMs) / 1000
		hours := seconds / 3600

		if hours > gapThresholdHours {
			gaps = append(gaps, model.Gap{
				Start:         cur.Time(),
				End:           next.Time(),
				DurationHours: hours,
				DurationDays:  hours / 24,
			})
			continue
		}
		if cur.Sender != next.Sender {
			responses = append(responses, responseObservation{responder: next.Sender, seconds: seconds})
		}
	}

	return responses, gaps
}

// responseStats categorizes one side's response times. Percentages are of
// that side's response count and are 0 when the side never responded.
func responseStats(times []float64) model.ResponseStats {
	stats := model.ResponseStats{Count: len(times)}
	if len(times) == 0 {
		return stats
	}

	var sum float64
	for _, t := range times {
		sum += t
		switch {
		case t < instantMax:
			stats.Instant.Count++
		case t < quickMax:
			stats.Quick.Count++
		case t < normalMax:
			stats.Normal.Count++
		case t < slowMax:
			stats.Slow.Count++
		default:
			stats.VerySlow.Count++
		}
	}

	total := float64(len(times))
	stats.AvgSeconds = sum / total
	stats.Instant.Percentage = float64(stats.Instant.Count) / total * 100
	stats.Quick.Percentage = float64(stats.Quick.Count) / total * 100
	stats.Normal.Percentage = float64(stats.Normal.Count) / total * 100
	stats.Slow.Percentage = float64(stats.Slow.Count) / total * 100
	stats.VerySlow.Percentage = float64(stats.VerySlow.Count) / total * 100

	return stats
}

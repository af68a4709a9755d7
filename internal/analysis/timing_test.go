package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/instalens/instalens/internal/model"
)

func tsMessage(t time.Time) *model.Message {
	return &model.Message{Sender: "alice", TimestampMs: t.UnixMilli()}
}

func TestTimingStatsBuckets(t *testing.T) {
	// 2024-01-08 is a Monday.
	monday9 := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	msgs := []*model.Message{
		tsMessage(monday9),
		tsMessage(monday9.Add(10 * time.Minute)),
		tsMessage(monday9.Add(26 * time.Hour)), // Tuesday 11:00
	}

	stats := timingStats(msgs, time.UTC)

	assert.Equal(t, 9, stats.PeakHour)
	assert.Equal(t, "Monday", stats.PeakDay)
	assert.Equal(t, []model.HourCount{{Hour: 9, Count: 2}, {Hour: 11, Count: 1}}, stats.Hourly)
	assert.Equal(t, []model.DayCount{{Day: "Monday", Count: 2}, {Day: "Tuesday", Count: 1}}, stats.Daily)
}

func TestTimingStatsPeakTieBreaks(t *testing.T) {
	// One message at 8:00 Wednesday, one at 15:00 Sunday: ties resolve to
	// the smaller hour and the earlier weekday in Sunday-first order.
	wed8 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	sun15 := time.Date(2024, 1, 14, 15, 0, 0, 0, time.UTC)

	stats := timingStats([]*model.Message{tsMessage(sun15), tsMessage(wed8)}, time.UTC)

	assert.Equal(t, 8, stats.PeakHour)
	assert.Equal(t, "Sunday", stats.PeakDay)
}

func TestTimingStatsDefaults(t *testing.T) {
	stats := timingStats(nil, time.UTC)

	assert.Equal(t, 12, stats.PeakHour)
	assert.Equal(t, "Monday", stats.PeakDay)
	assert.Empty(t, stats.Hourly)
	assert.Empty(t, stats.Daily)
}

func TestTimingStatsHonorsLocation(t *testing.T) {
	// 23:30 UTC is 01:30 of the next day in UTC+2.
	utc2330 := time.Date(2024, 1, 8, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+2", 2*3600)

	stats := timingStats([]*model.Message{tsMessage(utc2330)}, loc)

	assert.Equal(t, 1, stats.PeakHour)
	assert.Equal(t, "Tuesday", stats.PeakDay)
}

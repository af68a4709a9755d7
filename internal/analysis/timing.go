package analysis

import (
	"time"

	"github.com/instalens/instalens/internal/model"
)

// weekdayOrder fixes the presentation and tie-break order of daily buckets.
var weekdayOrder = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// timingStats buckets one side's timestamped messages by local hour of day
// and weekday. Peak ties resolve to the smallest hour and the earliest
// weekday in Sunday..Saturday order; with no timestamped messages the peaks
// default to noon and Monday.
func timingStats(msgs []*model.Message, loc *time.Location) model.TimingStats {
	var hours [24]int
	days := make(map[time.Weekday]int)

	for _, m := range msgs {
		if !m.HasTimestamp() {
			continue
		}
		t := m.Time().In(loc)
		hours[t.Hour()]++
		days[t.Weekday()]++
	}

	stats := model.TimingStats{PeakHour: 12, PeakDay: time.Monday.String()}

	peakCount := 0
	for h := 0; h < 24; h++ {
		if hours[h] == 0 {
			continue
		}
		stats.Hourly = append(stats.Hourly, model.HourCount{Hour: h, Count: hours[h]})
		if hours[h] > peakCount {
			peakCount = hours[h]
			stats.PeakHour = h
		}
	}

	peakCount = 0
	for _, wd := range weekdayOrder {
		count := days[wd]
		if count == 0 {
			continue
		}
		stats.Daily = append(stats.Daily, model.DayCount{Day: wd.String(), Count: count})
		if count > peakCount {
			peakCount = count
			stats.PeakDay = wd.String()
		}
	}

	return stats
}

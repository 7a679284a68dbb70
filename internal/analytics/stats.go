package analytics

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"hotel-assistant-api/internal/vapi"
)

// DayCount is one day of the calls-per-day series; Date is YYYY-MM-DD (UTC).
type DayCount struct {
	Date  string `json:"date"`
	Calls int    `json:"calls"`
}

// PieStats buckets finished calls for the dashboard pie chart.
type PieStats struct {
	Completed       int `json:"completed"`
	Failed          int `json:"failed"`
	UserHangup      int `json:"userHangup"`
	AssistantHangup int `json:"assistantHangup"`
}

// CallStats is the dashboard's headline call view over the trailing 30 days.
type CallStats struct {
	TotalCalls      int        `json:"totalCalls"`
	IncomingCalls   int        `json:"incomingCalls"`
	AverageDuration int        `json:"averageDuration"` // minutes, rounded
	CallsPerDay     []DayCount `json:"callsPerDay"`
	Pie             PieStats   `json:"pie"`
}

// Aggregator turns raw upstream call records into the dashboard's analytics
// shapes. It has no I/O of its own.
type Aggregator struct {
	log *slog.Logger
	now func() time.Time
}

func NewAggregator(log *slog.Logger) *Aggregator {
	return &Aggregator{log: log, now: time.Now}
}

// CallStats aggregates the trailing 30-day window (UTC midnight boundaries).
// Every day in the window appears in CallsPerDay, zero or not, oldest first.
// Calls outside the window are ignored entirely.
func (a *Aggregator) CallStats(calls []vapi.Call) CallStats {
	today := a.now().UTC().Truncate(24 * time.Hour)
	windowStart := today.AddDate(0, 0, -30)

	perDay := make(map[string]int, 31)
	for d := windowStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		perDay[d.Format("2006-01-02")] = 0
	}

	stats := CallStats{}
	var totalDurationMs int64

	for _, call := range calls {
		callDay := call.CreatedAt.UTC()
		if callDay.Before(windowStart) {
			continue
		}
		stats.TotalCalls++
		if call.Status != "error" && call.Status != "failed" {
			stats.IncomingCalls++
		}
		totalDurationMs += call.DurationMs
		perDay[callDay.Format("2006-01-02")]++

		bucket, known := Classify(call.Status, call.EndedReason)
		if !known {
			a.log.Warn("unhandled call end reason", "call_id", call.ID, "ended_reason", call.EndedReason)
		}
		switch bucket {
		case BucketCompleted:
			stats.Pie.Completed++
		case BucketFailed:
			stats.Pie.Failed++
		case BucketUserHangup:
			stats.Pie.UserHangup++
		case BucketAssistantHangup:
			stats.Pie.AssistantHangup++
		}
	}

	if stats.TotalCalls > 0 {
		stats.AverageDuration = int(math.Round(float64(totalDurationMs) / float64(stats.TotalCalls) / 1000 / 60))
	}

	stats.CallsPerDay = make([]DayCount, 0, len(perDay))
	for date, n := range perDay {
		stats.CallsPerDay = append(stats.CallsPerDay, DayCount{Date: date, Calls: n})
	}
	sort.Slice(stats.CallsPerDay, func(i, j int) bool {
		return stats.CallsPerDay[i].Date < stats.CallsPerDay[j].Date
	})
	return stats
}

// ZeroCallStats is the degraded response when the upstream is unreachable:
// the full 31-day shape with every figure at zero.
func (a *Aggregator) ZeroCallStats() CallStats {
	return a.CallStats(nil)
}

package analytics

import (
	"math"
	"sort"
	"strings"

	"hotel-assistant-api/internal/vapi"
)

// StatusCount is one upstream status with its call count, status shown with
// spaces instead of underscores.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TicketCall is one call row in the ticket view. Costs is nil once redacted.
type TicketCall struct {
	ID          string              `json:"id"`
	AssistantID string              `json:"assistantId"`
	Status      string              `json:"status"`
	EndedReason string              `json:"endedReason,omitempty"`
	CreatedAt   string              `json:"createdAt"`
	Duration    int                 `json:"duration"` // seconds
	Summary     string              `json:"summary"`
	Costs       *vapi.CostBreakdown `json:"costs,omitempty"`
}

// TicketStats presents calls as support tickets grouped by upstream status.
type TicketStats struct {
	Open             int           `json:"open"`
	InProgress       int           `json:"inProgress"`
	Resolved         int           `json:"resolved"`
	Unassigned       int           `json:"unassigned"`
	TotalTickets     int           `json:"totalTickets"`
	TicketsPerStatus []StatusCount `json:"ticketsPerStatus"`
	AverageDuration  int           `json:"averageDuration"` // seconds
	TotalCost        float64       `json:"totalCost,omitempty"`
	Calls            []TicketCall  `json:"calls"`
}

const noSummary = "No summary available"

// TicketStats maps upstream call records to the ticket view. details carries
// the per-call detail lookups keyed by call id; a missing entry just means
// the summary fallback bottoms out.
func (a *Aggregator) TicketStats(assistantID string, calls []vapi.Call, details map[string]vapi.CallDetail) TicketStats {
	statusCounts := map[string]int{}
	var totalDurationMs int64
	var totalCost float64

	rows := make([]TicketCall, 0, len(calls))
	for _, call := range calls {
		status := call.Status
		if status == "" {
			status = "unknown"
		}
		statusCounts[status]++
		totalDurationMs += call.DurationMs

		costs := call.Costs
		if costs != nil {
			totalCost += costs.Total
		}

		rows = append(rows, TicketCall{
			ID:          call.ID,
			AssistantID: assistantID,
			Status:      status,
			EndedReason: call.EndedReason,
			CreatedAt:   call.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Duration:    int(math.Round(float64(call.DurationMs) / 1000)),
			Summary:     ticketSummary(call, details),
			Costs:       normalizeCosts(costs),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt > rows[j].CreatedAt })

	perStatus := make([]StatusCount, 0, len(statusCounts))
	for status, n := range statusCounts {
		perStatus = append(perStatus, StatusCount{
			Status: strings.ReplaceAll(status, "_", " "),
			Count:  n,
		})
	}
	sort.Slice(perStatus, func(i, j int) bool { return perStatus[i].Status < perStatus[j].Status })

	avg := 0
	if len(calls) > 0 {
		avg = int(math.Round(float64(totalDurationMs) / float64(len(calls)) / 1000))
	}

	return TicketStats{
		Open:             statusCounts["in_progress"],
		InProgress:       statusCounts["in_progress"] + statusCounts["started"],
		Resolved:         statusCounts["completed"] + statusCounts["ended"],
		Unassigned:       statusCounts["queued"] + statusCounts["created"],
		TotalTickets:     len(calls),
		TicketsPerStatus: perStatus,
		AverageDuration:  avg,
		TotalCost:        totalCost,
		Calls:            rows,
	}
}

// ticketSummary resolves the display summary: the list record first, then the
// detail record's deeper homes, then the placeholder.
func ticketSummary(call vapi.Call, details map[string]vapi.CallDetail) string {
	if call.Summary != "" {
		return call.Summary
	}
	if call.Analysis != nil && call.Analysis.Summary != "" {
		return call.Analysis.Summary
	}
	if d, ok := details[call.ID]; ok {
		if s := d.BestSummary(); s != "" {
			return s
		}
	}
	return noSummary
}

// normalizeCosts guarantees a concrete breakdown for every row so consumers
// never see a mix of null and object cost fields.
func normalizeCosts(c *vapi.CostBreakdown) *vapi.CostBreakdown {
	if c == nil {
		return &vapi.CostBreakdown{}
	}
	cp := *c
	return &cp
}

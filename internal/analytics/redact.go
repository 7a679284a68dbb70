package analytics

import (
	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/vapi"
)

// RedactTickets applies the role's cost visibility to a ticket view.
// Only admins and owners see cost figures; editors and plain users get rows
// without them. Admins see doubled figures: the dashboard bills admins at
// twice the upstream rate and the margin is applied here. Owners get the raw
// numbers.
func RedactTickets(role accounts.Role, ts TicketStats) TicketStats {
	switch role {
	case accounts.RoleAdmin:
		ts.TotalCost *= 2
		calls := make([]TicketCall, len(ts.Calls))
		for i, c := range ts.Calls {
			if c.Costs != nil {
				c.Costs = doubleCosts(c.Costs)
			}
			calls[i] = c
		}
		ts.Calls = calls
	case accounts.RoleOwner:
		// raw
	default:
		ts.TotalCost = 0
		calls := make([]TicketCall, len(ts.Calls))
		for i, c := range ts.Calls {
			c.Costs = nil
			calls[i] = c
		}
		ts.Calls = calls
	}
	return ts
}

// RedactCalls applies the same visibility to raw call records, for the
// realtime stream.
func RedactCalls(role accounts.Role, calls []vapi.Call) []vapi.Call {
	if role != accounts.RoleEditor && role != accounts.RoleAdmin {
		return calls
	}
	out := make([]vapi.Call, len(calls))
	for i, c := range calls {
		switch role {
		case accounts.RoleEditor:
			c.Costs = nil
		case accounts.RoleAdmin:
			if c.Costs != nil {
				c.Costs = doubleCosts(c.Costs)
			}
		}
		out[i] = c
	}
	return out
}

func doubleCosts(c *vapi.CostBreakdown) *vapi.CostBreakdown {
	return &vapi.CostBreakdown{
		Total:    c.Total * 2,
		STT:      c.STT * 2,
		LLM:      c.LLM * 2,
		TTS:      c.TTS * 2,
		Platform: c.Platform * 2,
	}
}

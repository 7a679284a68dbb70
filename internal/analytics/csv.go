package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteTicketsCSV streams the ticket rows as CSV. Cost columns are written
// only when includeCosts is set; redaction happens before export so the two
// must agree.
func WriteTicketsCSV(w io.Writer, ts TicketStats, includeCosts bool) error {
	cw := csv.NewWriter(w)

	header := []string{"call_id", "status", "ended_reason", "created_at", "duration_seconds", "summary"}
	if includeCosts {
		header = append(header, "cost_total", "cost_stt", "cost_llm", "cost_tts", "cost_platform")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("tickets csv: %w", err)
	}

	for _, c := range ts.Calls {
		row := []string{
			c.ID,
			c.Status,
			c.EndedReason,
			c.CreatedAt,
			strconv.Itoa(c.Duration),
			c.Summary,
		}
		if includeCosts {
			costs := c.Costs
			if costs == nil {
				row = append(row, "", "", "", "", "")
			} else {
				row = append(row,
					formatCost(costs.Total),
					formatCost(costs.STT),
					formatCost(costs.LLM),
					formatCost(costs.TTS),
					formatCost(costs.Platform),
				)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("tickets csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

package analytics

import "hotel-assistant-api/internal/vapi"

// Snapshot is one realtime payload: the raw call list plus its aggregate
// view, already redacted for the receiving role.
type Snapshot struct {
	Calls []vapi.Call `json:"calls"`
	Stats CallStats   `json:"stats"`
}

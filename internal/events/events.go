package events

// Engine event types for the analytics outbox.
const (
	EventSnapshotBatchCompleted = "snapshot_batch.completed"
	EventPositioningRefreshed   = "positioning.refreshed"
)

// BatchCompletedPayload captures the minimal data needed to observe a
// finished batch snapshot run.
type BatchCompletedPayload struct {
	PeriodType   string `json:"period_type"`
	SnapshotDate string `json:"snapshot_date"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p BatchCompletedPayload) ToMap() map[string]any {
	return map[string]any{
		"period_type":   p.PeriodType,
		"snapshot_date": p.SnapshotDate,
		"succeeded":     p.Succeeded,
		"failed":        p.Failed,
	}
}

// PositioningRefreshedPayload records a forced positioning recompute.
type PositioningRefreshedPayload struct {
	MemberID string `json:"member_id"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p PositioningRefreshedPayload) ToMap() map[string]any {
	return map[string]any{
		"member_id": p.MemberID,
	}
}

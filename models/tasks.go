package models

// RefreshPayload is the asynq task payload for a background
// availability refresh of one provider's calendar.
type RefreshPayload struct {
	ProviderID string `json:"providerId"`
	Year       int    `json:"year"`
	Month      int    `json:"month"` // zero means the full year
}

package models

// TimeSlot represents one bookable window on a provider's calendar day.
type TimeSlot struct {
	ID                string   `bson:"id" json:"id"`                                       // UUID; callers may mint a temporary ID for optimistic inserts
	Start             string   `bson:"start" json:"start"`                                 // wall-clock "HH:MM" (e.g. "09:00")
	End               string   `bson:"end" json:"end"`                                     // wall-clock "HH:MM", same day, must be after Start
	AvailableServices []string `bson:"availableServices" json:"availableServices"`         // service package IDs offered in this window
	IsBooked          bool     `bson:"-" json:"isBooked"`                                  // derived on reconciliation, never persisted
	NotVisible        bool     `bson:"notVisible,omitempty" json:"notVisible,omitempty"`   // set when the provider has no packages configured yet
}

// DayAvailability is the full availability record for one calendar date.
// Date is always the canonical "YYYY-MM-DD" form built from explicit
// year/month/day components. TimeSlots stays sorted ascending by Start,
// and a day with at least one slot is always available.
type DayAvailability struct {
	ProviderID  string     `bson:"providerId" json:"providerId"`
	Date        string     `bson:"date" json:"date"`
	IsAvailable bool       `bson:"isAvailable" json:"isAvailable"`
	TimeSlots   []TimeSlot `bson:"timeSlots" json:"timeSlots"`
	HasBookings bool       `bson:"-" json:"hasBookings"` // derived on reconciliation
}

// DaySummary is the compact per-date view rendered on calendar grids.
type DaySummary struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"isAvailable"`
	SlotCount   int    `json:"slotCount"`
	HasBookings bool   `json:"hasBookings"`
}

package models

// AddSlotRequest is the payload for adding one ad-hoc slot to a day.
type AddSlotRequest struct {
	Start    string   `json:"start" binding:"required"`
	End      string   `json:"end" binding:"required"`
	Services []string `json:"services"`
}

// SetDayRequest replaces a full day record (toggle availability or
// rewrite the slot list wholesale).
type SetDayRequest struct {
	IsAvailable bool       `json:"isAvailable"`
	TimeSlots   []TimeSlot `json:"timeSlots"`
}

// PresetRequest asks for bulk generation of a recurring weekly pattern
// across one calendar year.
type PresetRequest struct {
	Year     int      `json:"year" binding:"required"`
	Pattern  string   `json:"pattern" binding:"required"` // "weekdays" or "weekends"
	Start    string   `json:"start" binding:"required"`   // "HH:MM"
	End      string   `json:"end" binding:"required"`     // "HH:MM"
	Services []string `json:"services"`
}

// CalendarQuery scopes a fetch to either one month or a whole year.
type CalendarQuery struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month"` // 1-12; zero means the full year
}

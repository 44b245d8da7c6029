// File: services/schedule/reconcile.go
package schedule

import (
	"furever/models"
)

// Reconcile annotates availability records with booking state derived
// from a separate booking dataset. A slot is booked iff its
// (date, start) pair matches a non-cancelled booking; a day has
// bookings when any of its slots is booked or any booking exists for
// that date, even if the matching slot was since removed.
//
// The function is pure: inputs are never mutated and repeated calls
// with the same inputs produce identical annotations. The booked flags
// are recomputed whole on every pass, never incrementally patched.
func Reconcile(days []models.DayAvailability, bookings []models.BookingRecord) []models.DayAvailability {
	slotKeys := make(map[string]struct{})
	bookedDates := make(map[string]struct{})
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		clock, ok := NormalizeClock(b.Time)
		if !ok {
			continue
		}
		slotKeys[b.Date+"|"+clock] = struct{}{}
		bookedDates[b.Date] = struct{}{}
	}

	out := make([]models.DayAvailability, len(days))
	for i, day := range days {
		annotated := day
		annotated.TimeSlots = make([]models.TimeSlot, len(day.TimeSlots))
		anyBooked := false
		for j, slot := range day.TimeSlots {
			s := slot
			s.IsBooked = false
			if clock, ok := NormalizeClock(slot.Start); ok {
				if _, hit := slotKeys[day.Date+"|"+clock]; hit {
					s.IsBooked = true
					anyBooked = true
				}
			}
			annotated.TimeSlots[j] = s
		}
		_, dateBooked := bookedDates[day.Date]
		annotated.HasBookings = anyBooked || dateBooked
		out[i] = annotated
	}
	return out
}

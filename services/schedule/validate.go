// File: services/schedule/validate.go
package schedule

import (
	"furever/models"
)

// Overlaps reports whether two slots on the same day overlap. Intervals
// are half-open, so touching endpoints (a.End == b.Start) never conflict.
func Overlaps(a, b models.TimeSlot) bool {
	aStart, err := parseClock(a.Start)
	if err != nil {
		return false
	}
	aEnd, err := parseClock(a.End)
	if err != nil {
		return false
	}
	bStart, err := parseClock(b.Start)
	if err != nil {
		return false
	}
	bEnd, err := parseClock(b.End)
	if err != nil {
		return false
	}
	return aStart < bEnd && aEnd > bStart
}

// ValidateNewSlot gates a candidate slot against a day's existing slots
// and the provider's configured service packages. It is pure: all input
// is already-fetched state, no I/O happens here.
//
// The returned warning is true when the provider has no packages
// configured at all: the slot may still be created but cannot be
// customer-visible until a package exists.
func ValidateNewSlot(day *models.DayAvailability, candidate models.TimeSlot, packages []models.ServicePackage) (warning bool, err error) {
	start, perr := parseClock(candidate.Start)
	if perr != nil {
		return false, invalidRangeErr(candidate.Start, candidate.End)
	}
	end, perr := parseClock(candidate.End)
	if perr != nil {
		return false, invalidRangeErr(candidate.Start, candidate.End)
	}
	if end <= start {
		return false, invalidRangeErr(candidate.Start, candidate.End)
	}

	if len(packages) == 0 {
		warning = true
	} else if len(candidate.AvailableServices) == 0 {
		return false, noServiceErr()
	}

	if day != nil {
		for _, existing := range day.TimeSlots {
			if existing.ID == candidate.ID {
				continue
			}
			sStart, perr := parseClock(existing.Start)
			if perr != nil {
				continue
			}
			sEnd, perr := parseClock(existing.End)
			if perr != nil {
				continue
			}
			if start < sEnd && end > sStart {
				return warning, conflictErr(existing)
			}
		}
	}

	return warning, nil
}

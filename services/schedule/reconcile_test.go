package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furever/models"
)

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"09:00", "09:00", true},
		{"9:00", "09:00", true},
		{"09:00:00", "09:00", true},
		{"14:30:15", "14:30", true},
		{"9:00 AM", "09:00", true},
		{"09:00 am", "09:00", true},
		{"2:30 PM", "14:30", true},
		{"12:00 PM", "12:00", true},
		{"12:00 AM", "00:00", true},
		{"12:15am", "00:15", true},
		{"", "", false},
		{"morning", "", false},
		{"13:00 PM", "", false},
		{"24:00", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeClock(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestReconcile_BookingScenario(t *testing.T) {
	days := []models.DayAvailability{{
		Date:        "2025-03-10",
		IsAvailable: true,
		TimeSlots:   []models.TimeSlot{slot("09:00", "10:00", "pkg-1"), slot("11:00", "12:00", "pkg-1")},
	}}

	bookings := []models.BookingRecord{
		{Date: "2025-03-10", Time: "09:00:00", Status: models.BookingStatusConfirmed, PetName: "Biscuit"},
	}

	out := Reconcile(days, bookings)
	require.Len(t, out, 1)
	assert.True(t, out[0].TimeSlots[0].IsBooked)
	assert.False(t, out[0].TimeSlots[1].IsBooked)
	assert.True(t, out[0].HasBookings)
}

func TestReconcile_CancelledBookingIgnored(t *testing.T) {
	days := []models.DayAvailability{{
		Date:      "2025-03-10",
		TimeSlots: []models.TimeSlot{slot("09:00", "10:00", "pkg-1")},
	}}
	bookings := []models.BookingRecord{
		{Date: "2025-03-10", Time: "09:00", Status: models.BookingStatusCancelled},
	}

	out := Reconcile(days, bookings)
	assert.False(t, out[0].TimeSlots[0].IsBooked)
	assert.False(t, out[0].HasBookings)
}

func TestReconcile_FormattedTimeMatches(t *testing.T) {
	days := []models.DayAvailability{{
		Date:      "2025-03-10",
		TimeSlots: []models.TimeSlot{slot("14:00", "15:00", "pkg-1")},
	}}
	bookings := []models.BookingRecord{
		{Date: "2025-03-10", Time: "2:00 PM", Status: models.BookingStatusPending},
	}

	out := Reconcile(days, bookings)
	assert.True(t, out[0].TimeSlots[0].IsBooked)
}

func TestReconcile_BookingForRemovedSlotStillMarksDay(t *testing.T) {
	days := []models.DayAvailability{{
		Date:      "2025-03-10",
		TimeSlots: []models.TimeSlot{slot("11:00", "12:00", "pkg-1")},
	}}
	// Booking at 09:00, but the 09:00 slot no longer exists.
	bookings := []models.BookingRecord{
		{Date: "2025-03-10", Time: "09:00", Status: models.BookingStatusConfirmed},
	}

	out := Reconcile(days, bookings)
	assert.False(t, out[0].TimeSlots[0].IsBooked)
	assert.True(t, out[0].HasBookings)
}

func TestReconcile_PureAndIdempotent(t *testing.T) {
	days := []models.DayAvailability{{
		Date:      "2025-03-10",
		TimeSlots: []models.TimeSlot{slot("09:00", "10:00", "pkg-1")},
	}}
	bookings := []models.BookingRecord{
		{Date: "2025-03-10", Time: "09:00", Status: models.BookingStatusConfirmed},
	}

	first := Reconcile(days, bookings)
	second := Reconcile(days, bookings)

	// Inputs are never mutated.
	assert.False(t, days[0].TimeSlots[0].IsBooked)
	assert.False(t, days[0].HasBookings)

	// Repeated passes produce identical annotations.
	assert.Equal(t, first, second)
}

func TestReconcile_MismatchedDate(t *testing.T) {
	days := []models.DayAvailability{{
		Date:      "2025-03-11",
		TimeSlots: []models.TimeSlot{slot("09:00", "10:00", "pkg-1")},
	}}
	bookings := []models.BookingRecord{
		{Date: "2025-03-10", Time: "09:00", Status: models.BookingStatusConfirmed},
	}

	out := Reconcile(days, bookings)
	assert.False(t, out[0].TimeSlots[0].IsBooked)
	assert.False(t, out[0].HasBookings)
}

package models

import "time"

// Booking statuses relevant to the scheduling engine. Anything other
// than cancelled counts toward a slot being booked.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// BookingRecord is a customer booking as returned by the booking store.
// Time arrives in either raw "HH:MM:SS" or formatted "HH:MM AM/PM" form
// depending on which upstream wrote it; reconciliation normalizes both.
type BookingRecord struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	UserID     string    `bson:"userId" json:"userId"`
	PetName    string    `bson:"petName" json:"petName"`
	ServiceID  string    `bson:"serviceId" json:"serviceId"`
	Date       string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time       string    `bson:"time" json:"time"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

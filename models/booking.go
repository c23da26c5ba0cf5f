package models

import "time"

// Booking statuses.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// ExistingBooking is one visit already on a therapist's calendar. Cancelled
// bookings are excluded from overlap checks; the visit location feeds the
// anchor-point selection for travel chaining.
type ExistingBooking struct {
	ID              string    `bson:"id" json:"id"`
	TherapistID     string    `bson:"therapistId" json:"therapistId"`
	PatientID       string    `bson:"patientId,omitempty" json:"patientId,omitempty"`
	Start           time.Time `bson:"start" json:"start"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Status          string    `bson:"status" json:"status"`
	Location        GeoPoint  `bson:"location,omitempty" json:"location,omitzero"`
	Address         string    `bson:"address,omitempty" json:"address,omitempty"`
}

// End returns the instant the visit finishes, buffer not included.
func (b ExistingBooking) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

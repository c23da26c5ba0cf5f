package models

import "time"

// VisitSlot is one suggested bookable interval on a given local date,
// expressed as minutes from midnight in the therapist's timezone.
type VisitSlot struct {
	Date  string `json:"date"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"` // e.g. "09:00 - 10:00"
}

// BookingSession is the transient state of one booking flow, stored in Redis
// with a TTL. A series session carries every visit instant of the series.
type BookingSession struct {
	SessionID   string        `json:"sessionId"`
	Request     MatchRequest  `json:"request"`
	Visits      []time.Time   `json:"visits,omitempty"`
	Results     []MatchResult `json:"results"`
	PatientID   string        `json:"patientId,omitempty"`
	TherapistID string        `json:"therapistId,omitempty"` // set once selected
	CreatedAt   time.Time     `json:"createdAt"`
}

// ReminderPayload is the asynq task body for a visit reminder.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	TherapistID string `json:"therapistId"`
	PatientID   string `json:"patientId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	FireDate    string `json:"fireDate"`
}

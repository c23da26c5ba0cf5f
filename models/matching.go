package models

import "time"

// Gender preference values accepted on a match request. An empty value or
// GenderNoPreference disables gender filtering.
const GenderNoPreference = "no_preference"

// MatchRequest is one patient request evaluated against the therapist pool.
// Either RequestedTime is set, or AllDay is true and Date names the local day
// to evaluate without a fixed slot.
type MatchRequest struct {
	ServiceID        string    `json:"serviceId" binding:"required"`
	Region           string    `json:"region" binding:"required"`
	PatientGeo       GeoPoint  `json:"patientGeo" binding:"required"`
	Address          string    `json:"address,omitempty"`
	RequestedTime    time.Time `json:"requestedTime,omitzero"`
	AllDay           bool      `json:"allDay,omitempty"`
	Date             string    `json:"date,omitempty"` // "2006-01-02", all-day requests only
	GenderPreference string    `json:"genderPreference,omitempty"`
	ExcludeBookingID string    `json:"excludeBookingId,omitempty"`
}

// Candidate is a filtered pool entry carrying the anchor coordinate used for
// the geofeasibility test. The anchor prefers the location of the nearest
// adjacent existing booking over the home address.
type Candidate struct {
	ID          string             `json:"id"`
	Anchor      GeoPoint           `json:"anchor"`
	Gender      string             `json:"gender,omitempty"`
	Constraints []TravelConstraint `json:"constraints,omitempty"`
}

// FeasibilityVerdict is the geo classification for one candidate.
type FeasibilityVerdict struct {
	CandidateID string `json:"candidateId"`
	Feasible    bool   `json:"feasible"`
	Reason      string `json:"reason,omitempty"`
}

// Terminal match states, per candidate.
const (
	StateUnavailable        = "unavailable"
	StateFeasible           = "feasible"
	StateNotFeasible        = "notFeasible"
	StateFeasibilityUnknown = "feasibilityUnknown"
)

// MatchResult is the merged availability + feasibility verdict for one
// candidate. Feasible is nil when the temporal check failed and the geo
// phase never ran for this candidate.
type MatchResult struct {
	CandidateID         string   `json:"candidateId"`
	TemporallyAvailable bool     `json:"temporallyAvailable"`
	UnavailableReason   string   `json:"unavailableReason,omitempty"`
	UnavailableDetails  []string `json:"unavailableDetails,omitempty"`
	Feasible            *bool    `json:"feasible"`
	FeasibilityReason   string   `json:"feasibilityReason,omitempty"`
	State               string   `json:"state"`
}

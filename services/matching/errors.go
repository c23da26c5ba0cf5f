package matching

import "fmt"

// Reason codes surfaced on match results. These are data, not errors: a
// failing check marks the candidate, it never aborts the matching call.
const (
	ReasonScheduleMissing       = "ScheduleMissing"
	ReasonPastInstant           = "PastInstant"
	ReasonLeadTimeNotMet        = "LeadTimeNotMet"
	ReasonBookingWindowExceeded = "BookingWindowExceeded"
	ReasonOutsideDateWindow     = "OutsideDateWindow"
	ReasonNoSlotForDate         = "NoSlotForDate"
	ReasonOverlappingBooking    = "OverlappingBooking"
	ReasonGeoProviderError      = "GeoProviderError"
)

// Reason pairs a stable code with a human-readable detail.
type Reason struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (r Reason) String() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Detail)
}

// MatchError is a fatal engine failure (e.g. the repository is unreachable).
// Per-candidate and per-group problems are captured as reasons instead.
type MatchError struct {
	Code    string
	Message string
	Err     error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *MatchError) Unwrap() error { return e.Err }

// NewMatchError wraps a repository or configuration failure.
func NewMatchError(msg string, err error) error {
	return &MatchError{Code: "matchError", Message: msg, Err: err}
}

package matching

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"visitcare/models"
)

const dateLayout = "2006-01-02"

// RequestContext carries the acting identity and the evaluation clock.
// Passing "now" explicitly keeps the evaluator a pure function.
type RequestContext struct {
	ActorID string
	Now     time.Time
}

// EvaluationInput describes one requested visit. For all-day requests the
// instant is ignored and Date names the local day to evaluate.
type EvaluationInput struct {
	Instant          time.Time
	AllDay           bool
	Date             string
	ExcludeBookingID string
}

// AvailabilityResult is the temporal verdict for one candidate. The first
// reason is authoritative; the rest are kept for diagnostics.
type AvailabilityResult struct {
	Available bool
	Reasons   []Reason
}

// Reason returns the authoritative (first) failure code, or "".
func (r AvailabilityResult) Reason() string {
	if len(r.Reasons) == 0 {
		return ""
	}
	return r.Reasons[0].Code
}

// Details returns every collected failure as human-readable strings.
func (r AvailabilityResult) Details() []string {
	var details []string
	for _, reason := range r.Reasons {
		details = append(details, reason.String())
	}
	return details
}

// ClockInterval is a wall-clock interval in minutes from midnight.
type ClockInterval struct {
	Start int
	End   int
}

// ruleInput is the resolved, timezone-normalized view a rule checks against.
type ruleInput struct {
	schedule        *models.ScheduleModel
	bookings        []models.ExistingBooking
	loc             *time.Location
	now             time.Time // therapist-local
	instant         time.Time // therapist-local, zero for all-day
	date            string    // therapist-local date under evaluation
	allDay          bool
	exclude         string
	enforceLeadTime bool
}

type availabilityRule struct {
	name  string
	check func(in ruleInput) *Reason
}

// Evaluator runs the ordered availability checks. Rule order is part of the
// contract: the first failing rule's reason is the one surfaced to callers.
type Evaluator struct {
	// EnforceLeadTime switches on the minimum-lead-time rule. It ships
	// disabled; the rule stays registered so enabling it is a config flip.
	EnforceLeadTime bool

	rules []availabilityRule
}

// NewEvaluator builds an evaluator with the standard rule chain.
func NewEvaluator() *Evaluator {
	e := &Evaluator{}
	e.rules = []availabilityRule{
		{name: "pastInstant", check: checkPastInstant},
		{name: "leadTime", check: checkLeadTime},
		{name: "advanceWindow", check: checkAdvanceWindow},
		{name: "dateWindow", check: checkDateWindow},
		{name: "slotMembership", check: checkSlotMembership},
		{name: "overlap", check: checkOverlap},
	}
	return e
}

// Evaluate produces the temporal verdict for one candidate. It is a pure
// function of its inputs; repeated calls with the same arguments yield the
// same result.
func (e *Evaluator) Evaluate(rc RequestContext, schedule *models.ScheduleModel, bookings []models.ExistingBooking, in EvaluationInput) AvailabilityResult {
	if schedule == nil || schedule.Empty() {
		return AvailabilityResult{Reasons: []Reason{{
			Code:   ReasonScheduleMissing,
			Detail: "no schedule configured for this therapist",
		}}}
	}
	loc, err := schedule.Location()
	if err != nil {
		return AvailabilityResult{Reasons: []Reason{{
			Code:   ReasonScheduleMissing,
			Detail: fmt.Sprintf("unusable schedule timezone %q", schedule.Timezone),
		}}}
	}

	now := rc.Now
	if now.IsZero() {
		now = time.Now()
	}

	input := ruleInput{
		schedule:        schedule,
		bookings:        bookings,
		loc:             loc,
		now:             now.In(loc),
		allDay:          in.AllDay,
		date:            in.Date,
		exclude:         in.ExcludeBookingID,
		enforceLeadTime: e.EnforceLeadTime,
	}
	if !in.AllDay {
		input.instant = in.Instant.In(loc)
		input.date = input.instant.Format(dateLayout)
	}

	var result AvailabilityResult
	for _, rule := range e.rules {
		if reason := rule.check(input); reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}
	result.Available = len(result.Reasons) == 0
	return result
}

// checkPastInstant requires the request to lie strictly in the future;
// all-day requests only need their day to not have passed.
func checkPastInstant(in ruleInput) *Reason {
	if in.allDay {
		if in.date < in.now.Format(dateLayout) {
			return &Reason{Code: ReasonPastInstant, Detail: fmt.Sprintf("requested day %s has already passed", in.date)}
		}
		return nil
	}
	if !in.instant.After(in.now) {
		return &Reason{Code: ReasonPastInstant, Detail: "requested time is in the past"}
	}
	return nil
}

// checkLeadTime is inert unless explicitly enabled and the schedule sets a
// positive minimum lead.
func checkLeadTime(in ruleInput) *Reason {
	if !in.enforceLeadTime || in.schedule.MinBookingLeadHours <= 0 || in.allDay {
		return nil
	}
	earliest := in.now.Add(time.Duration(in.schedule.MinBookingLeadHours) * time.Hour)
	if in.instant.Before(earliest) {
		return &Reason{
			Code:   ReasonLeadTimeNotMet,
			Detail: fmt.Sprintf("bookings need at least %dh notice", in.schedule.MinBookingLeadHours),
		}
	}
	return nil
}

func checkAdvanceWindow(in ruleInput) *Reason {
	if in.schedule.MaxAdvanceBookingDays <= 0 {
		return nil
	}
	limit := in.now.AddDate(0, 0, in.schedule.MaxAdvanceBookingDays)
	reference := in.instant
	if in.allDay {
		day, err := time.ParseInLocation(dateLayout, in.date, in.loc)
		if err != nil {
			return &Reason{Code: ReasonNoSlotForDate, Detail: fmt.Sprintf("unparseable request date %q", in.date)}
		}
		reference = day
	}
	if reference.After(limit) {
		return &Reason{
			Code:   ReasonBookingWindowExceeded,
			Detail: fmt.Sprintf("bookings are only accepted up to %d days ahead", in.schedule.MaxAdvanceBookingDays),
		}
	}
	return nil
}

func checkDateWindow(in ruleInput) *Reason {
	if start := in.schedule.StartWindowDate; start != nil && in.date < *start {
		return &Reason{Code: ReasonOutsideDateWindow, Detail: fmt.Sprintf("schedule opens on %s", *start)}
	}
	if end := in.schedule.EndWindowDate; end != nil && in.date > *end {
		return &Reason{Code: ReasonOutsideDateWindow, Detail: fmt.Sprintf("schedule closes on %s", *end)}
	}
	return nil
}

func checkSlotMembership(in ruleInput) *Reason {
	intervals, reason := ResolveDayIntervals(in.schedule, in.date)
	if reason != nil {
		return reason
	}
	if in.allDay {
		return nil
	}
	minutes := in.instant.Hour()*60 + in.instant.Minute()
	for _, iv := range intervals {
		if minutes >= iv.Start && minutes < iv.End {
			return nil
		}
	}
	return &Reason{
		Code:   ReasonNoSlotForDate,
		Detail: fmt.Sprintf("requested time falls outside the schedule for %s", in.date),
	}
}

// checkOverlap rejects requests that collide with an existing booking,
// padding every comparison with the schedule buffer on both sides.
func checkOverlap(in ruleInput) *Reason {
	if in.allDay {
		return nil
	}
	duration := in.schedule.SlotDurationMinutes
	if duration <= 0 {
		duration = 60
	}
	buffer := time.Duration(in.schedule.BufferMinutes) * time.Minute
	newStart := in.instant
	newEnd := newStart.Add(time.Duration(duration)*time.Minute + buffer)

	for _, b := range in.bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		if in.exclude != "" && b.ID == in.exclude {
			continue
		}
		busyFrom := b.Start.In(in.loc).Add(-buffer)
		busyTo := b.End().In(in.loc).Add(buffer)
		if in.instant.After(busyFrom) && in.instant.Before(busyTo) {
			return &Reason{
				Code:   ReasonOverlappingBooking,
				Detail: fmt.Sprintf("conflicts with booking %s", b.ID),
			}
		}
		bStart := b.Start.In(in.loc)
		if bStart.After(newStart) && bStart.Before(newEnd) {
			return &Reason{
				Code:   ReasonOverlappingBooking,
				Detail: fmt.Sprintf("booking %s starts inside the requested visit", b.ID),
			}
		}
	}
	return nil
}

// ResolveDayIntervals resolves the effective wall-clock intervals for one
// local date. A date exception fully overrides the weekly rules: null times
// block the whole day, explicit times replace the weekly interval.
func ResolveDayIntervals(schedule *models.ScheduleModel, date string) ([]ClockInterval, *Reason) {
	if exc := schedule.ExceptionFor(date); exc != nil {
		if exc.StartTime == nil || exc.EndTime == nil {
			detail := fmt.Sprintf("therapist is off on %s", date)
			if exc.Reason != "" {
				detail = fmt.Sprintf("therapist is off on %s (%s)", date, exc.Reason)
			}
			return nil, &Reason{Code: ReasonNoSlotForDate, Detail: detail}
		}
		start, err1 := parseClock(*exc.StartTime)
		end, err2 := parseClock(*exc.EndTime)
		if err1 != nil || err2 != nil || end <= start {
			return nil, &Reason{Code: ReasonNoSlotForDate, Detail: fmt.Sprintf("malformed exception for %s", date)}
		}
		return []ClockInterval{{Start: start, End: end}}, nil
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, &Reason{Code: ReasonNoSlotForDate, Detail: fmt.Sprintf("unparseable request date %q", date)}
	}
	var intervals []ClockInterval
	for _, rule := range schedule.RulesFor(day.Weekday()) {
		start, err1 := parseClock(rule.StartTime)
		end, err2 := parseClock(rule.EndTime)
		if err1 != nil || err2 != nil || end <= start {
			continue
		}
		intervals = append(intervals, ClockInterval{Start: start, End: end})
	}
	if len(intervals) == 0 {
		return nil, &Reason{Code: ReasonNoSlotForDate, Detail: fmt.Sprintf("no working hours on %s", date)}
	}
	return intervals, nil
}

// parseClock converts "HH:MM" to minutes from midnight.
func parseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", value, err)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", value, err)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hours*60 + mins, nil
}

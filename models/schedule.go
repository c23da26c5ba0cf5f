package models

import (
	"time"
)

// WeeklyRule opens a recurring wall-clock interval on one weekday.
// Times are interpreted in the owning schedule's timezone. A day may carry
// several rules; any one matching rule makes its interval bookable.
type WeeklyRule struct {
	DayOfWeek time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"`
	StartTime string       `bson:"startTime" json:"startTime"` // "08:00"
	EndTime   string       `bson:"endTime" json:"endTime"`     // "12:00"
}

// DateException overrides every weekly rule for a single date. Null times
// mean the therapist is unavailable for the whole day; explicit times replace
// the weekly interval for that date only.
type DateException struct {
	Date      string  `bson:"date" json:"date"` // "2006-01-02"
	StartTime *string `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime   *string `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Reason    string  `bson:"reason,omitempty" json:"reason,omitempty"`
}

// ScheduleModel is the immutable per-therapist booking configuration. It is
// owned by the therapist record and read-only to the matching engine.
type ScheduleModel struct {
	Timezone              string          `bson:"timezone" json:"timezone"`
	SlotDurationMinutes   int             `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	BufferMinutes         int             `bson:"bufferMinutes" json:"bufferMinutes"`
	MaxAdvanceBookingDays int             `bson:"maxAdvanceBookingDays" json:"maxAdvanceBookingDays"`
	// MinBookingLeadHours is kept in the model but the corresponding rule is
	// disabled unless the engine is explicitly configured to enforce it.
	MinBookingLeadHours int             `bson:"minBookingLeadHours" json:"minBookingLeadHours"`
	StartWindowDate     *string         `bson:"startWindowDate,omitempty" json:"startWindowDate,omitempty"` // "2006-01-02"
	EndWindowDate       *string         `bson:"endWindowDate,omitempty" json:"endWindowDate,omitempty"`
	RegionRestricted    bool            `bson:"regionRestricted" json:"regionRestricted"`
	WeeklyRules         []WeeklyRule    `bson:"weeklyRules" json:"weeklyRules"`
	Exceptions          []DateException `bson:"exceptions,omitempty" json:"exceptions,omitempty"`
}

// Location resolves the schedule's timezone.
func (s ScheduleModel) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// ExceptionFor returns the exception for the given local date, if any.
func (s ScheduleModel) ExceptionFor(date string) *DateException {
	for i := range s.Exceptions {
		if s.Exceptions[i].Date == date {
			return &s.Exceptions[i]
		}
	}
	return nil
}

// RulesFor returns every weekly rule registered for the given weekday.
func (s ScheduleModel) RulesFor(day time.Weekday) []WeeklyRule {
	var rules []WeeklyRule
	for _, r := range s.WeeklyRules {
		if r.DayOfWeek == day {
			rules = append(rules, r)
		}
	}
	return rules
}

// Empty reports whether the schedule carries no usable configuration, which
// the engine treats the same as a missing schedule.
func (s ScheduleModel) Empty() bool {
	return s.Timezone == "" && len(s.WeeklyRules) == 0 && len(s.Exceptions) == 0
}

package booking

import (
	"fmt"
	"time"

	"visitcare/models"
	"visitcare/services/matching"
)

// continuousInterval is a helper struct, minutes from midnight.
type continuousInterval struct {
	Start int
	End   int
}

// SuggestSlots computes the bookable start slots for one therapist on one
// local date: the effective schedule interval minus every booked window,
// buffer included, cut into slot-duration steps.
func SuggestSlots(therapist models.Therapist, bookings []models.ExistingBooking, date string) ([]models.VisitSlot, error) {
	schedule := therapist.Schedule
	intervals, reason := matching.ResolveDayIntervals(&schedule, date)
	if reason != nil {
		// A blocked or unconfigured day simply yields no slots.
		return nil, nil
	}
	loc, err := schedule.Location()
	if err != nil {
		return nil, fmt.Errorf("unusable schedule timezone %q: %w", schedule.Timezone, err)
	}

	available := make([]continuousInterval, 0, len(intervals))
	for _, iv := range intervals {
		available = append(available, continuousInterval{Start: iv.Start, End: iv.End})
	}
	for _, block := range bookedWindows(bookings, schedule, date, loc) {
		available = subtractBlock(available, block)
	}

	duration := schedule.SlotDurationMinutes
	if duration <= 0 {
		duration = 60
	}

	var slots []models.VisitSlot
	for _, iv := range available {
		for start := iv.Start; start+duration <= iv.End; start += duration {
			slots = append(slots, models.VisitSlot{
				Date:  date,
				Start: start,
				End:   start + duration,
				Label: fmt.Sprintf("%s - %s", formatClock(start), formatClock(start+duration)),
			})
		}
	}
	return slots, nil
}

// bookedWindows projects the therapist's non-cancelled bookings onto the
// date as buffered minute windows.
func bookedWindows(bookings []models.ExistingBooking, schedule models.ScheduleModel, date string, loc *time.Location) []continuousInterval {
	var windows []continuousInterval
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		start := b.Start.In(loc)
		if start.Format("2006-01-02") != date {
			continue
		}
		from := start.Hour()*60 + start.Minute() - schedule.BufferMinutes
		to := from + b.DurationMinutes + 2*schedule.BufferMinutes
		windows = append(windows, continuousInterval{Start: from, End: to})
	}
	return windows
}

// subtractBlock removes one blocked window from every available interval.
func subtractBlock(available []continuousInterval, block continuousInterval) []continuousInterval {
	var updated []continuousInterval
	for _, iv := range available {
		if block.End <= iv.Start || block.Start >= iv.End {
			updated = append(updated, iv)
			continue
		}
		if block.Start > iv.Start {
			updated = append(updated, continuousInterval{Start: iv.Start, End: block.Start})
		}
		if block.End < iv.End {
			updated = append(updated, continuousInterval{Start: block.End, End: iv.End})
		}
	}
	return updated
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

package booking

import (
	"testing"
	"time"

	"visitcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotTherapist() models.Therapist {
	return models.Therapist{
		ID: "t1",
		Schedule: models.ScheduleModel{
			Timezone:            "UTC",
			SlotDurationMinutes: 60,
			BufferMinutes:       15,
			WeeklyRules: []models.WeeklyRule{
				{DayOfWeek: time.Monday, StartTime: "08:00", EndTime: "12:00"},
			},
		},
	}
}

func TestSuggestSlotsOpenDay(t *testing.T) {
	slots, err := SuggestSlots(slotTherapist(), nil, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, 8*60, slots[0].Start)
	assert.Equal(t, "08:00 - 09:00", slots[0].Label)
	assert.Equal(t, "11:00 - 12:00", slots[3].Label)
}

func TestSuggestSlotsSubtractsBookedWindows(t *testing.T) {
	bookings := []models.ExistingBooking{{
		ID:              "bk-1",
		Start:           time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          models.BookingStatusConfirmed,
	}}
	slots, err := SuggestSlots(slotTherapist(), bookings, "2025-03-10")
	require.NoError(t, err)
	// 09:00-10:00 is booked and buffered 08:45-10:15; only the trailing
	// interval still fits a full hour.
	require.Len(t, slots, 1)
	assert.Equal(t, "10:15 - 11:15", slots[0].Label)
}

func TestSuggestSlotsIgnoresCancelledAndOtherDays(t *testing.T) {
	bookings := []models.ExistingBooking{
		{
			ID:              "cancelled",
			Start:           time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          models.BookingStatusCancelled,
		},
		{
			ID:              "next-week",
			Start:           time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          models.BookingStatusConfirmed,
		},
	}
	slots, err := SuggestSlots(slotTherapist(), bookings, "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestSuggestSlotsBlockedDay(t *testing.T) {
	therapist := slotTherapist()
	therapist.Schedule.Exceptions = []models.DateException{{Date: "2025-03-10", Reason: "leave"}}
	slots, err := SuggestSlots(therapist, nil, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSuggestSlotsNoRuleForWeekday(t *testing.T) {
	slots, err := SuggestSlots(slotTherapist(), nil, "2025-03-11")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

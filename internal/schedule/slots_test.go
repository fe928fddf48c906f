package schedule

import (
	"testing"
	"time"

	"agenda/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCombine(t *testing.T, day, clock string) time.Time {
	t.Helper()
	ts, err := Combine(day, clock)
	require.NoError(t, err)
	return ts
}

func appt(t *testing.T, id, day, start, end, status, serviceID string) models.Appointment {
	t.Helper()
	a := models.Appointment{
		ID:        id,
		ClientID:  "client-1",
		ServiceID: serviceID,
		StartAt:   mustCombine(t, day, start),
		Status:    status,
	}
	if end != "" {
		a.EndAt = mustCombine(t, day, end)
	}
	return a
}

func TestRangeOverlapsHalfOpen(t *testing.T) {
	busy := Range{Start: 600, End: 660} // 10:00 - 11:00

	assert.True(t, busy.Overlaps(Range{Start: 630, End: 690}))
	assert.True(t, busy.Overlaps(Range{Start: 570, End: 630}))
	assert.True(t, busy.Overlaps(Range{Start: 600, End: 660}))

	// Touching endpoints do not overlap.
	assert.False(t, busy.Overlaps(Range{Start: 660, End: 720}))
	assert.False(t, busy.Overlaps(Range{Start: 540, End: 600}))
}

func TestAvailableStartTimesAroundOneBooking(t *testing.T) {
	day := "2025-03-10"
	services := map[string]models.Service{
		"svc-60": {ID: "svc-60", Name: "Manicure", DurationMinutes: 60},
	}
	busy := []models.Appointment{
		appt(t, "a1", day, "10:00", "11:00", models.StatusConfirmed, "svc-60"),
	}

	available := AvailableStartTimes(DefaultWindow(), 60, busy, "", services)

	// A 60-minute booking starting at 09:30, 10:00 or 10:30 would collide.
	assert.NotContains(t, available, "09:30")
	assert.NotContains(t, available, "10:00")
	assert.NotContains(t, available, "10:30")

	assert.Contains(t, available, "08:00")
	assert.Contains(t, available, "09:00")
	assert.Contains(t, available, "11:00")
	// Last legal start keeps the booking inside the window.
	assert.Contains(t, available, "19:00")
	assert.NotContains(t, available, "19:30")
}

func TestAvailableStartTimesEmptyDay(t *testing.T) {
	available := AvailableStartTimes(DefaultWindow(), 30, nil, "", nil)

	require.NotEmpty(t, available)
	assert.Equal(t, "08:00", available[0])
	assert.Equal(t, "19:30", available[len(available)-1])
	// 08:00..19:30 on a 30-minute grid.
	assert.Len(t, available, 24)
}

func TestAvailableStartTimesOversizedDuration(t *testing.T) {
	// Longer than the whole window: no legal start exists.
	available := AvailableStartTimes(DefaultWindow(), 13*60, nil, "", nil)
	assert.Empty(t, available)

	assert.Nil(t, AvailableStartTimes(DefaultWindow(), 0, nil, "", nil))
	assert.Nil(t, AvailableStartTimes(DefaultWindow(), -30, nil, "", nil))
}

func TestAvailableStartTimesExcludesOwnAppointment(t *testing.T) {
	day := "2025-03-10"
	services := map[string]models.Service{
		"svc-60": {ID: "svc-60", DurationMinutes: 60},
	}
	busy := []models.Appointment{
		appt(t, "mine", day, "10:00", "11:00", models.StatusConfirmed, "svc-60"),
	}

	blocked := AvailableStartTimes(DefaultWindow(), 60, busy, "", services)
	assert.NotContains(t, blocked, "10:00")

	freed := AvailableStartTimes(DefaultWindow(), 60, busy, "mine", services)
	assert.Contains(t, freed, "10:00")
}

func TestAvailableStartTimesIgnoresCanceled(t *testing.T) {
	day := "2025-03-10"
	services := map[string]models.Service{
		"svc-60": {ID: "svc-60", DurationMinutes: 60},
	}
	busy := []models.Appointment{
		appt(t, "a1", day, "10:00", "11:00", models.StatusCanceled, "svc-60"),
	}

	available := AvailableStartTimes(DefaultWindow(), 60, busy, "", services)
	assert.Contains(t, available, "10:00")
}

func TestAppointmentRangeDegenerateEnd(t *testing.T) {
	day := "2025-03-10"
	services := map[string]models.Service{
		"svc-90": {ID: "svc-90", DurationMinutes: 90},
	}

	// End equal to start is treated as missing and re-derived from the
	// service duration.
	degenerate := appt(t, "a1", day, "10:00", "10:00", models.StatusPending, "svc-90")
	r := AppointmentRange(degenerate, services)
	assert.Equal(t, Range{Start: 600, End: 690}, r)

	// Unknown service falls back to the default duration.
	unknown := appt(t, "a2", day, "10:00", "", models.StatusPending, "missing")
	r = AppointmentRange(unknown, services)
	assert.Equal(t, Range{Start: 600, End: 600 + models.DefaultDurationMinutes}, r)
}

func TestOccupiedSlots(t *testing.T) {
	day := "2025-03-10"
	services := map[string]models.Service{
		"svc-60": {ID: "svc-60", DurationMinutes: 60},
	}
	busy := []models.Appointment{
		appt(t, "late", day, "14:00", "15:00", models.StatusPending, "svc-60"),
		appt(t, "early", day, "09:00", "10:00", models.StatusConfirmed, "svc-60"),
		appt(t, "gone", day, "11:00", "12:00", models.StatusCanceled, "svc-60"),
	}

	slots := OccupiedSlots(busy, services)
	assert.Equal(t, []string{"09:00 - 10:00", "14:00 - 15:00"}, slots)
}

func TestTimeOptionsKeepsOffGridCurrent(t *testing.T) {
	available := []string{"08:00", "08:30", "09:00"}

	// Off-grid current time is unioned in, sorted into place.
	got := TimeOptions("08:15", available)
	assert.Equal(t, []string{"08:00", "08:15", "08:30", "09:00"}, got)

	// Already present: returned as-is.
	got = TimeOptions("08:30", available)
	assert.Equal(t, available, got)

	// Empty current adds nothing.
	got = TimeOptions("", available)
	assert.Equal(t, available, got)
}

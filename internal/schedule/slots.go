package schedule

import (
	"fmt"
	"sort"

	"agenda/internal/models"
)

// Window bounds the bookable part of a day in minutes of day, with a fixed
// slot granularity.
type Window struct {
	StartMinutes int
	EndMinutes   int
	SlotMinutes  int
}

// DefaultWindow is the provider's working day: [08:00, 20:00) on a 30-minute grid.
func DefaultWindow() Window {
	return Window{
		StartMinutes: models.WorkStartMinutes,
		EndMinutes:   models.WorkEndMinutes,
		SlotMinutes:  models.SlotMinutes,
	}
}

func (w Window) normalized() Window {
	if w.StartMinutes == 0 && w.EndMinutes == 0 {
		w.StartMinutes = models.WorkStartMinutes
		w.EndMinutes = models.WorkEndMinutes
	}
	if w.SlotMinutes <= 0 {
		w.SlotMinutes = models.SlotMinutes
	}
	return w
}

// Range is a half-open [Start, End) interval in minutes of day.
type Range struct {
	Start int
	End   int
}

func (r Range) String() string {
	return fmt.Sprintf("%s - %s", MinutesToClock(r.Start), MinutesToClock(r.End))
}

// Overlaps uses the half-open interval test: [a,b) and [c,d) overlap iff a < d && b > c.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && r.End > other.Start
}

// AppointmentRange computes the occupied minutes-of-day interval for an
// appointment. The end comes from the stored end timestamp; when that is
// absent or degenerate (equal to the start), it is re-derived from the
// service duration.
func AppointmentRange(appt models.Appointment, services map[string]models.Service) Range {
	start, err := ClockToMinutes(ClockOf(appt.StartAt))
	if err != nil {
		start = 0
	}

	end := -1
	if !appt.EndAt.IsZero() {
		if m, err := ClockToMinutes(ClockOf(appt.EndAt)); err == nil {
			end = m
		}
	}
	if end < 0 || end == start {
		end = start + appt.DurationMinutes(services)
	}

	return Range{Start: start, End: end}
}

// OccupiedSlots renders the day's non-canceled appointments as ordered
// "HH:MM - HH:MM" ranges. The sort is stable: equal starts keep input order.
func OccupiedSlots(dayAppointments []models.Appointment, services map[string]models.Service) []string {
	ranges := make([]Range, 0, len(dayAppointments))
	for _, appt := range dayAppointments {
		if appt.Status == models.StatusCanceled {
			continue
		}
		ranges = append(ranges, AppointmentRange(appt, services))
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})

	out := make([]string, len(ranges))
	for i, r := range ranges {
		out[i] = r.String()
	}
	return out
}

// AvailableStartTimes scans the work window on the slot grid and returns every
// start time where a booking of the given duration would not overlap a
// non-canceled appointment of the day. The appointment identified by excludeID
// is ignored so a reschedule may land in the slot it frees up. Results are in
// ascending order by construction.
func AvailableStartTimes(w Window, durationMinutes int, dayAppointments []models.Appointment, excludeID string, services map[string]models.Service) []string {
	if durationMinutes <= 0 {
		return nil
	}
	w = w.normalized()

	ranges := make([]Range, 0, len(dayAppointments))
	for _, appt := range dayAppointments {
		if appt.ID == excludeID || appt.Status == models.StatusCanceled {
			continue
		}
		ranges = append(ranges, AppointmentRange(appt, services))
	}

	var available []string
	for start := w.StartMinutes; start+durationMinutes <= w.EndMinutes; start += w.SlotMinutes {
		candidate := Range{Start: start, End: start + durationMinutes}
		free := true
		for _, r := range ranges {
			if candidate.Overlaps(r) {
				free = false
				break
			}
		}
		if free {
			available = append(available, MinutesToClock(start))
		}
	}
	return available
}

// TimeOptions unions the appointment's current start time into the available
// list. The current time may sit off the slot grid, so membership is not
// guaranteed by AvailableStartTimes alone.
func TimeOptions(current string, available []string) []string {
	for _, t := range available {
		if t == current {
			return available
		}
	}

	out := make([]string, 0, len(available)+1)
	if current != "" {
		out = append(out, current)
	}
	out = append(out, available...)
	sort.Slice(out, func(i, j int) bool {
		a, _ := ClockToMinutes(out[i])
		b, _ := ClockToMinutes(out[j])
		return a < b
	})
	return out
}

package schedule

import (
	"sort"

	"agenda/internal/models"
)

// FilterByDay keeps the appointments whose local day key equals day.
func FilterByDay(appointments []models.Appointment, day string) []models.Appointment {
	var out []models.Appointment
	for _, appt := range appointments {
		if DayKeyOf(appt.StartAt) == day {
			out = append(out, appt)
		}
	}
	return out
}

// FilterByWeek keeps the appointments of the Monday..Sunday week containing day.
func FilterByWeek(appointments []models.Appointment, day string) ([]models.Appointment, error) {
	start, err := StartOfWeek(day)
	if err != nil {
		return nil, err
	}
	end, err := EndOfWeek(day)
	if err != nil {
		return nil, err
	}

	var out []models.Appointment
	for _, appt := range appointments {
		key := DayKeyOf(appt.StartAt)
		// Day keys compare lexicographically in chronological order.
		if key >= start && key <= end {
			out = append(out, appt)
		}
	}
	return out, nil
}

// DayGroup is the agenda of one calendar day.
type DayGroup struct {
	Day          string
	Appointments []models.Appointment
}

// GroupByDay buckets appointments per day key, ascending by day, preserving
// insertion order within each day.
func GroupByDay(appointments []models.Appointment) []DayGroup {
	byDay := make(map[string][]models.Appointment)
	var order []string
	for _, appt := range appointments {
		key := DayKeyOf(appt.StartAt)
		if _, ok := byDay[key]; !ok {
			order = append(order, key)
		}
		byDay[key] = append(byDay[key], appt)
	}

	sort.Strings(order)
	groups := make([]DayGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, DayGroup{Day: key, Appointments: byDay[key]})
	}
	return groups
}

package schedule

import (
	"errors"
	"fmt"
	"time"
)

const (
	dayKeyLayout   = "2006-01-02"
	clockLayout    = "15:04"
	combinedLayout = "2006-01-02 15:04"
)

var ErrBadDayOrTime = errors.New("day key or time of day is missing or malformed")

// DayKeyOf maps a timestamp to its local calendar-day key (YYYY-MM-DD).
func DayKeyOf(t time.Time) string {
	return t.In(time.Local).Format(dayKeyLayout)
}

// ClockOf extracts the local time of day (HH:MM).
func ClockOf(t time.Time) string {
	return t.In(time.Local).Format(clockLayout)
}

// ParseDayKey interprets a bare date as local midnight. Date-only input must
// never shift across a day boundary through a UTC round trip.
func ParseDayKey(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dayKeyLayout, day, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDayOrTime, day)
	}
	return t, nil
}

// Combine builds a local timestamp from a day key and a time of day.
func Combine(day, clock string) (time.Time, error) {
	if day == "" || clock == "" {
		return time.Time{}, ErrBadDayOrTime
	}
	t, err := time.ParseInLocation(combinedLayout, day+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrBadDayOrTime, day, clock)
	}
	return t, nil
}

// StartOfWeek returns the Monday of the week containing day.
func StartOfWeek(day string) (string, error) {
	t, err := ParseDayKey(day)
	if err != nil {
		return "", err
	}
	offset := (int(t.Weekday()) + 6) % 7
	return DayKeyOf(t.AddDate(0, 0, -offset)), nil
}

// EndOfWeek returns the Sunday of the week containing day.
func EndOfWeek(day string) (string, error) {
	start, err := StartOfWeek(day)
	if err != nil {
		return "", err
	}
	t, _ := ParseDayKey(start)
	return DayKeyOf(t.AddDate(0, 0, 6)), nil
}

// WeekDays lists the seven day keys of the week containing day, Monday first.
func WeekDays(day string) ([]string, error) {
	start, err := StartOfWeek(day)
	if err != nil {
		return nil, err
	}
	t, _ := ParseDayKey(start)
	days := make([]string, 7)
	for i := range days {
		days[i] = DayKeyOf(t.AddDate(0, 0, i))
	}
	return days, nil
}

// ClockToMinutes converts HH:MM to minutes of day.
func ClockToMinutes(clock string) (int, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadDayOrTime, clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesToClock converts minutes of day to HH:MM, clamping negatives to zero.
func MinutesToClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

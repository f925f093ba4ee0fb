package dateutil

import (
	"time"
)

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t and normalises it to UTC.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// MonthBounds returns the first and last day of a calendar month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := Date(year, month, 1)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// InMonth reports whether t falls into the given calendar month.
func InMonth(t time.Time, year int, month time.Month) bool {
	return !t.IsZero() && t.Year() == year && t.Month() == month
}

// WorkingDays counts Monday to Friday days in [from, to], both inclusive.
// Public holidays are not excluded.
func WorkingDays(from, to time.Time) int {
	from, to = Truncate(from), Truncate(to)
	if to.Before(from) {
		return 0
	}
	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// Overlap intersects the employment interval [start, end] with a calendar
// month. A zero start or end is treated as open. ok is false when the
// interval does not touch the month.
func Overlap(start, end time.Time, year int, month time.Month) (from, to time.Time, ok bool) {
	from, to = MonthBounds(year, month)
	if !start.IsZero() && Truncate(start).After(from) {
		from = Truncate(start)
	}
	if !end.IsZero() && Truncate(end).Before(to) {
		to = Truncate(end)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

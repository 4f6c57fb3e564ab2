package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// MonthKey identifies one calendar month, e.g. 2024-03.
type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthKeyOf(t), nil
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m MonthKey) Next() MonthKey {
	if m.Month == time.December {
		return MonthKey{Year: m.Year + 1, Month: time.January}
	}
	return MonthKey{Year: m.Year, Month: m.Month + 1}
}

func (m MonthKey) Before(other MonthKey) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m MonthKey) After(other MonthKey) bool {
	return other.Before(m)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysInMonth returns the number of days in the given month (leap-year aware).
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay clamps a day-of-month into the given month, so a move-in on the
// 31st yields the 28th/29th/30th in shorter months.
func ClampDay(day int, year int, month time.Month) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// Truncate to date-only (UTC midnight) for due-date comparisons.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from a to b, floored, never negative.
func DaysBetween(a, b time.Time) int {
	d := int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

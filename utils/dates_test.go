package utils

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29}, // leap
		{2023, time.February, 28},
		{2000, time.February, 29}, // divisible by 400
		{1900, time.February, 28}, // divisible by 100, not 400
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, c := range cases {
		if got := DaysInMonth(c.year, c.month); got != c.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", c.year, c.month, got, c.want)
		}
	}
}

func TestClampDay(t *testing.T) {
	if got := ClampDay(31, 2024, time.February); got != 29 {
		t.Errorf("ClampDay(31, Feb 2024) = %d, want 29", got)
	}
	if got := ClampDay(31, 2023, time.February); got != 28 {
		t.Errorf("ClampDay(31, Feb 2023) = %d, want 28", got)
	}
	if got := ClampDay(15, 2024, time.February); got != 15 {
		t.Errorf("ClampDay(15, Feb 2024) = %d, want 15", got)
	}
}

func TestMonthKey(t *testing.T) {
	m, err := ParseMonthKey("2024-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Year != 2024 || m.Month != time.March {
		t.Fatalf("parsed %v", m)
	}
	if m.String() != "2024-03" {
		t.Errorf("String() = %s", m.String())
	}

	if next := (MonthKey{2024, time.December}).Next(); next != (MonthKey{2025, time.January}) {
		t.Errorf("December.Next() = %v", next)
	}
	if !(MonthKey{2023, time.December}).Before(MonthKey{2024, time.January}) {
		t.Error("2023-12 must be before 2024-01")
	}
	if (MonthKey{2024, time.March}).Before(MonthKey{2024, time.March}) {
		t.Error("a month is not before itself")
	}

	if _, err := ParseMonthKey("03-2024"); err == nil {
		t.Error("expected error for reversed format")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDate(d) != "2024-02-29" {
		t.Errorf("round trip = %s", FormatDate(d))
	}

	for _, bad := range []string{"", "2024-2-9", "2023-02-29", "29/02/2024"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q): expected error", bad)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.February, 1, 18, 45, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 27 {
		t.Errorf("DaysBetween = %d, want 27", got)
	}
	// time-of-day must not matter
	if got := DaysBetween(a.Add(23*time.Hour), b); got != 27 {
		t.Errorf("DaysBetween with late start = %d, want 27", got)
	}
	// never negative
	if got := DaysBetween(b, a); got != 0 {
		t.Errorf("reversed DaysBetween = %d, want 0", got)
	}
}

// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package calendar answers business-day questions for settlement scheduling.
// A business day is a weekday that is not a US federal banking holiday.
// Holiday tables are computed per queried year and memoized, so the calendar
// works for any year without a maintained lookup table.
package calendar

import (
	"sync"
	"time"
)

type ymd struct {
	year  int
	month time.Month
	day   int
}

// Calendar memoizes per-year holiday tables. The zero value is not usable;
// construct with New. Safe for concurrent use.
type Calendar struct {
	mu       sync.Mutex
	holidays map[int]map[ymd]string
}

// New returns an empty calendar. Holiday tables fill in lazily per queried
// year.
func New() *Calendar {
	return &Calendar{holidays: make(map[int]map[ymd]string)}
}

// nthWeekday returns the nth given weekday of a month (n starting at 1).
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last given weekday of a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	// Day 0 of the next month is the last day of this month.
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) - int(weekday) + 7) % 7
	return t.AddDate(0, 0, -offset)
}

func (c *Calendar) holidaysFor(year int) map[ymd]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if table, ok := c.holidays[year]; ok {
		return table
	}

	table := make(map[ymd]string)
	add := func(t time.Time, name string) {
		table[ymd{t.Year(), t.Month(), t.Day()}] = name
	}

	add(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), "New Year's Day")
	add(nthWeekday(year, time.January, time.Monday, 3), "Martin Luther King Jr. Day")
	add(nthWeekday(year, time.February, time.Monday, 3), "Presidents' Day")
	add(lastWeekday(year, time.May, time.Monday), "Memorial Day")
	add(time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC), "Independence Day")
	add(nthWeekday(year, time.September, time.Monday, 1), "Labor Day")
	add(nthWeekday(year, time.October, time.Monday, 2), "Columbus Day")
	add(time.Date(year, time.November, 11, 0, 0, 0, 0, time.UTC), "Veterans Day")
	add(nthWeekday(year, time.November, time.Thursday, 4), "Thanksgiving Day")
	add(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), "Christmas Day")

	c.holidays[year] = table
	return table
}

// Holiday returns the holiday name for a date, if any. Weekends are not
// holidays; they are non-business days in their own right.
func (c *Calendar) Holiday(date time.Time) (string, bool) {
	name, ok := c.holidaysFor(date.Year())[ymd{date.Year(), date.Month(), date.Day()}]
	return name, ok
}

// IsBusinessDay reports whether date is a weekday and not a holiday. Only the
// calendar date matters; the time of day and location are ignored.
func (c *Calendar) IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.Holiday(date)
	return !holiday
}

// NextBusinessDay returns the first business day strictly after date.
func (c *Calendar) NextBusinessDay(date time.Time) time.Time {
	d := date.AddDate(0, 0, 1)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// PreviousBusinessDay returns the first business day strictly before date.
func (c *Calendar) PreviousBusinessDay(date time.Time) time.Time {
	d := date.AddDate(0, 0, -1)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// AddBusinessDays advances date by n business days, skipping weekends and
// holidays. n == 0 returns date unchanged, even on a non-business day.
func (c *Calendar) AddBusinessDays(date time.Time, n int) time.Time {
	d := date
	for i := 0; i < n; i++ {
		d = c.NextBusinessDay(d)
	}
	return d
}

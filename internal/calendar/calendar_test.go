// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekendsAreNotBusinessDays(t *testing.T) {
	cal := New()
	for d := date(2023, time.January, 1); d.Year() <= 2028; d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if (wd == time.Saturday || wd == time.Sunday) && cal.IsBusinessDay(d) {
			t.Fatalf("%s (%s) reported as business day", d.Format("2006-01-02"), wd)
		}
	}
}

func TestHolidays2025(t *testing.T) {
	cal := New()
	cases := []struct {
		day  time.Time
		name string
	}{
		{date(2025, time.January, 1), "New Year's Day"},
		{date(2025, time.January, 20), "Martin Luther King Jr. Day"},
		{date(2025, time.February, 17), "Presidents' Day"},
		{date(2025, time.May, 26), "Memorial Day"},
		{date(2025, time.July, 4), "Independence Day"},
		{date(2025, time.September, 1), "Labor Day"},
		{date(2025, time.October, 13), "Columbus Day"},
		{date(2025, time.November, 11), "Veterans Day"},
		{date(2025, time.November, 27), "Thanksgiving Day"},
		{date(2025, time.December, 25), "Christmas Day"},
	}
	for _, tc := range cases {
		name, ok := cal.Holiday(tc.day)
		if !ok {
			t.Errorf("%s: expected holiday %q, got none", tc.day.Format("2006-01-02"), tc.name)
			continue
		}
		if name != tc.name {
			t.Errorf("%s: holiday = %q, want %q", tc.day.Format("2006-01-02"), name, tc.name)
		}
		if cal.IsBusinessDay(tc.day) {
			t.Errorf("%s (%s) must not be a business day", tc.day.Format("2006-01-02"), tc.name)
		}
	}
}

func TestThanksgivingAcrossYears(t *testing.T) {
	cal := New()
	// Fourth Thursday of November.
	want := map[int]int{2023: 23, 2024: 28, 2025: 27, 2026: 26}
	for year, day := range want {
		d := date(year, time.November, day)
		if _, ok := cal.Holiday(d); !ok {
			t.Errorf("Thanksgiving %d expected on Nov %d", year, day)
		}
	}
}

func TestNextBusinessDay(t *testing.T) {
	cal := New()
	cases := []struct {
		from, want time.Time
	}{
		// Thursday July 3, 2025: next is Monday July 7 (Fri is Independence Day).
		{date(2025, time.July, 3), date(2025, time.July, 7)},
		// Wednesday Dec 24, 2025: next is Friday Dec 26 (Thu is Christmas).
		{date(2025, time.December, 24), date(2025, time.December, 26)},
		// Friday Aug 22, 2025: next is Monday Aug 25.
		{date(2025, time.August, 22), date(2025, time.August, 25)},
		// A business day still moves strictly forward.
		{date(2025, time.August, 25), date(2025, time.August, 26)},
	}
	for _, tc := range cases {
		if got := cal.NextBusinessDay(tc.from); !got.Equal(tc.want) {
			t.Errorf("NextBusinessDay(%s) = %s, want %s",
				tc.from.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestPreviousBusinessDay(t *testing.T) {
	cal := New()
	cases := []struct {
		from, want time.Time
	}{
		// Monday July 7, 2025: previous is Thursday July 3 (Fri was the 4th).
		{date(2025, time.July, 7), date(2025, time.July, 3)},
		// Friday Dec 26, 2025: previous is Wednesday Dec 24.
		{date(2025, time.December, 26), date(2025, time.December, 24)},
		// Monday Aug 25, 2025: previous is Friday Aug 22.
		{date(2025, time.August, 25), date(2025, time.August, 22)},
	}
	for _, tc := range cases {
		if got := cal.PreviousBusinessDay(tc.from); !got.Equal(tc.want) {
			t.Errorf("PreviousBusinessDay(%s) = %s, want %s",
				tc.from.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestAddBusinessDays(t *testing.T) {
	cal := New()

	if got := cal.AddBusinessDays(date(2025, time.August, 25), 0); !got.Equal(date(2025, time.August, 25)) {
		t.Errorf("adding zero days must return the input date, got %s", got.Format("2006-01-02"))
	}

	// Every result of AddBusinessDays(d, n) must be a business day reachable
	// by exactly n NextBusinessDay steps.
	starts := []time.Time{
		date(2025, time.January, 1),
		date(2025, time.July, 3),
		date(2025, time.November, 26),
		date(2025, time.December, 24),
		date(2026, time.February, 13),
	}
	for _, start := range starts {
		stepped := start
		for n := 1; n <= 15; n++ {
			stepped = cal.NextBusinessDay(stepped)
			got := cal.AddBusinessDays(start, n)
			if !got.Equal(stepped) {
				t.Fatalf("AddBusinessDays(%s, %d) = %s, want %s",
					start.Format("2006-01-02"), n, got.Format("2006-01-02"), stepped.Format("2006-01-02"))
			}
			if !cal.IsBusinessDay(got) {
				t.Fatalf("AddBusinessDays landed on non-business day %s", got.Format("2006-01-02"))
			}
		}
	}
}

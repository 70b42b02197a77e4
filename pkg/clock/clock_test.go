package clock

import (
	"testing"
	"time"
)

func TestDateOfKeepsLocalCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 01:30 on the 10th in UTC+9 is still the 9th in UTC.
	local := time.Date(2025, 3, 10, 1, 30, 0, 0, loc)

	got := DateOf(local)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
}

func TestFixedClockToday(t *testing.T) {
	c := Fixed(time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC))
	if got := c.Today().Format(DateLayout); got != "2025-03-10" {
		t.Errorf("Today = %s", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Errorf("expected Monday, got %v", d.Weekday())
	}
	if _, err := ParseDate("10/03/2025"); err == nil {
		t.Error("expected error for wrong layout")
	}
}

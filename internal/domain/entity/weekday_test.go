package entity

import (
	"testing"
	"time"
)

func TestWeekdayOf(t *testing.T) {
	cases := []struct {
		date time.Time
		want Weekday
	}{
		{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Monday},
		{time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Tuesday},
		{time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), Sunday},
		{time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), Tuesday},
		{time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC), Saturday},
	}
	for _, c := range cases {
		if got := WeekdayOf(c.date); got != c.want {
			t.Errorf("WeekdayOf(%s) = %s, want %s", c.date.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	for _, d := range Weekdays {
		got, err := ParseWeekday(string(d))
		if err != nil || got != d {
			t.Errorf("ParseWeekday(%q) = %q, %v", d, got, err)
		}
	}
	for _, bad := range []string{"", "mon", "Monday", "Xyz"} {
		if _, err := ParseWeekday(bad); err == nil {
			t.Errorf("ParseWeekday(%q): expected error", bad)
		}
	}
	if Friday.Index() != 4 || Weekday("Nope").Index() != -1 {
		t.Error("unexpected weekday index")
	}
}

package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", TimeAt(9, 0), false},
		{"09:30:00", TimeAt(9, 30), false},
		{"23:59:59.999", TimeAt(23, 59), false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09-00", 0, true},
		{"09:60", 0, true},
		{"09:00x", 0, true},
		{"+9:00", 0, true},
		{"09:+5", 0, true},
		{"09:00:xx", 0, true},
		{"09:00junk", 0, true},
		{"09:00:60", 0, true},
		{"09:00:00junk", 0, true},
		{"09:00:00.", 0, true},
		{"09:00:00.123456", TimeAt(9, 0), false},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTimeOfDay_NumericOrdering(t *testing.T) {
	if !(TimeAt(9, 0) < TimeAt(10, 0)) {
		t.Error("09:00 should be before 10:00")
	}
	if !(TimeAt(8, 30) < TimeAt(13, 0)) {
		t.Error("08:30 should be before 13:00")
	}
	if TimeAt(11, 30).String() != "11:30" {
		t.Errorf("unexpected string %q", TimeAt(11, 30).String())
	}
}

func TestTimeOfDay_ValueAndScan(t *testing.T) {
	v, err := TimeAt(9, 5).Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "09:05:00" {
		t.Errorf("expected zero padded literal, got %v", v)
	}

	var fromString TimeOfDay
	if err := fromString.Scan("14:30:00"); err != nil || fromString != TimeAt(14, 30) {
		t.Errorf("scan string: got %v, err %v", fromString, err)
	}

	var fromBytes TimeOfDay
	if err := fromBytes.Scan([]byte("08:15:00")); err != nil || fromBytes != TimeAt(8, 15) {
		t.Errorf("scan bytes: got %v, err %v", fromBytes, err)
	}

	var fromTime TimeOfDay
	if err := fromTime.Scan(time.Date(0, 1, 1, 12, 45, 0, 0, time.UTC)); err != nil || fromTime != TimeAt(12, 45) {
		t.Errorf("scan time: got %v, err %v", fromTime, err)
	}

	var bad TimeOfDay
	if err := bad.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}

	if _, err := TimeOfDay(-1).Value(); err == nil {
		t.Error("expected error for out of range value")
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	data, err := json.Marshal(TimeAt(9, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"09:30"` {
		t.Errorf("unexpected json %s", data)
	}

	var got TimeOfDay
	if err := json.Unmarshal([]byte(`"13:00"`), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != TimeAt(13, 0) {
		t.Errorf("got %v", got)
	}
	if err := json.Unmarshal([]byte(`"1pm"`), &got); err == nil {
		t.Error("expected error for invalid json time")
	}
}

func TestTimeSlot_Within(t *testing.T) {
	hoursStart, hoursEnd := TimeAt(9, 0), TimeAt(12, 0)

	cases := []struct {
		name string
		slot TimeSlot
		want bool
	}{
		{"first slot", TimeSlot{StartTime: TimeAt(9, 0), EndTime: TimeAt(9, 30)}, true},
		{"last slot", TimeSlot{StartTime: TimeAt(11, 30), EndTime: TimeAt(12, 0)}, true},
		{"starts before", TimeSlot{StartTime: TimeAt(8, 30), EndTime: TimeAt(9, 0)}, false},
		{"overlaps end", TimeSlot{StartTime: TimeAt(11, 45), EndTime: TimeAt(12, 15)}, false},
		{"after hours", TimeSlot{StartTime: TimeAt(13, 0), EndTime: TimeAt(13, 30)}, false},
	}
	for _, c := range cases {
		if got := c.slot.Within(hoursStart, hoursEnd); got != c.want {
			t.Errorf("%s: Within = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTimeSlot_Overlaps(t *testing.T) {
	a := TimeSlot{StartTime: TimeAt(9, 0), EndTime: TimeAt(9, 30)}
	b := TimeSlot{StartTime: TimeAt(9, 30), EndTime: TimeAt(10, 0)}
	c := TimeSlot{StartTime: TimeAt(9, 15), EndTime: TimeAt(9, 45)}

	if a.Overlaps(b) {
		t.Error("adjacent slots must not overlap")
	}
	if !a.Overlaps(c) || !c.Overlaps(b) {
		t.Error("expected overlapping slots to be detected")
	}
}

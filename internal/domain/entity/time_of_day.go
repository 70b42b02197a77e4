package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimeOfDay is a wall-clock time with minute precision, stored as minutes
// since midnight so intervals compare numerically.
type TimeOfDay int

const minutesPerDay = 24 * 60

// TimeAt builds a TimeOfDay without validation. Callers pass literal values.
func TimeAt(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" with an optional fractional
// part as postgres renders TIME. Seconds are dropped; slots and working hours
// are minute aligned.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) < 5 || s[2] != ':' || !isDigits(s[0:2]) || !isDigits(s[3:5]) {
		return 0, fmt.Errorf("invalid time of day %q, use HH:MM", s)
	}
	if rest := s[5:]; rest != "" && !validSeconds(rest) {
		return 0, fmt.Errorf("invalid seconds in %q", s)
	}
	hour, _ := strconv.Atoi(s[0:2])
	minute, _ := strconv.Atoi(s[3:5])
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeAt(hour, minute), nil
}

// validSeconds checks the ":SS" or ":SS.fff" suffix
func validSeconds(rest string) bool {
	if len(rest) < 3 || rest[0] != ':' || !isDigits(rest[1:3]) || rest[1] > '5' {
		return false
	}
	frac := rest[3:]
	if frac == "" {
		return true
	}
	return frac[0] == '.' && len(frac) > 1 && isDigits(frac[1:])
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String renders the zero padded "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Value implements driver.Valuer; postgres receives a zero padded time literal.
func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("time of day %d out of range", int(t))
	}
	return t.String() + ":00", nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case time.Time:
		*t = TimeAt(v.Hour(), v.Minute())
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

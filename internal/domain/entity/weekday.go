package entity

import (
	"fmt"
	"time"
)

// Weekday is the locale independent three letter day symbol stored in
// doctor_working_hours.day_of_week.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays lists the symbols in Monday-first order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayByTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf derives the weekday of a calendar date (proleptic Gregorian).
func WeekdayOf(date time.Time) Weekday {
	return weekdayByTime[date.Weekday()]
}

func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(s)
	if !w.Valid() {
		return "", fmt.Errorf("invalid weekday %q, use one of Mon..Sun", s)
	}
	return w, nil
}

func (w Weekday) Valid() bool {
	return w.Index() >= 0
}

// Index is the Monday-first position of w, or -1 if w is not a weekday.
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

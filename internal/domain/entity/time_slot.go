package entity

// TimeSlot is one canonical, clinic wide bookable interval [StartTime, EndTime).
type TimeSlot struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StartTime TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime   TimeOfDay `gorm:"type:time;not null" json:"end_time"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// Within reports whether the slot lies fully inside [start, end].
// Partially overlapping slots are not within.
func (s TimeSlot) Within(start, end TimeOfDay) bool {
	return s.StartTime >= start && s.EndTime <= end
}

func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}
